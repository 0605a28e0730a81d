// Package store holds the live pages of a plot device.
//
// A Store is a list of pages addressed by index, each page also carrying a
// stable id that survives removal of earlier pages. A single counter, upid,
// changes on every observable mutation so clients can poll or subscribe
// and refetch only when something moved.
//
// # Locking
//
// One mutex guards everything. Rendering never happens under it: Render
// copies the page while locked and runs the renderer afterwards.
//
// # Versioning
//
// upid bumps on NewPage, Put, Clear, Resize, Remove and RemoveAll. Clip
// and Fill leave it alone, as do all reads. It wraps to zero at the
// configured limit, so clients compare it for inequality only.
package store
