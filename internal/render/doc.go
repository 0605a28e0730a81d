// Package render turns a scene.Page into an output document.
//
// Every renderer is a scene.Visitor. Text renderers (SVG, JSON, TikZ, the
// string and metadata extractors) return a string; binary renderers (the
// gzip SVG variants and the raster formats) return bytes. A Manager maps a
// renderer id to its metadata and a factory that builds a fresh renderer for
// every call, so renderers keep per-call state and are never shared between
// goroutines.
//
// Vector formats emit draw calls grouped by clip: a new clip group opens each
// time the clip id changes between consecutive draw calls, starting with the
// first clip of the page.
package render
