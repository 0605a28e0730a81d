// Package scene models recorded graphics as pages of draw calls.
//
// A Page owns an ordered list of DrawCall values and an ordered list of Clip
// regions. Every draw call references the clip that was last on the page when
// it was recorded, by id. Draw calls are a closed set of value types; renderers
// consume them through the Visitor interface, so adding a kind is a compile
// error in every renderer until it is handled.
//
// Pages are not safe for concurrent use. The store serializes access and hands
// renderers a Snapshot.
package scene
