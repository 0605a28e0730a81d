// Package geom holds the geometry and style primitives shared by the scene
// model and every renderer: points, rectangles, packed colors and line styles.
//
// All coordinates are device units. Renderers emit stroke widths in 1/72 inch
// while producers express line widths in 1/96 inch; LwdToPt converts between
// the two.
package geom
