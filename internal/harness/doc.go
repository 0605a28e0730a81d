// Package harness plays recorded plotting sessions into a store and
// checks how the pages render.
//
// It stands in for the graphics producer: a Recorder turns page programs
// into draw calls, and can redraw a page at a new size by replaying its
// program scaled, which is what the server asks for when a client wants
// a page at a size it was not drawn at.
//
// # Scenario Format
//
//	name: two_clips
//	description: "Rect outside a clip, dashed line inside"
//	renderer: svg
//	pages:
//	  - width: 100
//	    height: 50
//	    fill: white
//	    ops:
//	      - op: rect
//	        points: [[0, 0], [10, 10]]
//	        style: { fill: "#FF0000" }
//	      - op: clip
//	        x: 10
//	        y: 10
//	        w: 40
//	        h: 20
//	      - op: line
//	        points: [[0, 0], [100, 50]]
//	        style: { stroke: blue, lwd: 2, lty: dashed }
//	assertions:
//	  - type: output_contains
//	    text: 'width="10.00" height="10.00"'
//	  - type: clip_groups
//	    count: 2
//
// # Assertion Types
//
//   - output_contains: rendered page contains text
//   - output_count: text occurs exactly count times
//   - page_count: store holds count pages
//   - clip_groups: page renders as count clip groups
//
// Golden comparisons render every page of a scenario with one renderer;
// see RunWithGolden.
package harness
