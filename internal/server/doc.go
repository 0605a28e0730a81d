// Package server exposes a store over HTTP and a websocket.
//
// Routes:
//
//	/state       current {upid, hsize, active}
//	/info        instance id, version, renderer count and state
//	/renderers   registered renderer metadata
//	/plots       page ids (index or limit)
//	/svg         SVG of a page (id|index, width, height)
//	/plot        any renderer (id|index, width, height, zoom, renderer, download)
//	/clear       remove every page
//	/remove      remove one page (id|index)
//	/            websocket: pushes the state on every observable change
//	/live/       static files from www_dir
//
// When a page is requested at a size it was not drawn at, the producer is
// asked through the dispatcher to redraw it and the request waits, up to
// the redraw timeout, before rendering.
package server
