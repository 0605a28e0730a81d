package render

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/png"
	"math"

	"golang.org/x/image/draw"

	"github.com/roach88/plotstore/internal/scene"
)

// sourceImage converts the pixel buffer of a raster call into an image.
// Missing pixels are left transparent.
func sourceImage(d scene.Raster) *image.NRGBA {
	w, h := max(d.SrcW, 0), max(d.SrcH, 0)
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			if i >= len(d.Pixels) {
				return img
			}
			img.SetNRGBA(x, y, d.Pixels[i].NRGBA())
		}
	}
	return img
}

// embedImage prepares a raster for embedding. Without interpolation a
// source smaller than its target is enlarged by whole-pixel factors so
// viewers that smooth images still show hard pixel edges.
func embedImage(d scene.Raster) image.Image {
	src := sourceImage(d)
	if d.Interpolate || d.SrcW <= 0 || d.SrcH <= 0 {
		return src
	}
	wf, hf := 1, 1
	if float64(d.SrcW) < d.Rect.Width {
		wf = int(math.Ceil(d.Rect.Width / float64(d.SrcW)))
	}
	if float64(d.SrcH) < d.Rect.Height {
		hf = int(math.Ceil(d.Rect.Height / float64(d.SrcH)))
	}
	if wf == 1 && hf == 1 {
		return src
	}
	dst := image.NewNRGBA(image.Rect(0, 0, d.SrcW*wf, d.SrcH*hf))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// rasterPNG encodes a raster call as PNG.
func rasterPNG(d scene.Raster) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, embedImage(d)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// rasterBase64 returns the PNG of a raster call in base64, or an empty
// string for an empty image.
func rasterBase64(d scene.Raster) string {
	data, err := rasterPNG(d)
	if err != nil {
		return ""
	}
	return base64.StdEncoding.EncodeToString(data)
}
