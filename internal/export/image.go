package export

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"jotter/internal/errors"
)

// Raster layout constants: fixed-width canvas, monospaced face, text drawn
// line by line. A deliberately degraded fallback, not a faithful render.
const (
	imageWidth = 800
	lineHeight = 20
	marginLeft = 20
	marginTop  = 40
	marginBot  = 20
	minHeight  = 200
)

// renderImage rasterizes the plain-text content onto a white canvas and
// encodes it as PNG.
func renderImage(filename, plainText string) (*File, error) {
	lines := strings.Split(plainText, "\n")

	height := marginTop + len(lines)*lineHeight + marginBot
	if height < minHeight {
		height = minHeight
	}

	img := image.NewRGBA(image.Rect(0, 0, imageWidth, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: basicfont.Face7x13,
	}
	for i, line := range lines {
		drawer.Dot = fixed.P(marginLeft, marginTop+i*lineHeight)
		drawer.DrawString(line)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.NewInternal(err)
	}

	return &File{
		Name: filename + ".png",
		MIME: "image/png",
		Data: buf.Bytes(),
	}, nil
}
