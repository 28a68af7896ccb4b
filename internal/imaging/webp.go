package imaging

import (
	"bytes"
	"errors"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/chai2010/webp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

var ErrUnsupportedImage = errors.New("unsupported image")

type Options struct {
	MaxWidth int
	Quality  float32
}

type Result struct {
	Data   []byte
	Width  int
	Height int
}

const ContentTypeWebP = "image/webp"

// ToWebP decodifica jpeg/png/gif/webp, reduz para MaxWidth e grava em WebP.
func ToWebP(r io.Reader, opts Options) (*Result, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, ErrUnsupportedImage
	}

	img := resize(src, opts.MaxWidth)

	quality := opts.Quality
	if quality <= 0 || quality > 100 {
		quality = 80
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: quality}); err != nil {
		return nil, err
	}

	b := img.Bounds()
	return &Result{
		Data:   buf.Bytes(),
		Width:  b.Dx(),
		Height: b.Dy(),
	}, nil
}

func resize(src image.Image, maxWidth int) image.Image {
	b := src.Bounds()
	if maxWidth <= 0 || b.Dx() <= maxWidth {
		return src
	}

	h := b.Dy() * maxWidth / b.Dx()
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
