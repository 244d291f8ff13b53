package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const watermarkText = "ArtView Pro"

// Watermark stamps the product name into the bottom-right corner of an
// inline image. Free-plan results get this before delivery.
func Watermark(dataURI string) (string, error) {
	_, data, err := DecodeDataURI(dataURI)
	if err != nil {
		return "", err
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decode image for watermark: %w", err)
	}

	dst := imaging.Clone(img)
	bounds := dst.Bounds()
	face := basicfont.Face7x13

	width := font.MeasureString(face, watermarkText).Ceil()
	x := bounds.Dx() - width - 20
	y := bounds.Dy() - 20
	if x < 0 {
		x = 0
	}
	if y < face.Height {
		y = face.Height
	}

	shadow := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.NRGBA{0, 0, 0, 76}),
		Face: face,
		Dot:  fixed.P(x+1, y+1),
	}
	shadow.DrawString(watermarkText)

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.NRGBA{255, 255, 255, 178}),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(watermarkText)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, dst, imaging.PNG); err != nil {
		return "", fmt.Errorf("encode watermarked image: %w", err)
	}
	return DataURI("image/png", buf.Bytes()), nil
}
