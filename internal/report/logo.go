package report

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"golang.org/x/image/draw"
)

// logoMaxWidth is the pixel width the header logo is scaled down to.
const logoMaxWidth = 480

// LoadLogo reads a png, jpeg or webp logo, scales it down and returns it
// as PNG bytes ready to embed. A missing file yields nil and no error.
func LoadLogo(path string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read logo: %w", err)
	}

	return normalizeLogo(raw, strings.EqualFold(filepath.Ext(path), ".webp"))
}

func normalizeLogo(raw []byte, isWebP bool) ([]byte, error) {
	var (
		src image.Image
		err error
	)
	if isWebP {
		src, err = webp.Decode(bytes.NewReader(raw))
	} else {
		src, _, err = image.Decode(bytes.NewReader(raw))
	}
	if err != nil {
		return nil, fmt.Errorf("decode logo: %w", err)
	}

	b := src.Bounds()
	if b.Dx() > logoMaxWidth {
		h := b.Dy() * logoMaxWidth / b.Dx()
		dst := image.NewRGBA(image.Rect(0, 0, logoMaxWidth, h))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
		src = dst
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		return nil, fmt.Errorf("encode logo: %w", err)
	}
	return buf.Bytes(), nil
}
