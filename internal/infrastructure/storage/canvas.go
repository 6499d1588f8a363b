package storage

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Canvas là raster RGBA đơn giản: tạo nền, vẽ chữ, lưu PNG
type Canvas struct {
	img *image.NRGBA
}

// NewCanvas tạo canvas width x height tô màu bg
func NewCanvas(width, height int, bg color.Color) *Canvas {
	return &Canvas{img: imaging.New(width, height, bg)}
}

// Image trả về ảnh hiện tại (dùng cho test và encode)
func (c *Canvas) Image() image.Image {
	return c.img
}

// DrawText đặt text với góc trên-trái tại (x, y).
// font.Drawer dùng baseline nên cộng thêm ascent của face.
func (c *Canvas) DrawText(x, y int, text string, face font.Face, col color.Color) {
	if face == nil {
		face = basicfont.Face7x13
	}
	ascent := face.Metrics().Ascent.Ceil()

	d := &font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x, y+ascent),
	}
	d.DrawString(text)
}

// Encode ghi PNG ra writer
func (c *Canvas) Encode(w io.Writer) error {
	return imaging.Encode(w, c.img, imaging.PNG)
}

// SavePNG ghi PNG ra path: ghi file tạm cùng thư mục rồi rename,
// reader không bao giờ thấy file ghi dở.
func (c *Canvas) SavePNG(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create image dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".summary-*.png")
	if err != nil {
		return fmt.Errorf("create temp image: %w", err)
	}
	tmpName := tmp.Name()

	if err := c.Encode(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("encode png: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp image: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("move image into place: %w", err)
	}
	return nil
}

// FontSet gồm face cho tiêu đề và nội dung
type FontSet struct {
	Title    font.Face
	Text     font.Face
	Fallback bool // true khi đang dùng basicfont
}

// LoadFonts đọc TrueType font tại path; path rỗng hoặc lỗi
// thì trả về basicfont.Face7x13 cho cả hai, không bao giờ fail.
func LoadFonts(path string, titleSize, textSize float64) FontSet {
	fallback := FontSet{
		Title:    basicfont.Face7x13,
		Text:     basicfont.Face7x13,
		Fallback: true,
	}
	if path == "" {
		return fallback
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fallback
	}

	parsed, err := opentype.Parse(data)
	if err != nil {
		return fallback
	}

	title, err := opentype.NewFace(parsed, &opentype.FaceOptions{Size: titleSize, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return fallback
	}
	text, err := opentype.NewFace(parsed, &opentype.FaceOptions{Size: textSize, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return fallback
	}

	return FontSet{Title: title, Text: text}
}
