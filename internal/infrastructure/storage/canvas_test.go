package storage

import (
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanvasSavePNG(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "summary.png")

	canvas := NewCanvas(800, 600, color.White)
	fonts := LoadFonts("", 40, 24)
	canvas.DrawText(50, 50, "Country Data Summary", fonts.Title, color.Black)

	require.NoError(t, canvas.SavePNG(path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 800, img.Bounds().Dx())
	assert.Equal(t, 600, img.Bounds().Dy())

	r, g, b, _ := img.At(0, 0).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Equal(t, uint32(0xffff), g)
	assert.Equal(t, uint32(0xffff), b)

	// Some pixel inside the text box must have been painted.
	painted := false
	for x := 50; x < 200 && !painted; x++ {
		for y := 50; y < 65; y++ {
			if r, _, _, _ := img.At(x, y).RGBA(); r < 0xffff {
				painted = true
				break
			}
		}
	}
	assert.True(t, painted, "expected text pixels in the title area")

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must be renamed into place")
}

func TestCanvasSavePNGOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.png")

	require.NoError(t, NewCanvas(10, 10, color.White).SavePNG(path))
	require.NoError(t, NewCanvas(20, 20, color.Black).SavePNG(path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.Width)
}

func TestLoadFontsFallsBack(t *testing.T) {
	assert.True(t, LoadFonts("", 40, 24).Fallback)
	assert.True(t, LoadFonts(filepath.Join(t.TempDir(), "missing.ttf"), 40, 24).Fallback)

	garbage := filepath.Join(t.TempDir(), "garbage.ttf")
	require.NoError(t, os.WriteFile(garbage, []byte("not a font"), 0o644))

	fonts := LoadFonts(garbage, 40, 24)
	assert.True(t, fonts.Fallback)
	assert.NotNil(t, fonts.Title)
	assert.NotNil(t, fonts.Text)
}
