// Package imageio writes rendered images to disk.
package imageio

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/draw"
)

// Formats lists the file extensions Write understands
var Formats = []string{".png", ".webp", ".tga"}

// Write encodes img in the format implied by the file extension of path,
// creating parent directories as needed
func Write(path string, img image.Image) (err error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !Supported(ext) {
		return fmt.Errorf("unsupported image format %q (want one of %s)", ext, strings.Join(Formats, ", "))
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()

	switch ext {
	case ".png":
		err = png.Encode(f, img)
	case ".webp":
		err = nativewebp.Encode(f, img, nil)
	case ".tga":
		err = tga.Encode(f, img)
	}
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return nil
}

// Supported reports whether ext (with leading dot) can be written
func Supported(ext string) bool {
	ext = strings.ToLower(ext)
	for _, f := range Formats {
		if f == ext {
			return true
		}
	}
	return false
}

// Downsample shrinks a supersampled render by an integer factor with
// CatmullRom filtering. A factor below 2 returns img unchanged.
func Downsample(img *image.RGBA, factor int) *image.RGBA {
	if factor < 2 {
		return img
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, max(1, b.Dx()/factor), max(1, b.Dy()/factor)))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// StrategyPath places a debug image next to the main output, keeping its
// extension: out/render.png and bdpt_d01_s01_t02 give out/bdpt_d01_s01_t02.png
func StrategyPath(output, name string) string {
	return filepath.Join(filepath.Dir(output), name+filepath.Ext(output))
}
