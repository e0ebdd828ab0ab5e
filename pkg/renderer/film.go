package renderer

import (
	"image"
	"image/color"
	"sync"

	"github.com/df07/go-bdpt/pkg/core"
)

// Film accumulates pixel samples and splats for the whole image. Pixel
// samples arrive through FilmTiles merged at tile end; splats can be added
// from any goroutine.
type Film struct {
	width, height int

	mu     sync.Mutex
	pixels []PixelStats
	splats []core.Vec3
	count  int // Number of splats received
}

// NewFilm creates an empty film
func NewFilm(width, height int) *Film {
	return &Film{
		width:  width,
		height: height,
		pixels: make([]PixelStats, width*height),
		splats: make([]core.Vec3, width*height),
	}
}

// Bounds returns the pixel rectangle covered by the film
func (f *Film) Bounds() image.Rectangle {
	return image.Rect(0, 0, f.width, f.height)
}

// AddSplat implements integrator.Film
func (f *Film) AddSplat(pFilm core.Vec2, v core.Vec3) {
	x, y := int(pFilm.X), int(pFilm.Y)
	if pFilm.X < 0 || pFilm.Y < 0 || x >= f.width || y >= f.height {
		return
	}
	f.mu.Lock()
	f.splats[y*f.width+x] = f.splats[y*f.width+x].Add(v)
	f.count++
	f.mu.Unlock()
}

// MergeTile adds a finished tile's pixels and splats to the film
func (f *Film) MergeTile(tile *FilmTile) {
	splats := tile.Splats.Drain()

	f.mu.Lock()
	defer f.mu.Unlock()
	for y := tile.Bounds.Min.Y; y < tile.Bounds.Max.Y; y++ {
		for x := tile.Bounds.Min.X; x < tile.Bounds.Max.X; x++ {
			src := tile.pixel(x, y)
			dst := &f.pixels[y*f.width+x]
			dst.Merge(src)
			*src = PixelStats{}
		}
	}
	for _, s := range splats {
		f.splats[s.Y*f.width+s.X] = f.splats[s.Y*f.width+s.X].Add(s.Color)
	}
	f.count += len(splats)
}

// Radiance returns the current estimate at a pixel. Splats are divided by
// samplesPerPixel since every camera sample may splat anywhere on the film.
func (f *Film) Radiance(x, y int, samplesPerPixel int) core.Vec3 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.radiance(x, y, samplesPerPixel)
}

func (f *Film) radiance(x, y int, samplesPerPixel int) core.Vec3 {
	i := y*f.width + x
	L := f.pixels[i].GetColor()
	if samplesPerPixel > 0 {
		L = L.Add(f.splats[i].Multiply(1 / float64(samplesPerPixel)))
	}
	return L
}

// SplatCount returns how many splats have landed on the film
func (f *Film) SplatCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.count
}

// Image tone maps the film into an 8-bit image
func (f *Film) Image(samplesPerPixel int) *image.RGBA {
	img := image.NewRGBA(f.Bounds())
	f.mu.Lock()
	defer f.mu.Unlock()
	for y := 0; y < f.height; y++ {
		for x := 0; x < f.width; x++ {
			img.SetRGBA(x, y, vec3ToColor(f.radiance(x, y, samplesPerPixel)))
		}
	}
	return img
}

// vec3ToColor converts a Vec3 color to RGBA with proper clamping and gamma correction
func vec3ToColor(colorVec core.Vec3) color.RGBA {
	// Apply gamma correction (gamma = 2.0)
	colorVec = colorVec.GammaCorrect(2.0)

	// Clamp to valid color range
	colorVec = colorVec.Clamp(0.0, 1.0)

	return color.RGBA{
		R: uint8(255 * colorVec.X),
		G: uint8(255 * colorVec.Y),
		B: uint8(255 * colorVec.Z),
		A: 255,
	}
}

// FilmTile is the private accumulation buffer of one tile
type FilmTile struct {
	Bounds image.Rectangle
	Splats *SplatQueue
	pixels []PixelStats
}

// NewFilmTile creates a buffer for the given bounds of an image
func NewFilmTile(bounds image.Rectangle, width, height int) *FilmTile {
	return &FilmTile{
		Bounds: bounds,
		Splats: NewSplatQueue(width, height),
		pixels: make([]PixelStats, bounds.Dx()*bounds.Dy()),
	}
}

func (t *FilmTile) pixel(x, y int) *PixelStats {
	return &t.pixels[(y-t.Bounds.Min.Y)*t.Bounds.Dx()+(x-t.Bounds.Min.X)]
}

// AddSample records a camera sample for pixel (x, y) in image coordinates
func (t *FilmTile) AddSample(x, y int, L core.Vec3) {
	t.pixel(x, y).AddSample(L)
}

// AddSplat implements integrator.Film
func (t *FilmTile) AddSplat(pFilm core.Vec2, v core.Vec3) {
	t.Splats.AddSplat(pFilm, v)
}
