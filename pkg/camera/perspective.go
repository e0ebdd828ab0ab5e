package camera

import (
	"math"

	"github.com/df07/go-bdpt/pkg/core"
)

// Config describes a pinhole camera
type Config struct {
	Center core.Vec3 // Camera position
	LookAt core.Vec3 // Point the camera looks at
	Up     core.Vec3 // Up direction
	Width  int       // Image width in pixels
	Height int       // Image height in pixels
	VFov   float64   // Vertical field of view in degrees
	Medium core.Medium
}

// Perspective is a pinhole camera. Raster coordinates run from (0,0) at the
// top-left corner to (Width, Height).
type Perspective struct {
	config                Config
	forward, right, up    core.Vec3
	halfWidth, halfHeight float64 // Film extents on the plane at distance 1
	filmArea              float64
	width, height         float64
}

// NewPerspective creates a camera from the config
func NewPerspective(config Config) *Perspective {
	forward := config.LookAt.Subtract(config.Center).Normalize()
	right := forward.Cross(config.Up).Normalize()
	up := right.Cross(forward)

	halfHeight := math.Tan(config.VFov * math.Pi / 360)
	halfWidth := halfHeight * float64(config.Width) / float64(config.Height)

	return &Perspective{
		config:     config,
		forward:    forward,
		right:      right,
		up:         up,
		halfWidth:  halfWidth,
		halfHeight: halfHeight,
		filmArea:   4 * halfWidth * halfHeight,
		width:      float64(config.Width),
		height:     float64(config.Height),
	}
}

// Resolution returns the image size in pixels
func (c *Perspective) Resolution() (int, int) {
	return c.config.Width, c.config.Height
}

// GenerateRay returns the ray through a raster position with unit weight
func (c *Perspective) GenerateRay(sample core.CameraSample) (core.Ray, float64) {
	sx := sample.PFilm.X/c.width*2 - 1
	sy := 1 - sample.PFilm.Y/c.height*2
	dir := c.forward.
		Add(c.right.Multiply(sx * c.halfWidth)).
		Add(c.up.Multiply(sy * c.halfHeight))

	ray := core.NewRay(c.config.Center, dir.Normalize())
	ray.Time = sample.Time
	ray.Medium = c.config.Medium
	return ray, 1
}

// rasterPosition projects a unit direction from the pinhole onto the film
func (c *Perspective) rasterPosition(d core.Vec3) (core.Vec2, float64, bool) {
	cosTheta := d.Dot(c.forward)
	if cosTheta <= 0 {
		return core.Vec2{}, 0, false
	}
	pFocus := d.Multiply(1 / cosTheta)
	x := pFocus.Dot(c.right) / c.halfWidth
	y := pFocus.Dot(c.up) / c.halfHeight
	pRaster := core.NewVec2((x+1)/2*c.width, (1-y)/2*c.height)
	if pRaster.X < 0 || pRaster.X >= c.width || pRaster.Y < 0 || pRaster.Y >= c.height {
		return pRaster, cosTheta, false
	}
	return pRaster, cosTheta, true
}

// We returns the importance carried by a ray leaving the pinhole and the
// raster position it maps to. The lens area of a pinhole is taken as 1.
func (c *Perspective) We(ray core.Ray) (core.Vec3, core.Vec2) {
	pRaster, cosTheta, ok := c.rasterPosition(ray.Direction.Normalize())
	if !ok {
		return core.Vec3{}, pRaster
	}
	cos2 := cosTheta * cosTheta
	we := 1 / (c.filmArea * cos2 * cos2)
	return core.NewVec3(we, we, we), pRaster
}

// PdfWe returns the positional and directional density of GenerateRay
func (c *Perspective) PdfWe(ray core.Ray) (float64, float64) {
	_, cosTheta, ok := c.rasterPosition(ray.Direction.Normalize())
	if !ok {
		return 0, 0
	}
	return 1, 1 / (c.filmArea * cosTheta * cosTheta * cosTheta)
}

// SampleWi connects ref to the pinhole
func (c *Perspective) SampleWi(ref core.Interaction, u core.Vec2) (core.ImportanceSample, bool) {
	lens := core.Interaction{
		Point:           c.config.Center,
		Time:            ref.Time,
		Normal:          c.forward,
		MediumInterface: core.NewMediumInterface(c.config.Medium),
	}
	wi := lens.Point.Subtract(ref.Point)
	dist := wi.Length()
	if dist == 0 {
		return core.ImportanceSample{}, false
	}
	wi = wi.Multiply(1 / dist)

	cos := lens.Normal.AbsDot(wi)
	if cos == 0 {
		return core.ImportanceSample{}, false
	}
	we, pRaster := c.We(lens.SpawnRay(wi.Negate()))
	return core.ImportanceSample{
		We:      we,
		Wi:      wi,
		Pdf:     dist * dist / cos,
		PRaster: pRaster,
		Vis:     core.VisibilityTester{P0: ref, P1: lens},
	}, true
}
