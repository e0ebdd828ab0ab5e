package core

import (
	"math"
	"math/rand"
	"testing"
)

func TestSampleCosineHemisphere(t *testing.T) {
	normals := []Vec3{
		NewVec3(0, 0, 1),
		NewVec3(0, 1, 0),
		NewVec3(1, 1, 1).Normalize(),
	}
	sampler := NewRandomSampler(rand.New(rand.NewSource(7)))

	for _, n := range normals {
		for i := 0; i < 200; i++ {
			d := SampleCosineHemisphere(n, sampler.Get2D())
			if math.Abs(d.Length()-1) > 1e-9 {
				t.Fatalf("direction not normalized: %v", d)
			}
			if d.Dot(n) < -1e-9 {
				t.Fatalf("direction %v below hemisphere of %v", d, n)
			}
		}
	}
}

func TestSampleCone(t *testing.T) {
	axis := NewVec3(0, 1, 0)
	cosTotalWidth := math.Cos(math.Pi / 6)
	sampler := NewRandomSampler(rand.New(rand.NewSource(3)))

	for i := 0; i < 200; i++ {
		d := SampleCone(axis, cosTotalWidth, sampler.Get2D())
		if d.Dot(axis) < cosTotalWidth-1e-9 {
			t.Fatalf("direction %v outside cone", d)
		}
	}

	expected := 1.0 / (2 * math.Pi * (1 - cosTotalWidth))
	if got := UniformConePDF(cosTotalWidth); math.Abs(got-expected) > 1e-12 {
		t.Errorf("Expected cone pdf %v, got %v", expected, got)
	}
}

func TestSamplePointInUnitDisk(t *testing.T) {
	tests := []struct {
		name   string
		sample Vec2
		want   Vec3
	}{
		{"center", NewVec2(0.5, 0.5), Vec3{}},
		{"right edge", NewVec2(1, 0.5), NewVec3(1, 0, 0)},
		{"top edge", NewVec2(0.5, 1), NewVec3(0, 1, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SamplePointInUnitDisk(tt.sample)
			if got.Subtract(tt.want).Length() > 1e-9 {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestCoordinateSystem(t *testing.T) {
	for _, w := range []Vec3{NewVec3(1, 0, 0), NewVec3(0, 0, -1), NewVec3(1, 2, 3).Normalize()} {
		u, v := CoordinateSystem(w)
		if math.Abs(u.Dot(w)) > 1e-9 || math.Abs(v.Dot(w)) > 1e-9 || math.Abs(u.Dot(v)) > 1e-9 {
			t.Errorf("basis for %v not orthogonal: u=%v v=%v", w, u, v)
		}
		if math.Abs(u.Length()-1) > 1e-9 || math.Abs(v.Length()-1) > 1e-9 {
			t.Errorf("basis for %v not normalized: u=%v v=%v", w, u, v)
		}
	}
}
