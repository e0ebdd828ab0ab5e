package material

import (
	"math"
	"testing"

	"github.com/df07/go-bdpt/pkg/core"
)

func surfaceAt(normal core.Vec3) *core.SurfaceInteraction {
	return &core.SurfaceInteraction{
		Interaction:   core.Interaction{Normal: normal},
		ShadingNormal: normal,
	}
}

func TestFrDielectric(t *testing.T) {
	tests := []struct {
		name       string
		cosThetaI  float64
		etaI, etaT float64
		expected   float64
	}{
		{"normal incidence air to glass", 1, 1, 1.5, 0.04},
		{"normal incidence glass side", -1, 1, 1.5, 0.04},
		{"total internal reflection", 0.1, 1.5, 1, 1},
		{"matched index", 0.7, 1.3, 1.3, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FrDielectric(tt.cosThetaI, tt.etaI, tt.etaT)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestMatte_SampleMatchesEvaluation(t *testing.T) {
	albedo := core.NewVec3(0.5, 0.6, 0.7)
	si := surfaceAt(core.NewVec3(0, 1, 0))
	bsdf := NewMatte(albedo).ComputeBSDF(si, core.Radiance)
	wo := core.NewVec3(0.3, 0.8, 0.1).Normalize()

	samples := []core.Vec2{core.NewVec2(0.1, 0.2), core.NewVec2(0.5, 0.5), core.NewVec2(0.9, 0.05)}
	for _, u := range samples {
		f, wi, pdf, sampled := bsdf.SampleF(wo, u)
		if sampled&core.BSDFSpecular != 0 {
			t.Fatalf("diffuse lobe reported specular")
		}
		if wi.Y <= 0 {
			t.Errorf("sampled direction %v below surface", wi)
		}
		if math.Abs(pdf-bsdf.Pdf(wo, wi)) > 1e-9 {
			t.Errorf("sample pdf %v differs from Pdf %v", pdf, bsdf.Pdf(wo, wi))
		}
		if f.Subtract(albedo.Multiply(core.InvPi)).Length() > 1e-9 {
			t.Errorf("Expected f=%v, got %v", albedo.Multiply(core.InvPi), f)
		}
	}

	// Transmission direction gets nothing
	if !bsdf.F(wo, core.NewVec3(0, -1, 0)).IsBlack() {
		t.Error("diffuse reflector should not transmit")
	}
	if bsdf.NumComponents(core.BSDFDiffuse|core.BSDFGlossy|core.BSDFReflection|core.BSDFTransmission) != 1 {
		t.Error("matte should expose one connectable component")
	}
}

func TestMirror_SampleReflects(t *testing.T) {
	si := surfaceAt(core.NewVec3(0, 0, 1))
	bsdf := NewMirror(core.NewVec3(0.9, 0.9, 0.9)).ComputeBSDF(si, core.Radiance)
	wo := core.NewVec3(1, 0, 1).Normalize()

	f, wi, pdf, sampled := bsdf.SampleF(wo, core.NewVec2(0.3, 0.3))
	expectedWi := core.NewVec3(-1, 0, 1).Normalize()
	if wi.Subtract(expectedWi).Length() > 1e-9 {
		t.Errorf("Expected wi %v, got %v", expectedWi, wi)
	}
	if pdf != 1 || sampled&core.BSDFSpecular == 0 {
		t.Errorf("Expected specular sample with pdf 1, got pdf=%v type=%v", pdf, sampled)
	}
	// f*|cos|/pdf is the reflectance
	if math.Abs(f.X*math.Abs(wi.Z)-0.9) > 1e-9 {
		t.Errorf("Expected throughput 0.9, got %v", f.X*math.Abs(wi.Z))
	}
	if bsdf.NumComponents(core.BSDFDiffuse|core.BSDFGlossy|core.BSDFReflection|core.BSDFTransmission) != 0 {
		t.Error("mirror should not be connectable")
	}
	if bsdf.Pdf(wo, wi) != 0 || !bsdf.F(wo, wi).IsBlack() {
		t.Error("specular lobes evaluate to zero")
	}
}

func TestGlass_Transmission(t *testing.T) {
	si := surfaceAt(core.NewVec3(0, 0, 1))
	wo := core.NewVec3(0, 0, 1)

	tests := []struct {
		name     string
		mode     core.TransportMode
		expected float64
	}{
		{"radiance scales by relative eta squared", core.Radiance, 0.96 / (1.5 * 1.5)},
		{"importance is not scaled", core.Importance, 0.96},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bsdf := NewGlass(1.5).ComputeBSDF(si, tt.mode)
			// u above Fresnel reflectance selects transmission
			f, wi, pdf, sampled := bsdf.SampleF(wo, core.NewVec2(0.5, 0.5))
			if sampled&core.BSDFTransmission == 0 {
				t.Fatalf("Expected transmission, got %v", sampled)
			}
			if wi.Subtract(core.NewVec3(0, 0, -1)).Length() > 1e-9 {
				t.Errorf("normal incidence should pass straight through, got %v", wi)
			}
			if math.Abs(pdf-0.96) > 1e-9 {
				t.Errorf("Expected pdf 0.96, got %v", pdf)
			}
			if math.Abs(f.X-tt.expected) > 1e-9 {
				t.Errorf("Expected f %v, got %v", tt.expected, f.X)
			}
		})
	}
}

func TestCoated_MixedLobes(t *testing.T) {
	si := surfaceAt(core.NewVec3(0, 0, 1))
	bsdf := NewCoated(core.NewVec3(0.5, 0.5, 0.5), core.NewVec3(1, 1, 1), 1.5).ComputeBSDF(si, core.Radiance)
	if bsdf.NumComponents(core.BSDFAll) != 2 {
		t.Fatalf("Expected two lobes")
	}
	wo := core.NewVec3(0, 0.6, 0.8)

	// First half of u.X picks the diffuse lobe, whose pdf is averaged over both lobes
	_, wi, pdf, sampled := bsdf.SampleF(wo, core.NewVec2(0.25, 0.5))
	if sampled&core.BSDFDiffuse == 0 {
		t.Fatalf("Expected diffuse sample, got %v", sampled)
	}
	if math.Abs(pdf-0.5*math.Abs(wi.Z)*core.InvPi) > 1e-9 {
		t.Errorf("Expected averaged pdf, got %v", pdf)
	}

	_, _, pdf, sampled = bsdf.SampleF(wo, core.NewVec2(0.75, 0.5))
	if sampled&core.BSDFSpecular == 0 || pdf != 0.5 {
		t.Errorf("Expected specular sample with pdf 0.5, got %v %v", sampled, pdf)
	}
}
