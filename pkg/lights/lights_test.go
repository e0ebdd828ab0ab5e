package lights

import (
	"math"
	"testing"

	"github.com/df07/go-bdpt/pkg/core"
	"github.com/df07/go-bdpt/pkg/geometry"
)

func TestPointLight(t *testing.T) {
	light := NewPointLight(core.NewVec3(0, 2, 0), core.NewVec3(4, 4, 4))
	ref := core.Interaction{Point: core.Vec3{}, Normal: core.NewVec3(0, 1, 0)}

	ls := light.SampleLi(ref, core.NewVec2(0.3, 0.3))
	if ls.Pdf != 1 {
		t.Errorf("Expected pdf 1, got %v", ls.Pdf)
	}
	if ls.Li.Subtract(core.NewVec3(1, 1, 1)).Length() > 1e-12 {
		t.Errorf("Expected inverse-square falloff to 1, got %v", ls.Li)
	}
	if ls.Wi != core.NewVec3(0, 1, 0) {
		t.Errorf("Expected wi +Y, got %v", ls.Wi)
	}
	if light.PdfLi(ref, ls.Wi) != 0 {
		t.Error("delta light should have zero PdfLi")
	}

	es := light.SampleLe(core.NewVec2(0.2, 0.7), core.NewVec2(0.5, 0.5), 0)
	if es.Ray.Origin != light.Position || es.Normal != es.Ray.Direction {
		t.Errorf("unexpected emission sample %+v", es)
	}
	pdfPos, pdfDir := light.PdfLe(es.Ray, es.Normal)
	if pdfPos != 0 || math.Abs(pdfDir-core.Inv4Pi) > 1e-12 || es.PdfDir != pdfDir {
		t.Errorf("Expected (0, 1/4π), got (%v, %v)", pdfPos, pdfDir)
	}
	if !core.IsDeltaLight(light.Flags()) {
		t.Error("point light should be a delta light")
	}
	if math.Abs(light.Power().X-16*math.Pi) > 1e-9 {
		t.Errorf("Expected power 16π, got %v", light.Power())
	}
}

func TestSpotLight_Falloff(t *testing.T) {
	light := NewSpotLight(core.NewVec3(0, 0, 0), core.NewVec3(0, -1, 0), core.NewVec3(1, 1, 1), 30, 20)
	tests := []struct {
		name string
		w    core.Vec3
		want float64
	}{
		{"on axis", core.NewVec3(0, -1, 0), 1},
		{"outside cone", core.NewVec3(1, 0, 0), 0},
		{"behind", core.NewVec3(0, 1, 0), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := light.falloff(tt.w); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}

	// The transition band is strictly between 0 and 1
	w := core.NewVec3(math.Sin(25*math.Pi/180), -math.Cos(25*math.Pi/180), 0)
	if f := light.falloff(w); f <= 0 || f >= 1 {
		t.Errorf("Expected partial falloff, got %v", f)
	}

	es := light.SampleLe(core.NewVec2(0.9, 0.1), core.NewVec2(0, 0), 0)
	if es.Ray.Direction.Dot(light.Direction) < math.Cos(30*math.Pi/180)-1e-9 {
		t.Errorf("emission outside the cone: %v", es.Ray.Direction)
	}
	if _, pdfDir := light.PdfLe(es.Ray, es.Normal); math.Abs(pdfDir-es.PdfDir) > 1e-12 {
		t.Errorf("PdfLe %v disagrees with SampleLe %v", pdfDir, es.PdfDir)
	}
}

func TestDiffuseAreaLight(t *testing.T) {
	// 2x2 quad at y=2 facing down
	quad := geometry.NewQuad(core.NewVec3(-1, 2, -1), core.NewVec3(2, 0, 0), core.NewVec3(0, 0, 2))
	light := NewDiffuseAreaLight(quad, core.NewVec3(3, 3, 3))
	ref := core.Interaction{Point: core.Vec3{}, Normal: core.NewVec3(0, 1, 0)}

	ls := light.SampleLi(ref, core.NewVec2(0.5, 0.5))
	// Center of the quad straight above: dist²=4, cos=1, area=4
	if math.Abs(ls.Pdf-1) > 1e-9 {
		t.Errorf("Expected solid angle pdf 1, got %v", ls.Pdf)
	}
	if math.Abs(light.PdfLi(ref, ls.Wi)-ls.Pdf) > 1e-9 {
		t.Errorf("PdfLi %v disagrees with SampleLi %v", light.PdfLi(ref, ls.Wi), ls.Pdf)
	}
	if ls.Li != light.Lemit {
		t.Errorf("Expected Li=Lemit, got %v", ls.Li)
	}
	if light.PdfLi(ref, core.NewVec3(0, -1, 0)) != 0 {
		t.Error("direction missing the shape should have zero density")
	}

	// Back side does not emit
	back := core.Interaction{Point: core.NewVec3(0, 2, 0), Normal: quad.Normal}
	if !light.L(back, core.NewVec3(0, 1, 0)).IsBlack() {
		t.Error("one-sided light should not emit backwards")
	}

	es := light.SampleLe(core.NewVec2(0.25, 0.75), core.NewVec2(0.3, 0.6), 0)
	if es.Ray.Direction.Dot(quad.Normal) <= 0 {
		t.Errorf("emission should leave the front side, got %v", es.Ray.Direction)
	}
	pdfPos, pdfDir := light.PdfLe(es.Ray, es.Normal)
	if math.Abs(pdfPos-0.25) > 1e-12 || math.Abs(pdfDir-es.PdfDir) > 1e-9 {
		t.Errorf("PdfLe (%v, %v) disagrees with sample (%v, %v)", pdfPos, pdfDir, es.PdfPos, es.PdfDir)
	}
	if math.Abs(light.Power().X-3*4*math.Pi) > 1e-9 {
		t.Errorf("Expected power 12π, got %v", light.Power())
	}
}

func TestUniformInfiniteLight(t *testing.T) {
	light := NewUniformInfiniteLight(core.NewVec3(0.5, 0.5, 0.5))
	light.Preprocess(core.NewVec3(1, 0, 0), 2)

	es := light.SampleLe(core.NewVec2(0.4, 0.1), core.NewVec2(0.5, 0.5), 0)
	// Disk center sample starts one radius behind the center
	if math.Abs(es.Ray.Origin.Subtract(core.NewVec3(1, 0, 0)).Length()-2) > 1e-9 {
		t.Errorf("Expected origin on the bounding sphere, got %v", es.Ray.Origin)
	}
	pdfPos, pdfDir := light.PdfLe(es.Ray, es.Normal)
	if math.Abs(pdfPos-1/(4*math.Pi)) > 1e-12 || math.Abs(pdfDir-core.Inv4Pi) > 1e-12 {
		t.Errorf("unexpected PdfLe (%v, %v)", pdfPos, pdfDir)
	}
	if light.Flags()&core.LightInfinite == 0 || core.IsDeltaLight(light.Flags()) {
		t.Error("unexpected flags")
	}
	if light.Le(es.Ray) != light.Lemit {
		t.Error("escaped rays should see Lemit")
	}
}

func TestGradientInfiniteLight(t *testing.T) {
	top := core.NewVec3(0.2, 0.4, 1)
	bottom := core.NewVec3(1, 1, 1)
	light := NewGradientInfiniteLight(top, bottom)
	light.Preprocess(core.Vec3{}, 3)

	tests := []struct {
		name string
		dir  core.Vec3
		want core.Vec3
	}{
		{"straight up", core.NewVec3(0, 1, 0), top},
		{"straight down", core.NewVec3(0, -1, 0), bottom},
		{"horizon", core.NewVec3(1, 0, 0), top.Add(bottom).Multiply(0.5)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := light.Le(core.NewRay(core.Vec3{}, tt.dir))
			if got.Subtract(tt.want).Length() > 1e-12 {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}

	ref := core.Interaction{Point: core.Vec3{}, Normal: core.NewVec3(0, 1, 0)}
	ls := light.SampleLi(ref, core.NewVec2(0.3, 0.8))
	if ls.Li.Subtract(light.Le(core.NewRay(ref.Point, ls.Wi))).Length() > 1e-12 {
		t.Errorf("SampleLi radiance %v disagrees with Le along wi", ls.Li)
	}
	if ls.Pdf != core.Inv4Pi || light.PdfLi(ref, ls.Wi) != core.Inv4Pi {
		t.Error("Expected uniform sphere density")
	}

	// Emitted rays travel away from the direction the light arrives from
	es := light.SampleLe(core.NewVec2(0.1, 0.6), core.NewVec2(0.5, 0.5), 0)
	arriving := light.Le(core.NewRay(core.Vec3{}, es.Ray.Direction.Negate()))
	if es.Le.Subtract(arriving).Length() > 1e-12 {
		t.Errorf("emitted radiance %v, want %v", es.Le, arriving)
	}
	if math.Abs(es.Ray.Origin.Length()-3) > 1e-9 {
		t.Errorf("Expected origin on the bounding sphere, got %v", es.Ray.Origin)
	}
	pdfPos, pdfDir := light.PdfLe(es.Ray, es.Normal)
	if math.Abs(pdfPos-es.PdfPos) > 1e-12 || math.Abs(pdfDir-es.PdfDir) > 1e-12 {
		t.Errorf("PdfLe (%v, %v) disagrees with sample (%v, %v)", pdfPos, pdfDir, es.PdfPos, es.PdfDir)
	}
	wantPower := 0.6 * math.Pi * 9
	if math.Abs(light.Power().X-wantPower) > 1e-9 {
		t.Errorf("Expected power %v, got %v", wantPower, light.Power().X)
	}
}

func TestDiffuseAreaLight_Disc(t *testing.T) {
	disc := geometry.NewDisc(core.NewVec3(0, 2, 0), core.NewVec3(0, -1, 0), 1)
	light := NewDiffuseAreaLight(disc, core.NewVec3(2, 2, 2))
	ref := core.Interaction{Point: core.Vec3{}, Normal: core.NewVec3(0, 1, 0)}

	ls := light.SampleLi(ref, core.NewVec2(0.5, 0.5))
	// Disc center straight above: dist²=4, cos=1, area=π
	if math.Abs(ls.Pdf-4/math.Pi) > 1e-9 {
		t.Errorf("Expected solid angle pdf 4/π, got %v", ls.Pdf)
	}
	if math.Abs(light.PdfLi(ref, ls.Wi)-ls.Pdf) > 1e-9 {
		t.Errorf("PdfLi %v disagrees with SampleLi %v", light.PdfLi(ref, ls.Wi), ls.Pdf)
	}
	es := light.SampleLe(core.NewVec2(0.9, 0.2), core.NewVec2(0.3, 0.6), 0)
	if es.Ray.Direction.Y >= 0 {
		t.Errorf("disc light should emit downward, got %v", es.Ray.Direction)
	}
	if math.Abs(es.PdfPos-1/math.Pi) > 1e-12 {
		t.Errorf("Expected area density 1/π, got %v", es.PdfPos)
	}
}

func TestPowerLightSampler(t *testing.T) {
	dim := NewPointLight(core.Vec3{}, core.NewVec3(1, 1, 1))
	bright := NewPointLight(core.Vec3{}, core.NewVec3(3, 3, 3))
	sampler := NewPowerLightSampler([]core.Light{dim, bright})

	if math.Abs(sampler.Probability(0)-0.25) > 1e-9 || math.Abs(sampler.Probability(1)-0.75) > 1e-9 {
		t.Errorf("unexpected probabilities %v %v", sampler.Probability(0), sampler.Probability(1))
	}
	light, pdf, idx := sampler.SampleLight(0.5)
	if light != bright || idx != 1 || math.Abs(pdf-0.75) > 1e-9 {
		t.Errorf("Expected bright light, got idx=%d pdf=%v", idx, pdf)
	}

	empty := NewPowerLightSampler(nil)
	if light, _, idx := empty.SampleLight(0.5); light != nil || idx != -1 {
		t.Error("empty sampler should return no light")
	}
}
