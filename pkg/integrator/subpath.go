package integrator

import (
	"github.com/df07/go-bdpt/pkg/core"
)

// GenerateCameraSubpath traces a subpath from the camera through raster
// position pFilm. It writes at most maxVertices vertices into path and
// returns how many were written.
func (b *BDPTIntegrator) GenerateCameraSubpath(sampler core.Sampler, maxVertices int, pFilm core.Vec2, path []Vertex) int {
	maxVertices = min(maxVertices, len(path))
	if maxVertices == 0 {
		return 0
	}

	sample := core.CameraSample{PFilm: pFilm, Time: sampler.Get1D()}
	ray, weight := b.camera.GenerateRay(sample)
	beta := core.NewVec3(weight, weight, weight)

	path[0] = newCameraVertex(NewCameraRayEndpoint(b.camera, ray), beta)
	_, pdfDir := b.camera.PdfWe(ray)

	b.logf("camera subpath at %v, pdfDir %g", pFilm, pdfDir)
	return b.randomWalk(ray, sampler, beta, pdfDir, maxVertices-1, core.Radiance, path, 1) + 1
}

// GenerateLightSubpath picks a light by power, samples an emitted ray and
// walks it through the scene. time should match the camera subpath.
func (b *BDPTIntegrator) GenerateLightSubpath(sampler core.Sampler, maxVertices int, time float64, path []Vertex) int {
	maxVertices = min(maxVertices, len(path))
	if maxVertices == 0 {
		return 0
	}

	light, lightPdf, _ := b.lightSampler.SampleLight(sampler.Get1D())
	if light == nil || lightPdf == 0 {
		return 0
	}

	u1 := sampler.Get2D()
	u2 := sampler.Get2D()
	es := light.SampleLe(u1, u2, time)
	if es.PdfPos == 0 || es.PdfDir == 0 || es.Le.IsBlack() {
		return 0
	}

	path[0] = newLightVertex(NewLightRayEndpoint(light, es.Ray, es.Normal), es.Le, es.PdfPos*lightPdf)
	beta := es.Le.Multiply(es.Normal.AbsDot(es.Ray.Direction) / (lightPdf * es.PdfPos * es.PdfDir))

	b.logf("light subpath from %T, beta %v", light, beta)
	n := b.randomWalk(es.Ray, sampler, beta, es.PdfDir, maxVertices-1, core.Importance, path, 1)

	// Infinite lights emit from a disk, so the density of the first hit is
	// planar and the origin density is the directional one
	if path[0].IsInfiniteLight() {
		if n > 0 {
			path[1].PdfFwd = es.PdfPos
			if path[1].IsOnSurface() {
				path[1].PdfFwd *= es.Ray.Direction.AbsDot(path[1].GeoNormal())
			}
		}
		path[0].PdfFwd = InfiniteLightDensity(b.scene, b.lightSampler.Distribution(), b.lightToIndex, es.Ray.Direction)
	}
	return n + 1
}

// randomWalk extends the path starting at path[start], whose predecessor is
// path[start-1], for up to maxVertices vertices
func (b *BDPTIntegrator) randomWalk(ray core.Ray, sampler core.Sampler, beta core.Vec3, pdf float64,
	maxVertices int, mode core.TransportMode, path []Vertex, start int) int {
	if maxVertices <= 0 {
		return 0
	}

	bounces := 0
	pdfFwd, pdfRev := pdf, 0.0
	for {
		si, found := b.scene.Intersect(ray)
		if found {
			ray.TMax = si.T
		}

		var mi *core.MediumInteraction
		if ray.Medium != nil {
			var weight core.Vec3
			weight, mi = ray.Medium.Sample(ray, sampler)
			beta = beta.MultiplyVec(weight)
		}
		if beta.IsBlack() {
			break
		}

		cur := start + bounces
		prev := &path[cur-1]
		vertex := &path[cur]

		if mi != nil {
			*vertex = newMediumVertex(mi, beta, pdfFwd, prev)
			bounces++
			if bounces >= maxVertices {
				break
			}
			wi, p := mi.Phase.SampleP(mi.Wo, sampler.Get2D())
			pdfFwd, pdfRev = p, p
			ray = mi.SpawnRay(wi)
		} else {
			if !found {
				// Escaped camera rays see the infinite lights
				if mode == core.Radiance {
					*vertex = newLightVertex(NewInfiniteEndpoint(ray), beta, pdfFwd)
					bounces++
				}
				break
			}

			si.ComputeScatteringFunctions(mode)
			if si.BSDF == nil {
				// Medium boundary: keep going without recording a vertex
				ray = si.SpawnRay(ray.Direction)
				continue
			}

			*vertex = newSurfaceVertex(si, beta, pdfFwd, prev)
			bounces++
			if bounces >= maxVertices {
				break
			}

			wo := si.Wo
			f, wi, fwd, sampledType := si.BSDF.SampleF(wo, sampler.Get2D())
			pdfFwd = fwd
			if f.IsBlack() || pdfFwd == 0 {
				break
			}
			beta = beta.MultiplyVec(f).Multiply(wi.AbsDot(si.ShadingNormal) / pdfFwd)
			pdfRev = si.BSDF.Pdf(wi, wo)
			if sampledType&core.BSDFSpecular != 0 {
				vertex.Delta = true
				pdfFwd, pdfRev = 0, 0
			}
			beta = beta.Multiply(correctShadingNormal(si, wo, wi, mode))
			ray = si.SpawnRay(wi)
		}

		prev.PdfRev = ConvertDensity(vertex, pdfRev, prev)
	}
	return bounces
}
