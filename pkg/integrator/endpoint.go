package integrator

import "github.com/df07/go-bdpt/pkg/core"

// EndpointInteraction is the first vertex of a subpath: a point on the camera
// lens or on a light. Exactly one of Camera and Light is set, except for
// escaped camera rays where both are nil and the vertex stands for the
// infinite lights.
type EndpointInteraction struct {
	core.Interaction
	Camera core.Camera
	Light  core.Light
}

// NewCameraEndpoint wraps a known lens interaction
func NewCameraEndpoint(it core.Interaction, camera core.Camera) EndpointInteraction {
	return EndpointInteraction{Interaction: it, Camera: camera}
}

// NewCameraRayEndpoint places the endpoint at a camera ray's origin
func NewCameraRayEndpoint(camera core.Camera, ray core.Ray) EndpointInteraction {
	return EndpointInteraction{
		Interaction: core.Interaction{
			Point:           ray.Origin,
			Time:            ray.Time,
			MediumInterface: core.NewMediumInterface(ray.Medium),
		},
		Camera: camera,
	}
}

// NewLightRayEndpoint places the endpoint at an emitted ray's origin with the
// light's surface normal
func NewLightRayEndpoint(light core.Light, ray core.Ray, n core.Vec3) EndpointInteraction {
	return EndpointInteraction{
		Interaction: core.Interaction{
			Point:           ray.Origin,
			Time:            ray.Time,
			Normal:          n,
			MediumInterface: core.NewMediumInterface(ray.Medium),
		},
		Light: light,
	}
}

// NewLightEndpoint wraps a sampled point on a light
func NewLightEndpoint(it core.Interaction, light core.Light) EndpointInteraction {
	return EndpointInteraction{Interaction: it, Light: light}
}

// NewInfiniteEndpoint represents a camera ray leaving the scene. The point
// sits one unit along the ray and the normal faces back toward the origin.
func NewInfiniteEndpoint(ray core.Ray) EndpointInteraction {
	return EndpointInteraction{
		Interaction: core.Interaction{
			Point:           ray.At(1),
			Time:            ray.Time,
			Normal:          ray.Direction.Negate(),
			MediumInterface: core.NewMediumInterface(ray.Medium),
		},
	}
}
