package material

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/df07/go-orbit-raytracer/pkg/core"
)

func TestDielectric_RefractionRatio(t *testing.T) {
	glass := NewDielectric(1.5)
	if math.Abs(glass.RefractionRatio(true)-1.0/1.5) > 1e-15 {
		t.Errorf("Entering ratio should be 1/ior, got %f", glass.RefractionRatio(true))
	}
	if glass.RefractionRatio(false) != 1.5 {
		t.Errorf("Exiting ratio should be ior, got %f", glass.RefractionRatio(false))
	}
}

func TestReflectance(t *testing.T) {
	tests := []struct {
		name     string
		cosine   float64
		ratio    float64
		expected float64
	}{
		{"Normal incidence glass", 1.0, 1.0 / 1.5, 0.04},
		{"Grazing incidence", 0.0, 1.0 / 1.5, 1.0},
		{"Matched media", 1.0, 1.0, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Reflectance(tt.cosine, tt.ratio)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Expected reflectance %f, got %f", tt.expected, got)
			}
		})
	}

	// Reflectance grows toward grazing angles
	prev := Reflectance(1.0, 1.0/1.5)
	for cos := 0.9; cos >= 0; cos -= 0.1 {
		r := Reflectance(cos, 1.0/1.5)
		if r < prev {
			t.Errorf("Reflectance should increase as cosine decreases: %f < %f at cos=%f", r, prev, cos)
		}
		prev = r
	}
}

func TestDielectric_NormalIncidence(t *testing.T) {
	glass := NewDielectric(1.5)
	rayIn := core.NewRay(core.NewVec3(0, 0, 1), core.NewVec3(0, 0, -1))
	hit := HitRecord{
		Point:     core.NewVec3(0, 0, 0),
		Normal:    core.NewVec3(0, 0, 1),
		FrontFace: true,
	}

	tests := []struct {
		name      string
		sample    float64
		direction core.Vec3
	}{
		// Schlick reflectance at normal incidence is 0.04
		{"Sample above reflectance refracts", 0.5, core.NewVec3(0, 0, -1)},
		{"Sample below reflectance reflects", 0.01, core.NewVec3(0, 0, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scatter, didScatter := glass.Scatter(rayIn, hit, newSequenceSampler(tt.sample))
			if !didScatter {
				t.Fatal("Dielectric should always scatter")
			}
			if !scatter.Attenuation.Equals(core.NewVec3(1, 1, 1)) {
				t.Errorf("Dielectric attenuation should be white, got %v", scatter.Attenuation)
			}
			if scatter.Scattered.Direction.Subtract(tt.direction).Length() > 1e-12 {
				t.Errorf("Expected direction %v, got %v", tt.direction, scatter.Scattered.Direction)
			}
		})
	}
}

func TestDielectric_TotalInternalReflection(t *testing.T) {
	glass := NewDielectric(1.5)

	// Leaving the glass with sin(theta) = 0.8; 1.5 * 0.8 > 1
	rayIn := core.NewRay(core.NewVec3(-0.8, 0, 0.6), core.NewVec3(0.8, 0, -0.6))
	hit := HitRecord{
		Point:     core.NewVec3(0, 0, 0),
		Normal:    core.NewVec3(0, 0, 1),
		FrontFace: false,
	}

	sampler := newSequenceSampler(0.999)
	scatter, didScatter := glass.Scatter(rayIn, hit, sampler)
	if !didScatter {
		t.Fatal("Dielectric should always scatter")
	}

	expected := core.NewVec3(0.8, 0, 0.6)
	if scatter.Scattered.Direction.Subtract(expected).Length() > 1e-12 {
		t.Errorf("Expected total internal reflection to %v, got %v", expected, scatter.Scattered.Direction)
	}
	if sampler.calls1D != 0 {
		t.Errorf("Total internal reflection should not draw a reflectance sample, drew %d", sampler.calls1D)
	}
}

func TestDielectric_RefractsOnlyWhenAllowed(t *testing.T) {
	glass := NewDielectric(1.5)
	sampler := core.NewRandomSampler(rand.New(rand.NewPCG(5, 5)))

	for i := 0; i < 500; i++ {
		angle := math.Pi / 2 * float64(i) / 500
		dir := core.NewVec3(math.Sin(angle), 0, -math.Cos(angle))

		for _, frontFace := range []bool{true, false} {
			hit := HitRecord{
				Point:     core.NewVec3(0, 0, 0),
				Normal:    core.NewVec3(0, 0, 1),
				FrontFace: frontFace,
			}
			scatter, _ := glass.Scatter(core.NewRay(dir.Negate(), dir), hit, sampler)

			ratio := glass.RefractionRatio(frontFace)
			cosTheta := math.Min(dir.Negate().Dot(hit.Normal), 1.0)
			sinTheta := math.Sqrt(1.0 - cosTheta*cosTheta)
			refracted := scatter.Scattered.Direction.Dot(hit.Normal) < 0

			if refracted && ratio*sinTheta > 1.0 {
				t.Fatalf("Refracted despite total internal reflection at angle %f", angle)
			}
		}
	}
}

func TestRefract_SnellsLaw(t *testing.T) {
	ratio := 1.0 / 1.5
	angle := math.Pi / 6
	uv := core.NewVec3(math.Sin(angle), 0, -math.Cos(angle))
	n := core.NewVec3(0, 0, 1)

	refracted := Refract(uv, n, ratio)
	if math.Abs(refracted.Length()-1.0) > 1e-9 {
		t.Errorf("Refracted unit vector should stay unit length, got %f", refracted.Length())
	}

	// n1 sin(theta1) = n2 sin(theta2)
	sinOut := refracted.X
	if math.Abs(sinOut-ratio*math.Sin(angle)) > 1e-9 {
		t.Errorf("Expected sin(theta_t) = %f, got %f", ratio*math.Sin(angle), sinOut)
	}
}
