package geodetics

import (
	"math"
	"testing"
)

func TestInverseAlongEquator(t *testing.T) {
	dist, az, baz, err := Inverse(0, 0, 0, 1)
	if err != nil {
		t.Fatalf("Inverse: %v", err)
	}

	// One degree of longitude on the WGS84 equator.
	if math.Abs(dist-111319.49) > 0.5 {
		t.Fatalf("dist = %v m, want 111319.49", dist)
	}

	if math.Abs(az-90) > 1e-6 {
		t.Fatalf("azimuth = %v, want 90", az)
	}

	if math.Abs(baz-270) > 1e-6 {
		t.Fatalf("back azimuth = %v, want 270", baz)
	}
}

func TestInverseAlongMeridian(t *testing.T) {
	dist, az, _, err := Inverse(0, 0, 1, 0)
	if err != nil {
		t.Fatalf("Inverse: %v", err)
	}

	// One degree of latitude at the equator is shorter than one of
	// longitude on the flattened ellipsoid.
	if math.Abs(dist-110574.4) > 5 {
		t.Fatalf("dist = %v m, want about 110574", dist)
	}

	if math.Abs(az) > 1e-6 {
		t.Fatalf("azimuth = %v, want 0", az)
	}
}

func TestInverseZeroDistance(t *testing.T) {
	dist, _, _, err := Inverse(45, 9, 45, 9)
	if err != nil {
		t.Fatalf("Inverse: %v", err)
	}

	if dist != 0 {
		t.Fatalf("dist = %v, want 0", dist)
	}
}

func TestInverseTeleseismic(t *testing.T) {
	// Grafenberg array to the Tonga trench region, roughly 146 degrees.
	dist, _, _, err := Inverse(49.69, 11.22, -21.5, -179.2)
	if err != nil {
		t.Fatalf("Inverse: %v", err)
	}

	deg := KilometerToDegree(dist / 1000)
	if deg < 140 || deg > 152 {
		t.Fatalf("distance = %v deg, want about 146", deg)
	}
}

func TestDirectInverseRoundTrip(t *testing.T) {
	tests := []struct {
		lat, lon, azimuth, distM float64
	}{
		{46, 8, 30, 500000},
		{-33.5, 151.2, 250, 2000000},
		{10, -70, 95, 55000},
		{60, 0, 181, 1200000},
	}

	for _, tt := range tests {
		lat2, lon2 := Direct(tt.lat, tt.lon, tt.azimuth, tt.distM)

		dist, az, _, err := Inverse(tt.lat, tt.lon, lat2, lon2)
		if err != nil {
			t.Fatalf("Inverse: %v", err)
		}

		if math.Abs(dist-tt.distM) > 1 {
			t.Fatalf("round trip dist = %v, want %v", dist, tt.distM)
		}

		if math.Abs(az-tt.azimuth) > 1e-3 {
			t.Fatalf("round trip azimuth = %v, want %v", az, tt.azimuth)
		}
	}
}

func TestKilometerDegreeConversion(t *testing.T) {
	// Mean Earth radius 6371 km: one degree is 111.195 km.
	if got := DegreeToKilometer(1); math.Abs(got-111.195) > 1e-3 {
		t.Fatalf("DegreeToKilometer(1) = %v", got)
	}

	if got := KilometerToDegree(DegreeToKilometer(12.5)); math.Abs(got-12.5) > 1e-12 {
		t.Fatalf("conversion round trip = %v, want 12.5", got)
	}
}
