package timeseries

import (
	"math"
	"math/rand"
	"testing"
)

func TestAutocorrelation(Te *testing.T) {
	rng := rand.New(rand.NewSource(1))
	a := make([]float64, 4096)
	for i := range a {
		a[i] = rng.NormFloat64()
	}
	c := Autocorrelation(a)
	if c[0] != 1 {
		Te.Errorf("C_0 = %v, want 1", c[0])
	}
	if math.Abs(c[1]) > 0.1 {
		Te.Errorf("white noise has C_1 = %v, want about 0", c[1])
	}
}

func TestStatisticalInefficiencyWhiteNoise(Te *testing.T) {
	rng := rand.New(rand.NewSource(2))
	a := make([]float64, 10000)
	for i := range a {
		a[i] = rng.NormFloat64()
	}
	g := StatisticalInefficiency(a)
	if g < 1 || g > 2 {
		Te.Errorf("white noise has g = %v, want about 1", g)
	}
}

//an AR(1) process with coefficient rho has g = (1+rho)/(1-rho).
func TestStatisticalInefficiencyAR1(Te *testing.T) {
	rng := rand.New(rand.NewSource(3))
	rho := 0.9
	want := (1 + rho) / (1 - rho) //19
	a := make([]float64, 100000)
	x := 0.0
	for i := range a {
		x = rho*x + math.Sqrt(1-rho*rho)*rng.NormFloat64()
		a[i] = x
	}
	g := StatisticalInefficiency(a)
	if g < want/2 || g > want*2 {
		Te.Errorf("AR(1) with rho=%.1f has g = %v, want about %v", rho, g, want)
	}
}

func TestStatisticalInefficiencyConstant(Te *testing.T) {
	a := make([]float64, 1000)
	for i := range a {
		a[i] = 3.14
	}
	if g := StatisticalInefficiency(a); g != 1 {
		Te.Errorf("constant series has g = %v, want 1", g)
	}
}

//a drifting start followed by a stationary stretch: the detected origin
//must land past the drift.
func TestDetectEquilibration(Te *testing.T) {
	rng := rand.New(rand.NewSource(4))
	n := 4000
	a := make([]float64, n)
	for i := range a {
		a[i] = rng.NormFloat64()
		if i < 500 {
			a[i] += 20 * (1 - float64(i)/500) //initial transient
		}
	}
	t0, g, neff := DetectEquilibration(a)
	if t0 < 300 || t0 > 1200 {
		Te.Errorf("equilibration detected at %d, want a value past the transient at 500", t0)
	}
	if g < 1 {
		Te.Errorf("g = %v below 1", g)
	}
	if neff <= 0 || neff > float64(n) {
		Te.Errorf("Neff = %v out of range", neff)
	}
}

func TestSubsample(Te *testing.T) {
	idx := Subsample(100, 10, 7.3)
	if len(idx) == 0 || idx[0] != 10 {
		Te.Fatalf("first index %v, want 10", idx)
	}
	for i := 1; i < len(idx); i++ {
		if idx[i] <= idx[i-1] {
			Te.Fatalf("indices not strictly increasing: %v", idx)
		}
		if idx[i] >= 100 {
			Te.Fatalf("index %d out of range", idx[i])
		}
	}
	//g below 1 degenerates to keeping every frame
	if idx := Subsample(10, 0, 0.2); len(idx) != 10 {
		Te.Errorf("g<1 should keep all 10 frames, kept %d", len(idx))
	}
}
