//Package timeseries analyzes correlated observable series from molecular
//simulations: autocorrelation, statistical inefficiency, equilibration
//detection and subsampling to effectively uncorrelated frames.
package timeseries

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/stat"
)

func cmplxMulConj(dst, b []complex128) {
	if len(dst) != len(b) {
		panic(fmt.Sprintf("complex conjugate multiplication of slices: Both slices should have the same len %d, %d", len(dst), len(b)))
	}
	for i, v := range b {
		dst[i] *= cmplx.Conj(v)
	}
}

//Autocorrelation returns the normalized autocorrelation function of a,
//C_0..C_{len(a)-1}, with C_0=1, computed with an FFT over the
//zero-padded, mean-centered series.
func Autocorrelation(a []float64) []float64 {
	n := len(a)
	if n == 0 {
		return nil
	}
	mean := stat.Mean(a, nil)
	pad := make([]complex128, 2*n)
	for i, v := range a {
		pad[i] = complex(v-mean, 0)
	}
	f := fourier.NewCmplxFFT(len(pad))
	f.Coefficients(pad, pad)
	cmplxMulConj(pad, pad)
	f.Sequence(pad, pad)
	ret := make([]float64, n)
	//each lag t averages over its n-t available pairs
	for t := 0; t < n; t++ {
		ret[t] = real(pad[t]) / float64(len(pad)) / float64(n-t)
	}
	if ret[0] <= 0 { //constant series
		for i := range ret {
			ret[i] = 0
		}
		ret[0] = 1
		return ret
	}
	c0 := ret[0]
	for i := range ret {
		ret[i] /= c0
	}
	return ret
}

//StatisticalInefficiency returns g = 1 + 2*sum_t (1-t/N) C_t for the
//series a, with the sum truncated at the first non-positive C_t. g is
//the number of frames per effectively independent sample, so it is
//never smaller than 1.
func StatisticalInefficiency(a []float64) float64 {
	n := len(a)
	if n < 3 {
		return 1
	}
	c := Autocorrelation(a)
	g := 1.0
	for t := 1; t < n; t++ {
		if c[t] <= 0 {
			break
		}
		g += 2 * c[t] * (1 - float64(t)/float64(n))
	}
	if g < 1 || math.IsNaN(g) {
		g = 1
	}
	return g
}

//DetectEquilibration scans candidate equilibration times t0 and returns
//the one maximizing the number of effectively uncorrelated samples
//Neff = (N-t0)/g in the remainder, together with the statistical
//inefficiency g of, and the Neff in, the retained region. At most some
//hundred origins are tried, evenly spaced.
func DetectEquilibration(a []float64) (t0 int, g, neff float64) {
	n := len(a)
	if n < 4 {
		return 0, 1, float64(n)
	}
	stride := n / 100
	if stride < 1 {
		stride = 1
	}
	g = 1
	neff = -1
	for c := 0; c < n-2; c += stride {
		gc := StatisticalInefficiency(a[c:])
		nc := float64(n-c) / gc
		if nc > neff {
			t0, g, neff = c, gc, nc
		}
	}
	return t0, g, neff
}

//Subsample returns strictly increasing indices t0, ~t0+g, ~t0+2g...
//into a series of length n, so that the retained frames are separated
//by at least one statistical inefficiency. g below 1 is taken as 1.
func Subsample(n, t0 int, g float64) []int {
	if g < 1 {
		g = 1
	}
	var ret []int
	prev := -1
	for k := 0; ; k++ {
		t := t0 + int(math.Round(float64(k)*g))
		if t >= n {
			break
		}
		if t <= prev {
			continue
		}
		ret = append(ret, t)
		prev = t
	}
	return ret
}
