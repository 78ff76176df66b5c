/*
 * mbar_test.go, part of alquimia.
 *
 * Copyright 2025 Raul Mera A. (raulpuntomeraatusachpuntocl)
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package mbar

import (
	"math"
	"math/rand"
	"path/filepath"
	"testing"
)

//harmonicMatrix samples n points from each of the harmonic states
//u_k(x) = K_k x^2 / 2 and cross-evaluates them. The free energies are
//known analytically: f_k = ln(K_k)/2 + const.
func harmonicMatrix(ks []float64, n int, seed int64) *EnergyMatrix {
	rng := rand.New(rand.NewSource(seed))
	E := NewEnergyMatrix(len(ks))
	u := make([]float64, len(ks))
	for k, kk := range ks {
		sigma := 1 / math.Sqrt(kk)
		for i := 0; i < n; i++ {
			x := sigma * rng.NormFloat64()
			for l, kl := range ks {
				u[l] = kl * x * x / 2
			}
			E.AddSample(k, u)
		}
	}
	return E
}

func TestSolveHarmonic(Te *testing.T) {
	ks := []float64{1, 2, 4}
	E := harmonicMatrix(ks, 4000, 1)
	M, err := Solve(E, 1e-10, 0)
	if err != nil {
		Te.Fatal(err)
	}
	for i := 1; i < len(ks); i++ {
		want := 0.5 * math.Log(ks[i]/ks[0])
		df, ddf := M.DeltaF(0, i)
		if math.Abs(df-want) > 0.08 {
			Te.Errorf("Delta f to state %d: got %v, analytic %v", i, df, want)
		}
		if ddf <= 0 || ddf > 0.1 {
			Te.Errorf("implausible uncertainty %v for state %d", ddf, i)
		}
		if math.Abs(df-want) > 5*ddf+0.02 {
			Te.Errorf("state %d: error %v not covered by the estimated uncertainty %v", i, math.Abs(df-want), ddf)
		}
	}
}

func TestDeltaFAntisymmetry(Te *testing.T) {
	E := harmonicMatrix([]float64{1, 3}, 1000, 2)
	M, err := Solve(E, 1e-9, 0)
	if err != nil {
		Te.Fatal(err)
	}
	dij, eij := M.DeltaF(0, 1)
	dji, eji := M.DeltaF(1, 0)
	if dij != -dji {
		Te.Errorf("DeltaF(0,1)=%v is not minus DeltaF(1,0)=%v", dij, dji)
	}
	if eij != eji {
		Te.Errorf("uncertainties differ with direction: %v vs %v", eij, eji)
	}
	if d, _ := M.DeltaF(1, 1); d != 0 {
		Te.Errorf("DeltaF of a state with itself is %v", d)
	}
}

func TestOverlap(Te *testing.T) {
	//strongly overlapping states
	E := harmonicMatrix([]float64{1, 1.2}, 1000, 3)
	M, err := Solve(E, 1e-9, 0)
	if err != nil {
		Te.Fatal(err)
	}
	O := M.Overlap()
	for k := 0; k < 2; k++ {
		sum := 0.0
		for l := 0; l < 2; l++ {
			v := O.At(k, l)
			if v < 0 || v > 1+1e-9 {
				Te.Errorf("overlap element O[%d][%d] = %v outside [0,1]", k, l, v)
			}
			sum += v
		}
		if math.Abs(sum-1) > 1e-6 {
			Te.Errorf("overlap row %d sums to %v", k, sum)
		}
	}
	if O.At(0, 1) < 0.2 {
		Te.Errorf("almost identical states show overlap %v", O.At(0, 1))
	}
	//now two states that share no configurations: shifted wells far apart
	rng := rand.New(rand.NewSource(4))
	far := NewEnergyMatrix(2)
	mu := []float64{0, 100}
	u := make([]float64, 2)
	for k := 0; k < 2; k++ {
		for i := 0; i < 500; i++ {
			x := mu[k] + rng.NormFloat64()
			for l := 0; l < 2; l++ {
				d := x - mu[l]
				u[l] = d * d / 2
			}
			far.AddSample(k, u)
		}
	}
	M2, err := Solve(far, 1e-9, 0)
	if err != nil {
		Te.Fatal(err)
	}
	O2 := M2.Overlap()
	if O2.At(0, 0) < 0.99 || O2.At(1, 1) < 0.99 {
		Te.Errorf("disjoint states should have a near-identity overlap matrix, got diagonal %v, %v",
			O2.At(0, 0), O2.At(1, 1))
	}
}

func TestMatrixCompactAndIO(Te *testing.T) {
	E := harmonicMatrix([]float64{1, 2}, 50, 5)
	sub, err := E.Compact([][]int{{0, 10, 20, 30, 40}, {5, 15, 25}})
	if err != nil {
		Te.Fatal(err)
	}
	if sub.NK[0] != 5 || sub.NK[1] != 3 {
		Te.Fatalf("compacted counts %v", sub.NK)
	}
	for l := 0; l < 2; l++ {
		if sub.Sample(1, 2)[l] != E.Sample(1, 25)[l] {
			Te.Fatalf("compaction scrambled the samples")
		}
	}
	if _, err := E.Compact([][]int{{3, 3}, {}}); err == nil {
		Te.Errorf("repeated indices should be rejected")
	}
	name := filepath.Join(Te.TempDir(), "ene.json.zst")
	if err := sub.Save(name); err != nil {
		Te.Fatal(err)
	}
	back, err := Load(name)
	if err != nil {
		Te.Fatal(err)
	}
	if back.K != sub.K || back.N() != sub.N() {
		Te.Fatalf("round trip changed the matrix: %d states %d samples", back.K, back.N())
	}
	if back.Sample(0, 4)[1] != sub.Sample(0, 4)[1] {
		Te.Errorf("round trip changed the samples")
	}
}
