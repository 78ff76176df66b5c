/*
 * forces_test.go, part of alquimia.
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

package alquimia

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

//checkForces compares AddForces against a central finite difference of
//Energy, atom by atom.
func checkForces(Te *testing.T, f Force, c *mat.Dense, box [3]float64, p Params, tol float64) {
	Te.Helper()
	n, _ := c.Dims()
	analytic := mat.NewDense(n, 3, nil)
	f.AddForces(analytic, c, box, p)
	h := 1e-6
	for i := 0; i < n; i++ {
		for k := 0; k < 3; k++ {
			orig := c.At(i, k)
			c.Set(i, k, orig+h)
			ep := f.Energy(c, box, p)
			c.Set(i, k, orig-h)
			em := f.Energy(c, box, p)
			c.Set(i, k, orig)
			num := -(ep - em) / (2 * h)
			if math.Abs(num-analytic.At(i, k)) > tol*(1+math.Abs(num)) {
				Te.Errorf("force mismatch on atom %d axis %d: analytic %.8f numerical %.8f", i, k, analytic.At(i, k), num)
			}
		}
	}
}

func TestNonbondedForces(Te *testing.T) {
	nb := NewNonbondedForce(3, 0, 0)
	nb.SetParticle(0, 0.4, 3.2, 0.15)
	nb.SetParticle(1, -0.3, 3.0, 0.2)
	nb.SetParticle(2, -0.1, 2.8, 0.1)
	c := mat.NewDense(3, 3, []float64{
		0, 0, 0,
		3.4, 0.2, -0.1,
		1.1, 3.1, 0.4,
	})
	checkForces(Te, nb, c, [3]float64{}, Params{}, 1e-4)
}

func TestNonbondedReactionFieldForces(Te *testing.T) {
	nb := NewNonbondedForce(3, 6, 78.5)
	nb.SetParticle(0, 0.4, 3.2, 0.15)
	nb.SetParticle(1, -0.3, 3.0, 0.2)
	nb.SetParticle(2, -0.1, 2.8, 0.1)
	nb.AddException(0, 1, -0.1, 3.1, 0.05)
	c := mat.NewDense(3, 3, []float64{
		0, 0, 0,
		3.4, 0.2, -0.1,
		1.1, 3.1, 0.4,
	})
	box := [3]float64{20, 20, 20}
	checkForces(Te, nb, c, box, Params{}, 1e-4)
}

func TestBondedForces(Te *testing.T) {
	c := mat.NewDense(4, 3, []float64{
		0.1, 0, 0,
		1.5, 0.1, 0,
		2.1, 1.4, -0.2,
		3.3, 1.5, 1.0,
	})
	bonds := new(HarmonicBondForce)
	bonds.Add(0, 1, 1.3, 340)
	bonds.Add(1, 2, 1.4, 300)
	checkForces(Te, bonds, c, [3]float64{}, Params{}, 1e-4)
	angles := new(HarmonicAngleForce)
	angles.Add(0, 1, 2, Deg2Rad(110), 50)
	checkForces(Te, angles, c, [3]float64{}, Params{}, 1e-4)
	torsions := new(PeriodicTorsionForce)
	torsions.Add(0, 1, 2, 3, 3, 0, 1.4)
	torsions.Add(0, 1, 2, 3, 2, math.Pi, 0.5)
	checkForces(Te, torsions, c, [3]float64{}, Params{}, 1e-4)
}

func TestSoftcoreForces(Te *testing.T) {
	sigma := []float64{3.2, 3.0, 2.9}
	eps := []float64{0.15, 0.2, 0.11}
	sc := NewSoftcorePairForce("lam", []int{0}, []int{1, 2}, sigma, eps, 0)
	c := mat.NewDense(3, 3, []float64{
		0, 0, 0,
		2.1, 0.2, -0.1, //well inside the repulsive wall
		1.1, 3.1, 0.4,
	})
	for _, lam := range []float64{0.1, 0.5, 0.9, 1.0} {
		checkForces(Te, sc, c, [3]float64{}, Params{"lam": lam}, 1e-4)
	}
}

//TestSoftcoreEndpoints checks the two identities that make the soft-core
//form usable: at full coupling it is plain Lennard-Jones, and at zero
//coupling it is nothing at all, even at overlapping positions.
func TestSoftcoreEndpoints(Te *testing.T) {
	sigma := []float64{3.2, 3.0}
	eps := []float64{0.15, 0.2}
	sc := NewSoftcorePairForce("lam", []int{0}, []int{1}, sigma, eps, 0)
	c := mat.NewDense(2, 3, []float64{0, 0, 0, 3.3, 0.1, -0.2})
	var d [3]float64
	delta(&d, c, 0, 1, [3]float64{})
	r := norm(&d)
	sig, ep := lorentzBerthelot(sigma[0], eps[0], sigma[1], eps[1])
	x := math.Pow(sig/r, 6)
	plain := 4 * ep * x * (x - 1)
	got := sc.Energy(c, [3]float64{}, Params{"lam": 1.0})
	if math.Abs(got-plain) > 1e-10 {
		Te.Errorf("softcore at full coupling: got %v, plain LJ is %v", got, plain)
	}
	if E := sc.Energy(c, [3]float64{}, Params{"lam": 0.0}); E != 0 {
		Te.Errorf("softcore at zero coupling: got %v, want 0", E)
	}
	//an overlapping pair must still have finite energy at partial coupling
	c.Set(1, 0, 0)
	c.Set(1, 1, 0)
	c.Set(1, 2, 1e-7)
	E := sc.Energy(c, [3]float64{}, Params{"lam": 0.5})
	if math.IsInf(E, 0) || math.IsNaN(E) {
		Te.Errorf("softcore diverges on overlap: %v", E)
	}
}

func TestDispersionCorrection(Te *testing.T) {
	nb := NewNonbondedForce(2, 6, 0)
	nb.SetParticle(0, 0, 3.0, 0.2)
	nb.SetParticle(1, 0, 3.0, 0.2)
	nb.DispersionCorrection = true
	box := [3]float64{20, 20, 20}
	c := mat.NewDense(2, 3, []float64{0, 0, 0, 9, 0, 0}) //beyond the cutoff
	got := nb.Energy(c, box, Params{})
	s6 := math.Pow(3.0, 6)
	rc3 := math.Pow(6.0, 3)
	rc9 := rc3 * rc3 * rc3
	want := (8 * math.Pi / (20 * 20 * 20)) * (0.2*s6*s6/(3*rc9) - 0.2*s6/rc3)
	if math.Abs(got-want) > 1e-12 {
		Te.Errorf("tail correction: got %v, want %v", got, want)
	}
}
