/*
 * bonded.go, part of alquimia.
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

	"gonum.org/v1/gonum/mat"
)

//Amber conventions throughout: the force constants already include the 1/2
//factor, i.e. E = K(r-r0)^2 for bonds and E = K(th-th0)^2 for angles.

//HarmonicBond is one harmonic bond term.
type HarmonicBond struct {
	I, J int
	R0   float64 //A
	K    float64 //kcal/(mol A^2)
}

//HarmonicBondForce holds all the harmonic bonds of a system.
type HarmonicBondForce struct {
	Bonds []*HarmonicBond
}

//Add appends a bond.
func (B *HarmonicBondForce) Add(i, j int, r0, k float64) {
	B.Bonds = append(B.Bonds, &HarmonicBond{I: i, J: j, R0: r0, K: k})
}

func (B *HarmonicBondForce) Energy(c *mat.Dense, box [3]float64, p Params) float64 {
	var d [3]float64
	E := 0.0
	for _, b := range B.Bonds {
		delta(&d, c, b.I, b.J, box)
		dr := norm(&d) - b.R0
		E += b.K * dr * dr
	}
	return E
}

func (B *HarmonicBondForce) AddForces(dst, c *mat.Dense, box [3]float64, p Params) {
	var d [3]float64
	for _, b := range B.Bonds {
		delta(&d, c, b.I, b.J, box)
		r := norm(&d)
		dEdr := 2 * b.K * (r - b.R0)
		addScaled(dst, b.I, -dEdr/r, &d)
		addScaled(dst, b.J, dEdr/r, &d)
	}
}

//HarmonicAngle is one harmonic angle term, for the angle I-J-K centered on J.
type HarmonicAngle struct {
	I, J, K int
	Theta0  float64 //radians
	Kf      float64 //kcal/(mol rad^2)
}

//HarmonicAngleForce holds all the harmonic angles of a system.
type HarmonicAngleForce struct {
	Angles []*HarmonicAngle
}

//Add appends an angle, with theta0 in radians.
func (A *HarmonicAngleForce) Add(i, j, k int, theta0, kf float64) {
	A.Angles = append(A.Angles, &HarmonicAngle{I: i, J: j, K: k, Theta0: theta0, Kf: kf})
}

func angleOf(c *mat.Dense, i, j, k int, box [3]float64, dij, dkj *[3]float64) float64 {
	delta(dij, c, i, j, box)
	delta(dkj, c, k, j, box)
	cosv := dot(dij, dkj) / (norm(dij) * norm(dkj))
	if cosv > 1 {
		cosv = 1
	} else if cosv < -1 {
		cosv = -1
	}
	return math.Acos(cosv)
}

func (A *HarmonicAngleForce) Energy(c *mat.Dense, box [3]float64, p Params) float64 {
	var dij, dkj [3]float64
	E := 0.0
	for _, a := range A.Angles {
		dt := angleOf(c, a.I, a.J, a.K, box, &dij, &dkj) - a.Theta0
		E += a.Kf * dt * dt
	}
	return E
}

func (A *HarmonicAngleForce) AddForces(dst, c *mat.Dense, box [3]float64, p Params) {
	var dij, dkj [3]float64
	for _, a := range A.Angles {
		th := angleOf(c, a.I, a.J, a.K, box, &dij, &dkj)
		sinv := math.Sin(th)
		if sinv < 1e-8 { //collinear, the force direction is undefined
			continue
		}
		dEdth := 2 * a.Kf * (th - a.Theta0)
		rij := norm(&dij)
		rkj := norm(&dkj)
		cosv := math.Cos(th)
		var fi, fk [3]float64
		for x := 0; x < 3; x++ {
			fi[x] = -dEdth / (rij * sinv) * (dij[x]/rij*cosv - dkj[x]/rkj)
			fk[x] = -dEdth / (rkj * sinv) * (dkj[x]/rkj*cosv - dij[x]/rij)
		}
		one := 1.0
		addScaled(dst, a.I, one, &fi)
		addScaled(dst, a.K, one, &fk)
		var fj [3]float64
		for x := 0; x < 3; x++ {
			fj[x] = -fi[x] - fk[x]
		}
		addScaled(dst, a.J, one, &fj)
	}
}

//PeriodicTorsion is one cosine dihedral term, E = K(1+cos(n*phi - phase)).
//Both proper and improper torsions use this form.
type PeriodicTorsion struct {
	I, J, K, L int
	N          int     //periodicity
	Phase      float64 //radians
	Kf         float64 //kcal/mol
}

//PeriodicTorsionForce holds all the torsions of a system.
type PeriodicTorsionForce struct {
	Torsions []*PeriodicTorsion
}

//Add appends a torsion, with the phase in radians.
func (T *PeriodicTorsionForce) Add(i, j, k, l, n int, phase, kf float64) {
	T.Torsions = append(T.Torsions, &PeriodicTorsion{I: i, J: j, K: k, L: l, N: n, Phase: phase, Kf: kf})
}

//dihedral returns the dihedral angle and leaves the bond vectors and plane
//normals in the given buffers for the force calculation.
func dihedral(c *mat.Dense, i, j, k, l int, box [3]float64, b1, b2, b3, n1, n2 *[3]float64) float64 {
	delta(b1, c, j, i, box)
	delta(b2, c, k, j, box)
	delta(b3, c, l, k, box)
	cross(n1, b1, b2)
	cross(n2, b2, b3)
	var m [3]float64
	cross(&m, n1, n2)
	y := dot(&m, b2) / norm(b2)
	x := dot(n1, n2)
	return math.Atan2(y, x)
}

func (T *PeriodicTorsionForce) Energy(c *mat.Dense, box [3]float64, p Params) float64 {
	var b1, b2, b3, n1, n2 [3]float64
	E := 0.0
	for _, t := range T.Torsions {
		phi := dihedral(c, t.I, t.J, t.K, t.L, box, &b1, &b2, &b3, &n1, &n2)
		E += t.Kf * (1 + math.Cos(float64(t.N)*phi-t.Phase))
	}
	return E
}

func (T *PeriodicTorsionForce) AddForces(dst, c *mat.Dense, box [3]float64, p Params) {
	var b1, b2, b3, n1, n2 [3]float64
	for _, t := range T.Torsions {
		phi := dihedral(c, t.I, t.J, t.K, t.L, box, &b1, &b2, &b3, &n1, &n2)
		dEdphi := -t.Kf * float64(t.N) * math.Sin(float64(t.N)*phi-t.Phase)
		rb2 := norm(&b2)
		sn1 := dot(&n1, &n1)
		sn2 := dot(&n2, &n2)
		if sn1 < 1e-12 || sn2 < 1e-12 {
			continue
		}
		var fi, fl [3]float64
		for x := 0; x < 3; x++ {
			fi[x] = dEdphi * rb2 / sn1 * n1[x]
			fl[x] = -dEdphi * rb2 / sn2 * n2[x]
		}
		tfac := dot(&b1, &b2) / (rb2 * rb2)
		ufac := dot(&b3, &b2) / (rb2 * rb2)
		var fj, fk [3]float64
		for x := 0; x < 3; x++ {
			fj[x] = -fi[x] - tfac*fi[x] + ufac*fl[x]
			fk[x] = -fl[x] + tfac*fi[x] - ufac*fl[x]
		}
		one := 1.0
		addScaled(dst, t.I, one, &fi)
		addScaled(dst, t.J, one, &fj)
		addScaled(dst, t.K, one, &fk)
		addScaled(dst, t.L, one, &fl)
	}
}
