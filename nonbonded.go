/*
 * nonbonded.go, part of alquimia.
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
/***Dedicated to the long life of the Ven. Khenpo Phuntzok Tenzin Rinpoche***/

package alquimia

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

//Exception overrides the interaction between one pair of atoms. A pair listed
//here is removed from the regular pair loop; the interaction actually computed
//is the one given by QQ (charge product, e^2), Sigma and Eps. An exception
//with all-zero values is a plain exclusion. Exceptions are evaluated without
//cutoff or reaction field, as they play the role of bonded terms.
type Exception struct {
	I, J  int
	QQ    float64
	Sigma float64
	Eps   float64
}

//ChargeOffset makes the charge of one atom a linear function of a named
//global parameter: q_eff = q_base + Scale*param.
type ChargeOffset struct {
	Param string
	Atom  int
	Scale float64
}

//ExceptionOffset makes the charge product of one exception a linear function
//of a named global parameter: qq_eff = qq_base + Scale*param.
type ExceptionOffset struct {
	Param string
	Index int
	Scale float64
}

//NonbondedForce is the base pairwise term: Coulomb electrostatics with a
//reaction field beyond-cutoff approximation, plus Lennard-Jones with
//Lorentz-Berthelot combination and an optional long-range dispersion
//correction. A zero Cutoff disables the cutoff (and the reaction field),
//which is only sensible for small non-periodic systems.
type NonbondedForce struct {
	Charge []float64
	Sigma  []float64
	Eps    []float64

	Exceptions []*Exception

	Cutoff float64
	//EpsRF is the reaction-field dielectric. Zero disables the
	//reaction field and leaves a plain truncated Coulomb.
	EpsRF float64
	//DispersionCorrection adds the standard isotropic tail correction
	//for the Lennard-Jones energy beyond the cutoff.
	DispersionCorrection bool

	AtomOffsets      []*ChargeOffset
	ExceptionOffsets []*ExceptionOffset

	excl     map[int64]bool
	tailC6   float64
	tailC12  float64
	tailDone bool
}

//NewNonbondedForce returns a nonbonded term for n atoms, with zeroed
//parameters, the given cutoff (A) and reaction-field dielectric.
func NewNonbondedForce(n int, cutoff, epsRF float64) *NonbondedForce {
	N := new(NonbondedForce)
	N.Charge = make([]float64, n)
	N.Sigma = make([]float64, n)
	N.Eps = make([]float64, n)
	N.Cutoff = cutoff
	N.EpsRF = epsRF
	N.excl = make(map[int64]bool)
	return N
}

//Len returns the number of atoms covered by the term.
func (N *NonbondedForce) Len() int {
	return len(N.Charge)
}

//SetParticle sets the charge (e), sigma (A) and epsilon (kcal/mol)
//of atom i. Panics if out of range.
func (N *NonbondedForce) SetParticle(i int, q, sigma, eps float64) {
	if i >= N.Len() {
		panic("alquimia: nonbonded particle out of bounds")
	}
	N.Charge[i] = q
	N.Sigma[i] = sigma
	N.Eps[i] = eps
	N.tailDone = false
}

//AddException adds an exception for the pair (i,j) and returns its index.
//The pair is excluded from the regular loop no matter the values given.
func (N *NonbondedForce) AddException(i, j int, qq, sigma, eps float64) int {
	if i == j || i >= N.Len() || j >= N.Len() {
		panic("alquimia: malformed nonbonded exception")
	}
	N.Exceptions = append(N.Exceptions, &Exception{I: i, J: j, QQ: qq, Sigma: sigma, Eps: eps})
	N.excl[pairKey(i, j, N.Len())] = true
	N.tailDone = false
	return len(N.Exceptions) - 1
}

//AddChargeOffset ties the charge of atom i to the global parameter param,
//with q_eff = q_base + scale*param.
func (N *NonbondedForce) AddChargeOffset(param string, i int, scale float64) {
	N.AtomOffsets = append(N.AtomOffsets, &ChargeOffset{Param: param, Atom: i, Scale: scale})
}

//AddExceptionOffset ties the charge product of the index-th exception to the
//global parameter param.
func (N *NonbondedForce) AddExceptionOffset(param string, index int, scale float64) {
	if index >= len(N.Exceptions) {
		panic("alquimia: exception offset out of bounds")
	}
	N.ExceptionOffsets = append(N.ExceptionOffsets, &ExceptionOffset{Param: param, Index: index, Scale: scale})
}

func pairKey(i, j, n int) int64 {
	if i > j {
		i, j = j, i
	}
	return int64(i)*int64(n) + int64(j)
}

//effectiveCharges returns the per-atom charges after applying the offsets,
//writing them into the buffer buf (which is grown if needed).
func (N *NonbondedForce) effectiveCharges(p Params, buf []float64) []float64 {
	if cap(buf) < N.Len() {
		buf = make([]float64, N.Len())
	}
	buf = buf[:N.Len()]
	copy(buf, N.Charge)
	for _, o := range N.AtomOffsets {
		buf[o.Atom] += o.Scale * p.Value(o.Param)
	}
	return buf
}

//effectiveQQ returns the charge product for the index-th exception after
//applying the offsets.
func (N *NonbondedForce) effectiveQQ(index int, p Params) float64 {
	qq := N.Exceptions[index].QQ
	for _, o := range N.ExceptionOffsets {
		if o.Index == index {
			qq += o.Scale * p.Value(o.Param)
		}
	}
	return qq
}

//rfConstants returns the reaction-field constants krf and crf for the
//current cutoff. With EpsRF==0 both are zero and the electrostatics are
//plainly truncated.
func (N *NonbondedForce) rfConstants() (krf, crf float64) {
	if N.EpsRF == 0 || N.Cutoff == 0 {
		return 0, 0
	}
	rc := N.Cutoff
	krf = (1 / (rc * rc * rc)) * (N.EpsRF - 1) / (2*N.EpsRF + 1)
	crf = (1 / rc) * 3 * N.EpsRF / (2*N.EpsRF + 1)
	return krf, crf
}

//tailSums accumulates the pair sums needed by the dispersion correction.
//They only depend on the vdW parameters, so they are cached until some
//particle or exception changes.
func (N *NonbondedForce) tailSums() (c6, c12 float64) {
	if N.tailDone {
		return N.tailC6, N.tailC12
	}
	n := N.Len()
	c6, c12 = 0, 0
	for i := 0; i < n-1; i++ {
		for j := i + 1; j < n; j++ {
			if N.excl[pairKey(i, j, n)] {
				continue
			}
			sig, eps := lorentzBerthelot(N.Sigma[i], N.Eps[i], N.Sigma[j], N.Eps[j])
			s6 := math.Pow(sig, 6)
			c6 += eps * s6
			c12 += eps * s6 * s6
		}
	}
	N.tailC6, N.tailC12, N.tailDone = c6, c12, true
	return c6, c12
}

//tailCorrection is the isotropic long-range correction to the truncated
//Lennard-Jones energy, assuming g(r)=1 beyond the cutoff.
func (N *NonbondedForce) tailCorrection(box [3]float64) float64 {
	if !N.DispersionCorrection || N.Cutoff == 0 {
		return 0
	}
	vol := box[0] * box[1] * box[2]
	if vol == 0 {
		return 0
	}
	c6, c12 := N.tailSums()
	rc3 := math.Pow(N.Cutoff, 3)
	rc9 := rc3 * rc3 * rc3
	return (8 * math.Pi / vol) * (c12/(3*rc9) - c6/rc3)
}

//Energy returns the nonbonded energy, in kcal/mol. It satisfies the
//Force purity requirement: no observable state changes here.
func (N *NonbondedForce) Energy(c *mat.Dense, box [3]float64, p Params) float64 {
	n := N.Len()
	q := N.effectiveCharges(p, nil)
	krf, crf := N.rfConstants()
	var d [3]float64
	E := 0.0
	for i := 0; i < n-1; i++ {
		for j := i + 1; j < n; j++ {
			if N.excl[pairKey(i, j, n)] {
				continue
			}
			delta(&d, c, i, j, box)
			r := norm(&d)
			if N.Cutoff > 0 && r > N.Cutoff {
				continue
			}
			sig, eps := lorentzBerthelot(N.Sigma[i], N.Eps[i], N.Sigma[j], N.Eps[j])
			if eps != 0 {
				x := math.Pow(sig/r, 6)
				E += 4 * eps * x * (x - 1)
			}
			qq := q[i] * q[j]
			if qq != 0 {
				E += CoulombK * qq * (1/r + krf*r*r - crf)
			}
		}
	}
	for k, e := range N.Exceptions {
		qq := N.effectiveQQ(k, p)
		if qq == 0 && e.Eps == 0 {
			continue
		}
		delta(&d, c, e.I, e.J, box)
		r := norm(&d)
		if e.Eps != 0 {
			x := math.Pow(e.Sigma/r, 6)
			E += 4 * e.Eps * x * (x - 1)
		}
		if qq != 0 {
			E += CoulombK * qq / r
		}
	}
	return E + N.tailCorrection(box)
}

//AddForces accumulates the nonbonded forces into dst. The tail correction
//does not depend on the coordinates, so it contributes nothing here.
func (N *NonbondedForce) AddForces(dst, c *mat.Dense, box [3]float64, p Params) {
	n := N.Len()
	q := N.effectiveCharges(p, nil)
	krf, _ := N.rfConstants()
	var d [3]float64
	for i := 0; i < n-1; i++ {
		for j := i + 1; j < n; j++ {
			if N.excl[pairKey(i, j, n)] {
				continue
			}
			delta(&d, c, i, j, box)
			r := norm(&d)
			if N.Cutoff > 0 && r > N.Cutoff {
				continue
			}
			dEdr := 0.0
			sig, eps := lorentzBerthelot(N.Sigma[i], N.Eps[i], N.Sigma[j], N.Eps[j])
			if eps != 0 {
				x := math.Pow(sig/r, 6)
				dEdr += -24 * eps * x * (2*x - 1) / r
			}
			qq := q[i] * q[j]
			if qq != 0 {
				dEdr += CoulombK * qq * (-1/(r*r) + 2*krf*r)
			}
			//F_i = -dE/dr * d/r
			addScaled(dst, i, -dEdr/r, &d)
			addScaled(dst, j, dEdr/r, &d)
		}
	}
	for k, e := range N.Exceptions {
		qq := N.effectiveQQ(k, p)
		if qq == 0 && e.Eps == 0 {
			continue
		}
		delta(&d, c, e.I, e.J, box)
		r := norm(&d)
		dEdr := 0.0
		if e.Eps != 0 {
			x := math.Pow(e.Sigma/r, 6)
			dEdr += -24 * e.Eps * x * (2*x - 1) / r
		}
		if qq != 0 {
			dEdr += -CoulombK * qq / (r * r)
		}
		addScaled(dst, e.I, -dEdr/r, &d)
		addScaled(dst, e.J, dEdr/r, &d)
	}
}
