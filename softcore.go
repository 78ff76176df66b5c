/*
 * softcore.go, part of alquimia.
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

//The soft-core form used here is the Beutler-type potential
//
//	E = lambda * 4*eps*x*(x-1),  x = 1/(alpha*(1-lambda) + (r/sigma)^6)
//
//with alpha=0.5. It equals the plain Lennard-Jones interaction at lambda=1
//and vanishes smoothly, without the r->0 singularity, as lambda goes to 0.

//SoftcoreAlpha is the softness constant of the soft-core Lennard-Jones form.
const SoftcoreAlpha = 0.5

//SoftcorePairForce computes soft-core Lennard-Jones interactions between
//every atom of Group1 and every atom of Group2, scaled by the global
//parameter Param. Pairs present in the excluded list are skipped. Cutoff
//and DispersionCorrection are meant to mirror the base nonbonded term the
//interactions were taken from, so the energetics away from the solute
//stay what they were.
type SoftcorePairForce struct {
	Param  string
	Group1 []int
	Group2 []int
	Sigma  []float64 //per atom, indexed like the system
	Eps    []float64

	Cutoff               float64
	DispersionCorrection bool

	excl map[int64]bool
	n    int

	tailC6   float64
	tailC12  float64
	tailDone bool
}

//NewSoftcorePairForce returns a soft-core term between group1 and group2,
//controlled by the global parameter param. The sigma/eps slices must be
//indexed like the atoms of the system (only the entries of the two groups
//are ever read).
func NewSoftcorePairForce(param string, group1, group2 []int, sigma, eps []float64, cutoff float64) *SoftcorePairForce {
	S := new(SoftcorePairForce)
	S.Param = param
	S.Group1 = group1
	S.Group2 = group2
	S.Sigma = sigma
	S.Eps = eps
	S.Cutoff = cutoff
	S.n = len(sigma)
	S.excl = make(map[int64]bool)
	return S
}

//AddExclusion removes the pair (i,j) from the term.
func (S *SoftcorePairForce) AddExclusion(i, j int) {
	S.excl[pairKey(i, j, S.n)] = true
	S.tailDone = false
}

//softcoreX returns x and dx/dr for one pair.
func softcoreX(r, sigma, lambda float64) (x, dxdr float64) {
	r6 := math.Pow(r/sigma, 6)
	den := SoftcoreAlpha*(1-lambda) + r6
	x = 1 / den
	dxdr = -x * x * 6 * r6 / r
	return x, dxdr
}

func (S *SoftcorePairForce) tailSums() (c6, c12 float64) {
	if S.tailDone {
		return S.tailC6, S.tailC12
	}
	for _, i := range S.Group1 {
		for _, j := range S.Group2 {
			if S.excl[pairKey(i, j, S.n)] {
				continue
			}
			sig, eps := lorentzBerthelot(S.Sigma[i], S.Eps[i], S.Sigma[j], S.Eps[j])
			s6 := math.Pow(sig, 6)
			c6 += eps * s6
			c12 += eps * s6 * s6
		}
	}
	S.tailC6, S.tailC12, S.tailDone = c6, c12, true
	return c6, c12
}

//tailCorrection scales the plain Lennard-Jones tail by lambda. Beyond any
//reasonable cutoff the soft-core denominator is dominated by (r/sigma)^6,
//so the term reduces there to lambda times plain Lennard-Jones.
func (S *SoftcorePairForce) tailCorrection(box [3]float64, lambda float64) float64 {
	if !S.DispersionCorrection || S.Cutoff == 0 {
		return 0
	}
	vol := box[0] * box[1] * box[2]
	if vol == 0 {
		return 0
	}
	c6, c12 := S.tailSums()
	rc3 := math.Pow(S.Cutoff, 3)
	rc9 := rc3 * rc3 * rc3
	return lambda * (8 * math.Pi / vol) * (c12/(3*rc9) - c6/rc3)
}

func (S *SoftcorePairForce) Energy(c *mat.Dense, box [3]float64, p Params) float64 {
	lambda := p.Value(S.Param)
	if lambda == 0 {
		return 0
	}
	var d [3]float64
	E := 0.0
	for _, i := range S.Group1 {
		for _, j := range S.Group2 {
			if S.excl[pairKey(i, j, S.n)] {
				continue
			}
			sig, eps := lorentzBerthelot(S.Sigma[i], S.Eps[i], S.Sigma[j], S.Eps[j])
			if eps == 0 {
				continue
			}
			delta(&d, c, i, j, box)
			r := norm(&d)
			if S.Cutoff > 0 && r > S.Cutoff {
				continue
			}
			x, _ := softcoreX(r, sig, lambda)
			E += lambda * 4 * eps * x * (x - 1)
		}
	}
	return E + S.tailCorrection(box, lambda)
}

func (S *SoftcorePairForce) AddForces(dst, c *mat.Dense, box [3]float64, p Params) {
	lambda := p.Value(S.Param)
	if lambda == 0 {
		return
	}
	var d [3]float64
	for _, i := range S.Group1 {
		for _, j := range S.Group2 {
			if S.excl[pairKey(i, j, S.n)] {
				continue
			}
			sig, eps := lorentzBerthelot(S.Sigma[i], S.Eps[i], S.Sigma[j], S.Eps[j])
			if eps == 0 {
				continue
			}
			delta(&d, c, i, j, box)
			r := norm(&d)
			if S.Cutoff > 0 && r > S.Cutoff {
				continue
			}
			x, dxdr := softcoreX(r, sig, lambda)
			dEdr := lambda * 4 * eps * (2*x - 1) * dxdr
			addScaled(dst, i, -dEdr/r, &d)
			addScaled(dst, j, dEdr/r, &d)
		}
	}
}

//IntraLJForce is a bonded-style Lennard-Jones pair list. The intra-solute
//interactions are routed here, unscaled, when the solute vdW is soft-cored:
//keeping them in a pairwise term with its own lists avoids the
//exclusion/cutoff inconsistencies of leaving them in either the base or the
//soft-core term. Pairs that came from the regular loop of the base term keep
//its cutoff and count toward a dispersion tail mirroring it; pairs that came
//from exceptions (the scaled 1-4 terms) are evaluated without cutoff and
//without tail, as the base exceptions were.
type IntraLJForce struct {
	Pairs []*Exception //cutoff-free 1-4 style pairs. QQ is ignored here.
	Cut   []*Exception //subject to Cutoff, counted in the tail

	Cutoff               float64
	DispersionCorrection bool

	tailC6   float64
	tailC12  float64
	tailDone bool
}

//Add appends a cutoff-free pair with its own sigma and epsilon.
func (L *IntraLJForce) Add(i, j int, sigma, eps float64) {
	L.Pairs = append(L.Pairs, &Exception{I: i, J: j, Sigma: sigma, Eps: eps})
}

//AddCut appends a pair subject to the cutoff and counted in the
//dispersion tail.
func (L *IntraLJForce) AddCut(i, j int, sigma, eps float64) {
	L.Cut = append(L.Cut, &Exception{I: i, J: j, Sigma: sigma, Eps: eps})
	L.tailDone = false
}

func (L *IntraLJForce) tailSums() (c6, c12 float64) {
	if L.tailDone {
		return L.tailC6, L.tailC12
	}
	for _, e := range L.Cut {
		s6 := math.Pow(e.Sigma, 6)
		c6 += e.Eps * s6
		c12 += e.Eps * s6 * s6
	}
	L.tailC6, L.tailC12, L.tailDone = c6, c12, true
	return c6, c12
}

//tailCorrection is the same isotropic tail as the base term, restricted to
//the pairs the base regular loop used to count. No scaling: the intra-solute
//interaction stays fully on at every value of the coupling parameters.
func (L *IntraLJForce) tailCorrection(box [3]float64) float64 {
	if !L.DispersionCorrection || L.Cutoff == 0 {
		return 0
	}
	vol := box[0] * box[1] * box[2]
	if vol == 0 {
		return 0
	}
	c6, c12 := L.tailSums()
	rc3 := math.Pow(L.Cutoff, 3)
	rc9 := rc3 * rc3 * rc3
	return (8 * math.Pi / vol) * (c12/(3*rc9) - c6/rc3)
}

func (L *IntraLJForce) Energy(c *mat.Dense, box [3]float64, p Params) float64 {
	var d [3]float64
	E := 0.0
	for _, e := range L.Pairs {
		if e.Eps == 0 {
			continue
		}
		delta(&d, c, e.I, e.J, box)
		r := norm(&d)
		x := math.Pow(e.Sigma/r, 6)
		E += 4 * e.Eps * x * (x - 1)
	}
	for _, e := range L.Cut {
		if e.Eps == 0 {
			continue
		}
		delta(&d, c, e.I, e.J, box)
		r := norm(&d)
		if L.Cutoff > 0 && r > L.Cutoff {
			continue
		}
		x := math.Pow(e.Sigma/r, 6)
		E += 4 * e.Eps * x * (x - 1)
	}
	return E + L.tailCorrection(box)
}

func (L *IntraLJForce) AddForces(dst, c *mat.Dense, box [3]float64, p Params) {
	var d [3]float64
	pair := func(e *Exception, cut bool) {
		if e.Eps == 0 {
			return
		}
		delta(&d, c, e.I, e.J, box)
		r := norm(&d)
		if cut && L.Cutoff > 0 && r > L.Cutoff {
			return
		}
		x := math.Pow(e.Sigma/r, 6)
		dEdr := -24 * e.Eps * x * (2*x - 1) / r
		addScaled(dst, e.I, -dEdr/r, &d)
		addScaled(dst, e.J, dEdr/r, &d)
	}
	for _, e := range L.Pairs {
		pair(e, false)
	}
	for _, e := range L.Cut {
		pair(e, true)
	}
}
