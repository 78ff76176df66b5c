/*
 * solvate.go, part of alquimia.
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

package hfe

import (
	"fmt"
	"math"

	"github.com/rmera/alquimia"
	"gonum.org/v1/gonum/mat"
)

//waterSpacing is the cubic lattice constant reproducing the density of
//liquid water (0.0334 molecules/A^3).
const waterSpacing = 3.104

//waterClearance is the minimum O-to-solute distance for a lattice water
//to survive.
const waterClearance = 2.6

//Solvate puts the solute in a rectangular box with the requested padding
//of lattice water on each side, dropping waters that clash with it. It
//returns a new system (the input one is not touched) whose first
//sys.Len() atoms are the solute, plus the merged coordinates. The water
//parameters, and the cutoff and reaction-field settings of the solute's
//nonbonded term, carry over to the result.
func Solvate(sys *alquimia.System, coord *mat.Dense, model *alquimia.WaterModel, padding float64) (*alquimia.System, *mat.Dense, error) {
	ns := sys.Len()
	if r, _ := coord.Dims(); r != ns {
		return nil, nil, fmt.Errorf("hfe.Solvate: %d coordinates for %d atoms", r, ns)
	}
	nbOld, err := sys.Nonbonded()
	if err != nil {
		return nil, nil, err
	}
	var min, max [3]float64
	for k := 0; k < 3; k++ {
		min[k], max[k] = coord.At(0, k), coord.At(0, k)
	}
	for i := 1; i < ns; i++ {
		for k := 0; k < 3; k++ {
			v := coord.At(i, k)
			min[k] = math.Min(min[k], v)
			max[k] = math.Max(max[k], v)
		}
	}
	var box [3]float64
	for k := 0; k < 3; k++ {
		box[k] = (max[k] - min[k]) + 2*padding
		if box[k] < 2*nbOld.Cutoff {
			return nil, nil, fmt.Errorf("hfe.Solvate: box side %.1f A smaller than twice the cutoff; increase the padding", box[k])
		}
	}
	//solute shifted so the box spans [0, L) on each axis
	solcoord := make([]float64, 0, 3*ns)
	for i := 0; i < ns; i++ {
		for k := 0; k < 3; k++ {
			solcoord = append(solcoord, coord.At(i, k)-min[k]+padding)
		}
	}
	//candidate oxygen sites on a cubic lattice, pruned against the solute
	var osites [][3]float64
	for x := waterSpacing / 2; x < box[0]; x += waterSpacing {
		for y := waterSpacing / 2; y < box[1]; y += waterSpacing {
		site:
			for z := waterSpacing / 2; z < box[2]; z += waterSpacing {
				for i := 0; i < ns; i++ {
					dx := x - solcoord[3*i]
					dy := y - solcoord[3*i+1]
					dz := z - solcoord[3*i+2]
					if dx*dx+dy*dy+dz*dz < waterClearance*waterClearance {
						continue site
					}
				}
				osites = append(osites, [3]float64{x, y, z})
			}
		}
	}
	nw := len(osites)
	if nw == 0 {
		return nil, nil, fmt.Errorf("hfe.Solvate: no room for any water")
	}
	ntot := ns + 3*nw
	atoms := make([]*alquimia.Atom, 0, ntot)
	for i := 0; i < ns; i++ {
		a := *sys.Atom(i)
		atoms = append(atoms, &a)
	}
	lastmol := 0
	if ns > 0 {
		lastmol = sys.Atom(ns - 1).Molid
	}
	names := [3]string{"O", "H1", "H2"}
	symbols := [3]string{"O", "H", "H"}
	masses := [3]float64{model.MassO, model.MassH, model.MassH}
	for w := 0; w < nw; w++ {
		for j := 0; j < 3; j++ {
			atoms = append(atoms, &alquimia.Atom{
				Name:    names[j],
				ID:      ns + 3*w + j + 1,
				Molname: "WAT",
				Molid:   lastmol + w + 1,
				Symbol:  symbols[j],
				Mass:    masses[j],
			})
		}
	}
	merged, err := alquimia.NewSystem(atoms)
	if err != nil {
		return nil, nil, err
	}
	merged.Box = box

	nb := alquimia.NewNonbondedForce(ntot, nbOld.Cutoff, nbOld.EpsRF)
	nb.DispersionCorrection = nbOld.DispersionCorrection
	for i := 0; i < ns; i++ {
		nb.SetParticle(i, nbOld.Charge[i], nbOld.Sigma[i], nbOld.Eps[i])
	}
	for _, e := range nbOld.Exceptions {
		nb.AddException(e.I, e.J, e.QQ, e.Sigma, e.Eps)
	}
	//exception indices are preserved, so offsets can carry over as-is
	for _, o := range nbOld.AtomOffsets {
		nb.AddChargeOffset(o.Param, o.Atom, o.Scale)
	}
	for _, o := range nbOld.ExceptionOffsets {
		nb.AddExceptionOffset(o.Param, o.Index, o.Scale)
	}
	bonds := new(alquimia.HarmonicBondForce)
	angles := new(alquimia.HarmonicAngleForce)
	torsions := new(alquimia.PeriodicTorsionForce)
	for _, f := range sys.Forces() {
		switch v := f.(type) {
		case *alquimia.HarmonicBondForce:
			for _, b := range v.Bonds {
				bonds.Add(b.I, b.J, b.R0, b.K)
			}
		case *alquimia.HarmonicAngleForce:
			for _, a := range v.Angles {
				angles.Add(a.I, a.J, a.K, a.Theta0, a.Kf)
			}
		case *alquimia.PeriodicTorsionForce:
			for _, t := range v.Torsions {
				torsions.Add(t.I, t.J, t.K, t.L, t.N, t.Phase, t.Kf)
			}
		case *alquimia.NonbondedForce: //already copied
		default:
			return nil, nil, fmt.Errorf("hfe.Solvate: can not merge a system that already carries a %T", f)
		}
	}
	mcoord := append([]float64{}, solcoord...)
	sin, cos := math.Sincos(model.AngleHOH)
	for w, p := range osites {
		o := ns + 3*w
		nb.SetParticle(o, model.QO, model.SigO, model.EpsO)
		nb.SetParticle(o+1, model.QH, model.SigH, model.EpsH)
		nb.SetParticle(o+2, model.QH, model.SigH, model.EpsH)
		nb.AddException(o, o+1, 0, 1, 0)
		nb.AddException(o, o+2, 0, 1, 0)
		nb.AddException(o+1, o+2, 0, 1, 0)
		bonds.Add(o, o+1, model.ROH, model.KBond)
		bonds.Add(o, o+2, model.ROH, model.KBond)
		angles.Add(o+1, o, o+2, model.AngleHOH, model.KAngle)
		mcoord = append(mcoord,
			p[0], p[1], p[2],
			p[0]+model.ROH, p[1], p[2],
			p[0]+model.ROH*cos, p[1]+model.ROH*sin, p[2])
	}
	merged.AddForce(nb)
	merged.AddForce(bonds)
	merged.AddForce(angles)
	if len(torsions.Torsions) > 0 {
		merged.AddForce(torsions)
	}
	return merged, mat.NewDense(ntot, 3, mcoord), nil
}
