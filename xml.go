/*
 * xml.go, part of alquimia.
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
	"encoding/xml"
	"fmt"
	"io"
	"os"
)

//An XML rendition of the interaction model, for reproducibility: the file
//records every particle, every term and every alchemical offset, so a run
//can be audited (or rebuilt) without the original topology files.

type xmlParticle struct {
	ID     int     `xml:"id,attr"`
	Name   string  `xml:"name,attr"`
	Mass   float64 `xml:"mass,attr"`
	Charge float64 `xml:"q,attr"`
	Sigma  float64 `xml:"sig,attr"`
	Eps    float64 `xml:"eps,attr"`
}

type xmlException struct {
	I     int     `xml:"i,attr"`
	J     int     `xml:"j,attr"`
	QQ    float64 `xml:"qq,attr"`
	Sigma float64 `xml:"sig,attr"`
	Eps   float64 `xml:"eps,attr"`
}

type xmlOffset struct {
	Param string  `xml:"param,attr"`
	Index int     `xml:"index,attr"`
	Scale float64 `xml:"scale,attr"`
}

type xmlNonbonded struct {
	Cutoff     float64        `xml:"cutoff,attr"`
	EpsRF      float64        `xml:"epsRF,attr"`
	Dispersion bool           `xml:"dispersionCorrection,attr"`
	Exceptions []xmlException `xml:"Exception"`
	AtomOffs   []xmlOffset    `xml:"ChargeOffset"`
	ExcOffs    []xmlOffset    `xml:"ExceptionOffset"`
}

type xmlBond struct {
	I  int     `xml:"i,attr"`
	J  int     `xml:"j,attr"`
	R0 float64 `xml:"r0,attr"`
	K  float64 `xml:"k,attr"`
}

type xmlAngle struct {
	I      int     `xml:"i,attr"`
	J      int     `xml:"j,attr"`
	K      int     `xml:"k,attr"`
	Theta0 float64 `xml:"theta0,attr"`
	Kf     float64 `xml:"kf,attr"`
}

type xmlTorsion struct {
	I     int     `xml:"i,attr"`
	J     int     `xml:"j,attr"`
	K     int     `xml:"k,attr"`
	L     int     `xml:"l,attr"`
	N     int     `xml:"n,attr"`
	Phase float64 `xml:"phase,attr"`
	Kf    float64 `xml:"kf,attr"`
}

type xmlSoftcore struct {
	Param      string         `xml:"param,attr"`
	Alpha      float64        `xml:"alpha,attr"`
	Cutoff     float64        `xml:"cutoff,attr"`
	Dispersion bool           `xml:"dispersionCorrection,attr"`
	Group1     []int          `xml:"Group1>Atom"`
	Group2     []int          `xml:"Group2>Atom"`
}

type xmlIntraLJ struct {
	Cutoff     float64        `xml:"cutoff,attr"`
	Dispersion bool           `xml:"dispersion,attr"`
	Pairs      []xmlException `xml:"Pair"`
	Cut        []xmlException `xml:"CutPair"`
}

type xmlSystem struct {
	XMLName   xml.Name      `xml:"System"`
	Box       [3]float64    `xml:"box,attr"`
	Particles []xmlParticle `xml:"Particles>Particle"`
	Nonbonded []xmlNonbonded
	Bonds     []xmlBond     `xml:"HarmonicBond"`
	Angles    []xmlAngle    `xml:"HarmonicAngle"`
	Torsions  []xmlTorsion  `xml:"PeriodicTorsion"`
	Softcore  []xmlSoftcore `xml:"SoftcorePair"`
	IntraLJ   []xmlIntraLJ  `xml:"IntraLJ"`
}

//WriteXML writes an XML representation of the system and its interaction
//terms to w.
func (S *System) WriteXML(w io.Writer) error {
	x := new(xmlSystem)
	x.Box = S.Box
	var nb *NonbondedForce
	for _, f := range S.funcs {
		if v, ok := f.(*NonbondedForce); ok {
			nb = v
		}
	}
	for i, at := range S.Atoms {
		p := xmlParticle{ID: i, Name: at.Name, Mass: at.Mass, Charge: at.Charge}
		if nb != nil {
			p.Charge = nb.Charge[i]
			p.Sigma = nb.Sigma[i]
			p.Eps = nb.Eps[i]
		}
		x.Particles = append(x.Particles, p)
	}
	for _, f := range S.funcs {
		switch v := f.(type) {
		case *NonbondedForce:
			e := xmlNonbonded{Cutoff: v.Cutoff, EpsRF: v.EpsRF, Dispersion: v.DispersionCorrection}
			for _, ex := range v.Exceptions {
				e.Exceptions = append(e.Exceptions, xmlException{I: ex.I, J: ex.J, QQ: ex.QQ, Sigma: ex.Sigma, Eps: ex.Eps})
			}
			for _, o := range v.AtomOffsets {
				e.AtomOffs = append(e.AtomOffs, xmlOffset{Param: o.Param, Index: o.Atom, Scale: o.Scale})
			}
			for _, o := range v.ExceptionOffsets {
				e.ExcOffs = append(e.ExcOffs, xmlOffset{Param: o.Param, Index: o.Index, Scale: o.Scale})
			}
			x.Nonbonded = append(x.Nonbonded, e)
		case *HarmonicBondForce:
			for _, b := range v.Bonds {
				x.Bonds = append(x.Bonds, xmlBond{I: b.I, J: b.J, R0: b.R0, K: b.K})
			}
		case *HarmonicAngleForce:
			for _, a := range v.Angles {
				x.Angles = append(x.Angles, xmlAngle{I: a.I, J: a.J, K: a.K, Theta0: a.Theta0, Kf: a.Kf})
			}
		case *PeriodicTorsionForce:
			for _, t := range v.Torsions {
				x.Torsions = append(x.Torsions, xmlTorsion{I: t.I, J: t.J, K: t.K, L: t.L, N: t.N, Phase: t.Phase, Kf: t.Kf})
			}
		case *SoftcorePairForce:
			x.Softcore = append(x.Softcore, xmlSoftcore{Param: v.Param, Alpha: SoftcoreAlpha,
				Cutoff: v.Cutoff, Dispersion: v.DispersionCorrection, Group1: v.Group1, Group2: v.Group2})
		case *IntraLJForce:
			e := xmlIntraLJ{Cutoff: v.Cutoff, Dispersion: v.DispersionCorrection}
			for _, pr := range v.Pairs {
				e.Pairs = append(e.Pairs, xmlException{I: pr.I, J: pr.J, Sigma: pr.Sigma, Eps: pr.Eps})
			}
			for _, pr := range v.Cut {
				e.Cut = append(e.Cut, xmlException{I: pr.I, J: pr.J, Sigma: pr.Sigma, Eps: pr.Eps})
			}
			x.IntraLJ = append(x.IntraLJ, e)
		}
	}
	//xml.Header already carries its newline
	if _, err := fmt.Fprint(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", " ")
	if err := enc.Encode(x); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}

//SaveXML writes the XML representation of the system to a file.
func (S *System) SaveXML(name string) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer f.Close()
	return S.WriteXML(f)
}
