/*
 * forcefield.go, part of alquimia.
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

import "strings"

//ForceField selects the built-in solvent model used when no solvent
//topology files are given. The solute parameters always come from its own
//topology files, so this is the only force-field choice left to make here.
type ForceField int

const (
	//TIP3P is the flexible three-point water of Jorgensen et al., with
	//the harmonic terms commonly used in its unconstrained variant.
	TIP3P ForceField = iota
	//SPCE is the extended simple point charge water of Berendsen et al.
	SPCE
)

//ParseForceField maps a name to a supported force-field variant. Unknown
//names are an error, never a silent fallthrough: a run with no valid model
//would only fail later, at system-build time, with a worse message.
func ParseForceField(name string) (ForceField, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "tip3p":
		return TIP3P, nil
	case "spce", "spc/e":
		return SPCE, nil
	}
	return 0, &UnsupportedForceFieldError{name: name}
}

func (F ForceField) String() string {
	switch F {
	case TIP3P:
		return "tip3p"
	case SPCE:
		return "spce"
	}
	return "unknown"
}

//WaterModel holds the parameters of a flexible three-point water.
type WaterModel struct {
	QO, QH       float64 //e
	SigO, EpsO   float64 //A, kcal/mol
	SigH, EpsH   float64
	ROH          float64 //A
	AngleHOH     float64 //radians
	KBond        float64 //kcal/(mol A^2)
	KAngle       float64 //kcal/(mol rad^2)
	MassO, MassH float64
}

//Water returns the solvent parameters for the variant. It panics on an
//invalid receiver; use ParseForceField to obtain valid ones.
func (F ForceField) Water() *WaterModel {
	w := &WaterModel{
		SigH: 1.0, EpsH: 0,
		KBond: 450, KAngle: 55,
		MassO: 15.9994, MassH: 1.008,
	}
	switch F {
	case TIP3P:
		w.QO, w.QH = -0.834, 0.417
		w.SigO, w.EpsO = 3.15061, 0.1521
		w.ROH = 0.9572
		w.AngleHOH = Deg2Rad(104.52)
	case SPCE:
		w.QO, w.QH = -0.8476, 0.4238
		w.SigO, w.EpsO = 3.16557, 0.1553
		w.ROH = 1.0
		w.AngleHOH = Deg2Rad(109.47)
	default:
		panic("alquimia: invalid force field variant")
	}
	return w
}
