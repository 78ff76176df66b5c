/*
 * system.go, part of alquimia.
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
	"fmt"

	"gonum.org/v1/gonum/mat"
)

/**Note: Several functions here panic instead of returning errors. They are "fundamental"
 * functions: if something goes wrong in them, the program is way-most likely wrong
 * and should crash. The panics are related to out-of-bounds or nil receivers.**/

//Atom contains the time-independent information for one atom. Coordinates and
//velocities are kept apart, in the Context, as they change along a trajectory.
type Atom struct {
	Name    string
	ID      int
	Molname string
	Molid   int
	Symbol  string
	Mass    float64
	Charge  float64 //the force-field charge, in e. The value actually used by the nonbonded term lives in that term.
}

//Copy returns a copy of the Atom object.
func (A *Atom) Copy() *Atom {
	if A == nil {
		panic("alquimia: attempted to copy a nil atom")
	}
	at := new(Atom)
	*at = *A
	return at
}

//Params holds the named global parameters of a context, such as the alchemical
//coupling parameters. A parameter that has never been set is taken as 1.0
//(fully coupled), so an un-alchemized system behaves as the plain force field.
type Params map[string]float64

//Value returns the value for the parameter name, or 1.0 if it was never set.
func (P Params) Value(name string) float64 {
	if P == nil {
		return 1.0
	}
	v, ok := P[name]
	if !ok {
		return 1.0
	}
	return v
}

//Copy returns a copy of the parameter set.
func (P Params) Copy() Params {
	ret := make(Params, len(P))
	for k, v := range P {
		ret[k] = v
	}
	return ret
}

//Force is an interaction term. Energy must be a pure function of
//(coordinates, box, parameters): evaluating it, at any parameter value,
//cannot change anything observable about the term or the system. The
//alchemical bookkeeping relies on that purity.
type Force interface {
	//Energy returns the potential energy of the term, in kcal/mol,
	//for the N x 3 coordinate matrix c.
	Energy(c *mat.Dense, box [3]float64, p Params) float64

	//AddForces accumulates the forces of the term (-dE/dx, kcal/(mol A))
	//into the N x 3 matrix dst.
	AddForces(dst, c *mat.Dense, box [3]float64, p Params)
}

//System is a molecular system: its atoms, its interaction terms and its
//periodic box (orthorhombic, A). It says nothing about any particular
//microstate; positions and velocities belong to a Context.
type System struct {
	Atoms []*Atom
	Box   [3]float64
	funcs []Force
}

//NewSystem returns a system with the given atoms and no interaction terms.
//It returns an error if atoms is nil.
func NewSystem(atoms []*Atom) (*System, error) {
	if atoms == nil {
		return nil, fmt.Errorf("alquimia.NewSystem: nil atom slice")
	}
	S := new(System)
	S.Atoms = atoms
	return S, nil
}

//Len returns the number of atoms in the system.
func (S *System) Len() int {
	return len(S.Atoms)
}

//Atom returns the i-th atom of the system. Panics if out of range.
func (S *System) Atom(i int) *Atom {
	if i >= S.Len() {
		panic("alquimia: requested Atom out of bounds")
	}
	return S.Atoms[i]
}

//AddForce appends an interaction term to the system.
func (S *System) AddForce(f Force) {
	if f == nil {
		panic("alquimia: attempted to add a nil Force")
	}
	S.funcs = append(S.funcs, f)
}

//Forces returns the interaction terms of the system.
func (S *System) Forces() []Force {
	return S.funcs
}

//Masses returns a slice with the masses of all atoms, and an error if
//any of them is not available.
func (S *System) Masses() ([]float64, error) {
	masses := make([]float64, S.Len())
	for i, v := range S.Atoms {
		if v.Mass == 0 {
			return nil, fmt.Errorf("alquimia.Masses: no mass for atom %d (%s)", i, v.Name)
		}
		masses[i] = v.Mass
	}
	return masses, nil
}

//Nonbonded returns the one base nonbonded term of the system. If the system
//has none, or more than one, it returns a MissingNonbondedError: with several
//base terms there is no well defined target for an alchemical modification.
func (S *System) Nonbonded() (*NonbondedForce, error) {
	var ret *NonbondedForce
	found := 0
	for _, v := range S.funcs {
		if nb, ok := v.(*NonbondedForce); ok {
			ret = nb
			found++
		}
	}
	if found != 1 {
		return nil, &MissingNonbondedError{found: found}
	}
	return ret, nil
}

//Energy returns the total potential energy of the system, in kcal/mol,
//for the coordinates c and parameters p.
func (S *System) Energy(c *mat.Dense, p Params) float64 {
	E := 0.0
	for _, v := range S.funcs {
		E += v.Energy(c, S.Box, p)
	}
	return E
}

//AddForces accumulates the forces from every term of the system into dst.
func (S *System) AddForces(dst, c *mat.Dense, p Params) {
	for _, v := range S.funcs {
		v.AddForces(dst, c, S.Box, p)
	}
}
