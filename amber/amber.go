/*
 * amber.go, part of alquimia.
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

//Package amber reads Amber prmtop/inpcrd file pairs, as produced by tleap
//and friends, and assembles alquimia systems from them.
package amber

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rmera/alquimia"
	"github.com/rmera/scu"
	"gonum.org/v1/gonum/mat"
)

//chargeUnit is the factor between Amber internal charges and elementary
//charges (the square root of Amber's electrostatic constant).
const chargeUnit = 18.2223

//Topology is the raw content of a prmtop file, in Amber conventions:
//1-based type indices, internal charge units, coordinate-triple bond
//indices. Use System to turn it into something usable.
type Topology struct {
	Natom, Ntypes int

	AtomName []string
	Charge   []float64 //internal units
	Mass     []float64
	TypeIdx  []int //1-based
	AmberTyp []string

	ResLabel   []string
	ResPointer []int //1-based first atom of each residue

	NBIdx  []int //NONBONDED_PARM_INDEX, 1-based into Acoef/Bcoef
	Acoef  []float64
	Bcoef  []float64

	BondK, BondR0   []float64
	AngleK, AngleT0 []float64
	DihK, DihN      []float64
	DihPhase        []float64
	Scee, Scnb      []float64 //per dihedral type; empty means the old defaults

	Bonds     [][3]int //i3, j3, type(1-based)
	Angles    [][4]int
	Dihedrals [][5]int //k3<0: no 1-4 pair; l3<0: improper
}

type section struct {
	format string
	lines  []string
}

//ReadPrmtop parses a prmtop file. Only the sections alquimia needs are
//interpreted; anything else is read and ignored.
func ReadPrmtop(name string) (*Topology, error) {
	inp, err := scu.NewMustReadFile(name)
	if err != nil {
		return nil, err
	}
	defer inp.Close()
	secs := make(map[string]*section)
	var cur *section
	for i := inp.Next(); i != "EOF"; i = inp.Next() {
		line := strings.TrimRight(i, "\n")
		switch {
		case strings.HasPrefix(line, "%VERSION"):
			continue
		case strings.HasPrefix(line, "%FLAG"):
			f := strings.Fields(line)
			if len(f) < 2 {
				return nil, fmt.Errorf("amber.ReadPrmtop %s: malformed %%FLAG line: %q", name, line)
			}
			cur = new(section)
			secs[f[1]] = cur
		case strings.HasPrefix(line, "%FORMAT"):
			if cur == nil {
				return nil, fmt.Errorf("amber.ReadPrmtop %s: %%FORMAT with no preceding %%FLAG", name)
			}
			cur.format = line
		case strings.HasPrefix(line, "%COMMENT"):
			continue
		default:
			if cur != nil {
				cur.lines = append(cur.lines, line)
			}
		}
	}
	T := new(Topology)
	pointers, err := ints(secs, "POINTERS")
	if err != nil {
		return nil, err
	}
	if len(pointers) < 18 {
		return nil, fmt.Errorf("amber.ReadPrmtop %s: truncated POINTERS section", name)
	}
	T.Natom = pointers[0]
	T.Ntypes = pointers[1]
	nbonh, nbona := pointers[2], pointers[3]
	ntheth, ntheta := pointers[4], pointers[5]
	nphih, nphia := pointers[6], pointers[7]

	if T.AtomName, err = strs(secs, "ATOM_NAME"); err != nil {
		return nil, err
	}
	if T.Charge, err = floats(secs, "CHARGE"); err != nil {
		return nil, err
	}
	if T.Mass, err = floats(secs, "MASS"); err != nil {
		return nil, err
	}
	if T.TypeIdx, err = ints(secs, "ATOM_TYPE_INDEX"); err != nil {
		return nil, err
	}
	if T.AmberTyp, err = strs(secs, "AMBER_ATOM_TYPE"); err != nil {
		return nil, err
	}
	if T.ResLabel, err = strs(secs, "RESIDUE_LABEL"); err != nil {
		return nil, err
	}
	if T.ResPointer, err = ints(secs, "RESIDUE_POINTER"); err != nil {
		return nil, err
	}
	if T.NBIdx, err = ints(secs, "NONBONDED_PARM_INDEX"); err != nil {
		return nil, err
	}
	if T.Acoef, err = floats(secs, "LENNARD_JONES_ACOEF"); err != nil {
		return nil, err
	}
	if T.Bcoef, err = floats(secs, "LENNARD_JONES_BCOEF"); err != nil {
		return nil, err
	}
	if T.BondK, err = floats(secs, "BOND_FORCE_CONSTANT"); err != nil {
		return nil, err
	}
	if T.BondR0, err = floats(secs, "BOND_EQUIL_VALUE"); err != nil {
		return nil, err
	}
	if T.AngleK, err = floats(secs, "ANGLE_FORCE_CONSTANT"); err != nil {
		return nil, err
	}
	if T.AngleT0, err = floats(secs, "ANGLE_EQUIL_VALUE"); err != nil {
		return nil, err
	}
	if T.DihK, err = floats(secs, "DIHEDRAL_FORCE_CONSTANT"); err != nil {
		return nil, err
	}
	if T.DihN, err = floats(secs, "DIHEDRAL_PERIODICITY"); err != nil {
		return nil, err
	}
	if T.DihPhase, err = floats(secs, "DIHEDRAL_PHASE"); err != nil {
		return nil, err
	}
	//these two appeared in later Amber versions
	T.Scee, _ = floats(secs, "SCEE_SCALE_FACTOR")
	T.Scnb, _ = floats(secs, "SCNB_SCALE_FACTOR")

	bh, err := ints(secs, "BONDS_INC_HYDROGEN")
	if err != nil {
		return nil, err
	}
	ba, err := ints(secs, "BONDS_WITHOUT_HYDROGEN")
	if err != nil {
		return nil, err
	}
	all := append(bh, ba...)
	if len(all) != 3*(nbonh+nbona) {
		return nil, fmt.Errorf("amber.ReadPrmtop %s: expected %d bond entries, got %d", name, 3*(nbonh+nbona), len(all))
	}
	for i := 0; i < len(all); i += 3 {
		T.Bonds = append(T.Bonds, [3]int{all[i], all[i+1], all[i+2]})
	}
	ah, err := ints(secs, "ANGLES_INC_HYDROGEN")
	if err != nil {
		return nil, err
	}
	aa, err := ints(secs, "ANGLES_WITHOUT_HYDROGEN")
	if err != nil {
		return nil, err
	}
	all = append(ah, aa...)
	if len(all) != 4*(ntheth+ntheta) {
		return nil, fmt.Errorf("amber.ReadPrmtop %s: expected %d angle entries, got %d", name, 4*(ntheth+ntheta), len(all))
	}
	for i := 0; i < len(all); i += 4 {
		T.Angles = append(T.Angles, [4]int{all[i], all[i+1], all[i+2], all[i+3]})
	}
	dh, err := ints(secs, "DIHEDRALS_INC_HYDROGEN")
	if err != nil {
		return nil, err
	}
	da, err := ints(secs, "DIHEDRALS_WITHOUT_HYDROGEN")
	if err != nil {
		return nil, err
	}
	all = append(dh, da...)
	if len(all) != 5*(nphih+nphia) {
		return nil, fmt.Errorf("amber.ReadPrmtop %s: expected %d dihedral entries, got %d", name, 5*(nphih+nphia), len(all))
	}
	for i := 0; i < len(all); i += 5 {
		T.Dihedrals = append(T.Dihedrals, [5]int{all[i], all[i+1], all[i+2], all[i+3], all[i+4]})
	}
	if len(T.AtomName) < T.Natom || len(T.Charge) < T.Natom || len(T.Mass) < T.Natom {
		return nil, fmt.Errorf("amber.ReadPrmtop %s: per-atom sections shorter than NATOM=%d", name, T.Natom)
	}
	return T, nil
}

//strs returns the entries of a fixed-width string section.
func strs(secs map[string]*section, flag string) ([]string, error) {
	s, ok := secs[flag]
	if !ok {
		return nil, fmt.Errorf("amber: no %%FLAG %s section", flag)
	}
	//fortran string formats look like %FORMAT(20a4)
	width := 4
	if i := strings.IndexByte(s.format, 'a'); i >= 0 {
		if w, err := strconv.Atoi(strings.TrimRight(s.format[i+1:], ")")); err == nil {
			width = w
		}
	}
	var ret []string
	for _, line := range s.lines {
		for i := 0; i < len(line); i += width {
			end := i + width
			if end > len(line) {
				end = len(line)
			}
			v := strings.TrimSpace(line[i:end])
			if v != "" {
				ret = append(ret, v)
			}
		}
	}
	return ret, nil
}

func ints(secs map[string]*section, flag string) ([]int, error) {
	s, ok := secs[flag]
	if !ok {
		return nil, fmt.Errorf("amber: no %%FLAG %s section", flag)
	}
	var ret []int
	for _, line := range s.lines {
		for _, f := range strings.Fields(line) {
			v, err := strconv.Atoi(f)
			if err != nil {
				return nil, fmt.Errorf("amber: bad integer %q in %s: %v", f, flag, err)
			}
			ret = append(ret, v)
		}
	}
	return ret, nil
}

func floats(secs map[string]*section, flag string) ([]float64, error) {
	s, ok := secs[flag]
	if !ok {
		return nil, fmt.Errorf("amber: no %%FLAG %s section", flag)
	}
	var ret []float64
	for _, line := range s.lines {
		for _, f := range strings.Fields(line) {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("amber: bad float %q in %s: %v", f, flag, err)
			}
			ret = append(ret, v)
		}
	}
	return ret, nil
}

//ljParams returns sigma (A) and epsilon (kcal/mol) for the self-interaction
//of the (1-based) atom type t.
func (T *Topology) ljParams(t int) (sigma, epsilon float64) {
	idx := T.NBIdx[T.Ntypes*(t-1)+t-1]
	if idx <= 0 { //10-12 potentials are not supported; treat as no vdW
		return 1, 0
	}
	a, b := T.Acoef[idx-1], T.Bcoef[idx-1]
	if a == 0 || b == 0 {
		return 1, 0
	}
	sigma = math.Pow(a/b, 1.0/6.0)
	epsilon = b * b / (4 * a)
	return sigma, epsilon
}

//System builds an alquimia system from the topology: atoms, the base
//nonbonded term (with Amber's 1-2/1-3 exclusions and scaled 1-4
//exceptions), and the bonded terms. The caller chooses the cutoff (A),
//the reaction-field dielectric (0 for plain truncation) and whether the
//energy carries a long-range dispersion correction.
func (T *Topology) System(cutoff, epsRF float64, dispersion bool) (*alquimia.System, error) {
	atoms := make([]*alquimia.Atom, T.Natom)
	resOf := make([]int, T.Natom)
	for r := 0; r < len(T.ResPointer); r++ {
		last := T.Natom
		if r+1 < len(T.ResPointer) {
			last = T.ResPointer[r+1] - 1
		}
		for i := T.ResPointer[r] - 1; i < last; i++ {
			resOf[i] = r
		}
	}
	for i := 0; i < T.Natom; i++ {
		at := new(alquimia.Atom)
		at.Name = T.AtomName[i]
		at.ID = i + 1
		at.Molid = resOf[i] + 1
		at.Molname = T.ResLabel[resOf[i]]
		at.Symbol = symbolGuess(T.AtomName[i])
		at.Mass = T.Mass[i]
		at.Charge = T.Charge[i] / chargeUnit
		atoms[i] = at
	}
	sys, err := alquimia.NewSystem(atoms)
	if err != nil {
		return nil, err
	}
	nb := alquimia.NewNonbondedForce(T.Natom, cutoff, epsRF)
	nb.DispersionCorrection = dispersion
	for i := 0; i < T.Natom; i++ {
		sig, eps := T.ljParams(T.TypeIdx[i])
		nb.SetParticle(i, T.Charge[i]/chargeUnit, sig, eps)
	}

	bonds := new(alquimia.HarmonicBondForce)
	seen := make(map[[2]int]bool)
	mark := func(i, j int) bool {
		if i > j {
			i, j = j, i
		}
		if seen[[2]int{i, j}] {
			return true
		}
		seen[[2]int{i, j}] = true
		return false
	}
	for _, b := range T.Bonds {
		i, j, t := b[0]/3, b[1]/3, b[2]
		bonds.Add(i, j, T.BondR0[t-1], T.BondK[t-1])
		if !mark(i, j) {
			nb.AddException(i, j, 0, 1, 0) //1-2 exclusion
		}
	}
	angles := new(alquimia.HarmonicAngleForce)
	for _, a := range T.Angles {
		i, j, k, t := a[0]/3, a[1]/3, a[2]/3, a[3]
		angles.Add(i, j, k, T.AngleT0[t-1], T.AngleK[t-1])
		if !mark(i, k) {
			nb.AddException(i, k, 0, 1, 0) //1-3 exclusion
		}
	}
	torsions := new(alquimia.PeriodicTorsionForce)
	for _, d := range T.Dihedrals {
		i, j := d[0]/3, d[1]/3
		k3, l3, t := d[2], d[3], d[4]
		k := abs(k3) / 3
		l := abs(l3) / 3
		torsions.Add(i, j, k, l, int(math.Round(T.DihN[t-1])), T.DihPhase[t-1], T.DihK[t-1])
		//a negative third index flags a dihedral whose 1-4 pair is already
		//counted elsewhere; a negative fourth one, an improper.
		if k3 < 0 || l3 < 0 {
			continue
		}
		if mark(i, l) {
			continue
		}
		scee, scnb := 1.2, 2.0
		if len(T.Scee) >= t && T.Scee[t-1] != 0 {
			scee = T.Scee[t-1]
		}
		if len(T.Scnb) >= t && T.Scnb[t-1] != 0 {
			scnb = T.Scnb[t-1]
		}
		qq := (T.Charge[i] / chargeUnit) * (T.Charge[l] / chargeUnit) / scee
		sigi, epsi := T.ljParams(T.TypeIdx[i])
		sigl, epsl := T.ljParams(T.TypeIdx[l])
		nb.AddException(i, l, qq, 0.5*(sigi+sigl), math.Sqrt(epsi*epsl)/scnb)
	}
	sys.AddForce(nb)
	if len(bonds.Bonds) > 0 {
		sys.AddForce(bonds)
	}
	if len(angles.Angles) > 0 {
		sys.AddForce(angles)
	}
	if len(torsions.Torsions) > 0 {
		sys.AddForce(torsions)
	}
	return sys, nil
}

func abs(i int) int {
	if i < 0 {
		return -i
	}
	return i
}

//ReadSystem reads a prmtop/inpcrd pair and returns the assembled system
//and the starting coordinates. The box, if the inpcrd has one, is set on
//the system.
func ReadSystem(prmtop, inpcrd string, cutoff, epsRF float64, dispersion bool) (*alquimia.System, *mat.Dense, error) {
	top, err := ReadPrmtop(prmtop)
	if err != nil {
		return nil, nil, err
	}
	sys, err := top.System(cutoff, epsRF, dispersion)
	if err != nil {
		return nil, nil, err
	}
	coord, _, box, err := ReadInpcrd(inpcrd)
	if err != nil {
		return nil, nil, err
	}
	if r, _ := coord.Dims(); r != sys.Len() {
		return nil, nil, fmt.Errorf("amber.ReadSystem: %s has %d atoms but %s has %d", prmtop, sys.Len(), inpcrd, r)
	}
	sys.Box = box
	return sys, coord, nil
}

//symbolGuess extracts a plausible element symbol from an Amber atom name.
func symbolGuess(name string) string {
	name = strings.TrimLeft(name, "0123456789")
	if name == "" {
		return "X"
	}
	two := map[string]bool{"Cl": true, "Br": true, "Na": true, "Mg": true, "Zn": true, "Fe": true, "Ca": true}
	if len(name) >= 2 && two[name[:2]] {
		return name[:2]
	}
	return name[:1]
}
