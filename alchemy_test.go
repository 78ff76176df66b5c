/*
 * alchemy_test.go, part of alquimia.
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

//toySystem builds a four-atom system: a charged Lennard-Jones dimer
//(the "solute", atoms 0-1, with a 1-4-style scaled exception between
//them) plus two free particles.
func toySystem() (*System, *mat.Dense) {
	atoms := make([]*Atom, 4)
	for i := range atoms {
		atoms[i] = &Atom{Name: "X", ID: i + 1, Molname: "TOY", Molid: 1, Symbol: "C", Mass: 12.0}
	}
	sys, err := NewSystem(atoms)
	if err != nil {
		panic(err.Error())
	}
	nb := NewNonbondedForce(4, 0, 0)
	nb.SetParticle(0, 0.3, 3.2, 0.12)
	nb.SetParticle(1, -0.3, 3.1, 0.15)
	nb.SetParticle(2, 0.2, 3.0, 0.2)
	nb.SetParticle(3, -0.2, 3.0, 0.2)
	nb.AddException(0, 1, 0.3*-0.3/1.2, 3.15, math.Sqrt(0.12*0.15)/2)
	sys.AddForce(nb)
	c := mat.NewDense(4, 3, []float64{
		0, 0, 0,
		1.5, 0.1, 0,
		3.6, 2.0, 0.5,
		-2.9, 1.8, -1.1,
	})
	return sys, c
}

//at full coupling the transformed system must reproduce the plain force
//field exactly.
func TestAlchemizeFullCoupling(Te *testing.T) {
	plain, c := toySystem()
	want := plain.Energy(c, Params{})
	sys, _ := toySystem()
	if err := Alchemize(sys, []int{0, 1}); err != nil {
		Te.Fatal(err)
	}
	p := Params{ParamElectrostatics: 1.0, ParamSterics: 1.0}
	got := sys.Energy(c, p)
	if math.Abs(got-want) > 1e-9 {
		Te.Errorf("coupled energy %v differs from the plain force field %v", got, want)
	}
	//forces too
	fwant := mat.NewDense(4, 3, nil)
	plain.AddForces(fwant, c, Params{})
	fgot := mat.NewDense(4, 3, nil)
	sys.AddForces(fgot, c, p)
	for i := 0; i < 4; i++ {
		for k := 0; k < 3; k++ {
			if math.Abs(fgot.At(i, k)-fwant.At(i, k)) > 1e-9 {
				Te.Errorf("coupled force differs on atom %d axis %d: %v vs %v", i, k, fgot.At(i, k), fwant.At(i, k))
			}
		}
	}
}

//periodicSystem builds a six-atom periodic system with a real cutoff and
//the dispersion correction on: a three-atom solute with a 1-4-style
//exception between atoms 0-1 (so 0-2 and 1-2 stay in the regular pair
//loop) plus three free particles.
func periodicSystem() (*System, *mat.Dense) {
	atoms := make([]*Atom, 6)
	for i := range atoms {
		atoms[i] = &Atom{Name: "X", ID: i + 1, Molname: "TOY", Molid: 1, Symbol: "C", Mass: 12.0}
	}
	sys, err := NewSystem(atoms)
	if err != nil {
		panic(err.Error())
	}
	sys.Box = [3]float64{24, 24, 24}
	nb := NewNonbondedForce(6, 8, 0)
	nb.DispersionCorrection = true
	nb.SetParticle(0, 0.25, 3.4, 0.11)
	nb.SetParticle(1, -0.35, 3.2, 0.16)
	nb.SetParticle(2, 0.10, 3.0, 0.21)
	nb.SetParticle(3, 0.2, 3.1, 0.18)
	nb.SetParticle(4, -0.2, 3.1, 0.18)
	nb.SetParticle(5, 0.0, 3.5, 0.09)
	nb.AddException(0, 1, 0.25*-0.35/1.2, 3.3, math.Sqrt(0.11*0.16)/2)
	sys.AddForce(nb)
	c := mat.NewDense(6, 3, []float64{
		0, 0, 0,
		1.5, 0.2, 0,
		2.6, 1.6, 0.4,
		5.0, 4.2, -1.0,
		-3.5, 2.0, 2.5,
		1.0, -4.0, 3.0,
	})
	return sys, c
}

//the full-coupling identity must also hold with a cutoff and the
//dispersion correction on: the intra-solute pairs taken out of the base
//regular loop carry their share of the tail with them.
func TestAlchemizeDispersionTail(Te *testing.T) {
	plain, c := periodicSystem()
	want := plain.Energy(c, Params{})
	//make sure the tail actually weighs on this system
	off, _ := periodicSystem()
	if nb, err := off.Nonbonded(); err != nil {
		Te.Fatal(err)
	} else {
		nb.DispersionCorrection = false
	}
	if noTail := off.Energy(c, Params{}); noTail == want {
		Te.Fatal("the tail correction vanishes, the test checks nothing")
	}
	sys, _ := periodicSystem()
	if err := Alchemize(sys, []int{0, 1, 2}); err != nil {
		Te.Fatal(err)
	}
	p := Params{ParamElectrostatics: 1.0, ParamSterics: 1.0}
	got := sys.Energy(c, p)
	if math.Abs(got-want) > 1e-9 {
		Te.Errorf("coupled energy %v differs from the plain force field %v by %v", got, want, got-want)
	}
	fwant := mat.NewDense(6, 3, nil)
	plain.AddForces(fwant, c, Params{})
	fgot := mat.NewDense(6, 3, nil)
	sys.AddForces(fgot, c, p)
	for i := 0; i < 6; i++ {
		for k := 0; k < 3; k++ {
			if math.Abs(fgot.At(i, k)-fwant.At(i, k)) > 1e-9 {
				Te.Errorf("coupled force differs on atom %d axis %d: %v vs %v", i, k, fgot.At(i, k), fwant.At(i, k))
			}
		}
	}
}

//at zero coupling the solute must not see the environment: the energy is
//the sum of the environment-only part and the (always on) intra-solute
//Lennard-Jones part.
func TestAlchemizeDecoupled(Te *testing.T) {
	sys, c := toySystem()
	if err := Alchemize(sys, []int{0, 1}); err != nil {
		Te.Fatal(err)
	}
	p := Params{ParamElectrostatics: 0.0, ParamSterics: 0.0}
	got := sys.Energy(c, p)

	//environment-environment: atoms 2 and 3 alone
	env, _ := toySystem()
	nb, err := env.Nonbonded()
	if err != nil {
		Te.Fatal(err)
	}
	nb.SetParticle(0, 0, 3.2, 0)
	nb.SetParticle(1, 0, 3.1, 0)
	nb.Exceptions[0].QQ = 0
	nb.Exceptions[0].Eps = 0
	envE := env.Energy(c, Params{})

	//intra-solute vdW: the 1-4 exception, with its scaled epsilon
	var d [3]float64
	delta(&d, c, 0, 1, [3]float64{})
	r := norm(&d)
	x := math.Pow(3.15/r, 6)
	intraE := 4 * (math.Sqrt(0.12*0.15) / 2) * x * (x - 1)

	want := envE + intraE
	if math.Abs(got-want) > 1e-9 {
		Te.Errorf("decoupled energy %v, want %v (env %v + intra %v)", got, want, envE, intraE)
	}
}

//the coupling must be strictly parameter-driven: moving the parameters
//back and forth may not change what any value of them evaluates to.
func TestAlchemizeReversible(Te *testing.T) {
	sys, c := toySystem()
	if err := Alchemize(sys, []int{0, 1}); err != nil {
		Te.Fatal(err)
	}
	p := Params{ParamElectrostatics: 0.5, ParamSterics: 0.5}
	first := sys.Energy(c, p)
	for _, lam := range []float64{0, 1, 0.25, 0.8} {
		q := Params{ParamElectrostatics: lam, ParamSterics: lam}
		sys.Energy(c, q)
	}
	if again := sys.Energy(c, p); again != first {
		Te.Errorf("energy at lambda 0.5 changed from %v to %v after evaluations elsewhere", first, again)
	}
}
