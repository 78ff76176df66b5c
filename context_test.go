/*
 * context_test.go, part of alquimia.
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
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func dimerContext(Te *testing.T, dt float64) *Context {
	atoms := []*Atom{
		{Name: "A", ID: 1, Molname: "DIM", Molid: 1, Symbol: "C", Mass: 12.0},
		{Name: "B", ID: 2, Molname: "DIM", Molid: 1, Symbol: "C", Mass: 12.0},
	}
	sys, err := NewSystem(atoms)
	if err != nil {
		Te.Fatal(err)
	}
	bonds := new(HarmonicBondForce)
	bonds.Add(0, 1, 1.5, 300)
	sys.AddForce(bonds)
	integ := &LangevinIntegrator{Temperature: 300, Friction: 0.001, Timestep: dt}
	ctx, err := NewContext(sys, integ, 42)
	if err != nil {
		Te.Fatal(err)
	}
	ctx.SetPositions(mat.NewDense(2, 3, []float64{0, 0, 0, 1.6, 0, 0}))
	return ctx
}

//energy evaluation may not perturb the trajectory: the same seed and the
//same number of steps must land on the same microstate no matter how
//many times the potential was computed along the way.
func TestEnergyEvaluationIsPure(Te *testing.T) {
	run := func(evaluate bool) *mat.Dense {
		ctx := dimerContext(Te, 0.5)
		ctx.SetVelocitiesToTemperature(300)
		for i := 0; i < 20; i++ {
			if err := ctx.Step(5); err != nil {
				Te.Fatal(err)
			}
			if evaluate {
				for j := 0; j < 3; j++ {
					ctx.PotentialEnergy()
					ctx.SetParameter("whatever", float64(j))
					ctx.PotentialEnergy()
				}
			}
		}
		return ctx.Positions()
	}
	a := run(false)
	b := run(true)
	if !mat.EqualApprox(a, b, 1e-12) {
		Te.Errorf("potential energy evaluations changed the trajectory")
	}
}

func TestVelocitiesToTemperature(Te *testing.T) {
	//enough atoms for the kinetic temperature to concentrate
	n := 200
	atoms := make([]*Atom, n)
	for i := range atoms {
		atoms[i] = &Atom{Name: "Ar", ID: i + 1, Molname: "AR", Molid: i + 1, Symbol: "Ar", Mass: 39.948}
	}
	sys, err := NewSystem(atoms)
	if err != nil {
		Te.Fatal(err)
	}
	sys.AddForce(NewNonbondedForce(n, 0, 0)) //all parameters zero: ideal gas
	ctx, err := NewContext(sys, &LangevinIntegrator{Temperature: 300, Friction: 0.001, Timestep: 1}, 7)
	if err != nil {
		Te.Fatal(err)
	}
	ctx.SetPositions(mat.NewDense(n, 3, nil))
	ctx.SetVelocitiesToTemperature(300)
	T := ctx.Temperature()
	if T < 240 || T > 360 {
		Te.Errorf("kinetic temperature %v too far from 300 K", T)
	}
}

//a fat timestep on a stiff bond must be reported, not silently sampled.
func TestDivergenceIsAnError(Te *testing.T) {
	ctx := dimerContext(Te, 90) //fs; far beyond stability
	ctx.SetVelocitiesToTemperature(300)
	var err error
	for i := 0; i < 200; i++ {
		if err = ctx.Step(10); err != nil {
			break
		}
	}
	if err == nil {
		Te.Fatal("a 90 fs timestep survived 2000 steps of a 300 kcal/(mol A^2) bond")
	}
	if _, ok := err.(*IntegrationDivergedError); !ok {
		Te.Errorf("got %T (%v), want *IntegrationDivergedError", err, err)
	}
}

func TestStateRoundTrip(Te *testing.T) {
	ctx := dimerContext(Te, 0.5)
	ctx.SetVelocitiesToTemperature(300)
	ctx.SetParameter(ParamSterics, 0.3)
	if err := ctx.Step(25); err != nil {
		Te.Fatal(err)
	}
	name := filepath.Join(Te.TempDir(), "chk.json.zst")
	if err := ctx.SaveState(name); err != nil {
		Te.Fatal(err)
	}
	S, err := LoadState(name)
	if err != nil {
		Te.Fatal(err)
	}
	ctx2 := dimerContext(Te, 0.5)
	if err := ctx2.SetState(S); err != nil {
		Te.Fatal(err)
	}
	if ctx2.StepCount() != ctx.StepCount() {
		Te.Errorf("step count %d after reload, want %d", ctx2.StepCount(), ctx.StepCount())
	}
	if v := ctx2.Parameter(ParamSterics); v != 0.3 {
		Te.Errorf("parameter lost in the round trip: %v", v)
	}
	if math.Abs(ctx2.PotentialEnergy()-ctx.PotentialEnergy()) > 1e-12 {
		Te.Errorf("potential energy changed in the round trip")
	}
}
