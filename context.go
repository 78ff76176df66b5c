/*
 * context.go, part of alquimia.
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
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

//LangevinIntegrator advances a context with the BAOAB splitting of Langevin
//dynamics: two half kicks and two half drifts around an exact
//Ornstein-Uhlenbeck step on the velocities. It is deterministic for a fixed
//seed of the owning context.
type LangevinIntegrator struct {
	Temperature float64 //K
	Friction    float64 //1/fs
	Timestep    float64 //fs
}

//Context holds one microstate of a system, together with the named global
//parameters: the explicit handle that replaces any engine-side global
//state. Changing a parameter (to re-evaluate an energy, say) never touches
//positions, velocities or the random stream, so the dynamical trajectory is
//a function of the initial state and the seed only.
type Context struct {
	sys    *System
	integ  *LangevinIntegrator
	X, V   *mat.Dense
	forces *mat.Dense
	params Params
	masses []float64
	rng    *rand.Rand
	step   int
	reps   []Reporter
}

//NewContext returns a context for sys with zeroed positions and velocities
//and an empty parameter set. The seed fixes the stochastic part of the
//dynamics.
func NewContext(sys *System, integ *LangevinIntegrator, seed int64) (*Context, error) {
	masses, err := sys.Masses()
	if err != nil {
		return nil, err
	}
	C := new(Context)
	C.sys = sys
	C.integ = integ
	C.masses = masses
	n := sys.Len()
	C.X = mat.NewDense(n, 3, nil)
	C.V = mat.NewDense(n, 3, nil)
	C.params = make(Params)
	C.rng = rand.New(rand.NewSource(seed))
	return C, nil
}

//System returns the system this context belongs to.
func (C *Context) System() *System { return C.sys }

//StepCount returns the number of integration steps taken so far.
func (C *Context) StepCount() int { return C.step }

//Positions returns the N x 3 position matrix. It is the live matrix, not a
//copy; use State if a snapshot is needed.
func (C *Context) Positions() *mat.Dense { return C.X }

//SetPositions copies c into the context. Panics on dimension mismatch.
func (C *Context) SetPositions(c *mat.Dense) {
	r, co := c.Dims()
	if r != C.sys.Len() || co != 3 {
		panic("alquimia: position matrix doesn't match the system")
	}
	C.X.Copy(c)
	C.forces = nil
}

//SetParameter sets the named global parameter. This only changes the value
//used by subsequent energy/force evaluations; the microstate is untouched.
//Cached forces are discarded, as they may have been computed under the old
//value.
func (C *Context) SetParameter(name string, v float64) {
	C.params[name] = v
	C.forces = nil
}

//Parameter returns the value of the named global parameter (1.0 if never set).
func (C *Context) Parameter(name string) float64 {
	return C.params.Value(name)
}

//SetVelocitiesToTemperature draws the velocities from the Maxwell-Boltzmann
//distribution at temperature T.
func (C *Context) SetVelocitiesToTemperature(T float64) {
	for i := 0; i < C.sys.Len(); i++ {
		s := math.Sqrt(KB * T * Kcal2Dyn / C.masses[i])
		for k := 0; k < 3; k++ {
			C.V.Set(i, k, s*C.rng.NormFloat64())
		}
	}
}

//PotentialEnergy returns the potential energy, in kcal/mol, of the current
//microstate under the current parameters. It is a pure evaluation.
func (C *Context) PotentialEnergy() float64 {
	return C.sys.Energy(C.X, C.params)
}

//KineticEnergy returns the kinetic energy, in kcal/mol.
func (C *Context) KineticEnergy() float64 {
	ke := 0.0
	for i := 0; i < C.sys.Len(); i++ {
		v2 := 0.0
		for k := 0; k < 3; k++ {
			v := C.V.At(i, k)
			v2 += v * v
		}
		ke += 0.5 * C.masses[i] * v2
	}
	return ke / Kcal2Dyn
}

//Temperature returns the instantaneous temperature, in K.
func (C *Context) Temperature() float64 {
	n := C.sys.Len()
	if n == 0 {
		return 0
	}
	return 2 * C.KineticEnergy() / (3 * float64(n) * KB)
}

//computeForces fills the force buffer for the current microstate.
func (C *Context) computeForces() {
	n := C.sys.Len()
	if C.forces == nil {
		C.forces = mat.NewDense(n, 3, nil)
	} else {
		C.forces.Zero()
	}
	C.sys.AddForces(C.forces, C.X, C.params)
}

//diverged reports whether the microstate stopped making sense.
func (C *Context) diverged() bool {
	for i := 0; i < C.sys.Len(); i++ {
		for k := 0; k < 3; k++ {
			x := C.X.At(i, k)
			if math.IsNaN(x) || math.Abs(x) > 1e5 {
				return true
			}
			if math.IsNaN(C.V.At(i, k)) {
				return true
			}
		}
	}
	return false
}

//Step advances the dynamics by n steps, reporting to the attached reporters
//at their strides. It returns an IntegrationDivergedError if the microstate
//blows up, in which case the context should be discarded or reloaded from a
//checkpoint.
func (C *Context) Step(n int) error {
	dt := C.integ.Timestep
	c1 := math.Exp(-C.integ.Friction * dt)
	c2 := math.Sqrt(1 - c1*c1)
	kT := KB * C.integ.Temperature * Kcal2Dyn
	na := C.sys.Len()
	if C.forces == nil {
		C.computeForces()
	}
	for s := 0; s < n; s++ {
		for i := 0; i < na; i++ {
			im := Kcal2Dyn / C.masses[i]
			sg := math.Sqrt(kT / C.masses[i])
			for k := 0; k < 3; k++ {
				v := C.V.At(i, k) + 0.5*dt*C.forces.At(i, k)*im
				x := C.X.At(i, k) + 0.5*dt*v
				v = c1*v + c2*sg*C.rng.NormFloat64()
				x += 0.5 * dt * v
				C.X.Set(i, k, x)
				C.V.Set(i, k, v)
			}
		}
		C.computeForces()
		for i := 0; i < na; i++ {
			im := Kcal2Dyn / C.masses[i]
			for k := 0; k < 3; k++ {
				C.V.Set(i, k, C.V.At(i, k)+0.5*dt*C.forces.At(i, k)*im)
			}
		}
		C.step++
		if C.diverged() {
			return &IntegrationDivergedError{step: C.step, energy: C.PotentialEnergy()}
		}
		for _, r := range C.reps {
			if C.step%r.Stride() == 0 {
				if err := r.Report(C); err != nil {
					return errDecorate(err, "Context.Step")
				}
			}
		}
	}
	return nil
}
