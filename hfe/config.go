/*
 * config.go, part of alquimia.
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

//Package hfe computes hydration free energies by alchemical decoupling:
//it solvates a molecule, samples a ladder of partly-coupled states with
//Langevin dynamics, and feeds the cross-evaluated energies to the MBAR
//estimator.
package hfe

import "fmt"

//Config collects the knobs of a hydration run. Zero values are filled in
//by DefaultConfig; distances are in A, times in fs, temperatures in K.
type Config struct {
	Temperature  float64   //K
	Friction     float64   //1/fs
	Timestep     float64   //fs
	Cutoff       float64   //A, nonbonded cutoff
	EpsRF        float64   //reaction-field dielectric; 0 for plain truncation
	Padding      float64   //A of solvent around the solute
	Lambdas      []float64 //coupling ladder, increasing, 0 to 1
	EquilSteps   int       //discarded steps after each lambda switch
	ProdSteps    int       //production steps per lambda
	SampleStride int       //steps between cross-evaluations
	ReportStride int       //steps between reporter lines; 0 disables
	Trajectory   bool      //also write a DCD per lambda
	Seed         int64
	OutDir       string    //checkpoints, tables and trajectories go here
}

//DefaultConfig returns a small but sane setup: an 11-state even ladder
//at 298.15 K with a 9 A reaction-field cutoff.
func DefaultConfig() *Config {
	return &Config{
		Temperature:  298.15,
		Friction:     0.001,
		Timestep:     1.0,
		Cutoff:       9.0,
		EpsRF:        78.5,
		Padding:      10.0,
		Lambdas:      EvenSchedule(11),
		EquilSteps:   5000,
		ProdSteps:    50000,
		SampleStride: 50,
		ReportStride: 500,
		Seed:         1,
		OutDir:       ".",
	}
}

//EvenSchedule returns n evenly spaced coupling values from 0 (the solute
//ghosted) to 1 (fully interacting).
func EvenSchedule(n int) []float64 {
	if n < 2 {
		panic("hfe: a schedule needs at least 2 states")
	}
	ret := make([]float64, n)
	for i := range ret {
		ret[i] = float64(i) / float64(n-1)
	}
	return ret
}

//Check validates the configuration.
func (C *Config) Check() error {
	if len(C.Lambdas) < 2 {
		return fmt.Errorf("hfe: need at least 2 lambda states, got %d", len(C.Lambdas))
	}
	prev := -1.0
	for _, v := range C.Lambdas {
		if v < 0 || v > 1 {
			return fmt.Errorf("hfe: lambda %v outside [0,1]", v)
		}
		if v <= prev {
			return fmt.Errorf("hfe: lambdas must increase strictly")
		}
		prev = v
	}
	if C.Timestep <= 0 || C.Temperature <= 0 || C.Friction < 0 {
		return fmt.Errorf("hfe: non-positive timestep, temperature or friction")
	}
	if C.SampleStride <= 0 || C.ProdSteps < C.SampleStride {
		return fmt.Errorf("hfe: production must cover at least one sample stride")
	}
	return nil
}
