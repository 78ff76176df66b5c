/*
 * analysis.go, part of alquimia.
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
	"log"

	"github.com/rmera/alquimia"
	"github.com/rmera/alquimia/mbar"
	"github.com/rmera/alquimia/timeseries"
)

//Decorrelate discards the equilibration stretch of each state's samples
//and subsamples the remainder at intervals of one statistical
//inefficiency, using each sample's energy at its own state as the
//indicator series. It returns the reduced matrix and the per-state g.
func Decorrelate(E *mbar.EnergyMatrix) (*mbar.EnergyMatrix, []float64, error) {
	keep := make([][]int, E.K)
	gs := make([]float64, E.K)
	for k := 0; k < E.K; k++ {
		series := make([]float64, E.NK[k])
		for n := 0; n < E.NK[k]; n++ {
			series[n] = E.Sample(k, n)[k]
		}
		t0, g, neff := timeseries.DetectEquilibration(series)
		gs[k] = g
		keep[k] = timeseries.Subsample(E.NK[k], t0, g)
		log.Printf("hfe: state %d: t0=%d g=%.2f Neff=%.1f (kept %d of %d)",
			k, t0, g, neff, len(keep[k]), E.NK[k])
	}
	ret, err := E.Compact(keep)
	if err != nil {
		return nil, nil, err
	}
	return ret, gs, nil
}

//Result is a finished free energy estimate, in kcal/mol.
type Result struct {
	DeltaF  float64   //free energy of the last state relative to the first
	DDeltaF float64   //its asymptotic standard error
	F       []float64 //per-state free energies, first state as zero
	DF      []float64 //their errors relative to the first state
	M       *mbar.MBAR
}

//Estimate runs MBAR on the (ideally decorrelated) energies and converts
//the result to kcal/mol at the given temperature. With a ladder running
//from the ghosted solute to the fully coupled one, -DeltaF is the free
//energy of removing the solute from water, and DeltaF the hydration free
//energy contribution of solute-solvent interactions.
func Estimate(E *mbar.EnergyMatrix, temperature float64) (*Result, error) {
	M, err := mbar.Solve(E, 1e-9, 20000)
	if err != nil {
		return nil, err
	}
	kt := alquimia.KB * temperature
	R := &Result{M: M}
	R.F = M.FreeEnergies()
	R.DF = make([]float64, len(R.F))
	for i := range R.F {
		df, ddf := M.DeltaF(0, i)
		R.F[i] = df * kt
		R.DF[i] = ddf * kt
	}
	df, ddf := M.DeltaF(0, E.K-1)
	R.DeltaF = df * kt
	R.DDeltaF = ddf * kt
	return R, nil
}

//String formats the estimate as a small per-state table plus the total.
func (R *Result) String() string {
	s := "state    F(kcal/mol)      dF\n"
	for i := range R.F {
		s += fmt.Sprintf("%5d %12.4f %12.4f\n", i, R.F[i], R.DF[i])
	}
	s += fmt.Sprintf("DeltaF = %.4f +/- %.4f kcal/mol\n", R.DeltaF, R.DDeltaF)
	return s
}
