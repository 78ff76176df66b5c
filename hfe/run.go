/*
 * run.go, part of alquimia.
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
	"path/filepath"

	"github.com/rmera/alquimia"
	"github.com/rmera/alquimia/mbar"
	"gonum.org/v1/gonum/mat"
)

//Runner samples every state of the coupling ladder with one continuous
//Langevin trajectory, cross-evaluating each production sample at all
//states.
type Runner struct {
	ctx *alquimia.Context
	ene *mbar.EnergyMatrix
	cfg *Config
}

//NewRunner prepares a context for the already-solvated, already-coupled
//system. The system must expose the coupling parameters (that is,
//alquimia.Alchemize must have been run on it).
func NewRunner(sys *alquimia.System, coord *mat.Dense, cfg *Config) (*Runner, error) {
	if err := cfg.Check(); err != nil {
		return nil, err
	}
	integ := &alquimia.LangevinIntegrator{
		Temperature: cfg.Temperature,
		Friction:    cfg.Friction,
		Timestep:    cfg.Timestep,
	}
	ctx, err := alquimia.NewContext(sys, integ, cfg.Seed)
	if err != nil {
		return nil, err
	}
	ctx.SetPositions(coord)
	ctx.SetVelocitiesToTemperature(cfg.Temperature)
	return &Runner{ctx: ctx, cfg: cfg, ene: mbar.NewEnergyMatrix(len(cfg.Lambdas))}, nil
}

//Context exposes the underlying simulation context.
func (R *Runner) Context() *alquimia.Context { return R.ctx }

//Matrix returns the energies accumulated so far.
func (R *Runner) Matrix() *mbar.EnergyMatrix { return R.ene }

func (R *Runner) setLambda(v float64) {
	R.ctx.SetParameter(alquimia.ParamElectrostatics, v)
	R.ctx.SetParameter(alquimia.ParamSterics, v)
}

//reduced returns beta*U of the current configuration at every ladder
//state, leaving the context at state cur.
func (R *Runner) reduced(cur int) []float64 {
	beta := 1 / (alquimia.KB * R.cfg.Temperature)
	u := make([]float64, len(R.cfg.Lambdas))
	for l, lam := range R.cfg.Lambdas {
		R.setLambda(lam)
		u[l] = beta * R.ctx.PotentialEnergy()
	}
	R.setLambda(R.cfg.Lambdas[cur])
	return u
}

//Run works through the ladder from the first state to the last:
//re-thermalize, equilibrate, then sample. After each state it
//checkpoints the context and the energy matrix under OutDir, so an
//interrupted campaign loses at most one state.
func (R *Runner) Run() error {
	for k := range R.cfg.Lambdas {
		if err := R.RunState(k); err != nil {
			return err
		}
		if R.cfg.OutDir != "" {
			if err := R.Checkpoint(); err != nil {
				return err
			}
		}
	}
	return nil
}

//RunState equilibrates and samples a single ladder state.
func (R *Runner) RunState(k int) error {
	lam := R.cfg.Lambdas[k]
	log.Printf("hfe: state %d/%d, lambda %.4f", k+1, len(R.cfg.Lambdas), lam)
	R.setLambda(lam)
	R.ctx.SetVelocitiesToTemperature(R.cfg.Temperature)
	if err := R.ctx.Step(R.cfg.EquilSteps); err != nil {
		return fmt.Errorf("hfe: equilibration at lambda %.4f: %w", lam, err)
	}
	if R.cfg.ReportStride > 0 && R.cfg.OutDir != "" {
		csv, err := alquimia.NewCSVReporter(R.stateFile(k, "csv"), R.cfg.ReportStride,
			alquimia.ParamElectrostatics, alquimia.ParamSterics)
		if err != nil {
			return err
		}
		R.ctx.AddReporter(csv)
		if R.cfg.Trajectory {
			dcd, err := alquimia.NewDCDReporter(R.stateFile(k, "dcd"), R.ctx.System().Len(), R.cfg.ReportStride)
			if err != nil {
				return err
			}
			R.ctx.AddReporter(dcd)
		}
		defer R.ctx.DetachReporters()
	}
	nsamples := R.cfg.ProdSteps / R.cfg.SampleStride
	for s := 0; s < nsamples; s++ {
		if err := R.ctx.Step(R.cfg.SampleStride); err != nil {
			return fmt.Errorf("hfe: production at lambda %.4f: %w", lam, err)
		}
		if err := R.ene.AddSample(k, R.reduced(k)); err != nil {
			return err
		}
	}
	return nil
}

//Checkpoint saves the context microstate and the energy matrix to
//OutDir.
func (R *Runner) Checkpoint() error {
	if err := R.ctx.SaveState(filepath.Join(R.cfg.OutDir, "checkpoint.json.zst")); err != nil {
		return err
	}
	return R.ene.Save(filepath.Join(R.cfg.OutDir, "energies.json.zst"))
}

//Restore loads a checkpoint written by a previous run into the context,
//and the energies accumulated up to it.
func (R *Runner) Restore() error {
	S, err := alquimia.LoadState(filepath.Join(R.cfg.OutDir, "checkpoint.json.zst"))
	if err != nil {
		return err
	}
	if err := R.ctx.SetState(S); err != nil {
		return err
	}
	E, err := mbar.Load(filepath.Join(R.cfg.OutDir, "energies.json.zst"))
	if err != nil {
		return err
	}
	if E.K != len(R.cfg.Lambdas) {
		return fmt.Errorf("hfe: checkpoint has %d states, config %d", E.K, len(R.cfg.Lambdas))
	}
	R.ene = E
	return nil
}

func (R *Runner) stateFile(k int, ext string) string {
	return filepath.Join(R.cfg.OutDir, fmt.Sprintf("lambda_%02d.%s", k, ext))
}
