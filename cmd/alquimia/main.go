/*
 * main.go, part of alquimia.
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

/*To the long life of the Ven. Khenpo Phuntzok Tenzin Rinpoche*/

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/rmera/alquimia"
	"github.com/rmera/alquimia/amber"
	"github.com/rmera/alquimia/hfe"
	"github.com/rmera/alquimia/mbar"
)

var verb int

// If level is larger or equal to the program's verbosity, prints the d
// arguments to stderr. Otherwise, does nothing.
func LogV(level int, d ...interface{}) {
	if level <= verb {
		fmt.Fprintln(os.Stderr, d...)
	}
}

func main() {
	verbflag := flag.Int("v", 1, "verbosity level, from 0 (quiet) to 3")
	water := flag.String("water", "tip3p", "water model: tip3p or spce")
	states := flag.Int("states", 11, "number of lambda states")
	temp := flag.Float64("temp", 298.15, "temperature, K")
	cutoff := flag.Float64("cutoff", 9.0, "nonbonded cutoff, A")
	epsrf := flag.Float64("epsrf", 78.5, "reaction-field dielectric, 0 for plain truncation")
	padding := flag.Float64("padding", 10.0, "A of water around the solute")
	timestep := flag.Float64("dt", 1.0, "timestep, fs")
	equil := flag.Int("equil", 5000, "equilibration steps per lambda")
	prod := flag.Int("prod", 50000, "production steps per lambda")
	stride := flag.Int("stride", 50, "steps between energy samples")
	report := flag.Int("report", 500, "steps between log lines, 0 to disable")
	traj := flag.Bool("traj", false, "write a DCD trajectory per lambda")
	seed := flag.Int64("seed", 1, "random seed")
	outdir := flag.String("o", "hfeout", "output directory")
	restart := flag.Bool("restart", false, "continue from a checkpoint in the output directory")
	analyze := flag.String("analyze", "", "skip sampling, analyze this energy matrix file")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage:\n  %s [flags] molecule.prmtop molecule.inpcrd\n  %s -analyze energies.json.zst [flags]\nFlags:\n", os.Args[0], os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	verb = *verbflag
	args := flag.Args()

	if *analyze != "" {
		E, err := mbar.Load(*analyze)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Print(analyzeMatrix(E, *temp, *outdir))
		return
	}
	if len(args) < 2 {
		flag.Usage()
		os.Exit(1)
	}
	ff, err := alquimia.ParseForceField(*water)
	if err != nil {
		log.Fatal(err)
	}
	cfg := hfe.DefaultConfig()
	cfg.Temperature = *temp
	cfg.Cutoff = *cutoff
	cfg.EpsRF = *epsrf
	cfg.Padding = *padding
	cfg.Timestep = *timestep
	cfg.Lambdas = hfe.EvenSchedule(*states)
	cfg.EquilSteps = *equil
	cfg.ProdSteps = *prod
	cfg.SampleStride = *stride
	cfg.ReportStride = *report
	cfg.Trajectory = *traj
	cfg.Seed = *seed
	cfg.OutDir = *outdir
	if err := os.MkdirAll(cfg.OutDir, 0755); err != nil {
		log.Fatal(err)
	}

	LogV(2, "reading", args[0], "and", args[1])
	solute, coord, err := amber.ReadSystem(args[0], args[1], cfg.Cutoff, cfg.EpsRF, true)
	if err != nil {
		log.Fatal(err)
	}
	LogV(1, "solute:", solute.Len(), "atoms")
	sys, allcoord, err := hfe.Solvate(solute, coord, ff.Water(), cfg.Padding)
	if err != nil {
		log.Fatal(err)
	}
	LogV(1, "solvated system:", sys.Len(), "atoms in a",
		fmt.Sprintf("%.1f x %.1f x %.1f", sys.Box[0], sys.Box[1], sys.Box[2]), "A box")
	soluteidx := make([]int, solute.Len())
	for i := range soluteidx {
		soluteidx[i] = i
	}
	if err := alquimia.Alchemize(sys, soluteidx); err != nil {
		log.Fatal(err)
	}
	run, err := hfe.NewRunner(sys, allcoord, cfg)
	if err != nil {
		log.Fatal(err)
	}
	if *restart {
		if err := run.Restore(); err != nil {
			log.Fatal(err)
		}
		LogV(1, "restarting from checkpoint, step", run.Context().StepCount())
	}
	if err := run.Run(); err != nil {
		log.Fatal(err)
	}
	fmt.Print(analyzeMatrix(run.Matrix(), cfg.Temperature, cfg.OutDir))
}

// analyzeMatrix decorrelates, estimates and plots. It returns the
// printable result.
func analyzeMatrix(E *mbar.EnergyMatrix, temp float64, outdir string) string {
	sub, _, err := hfe.Decorrelate(E)
	if err != nil {
		log.Fatal(err)
	}
	res, err := hfe.Estimate(sub, temp)
	if err != nil {
		log.Fatal(err)
	}
	hm := filepath.Join(outdir, "overlap.png")
	if err := hfe.OverlapHeatmap(res.M.Overlap(), hm); err != nil {
		LogV(1, "could not plot the overlap matrix:", err)
	} else {
		LogV(2, "overlap heat map written to", hm)
	}
	return res.String()
}
