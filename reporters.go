/*
 * reporters.go, part of alquimia.
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
	"fmt"
	"os"

	"github.com/rmera/alquimia/dcd"
)

//Reporter receives the context every Stride steps while the dynamics run.
type Reporter interface {
	Stride() int
	Report(c *Context) error
	Close()
}

//AddReporter attaches a reporter to the context. A non-positive stride
//panics, as it would never fire (or fire every step by accident).
func (C *Context) AddReporter(r Reporter) {
	if r.Stride() <= 0 {
		panic("alquimia: reporter with non-positive stride")
	}
	C.reps = append(C.reps, r)
}

//DetachReporters closes and removes every attached reporter. Trajectory and
//log files are flushed here, at the end of each lambda block.
func (C *Context) DetachReporters() {
	for _, r := range C.reps {
		r.Close()
	}
	C.reps = nil
}

//CSVReporter appends one comma-separated line of scalar observables
//(step, potential, kinetic, temperature and the tracked parameters)
//per report.
type CSVReporter struct {
	f      *os.File
	stride int
	track  []string
}

//NewCSVReporter creates a CSV observable log. The values of the parameters
//named in track are appended to every line.
func NewCSVReporter(name string, stride int, track ...string) (*CSVReporter, error) {
	f, err := os.Create(name)
	if err != nil {
		return nil, err
	}
	R := &CSVReporter{f: f, stride: stride, track: track}
	header := "step,potential_kcalmol,kinetic_kcalmol,temperature_K"
	for _, t := range track {
		header += "," + t
	}
	if _, err := fmt.Fprintln(f, header); err != nil {
		f.Close()
		return nil, err
	}
	return R, nil
}

func (R *CSVReporter) Stride() int { return R.stride }

func (R *CSVReporter) Report(c *Context) error {
	line := fmt.Sprintf("%d,%.4f,%.4f,%.2f", c.StepCount(), c.PotentialEnergy(), c.KineticEnergy(), c.Temperature())
	for _, t := range R.track {
		line += fmt.Sprintf(",%.4f", c.Parameter(t))
	}
	_, err := fmt.Fprintln(R.f, line)
	return err
}

func (R *CSVReporter) Close() {
	if R.f != nil {
		R.f.Close()
		R.f = nil
	}
}

//DCDReporter writes a binary coordinate frame every Stride steps.
type DCDReporter struct {
	w      *dcd.DCDWObj
	stride int
}

//NewDCDReporter creates a DCD trajectory reporter for natoms atoms.
func NewDCDReporter(name string, natoms, stride int) (*DCDReporter, error) {
	w, err := dcd.NewWriter(name, natoms)
	if err != nil {
		return nil, err
	}
	return &DCDReporter{w: w, stride: stride}, nil
}

func (R *DCDReporter) Stride() int { return R.stride }

func (R *DCDReporter) Report(c *Context) error {
	return R.w.WNext(c.Positions())
}

func (R *DCDReporter) Close() {
	if R.w != nil {
		R.w.Close()
		R.w = nil
	}
}
