/*
 * state.go, part of alquimia.
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
	"encoding/json"
	"fmt"
	"os"

	"github.com/klauspost/compress/zstd"
	"gonum.org/v1/gonum/mat"
)

//State is a snapshot of a context: everything needed to restart a run from
//the last completed stage. Positions and velocities are stored row-major.
type State struct {
	Step       int                `json:"step"`
	Box        [3]float64         `json:"box"`
	Positions  []float64          `json:"positions"`
	Velocities []float64          `json:"velocities"`
	Parameters map[string]float64 `json:"parameters"`
}

//State returns a deep-copied snapshot of the context.
func (C *Context) State() *State {
	n := C.sys.Len()
	S := new(State)
	S.Step = C.step
	S.Box = C.sys.Box
	S.Positions = make([]float64, 3*n)
	S.Velocities = make([]float64, 3*n)
	for i := 0; i < n; i++ {
		for k := 0; k < 3; k++ {
			S.Positions[3*i+k] = C.X.At(i, k)
			S.Velocities[3*i+k] = C.V.At(i, k)
		}
	}
	S.Parameters = C.params.Copy()
	return S
}

//SetState loads a snapshot into the context. The snapshot must belong to a
//system of the same size.
func (C *Context) SetState(S *State) error {
	n := C.sys.Len()
	if len(S.Positions) != 3*n || len(S.Velocities) != 3*n {
		return fmt.Errorf("alquimia.SetState: snapshot for %d atoms, system has %d", len(S.Positions)/3, n)
	}
	C.X = mat.NewDense(n, 3, append([]float64{}, S.Positions...))
	C.V = mat.NewDense(n, 3, append([]float64{}, S.Velocities...))
	C.step = S.Step
	C.sys.Box = S.Box
	C.params = make(Params, len(S.Parameters))
	for k, v := range S.Parameters {
		C.params[k] = v
	}
	C.forces = nil
	return nil
}

//SaveState writes a zstd-compressed JSON checkpoint of the current
//microstate.
func (C *Context) SaveState(name string) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer f.Close()
	zw, err := zstd.NewWriter(f)
	if err != nil {
		return err
	}
	if err := json.NewEncoder(zw).Encode(C.State()); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

//LoadState reads a checkpoint written by SaveState.
func LoadState(name string) (*State, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	zr, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	S := new(State)
	if err := json.NewDecoder(zr).Decode(S); err != nil {
		return nil, err
	}
	return S, nil
}
