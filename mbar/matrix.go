/*
 * matrix.go, part of alquimia.
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

package mbar

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/klauspost/compress/zstd"
)

//EnergyMatrix accumulates reduced potentials u_kl(x_n): for each sample n
//drawn at state k, its dimensionless energy evaluated at every state l of
//the ladder. This is the only input the estimator needs.
type EnergyMatrix struct {
	K  int         `json:"states"`
	NK []int       `json:"samples"`
	U  [][]float64 `json:"u"` //U[k] is row-major NK[k] x K
}

//NewEnergyMatrix returns an empty matrix for a ladder of k states.
func NewEnergyMatrix(k int) *EnergyMatrix {
	if k < 2 {
		panic("mbar: an energy matrix needs at least 2 states")
	}
	return &EnergyMatrix{K: k, NK: make([]int, k), U: make([][]float64, k)}
}

//AddSample records one sample drawn at state k, given its reduced
//potential at each of the K states.
func (E *EnergyMatrix) AddSample(k int, u []float64) error {
	if k < 0 || k >= E.K {
		return fmt.Errorf("mbar.AddSample: state %d out of range (K=%d)", k, E.K)
	}
	if len(u) != E.K {
		return fmt.Errorf("mbar.AddSample: got %d evaluations, want %d", len(u), E.K)
	}
	E.U[k] = append(E.U[k], u...)
	E.NK[k]++
	return nil
}

//N returns the total number of samples over all states.
func (E *EnergyMatrix) N() int {
	n := 0
	for _, v := range E.NK {
		n += v
	}
	return n
}

//Sample returns the evaluations of the n-th sample of state k, valid
//until the next AddSample.
func (E *EnergyMatrix) Sample(k, n int) []float64 {
	return E.U[k][n*E.K : (n+1)*E.K]
}

//Compact returns a new matrix keeping, for each state k, only the samples
//whose indices appear in keep[k]. Indices must be increasing and in range.
func (E *EnergyMatrix) Compact(keep [][]int) (*EnergyMatrix, error) {
	if len(keep) != E.K {
		return nil, fmt.Errorf("mbar.Compact: %d index lists for %d states", len(keep), E.K)
	}
	ret := NewEnergyMatrix(E.K)
	for k := 0; k < E.K; k++ {
		prev := -1
		for _, n := range keep[k] {
			if n <= prev || n >= E.NK[k] {
				return nil, fmt.Errorf("mbar.Compact: bad index %d for state %d (%d samples)", n, k, E.NK[k])
			}
			prev = n
			ret.AddSample(k, E.Sample(k, n))
		}
	}
	return ret, nil
}

//Save writes the matrix as zstd-compressed JSON.
func (E *EnergyMatrix) Save(name string) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer f.Close()
	zw, err := zstd.NewWriter(f)
	if err != nil {
		return err
	}
	if err := json.NewEncoder(zw).Encode(E); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

//Load reads a matrix written by Save.
func Load(name string) (*EnergyMatrix, error) {
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
	E := new(EnergyMatrix)
	if err := json.NewDecoder(zr).Decode(E); err != nil {
		return nil, err
	}
	if E.K < 2 || len(E.NK) != E.K || len(E.U) != E.K {
		return nil, fmt.Errorf("mbar.Load %s: inconsistent matrix", name)
	}
	return E, nil
}
