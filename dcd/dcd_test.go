/*
 * dcd_test.go, part of alquimia.
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

package dcd

import (
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestWrite(Te *testing.T) {
	name := filepath.Join(Te.TempDir(), "out.dcd")
	w, err := NewWriter(name, 4)
	if err != nil {
		Te.Fatal(err)
	}
	if w.Len() != 4 {
		Te.Fatalf("writer for %d atoms", w.Len())
	}
	frame := mat.NewDense(4, 3, []float64{
		0, 0, 0,
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	})
	size0 := fileSize(Te, name)
	for i := 0; i < 3; i++ {
		if err := w.WNext(frame); err != nil {
			Te.Fatal(err)
		}
	}
	//each frame adds three blocks of natoms floats plus two size markers
	perframe := int64(3 * (4*4 + 8))
	if got := fileSize(Te, name); got != size0+3*perframe {
		Te.Errorf("file grew to %d bytes, want %d", got, size0+3*perframe)
	}
	if err := w.WNext(mat.NewDense(2, 3, nil)); err == nil {
		Te.Errorf("a frame of the wrong size was accepted")
	}
	w.Close()
	if err := w.WNext(frame); err == nil {
		Te.Fatal("writes after Close should fail")
	} else if _, ok := err.(Error); !ok {
		Te.Errorf("got a %T, want a dcd.Error", err)
	}
}

func fileSize(Te *testing.T, name string) int64 {
	Te.Helper()
	fi, err := os.Stat(name)
	if err != nil {
		Te.Fatal(err)
	}
	return fi.Size()
}
