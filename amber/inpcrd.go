/*
 * inpcrd.go, part of alquimia.
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

package amber

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rmera/scu"
	"gonum.org/v1/gonum/mat"
)

//ReadInpcrd reads an Amber ASCII coordinate or restart file. It returns
//the coordinates (A), the velocities if the file carries them (nil
//otherwise) and the box lengths from the trailer ({0,0,0} for a
//non-periodic file). Box angles other than 90 degrees are an error, as
//only rectangular boxes are supported.
func ReadInpcrd(name string) (coord, vel *mat.Dense, box [3]float64, err error) {
	inp, err := scu.NewMustReadFile(name)
	if err != nil {
		return nil, nil, box, err
	}
	defer inp.Close()
	_ = inp.Next() //title
	head := strings.Fields(strings.TrimRight(inp.Next(), "\n"))
	if len(head) < 1 {
		return nil, nil, box, fmt.Errorf("amber.ReadInpcrd %s: missing atom count", name)
	}
	natoms, err := strconv.Atoi(head[0])
	if err != nil {
		return nil, nil, box, fmt.Errorf("amber.ReadInpcrd %s: bad atom count %q: %v", name, head[0], err)
	}
	var vals []float64
	for i := inp.Next(); i != "EOF"; i = inp.Next() {
		for _, f := range strings.Fields(strings.TrimRight(i, "\n")) {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, nil, box, fmt.Errorf("amber.ReadInpcrd %s: bad number %q: %v", name, f, err)
			}
			vals = append(vals, v)
		}
	}
	n3 := 3 * natoms
	if len(vals) < n3 {
		return nil, nil, box, fmt.Errorf("amber.ReadInpcrd %s: %d coordinates for %d atoms", name, len(vals), natoms)
	}
	coord = mat.NewDense(natoms, 3, append([]float64{}, vals[:n3]...))
	rest := vals[n3:]
	if len(rest) >= n3 { //restart with velocities
		vel = mat.NewDense(natoms, 3, append([]float64{}, rest[:n3]...))
		rest = rest[n3:]
	}
	switch len(rest) {
	case 0:
	case 6:
		if rest[3] != 90 || rest[4] != 90 || rest[5] != 90 {
			return nil, nil, box, fmt.Errorf("amber.ReadInpcrd %s: non-rectangular box (angles %.2f %.2f %.2f)", name, rest[3], rest[4], rest[5])
		}
		box = [3]float64{rest[0], rest[1], rest[2]}
	default:
		return nil, nil, box, fmt.Errorf("amber.ReadInpcrd %s: %d trailing values after coordinates", name, len(rest))
	}
	return coord, vel, box, nil
}
