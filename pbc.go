/*
 * pbc.go, part of alquimia.
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
	"math"

	"gonum.org/v1/gonum/mat"
)

//delta fills d with the minimum-image vector from atom j to atom i.
//A zero box means no periodicity.
func delta(d *[3]float64, c *mat.Dense, i, j int, box [3]float64) {
	for k := 0; k < 3; k++ {
		d[k] = c.At(i, k) - c.At(j, k)
		if box[k] > 0 {
			d[k] -= box[k] * math.Round(d[k]/box[k])
		}
	}
}

func norm(d *[3]float64) float64 {
	return math.Sqrt(d[0]*d[0] + d[1]*d[1] + d[2]*d[2])
}

func dot(a, b *[3]float64) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func cross(dst, a, b *[3]float64) {
	dst[0] = a[1]*b[2] - a[2]*b[1]
	dst[1] = a[2]*b[0] - a[0]*b[2]
	dst[2] = a[0]*b[1] - a[1]*b[0]
}

//addScaled adds s*d to the row i of dst.
func addScaled(dst *mat.Dense, i int, s float64, d *[3]float64) {
	dst.Set(i, 0, dst.At(i, 0)+s*d[0])
	dst.Set(i, 1, dst.At(i, 1)+s*d[1])
	dst.Set(i, 2, dst.At(i, 2)+s*d[2])
}

//lorentzBerthelot applies the usual combination rules to two sets of
//Lennard-Jones parameters.
func lorentzBerthelot(sig1, eps1, sig2, eps2 float64) (sigma float64, epsilon float64) {
	return 0.5 * (sig1 + sig2), math.Sqrt(eps1 * eps2)
}
