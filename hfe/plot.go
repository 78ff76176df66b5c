/*
 * plot.go, part of alquimia.
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
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

//overlapGrid adapts a square matrix to the heat map interface, row k of
//the matrix becoming row k of the plot.
type overlapGrid struct {
	m *mat.Dense
}

func (g overlapGrid) Dims() (c, r int) {
	r, c = g.m.Dims()
	return c, r
}

func (g overlapGrid) Z(c, r int) float64 { return g.m.At(r, c) }
func (g overlapGrid) X(c int) float64    { return float64(c) }
func (g overlapGrid) Y(r int) float64    { return float64(r) }

//OverlapHeatmap writes a heat map of the MBAR overlap matrix to name
//(the extension picks the format, .png or .pdf being the usual ones).
//A ladder with a dark band away from the diagonal needs more, or better
//placed, intermediate states.
func OverlapHeatmap(O *mat.Dense, name string) error {
	p := plot.New()
	p.Title.Text = "State overlap"
	p.X.Label.Text = "state l"
	p.Y.Label.Text = "state k"
	h := plotter.NewHeatMap(overlapGrid{m: O}, palette.Heat(12, 1))
	h.Min = 0
	h.Max = 1
	p.Add(h)
	return p.Save(5*vg.Inch, 5*vg.Inch, name)
}
