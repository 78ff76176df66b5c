/*
 * forcefield_test.go, part of alquimia.
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
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseForceField(Te *testing.T) {
	for name, want := range map[string]ForceField{"tip3p": TIP3P, "TIP3P": TIP3P, "spce": SPCE, "SPC/E": SPCE} {
		got, err := ParseForceField(name)
		if err != nil {
			Te.Errorf("%q: %v", name, err)
		} else if got != want {
			Te.Errorf("%q parsed as %v", name, got)
		}
	}
	_, err := ParseForceField("tip4p-ew")
	if err == nil {
		Te.Fatal("an unknown model must be an error, not a silent default")
	}
	if _, ok := err.(*UnsupportedForceFieldError); !ok {
		Te.Errorf("got %T, want *UnsupportedForceFieldError", err)
	}
}

func TestWaterModels(Te *testing.T) {
	w := TIP3P.Water()
	if 2*w.QH+w.QO != 0 {
		Te.Errorf("TIP3P water carries a net charge")
	}
	if math.Abs(Rad2Deg(w.AngleHOH)-104.52) > 1e-9 {
		Te.Errorf("TIP3P angle %v degrees", Rad2Deg(w.AngleHOH))
	}
	s := SPCE.Water()
	if s.ROH != 1.0 || 2*s.QH+s.QO != 0 {
		Te.Errorf("SPC/E geometry or charges wrong: %+v", s)
	}
}

func TestSaveXML(Te *testing.T) {
	sys, _ := toySystem()
	if err := Alchemize(sys, []int{0, 1}); err != nil {
		Te.Fatal(err)
	}
	name := filepath.Join(Te.TempDir(), "sys.xml")
	if err := sys.SaveXML(name); err != nil {
		Te.Fatal(err)
	}
	b, err := os.ReadFile(name)
	if err != nil {
		Te.Fatal(err)
	}
	text := string(b)
	for _, want := range []string{"<System", "<Nonbonded", "<SoftcorePair", ParamSterics, ParamElectrostatics} {
		if !strings.Contains(text, want) {
			Te.Errorf("serialized system lacks %q", want)
		}
	}
}
