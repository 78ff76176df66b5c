/*
 * units.go, part of alquimia.
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

//The internal unit system is Angstrom, kcal/mol, atomic mass units (Da),
//femtoseconds and elementary charges. Only the dynamics code needs to leave
//it: accelerations are obtained by taking energies to Da*A^2/fs^2.

const (
	//KB is Boltzmann's constant in kcal/(mol K).
	KB = 0.0019872041

	//CoulombK is the electrostatic constant in kcal A/(mol e^2).
	CoulombK = 332.06371

	//Kcal2Dyn converts kcal/mol to Da A^2/fs^2, the unit in which
	//the integrator accumulates kinetic energy.
	Kcal2Dyn = 4.184e-4

	//KJ2Kcal converts kJ/mol to kcal/mol.
	KJ2Kcal = 1 / 4.184
)

//Deg2Rad converts an angle in degrees to radians.
func Deg2Rad(f float64) float64 {
	return f * 0.0174533
}

//Rad2Deg converts an angle in radians to degrees.
func Rad2Deg(f float64) float64 {
	return f / 0.0174533
}
