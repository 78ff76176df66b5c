/*
 * doc.go, part of alquimia.
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
/***Dedicated to the long life of the Ven. Khenpo Phuntzok Tenzin Rinpoche***/

/*Package alquimia implements a small classical force field, alchemically
modified interactions and Langevin dynamics for absolute hydration
free-energy calculations.

	**Alquimia capabilities**

    Builds molecular systems from Amber prmtop/inpcrd pairs (subpackage amber)
	and solvates them with TIP3P or SPC/E water.

    Exposes the solute-environment interactions through named coupling
	parameters: linearly scaled electrostatics and a soft-core
	Lennard-Jones potential that stays finite as the coupling vanishes,
	plus an always-on bonded-style term for the intra-solute
	Lennard-Jones pairs.

    Samples each state of a lambda schedule with a BAOAB Langevin
	integrator, re-evaluating every sampled microstate under every other
	Hamiltonian of the schedule to assemble a reduced-potential matrix
	(subpackage hfe).

    Writes DCD trajectories (subpackage dcd), comma-separated observable
	logs, zstd-compressed checkpoints and an XML rendition of the
	interaction model for reproducibility.

    Decorrelates the per-state energy series (subpackage timeseries) and
	estimates free-energy differences, uncertainties and phase-space
	overlap with the multistate Bennett acceptance ratio
	(subpackage mbar).

All quantities use Angstrom, kcal/mol, atomic mass units, femtoseconds
and elementary charges, unless stated otherwise.
*/
package alquimia
