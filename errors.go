/*
 * errors.go, part of alquimia.
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

import "fmt"

// Error is the interface for errors that all packages in this library implement. The Decorate
// method allows to add and retrieve info from the error, without changing its type or wrapping
// it around something else. The decorate slice should contain a list of functions in the calling
// stack, plus, for each function, any relevant information, or nothing. If information is to be
// added to an element of the slice, it should be in this format: "FunctionName: Extra info".
// If passed an empty string, Decorate should just return the current value, not add the empty
// string to the slice.
type Error interface {
	Error() string
	Decorate(string) []string
}

// MissingNonbondedError is returned when a system does not contain exactly one
// base nonbonded term, so there is no well defined target for an alchemical
// modification.
type MissingNonbondedError struct {
	found int
	deco  []string
}

func (err *MissingNonbondedError) Error() string {
	return fmt.Sprintf("alquimia: system has %d nonbonded terms, exactly 1 is needed", err.found)
}

func (err *MissingNonbondedError) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

// Found returns how many base nonbonded terms the offending system had.
func (err *MissingNonbondedError) Found() int { return err.found }

// UnsupportedForceFieldError is returned when a force-field/water-model name
// does not match any of the supported variants. The original selection is silently
// dropped by some tools; here it is always surfaced.
type UnsupportedForceFieldError struct {
	name string
	deco []string
}

func (err *UnsupportedForceFieldError) Error() string {
	return fmt.Sprintf("alquimia: unsupported force field %q", err.name)
}

func (err *UnsupportedForceFieldError) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

// Name returns the offending force-field name.
func (err *UnsupportedForceFieldError) Name() string { return err.name }

// IntegrationDivergedError signals that the dynamics blew up: a coordinate,
// velocity or the potential energy stopped being a finite, reasonable number.
// The run cannot continue from the current microstate.
type IntegrationDivergedError struct {
	step   int
	energy float64
	deco   []string
}

func (err *IntegrationDivergedError) Error() string {
	return fmt.Sprintf("alquimia: integration diverged at step %d (potential: %g kcal/mol)", err.step, err.energy)
}

func (err *IntegrationDivergedError) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

// Step returns the step at which the divergence was detected.
func (err *IntegrationDivergedError) Step() int { return err.step }

// errDecorate decorates err with the caller name if err is an alquimia Error,
// and returns it unchanged otherwise.
func errDecorate(err error, caller string) error {
	err2, ok := err.(Error)
	if !ok {
		return err
	}
	err2.Decorate(caller)
	return err2
}
