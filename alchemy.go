/*
 * alchemy.go, part of alquimia.
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

package alquimia

//The names of the coupling parameters registered by the alchemical
//transformations. At 1.0 the system is the plain force field; at 0.0 the
//solute does not see its environment.
const (
	ParamElectrostatics = "lambda_electrostatics"
	ParamSterics        = "lambda_sterics"
)

//CoupleElectrostatics makes the electrostatics of the solute atoms a linear
//function of the global parameter param: every affected charge, and the
//charge product of every intra-solute exception, becomes its original value
//times param. The base entries are zeroed so nothing is counted twice. At
//param=1 the electrostatics equal the unmodified model; at param=0 the
//solute carries no charge. It requires the system to hold exactly one base
//nonbonded term.
func CoupleElectrostatics(sys *System, solute []int, param string) error {
	nb, err := sys.Nonbonded()
	if err != nil {
		return errDecorate(err, "CoupleElectrostatics")
	}
	insol := make(map[int]bool, len(solute))
	for _, v := range solute {
		insol[v] = true
	}
	for _, i := range solute {
		if nb.Charge[i] == 0 {
			continue
		}
		nb.AddChargeOffset(param, i, nb.Charge[i])
		nb.Charge[i] = 0
	}
	for idx, e := range nb.Exceptions {
		if !insol[e.I] || !insol[e.J] || e.QQ == 0 {
			continue
		}
		nb.AddExceptionOffset(param, idx, e.QQ)
		e.QQ = 0
	}
	return nil
}

//CoupleVdw migrates the solute Lennard-Jones interactions out of the base
//nonbonded term: solute-environment pairs go to a soft-core pairwise term
//scaled by param, and intra-solute pairs (including the scaled 1-4
//exceptions) go, unscaled, to a bonded-style pair list so they stay on at
//every value of param. The corresponding base entries are zeroed, and the
//cutoff and dispersion-correction settings of the base term are mirrored on
//the soft-core term. At param=1 the total equals the unmodified
//Lennard-Jones energy; at param=0 only the intra-solute part remains.
func CoupleVdw(sys *System, solute []int, param string) error {
	nb, err := sys.Nonbonded()
	if err != nil {
		return errDecorate(err, "CoupleVdw")
	}
	n := nb.Len()
	insol := make(map[int]bool, len(solute))
	for _, v := range solute {
		insol[v] = true
	}
	env := make([]int, 0, n-len(solute))
	for i := 0; i < n; i++ {
		if !insol[i] {
			env = append(env, i)
		}
	}
	sigma := make([]float64, n)
	eps := make([]float64, n)
	copy(sigma, nb.Sigma)
	copy(eps, nb.Eps)

	sc := NewSoftcorePairForce(param, append([]int{}, solute...), env, sigma, eps, nb.Cutoff)
	sc.DispersionCorrection = nb.DispersionCorrection

	intra := new(IntraLJForce)
	intra.Cutoff = nb.Cutoff
	intra.DispersionCorrection = nb.DispersionCorrection
	//intra-solute pairs that were in the regular loop keep the cutoff and
	//the tail share the base term counted for them
	for a := 0; a < len(solute)-1; a++ {
		for b := a + 1; b < len(solute); b++ {
			i, j := solute[a], solute[b]
			if nb.excl[pairKey(i, j, n)] {
				continue
			}
			sig, ep := lorentzBerthelot(nb.Sigma[i], nb.Eps[i], nb.Sigma[j], nb.Eps[j])
			if ep == 0 {
				continue
			}
			intra.AddCut(i, j, sig, ep)
		}
	}
	//exceptions: the intra-solute ones (e.g. scaled 1-4 terms) move to the
	//bonded-style list; any mixed ones are kept in the base term, and
	//excluded from the soft-core loop so they are not counted twice.
	for _, e := range nb.Exceptions {
		switch {
		case insol[e.I] && insol[e.J]:
			if e.Eps != 0 {
				intra.Add(e.I, e.J, e.Sigma, e.Eps)
				e.Eps = 0
			}
		case insol[e.I] != insol[e.J]:
			sc.AddExclusion(e.I, e.J)
		}
	}
	//zeroing the per-atom epsilons removes every solute pair from the base
	//loop (and from its tail correction) in one stroke.
	for _, i := range solute {
		nb.SetParticle(i, nb.Charge[i], nb.Sigma[i], 0)
	}
	sys.AddForce(sc)
	if len(intra.Pairs)+len(intra.Cut) > 0 {
		sys.AddForce(intra)
	}
	return nil
}

//Alchemize applies both alchemical transformations to the solute atoms,
//using the standard parameter names.
func Alchemize(sys *System, solute []int) error {
	if err := CoupleElectrostatics(sys, solute, ParamElectrostatics); err != nil {
		return err
	}
	return CoupleVdw(sys, solute, ParamSterics)
}
