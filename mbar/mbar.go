/*
 * mbar.go, part of alquimia.
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

//Package mbar implements the multistate Bennett acceptance ratio
//estimator of Shirts and Chodera (J. Chem. Phys. 129, 124105, 2008):
//given reduced potentials of every sample at every state of a ladder, it
//yields the dimensionless free energy of each state, asymptotic
//uncertainties, and the phase-space overlap between states.
package mbar

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

//MBAR holds a converged estimate. All free energies are dimensionless
//(units of kT); multiply by kT yourself if you want energy units.
type MBAR struct {
	k          int
	f          []float64 //f[0]=0
	nk         []int
	w          *mat.Dense //N x K weights
	theta      *mat.Dense //asymptotic covariance of the f
	Iterations int
}

//Solve runs the self-consistent MBAR iteration on E until the largest
//change in any free energy falls below tol, or maxiter iterations pass
//(which is an error). States with no samples still get free energies,
//they just contribute nothing to the mixture distribution.
func Solve(E *EnergyMatrix, tol float64, maxiter int) (*MBAR, error) {
	K := E.K
	N := E.N()
	if N == 0 {
		return nil, fmt.Errorf("mbar.Solve: no samples")
	}
	if tol <= 0 {
		tol = 1e-8
	}
	if maxiter <= 0 {
		maxiter = 10000
	}
	//flatten to u[n*K+l], n running over states in order
	u := make([]float64, 0, N*K)
	for k := 0; k < K; k++ {
		u = append(u, E.U[k]...)
	}
	logN := make([]float64, K)
	for l := 0; l < K; l++ {
		if E.NK[l] > 0 {
			logN[l] = math.Log(float64(E.NK[l]))
		} else {
			logN[l] = math.Inf(-1) //empty state: excluded from the mixture
		}
	}
	f := make([]float64, K)
	fnew := make([]float64, K)
	logdenom := make([]float64, N)
	terms := make([]float64, K)
	col := make([]float64, N)
	M := new(MBAR)
	for it := 1; ; it++ {
		if it > maxiter {
			return nil, fmt.Errorf("mbar.Solve: no convergence after %d iterations (last max change %.3g)", maxiter, maxDiff(f, fnew))
		}
		M.Iterations = it
		for n := 0; n < N; n++ {
			for l := 0; l < K; l++ {
				terms[l] = logN[l] + f[l] - u[n*K+l]
			}
			logdenom[n] = floats.LogSumExp(terms)
		}
		for k := 0; k < K; k++ {
			for n := 0; n < N; n++ {
				col[n] = -u[n*K+k] - logdenom[n]
			}
			fnew[k] = -floats.LogSumExp(col)
		}
		shift := fnew[0]
		for k := range fnew {
			fnew[k] -= shift
		}
		if maxDiff(f, fnew) < tol {
			copy(f, fnew)
			break
		}
		copy(f, fnew)
	}
	//final weights, from the converged f
	for n := 0; n < N; n++ {
		for l := 0; l < K; l++ {
			terms[l] = logN[l] + f[l] - u[n*K+l]
		}
		logdenom[n] = floats.LogSumExp(terms)
	}
	W := mat.NewDense(N, K, nil)
	for n := 0; n < N; n++ {
		for k := 0; k < K; k++ {
			W.Set(n, k, math.Exp(f[k]-u[n*K+k]-logdenom[n]))
		}
	}
	M.k = K
	M.f = f
	M.nk = append([]int{}, E.NK...)
	M.w = W
	theta, err := covariance(W, E.NK)
	if err != nil {
		return nil, err
	}
	M.theta = theta
	return M, nil
}

func maxDiff(a, b []float64) float64 {
	max := 0.0
	for i, v := range a {
		if d := math.Abs(v - b[i]); d > max {
			max = d
		}
	}
	return max
}

//covariance computes the asymptotic covariance matrix of the free
//energies, Theta = V S (I - S Vt N V S)^+ S Vt, from the thin SVD
//W = U S Vt of the weight matrix (eq. D4 of the MBAR paper).
func covariance(W *mat.Dense, nk []int) (*mat.Dense, error) {
	_, K := W.Dims()
	var svd mat.SVD
	if !svd.Factorize(W, mat.SVDThin) {
		return nil, fmt.Errorf("mbar: SVD of the weight matrix failed")
	}
	var V mat.Dense
	svd.VTo(&V)
	s := svd.Values(nil)
	S := mat.NewDiagDense(K, s)
	Nd := mat.NewDiagDense(K, nil)
	for i, v := range nk {
		Nd.SetDiag(i, float64(v))
	}
	//A = I - S Vt N V S
	var t1, A mat.Dense
	t1.Mul(Nd, &V)
	t1.Mul(V.T(), &t1)
	t1.Mul(S, &t1)
	t1.Mul(&t1, S)
	A.Scale(-1, &t1)
	for i := 0; i < K; i++ {
		A.Set(i, i, A.At(i, i)+1)
	}
	Ap, err := pinv(&A)
	if err != nil {
		return nil, err
	}
	var theta mat.Dense
	theta.Mul(S, Ap)
	theta.Mul(&theta, S)
	theta.Mul(&V, &theta)
	theta.Mul(&theta, V.T())
	ret := mat.NewDense(K, K, nil)
	ret.Copy(&theta)
	return ret, nil
}

//pinv is the Moore-Penrose pseudoinverse of a square matrix.
func pinv(a *mat.Dense) (*mat.Dense, error) {
	r, _ := a.Dims()
	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDFull) {
		return nil, fmt.Errorf("mbar: SVD failed in pseudoinverse")
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	s := svd.Values(nil)
	cut := float64(r) * s[0] * 1e-12
	sp := mat.NewDiagDense(r, nil)
	for i, x := range s {
		if x > cut {
			sp.SetDiag(i, 1/x)
		}
	}
	ret := mat.NewDense(r, r, nil)
	var t mat.Dense
	t.Mul(sp, u.T())
	ret.Mul(&v, &t)
	return ret, nil
}

//FreeEnergies returns a copy of the dimensionless free energies, with
//the first state as the zero.
func (M *MBAR) FreeEnergies() []float64 {
	return append([]float64{}, M.f...)
}

//DeltaF returns the dimensionless free energy difference f_j - f_i and
//its asymptotic standard error.
func (M *MBAR) DeltaF(i, j int) (df, ddf float64) {
	df = M.f[j] - M.f[i]
	v := M.theta.At(i, i) + M.theta.At(j, j) - 2*M.theta.At(i, j)
	if v < 0 { //roundoff
		v = 0
	}
	return df, math.Sqrt(v)
}

//Overlap returns the KxK overlap matrix O[k][l] = N_l sum_n W_nk W_nl.
//Each row sums to one; O[k][l] near zero means states k and l share no
//sampled configurations, which makes estimates between them unreliable.
func (M *MBAR) Overlap() *mat.Dense {
	N, K := M.w.Dims()
	O := mat.NewDense(K, K, nil)
	for k := 0; k < K; k++ {
		for l := 0; l < K; l++ {
			sum := 0.0
			for n := 0; n < N; n++ {
				sum += M.w.At(n, k) * M.w.At(n, l)
			}
			O.Set(k, l, float64(M.nk[l])*sum)
		}
	}
	return O
}

//Weights returns the N x K weight matrix. Column k holds the sample
//weights of state k and sums to one.
func (M *MBAR) Weights() *mat.Dense {
	return M.w
}
