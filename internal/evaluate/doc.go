// Package evaluate computes response functions numerically for an anharmonic
// ladder of levels.
//
// Level k has energy k*ω0 - Δ*k*(k-1)/2. Dipoles between neighbouring levels
// are either 1 or harmonic, √(k+1) for the k→k+1 transition. The initial
// population of every diagram is 1.
//
// Scan sweeps one waiting time over an even grid and sums the responses of all
// diagrams at each point while the other waiting times stay fixed.
package evaluate
