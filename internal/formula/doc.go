// Package formula derives the impulsive-limit response function of a diagram.
//
// The raw product follows the diagram literally: the sign, the ket-side dipoles
// in reverse time order, the initial population, the bra-side dipoles in time
// order (signal last) and one propagator per waiting time. Substitution rules
// then make dipoles symmetric and zero the frequencies of populations.
package formula
