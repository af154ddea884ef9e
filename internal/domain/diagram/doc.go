// Package diagram contains the core domain types of double-sided Feynman diagrams.
//
// A diagram starts from a population State, applies one Interaction per field
// (ket or bra side, excitation or de-excitation) and ends with the emission of
// the signal field from a coherence whose bra sits one rung above its ket.
package diagram
