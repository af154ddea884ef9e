// Package generator enumerates every double-sided Feynman diagram of a given order.
/*
Enumeration is a depth-first search over density-matrix states

Description:
  Starting from a population |s><s|, each field interaction moves either the
  ket or the bra one rung up or down. After n field interactions the sequence
  is kept only if it sits in a coherence |k><k+1|, which then radiates the
  signal by de-exciting the bra.

Steps:
  1. Validate order and start state.
  2. Recursively extend the current sequence:
     2.1 Check for cancellation.
     2.2 At depth n, accept iff bra-ket == 1 and append the signal emission.
     2.3 Otherwise try ket+1, ket-1, bra+1, bra-1 in that order, skipping moves
         that leave the allowed ladder or cannot reach bra-ket == 1 in time.
  3. Unwind recursion to finish.

Complexity: O(4^n) nodes in the worst case; n is bounded by config.MaxOrder.
Memory:     O(n) for the current path plus the accepted diagrams.
*/
package generator
