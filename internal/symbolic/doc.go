// Package symbolic is a small expression tree for response-function products.
//
// It covers exactly what diagram formulas need: integer coefficients, subscripted
// symbols, the imaginary unit, products, integer powers and exponentials. Every node
// prints as ASCII, Unicode and LaTeX, accepts substitution rules, evaluates to a
// complex number and normalises products. It is not a computer-algebra system.
package symbolic
