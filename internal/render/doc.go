// Package render draws double-sided Feynman diagrams.
//
// PNG rasterises a diagram natively: two vertical lines for ket and bra, one
// arrow per interaction, the level reached after it, the initial population at
// the bottom and the response formula underneath. The picture is drawn at three
// times the requested size and downsampled for smooth edges.
//
// Text renders the same diagram for a terminal.
package render
