// Package kernel implements the two benchmark kernels, a Monte-Carlo π
// estimator and a Mandelbrot escape-time image, together with the
// accumulators that merge per-range partial results.
//
// Each kernel exposes an interpreted and a compiled form of its inner
// arithmetic (see package expr). Both forms, and the plain Go reference
// functions PiSample and EscapeCount, compute identical values.
package kernel
