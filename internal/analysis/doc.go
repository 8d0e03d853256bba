// Package analysis characterizes recorded runs from their population
// series.
//
// [PowerSpectrum] and [DominantPeriod] find oscillation in the population
// count. That exposes oscillators whose phases differ in size, such as
// pulsars, once a soup has settled. [Settled] reports when a run stopped
// changing.
package analysis
