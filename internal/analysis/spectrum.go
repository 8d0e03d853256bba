package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/san-kum/lifesim/internal/storage"
)

// PowerSpectrum returns the magnitude of bins 0 through n/2 of the series
// with its mean removed, so bin 0 is always zero.
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	centered := make([]float64, len(data))
	for i, v := range data {
		centered[i] = v - mean
	}

	spectrum := fft.FFTReal(centered)
	ps := make([]float64, len(data)/2+1)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantPeriod returns the period, in generations, of the strongest
// frequency in the series and that bin's magnitude. A flat series has
// period zero.
func DominantPeriod(data []float64) (period, power float64) {
	ps := PowerSpectrum(data)
	idx := 0
	for i := 1; i < len(ps); i++ {
		if ps[i] > power {
			power = ps[i]
			idx = i
		}
	}
	if idx == 0 || power < 1e-9 {
		return 0, 0
	}
	return float64(len(data)) / float64(idx), power
}

// Settled returns the generation from which no cell changed again, or -1
// if the last sample still had changes.
func Settled(samples []storage.Sample) int {
	gen := -1
	for i := len(samples) - 1; i >= 0; i-- {
		if samples[i].Changed != 0 {
			break
		}
		gen = samples[i].Generation
	}
	return gen
}
