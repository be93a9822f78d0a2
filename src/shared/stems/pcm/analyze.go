package pcm

import (
	"math"
	"time"

	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/lib/cerr"
)

const (
	// DefaultTempoBPM is reported when the energy envelope has too few peaks
	// to measure a beat interval.
	DefaultTempoBPM = 120

	tempoWindowSeconds = 0.5
)

// Features are summary measurements of a buffer. RMS, zero crossings and
// tempo are taken from the first channel.
type Features struct {
	Duration         time.Duration
	SampleRate       int
	Channels         int
	RMS              float64
	ZeroCrossingRate float64
	TempoBPM         float64
}

func Analyze(b Buffer) (Features, error) {
	if err := b.Validate(); err != nil {
		return Features{}, cerr.Wrap(err).Error("Cannot analyze an invalid buffer")
	}

	samples := b.Channels[0]
	features := Features{
		Duration:   time.Duration(float64(len(samples)) / float64(b.SampleRate) * float64(time.Second)),
		SampleRate: b.SampleRate,
		Channels:   b.NumChannels(),
		TempoBPM:   EstimateTempo(samples, b.SampleRate),
	}

	if len(samples) == 0 {
		return features, nil
	}

	sum := 0.0
	for _, sample := range samples {
		sum += sample * sample
	}
	features.RMS = math.Sqrt(sum / float64(len(samples)))

	crossings := 0
	for i := 1; i < len(samples); i++ {
		if (samples[i] >= 0) != (samples[i-1] >= 0) {
			crossings++
		}
	}
	features.ZeroCrossingRate = float64(crossings) / float64(len(samples))

	return features, nil
}

// EstimateTempo measures the average distance between local maxima of the
// signal energy in half second windows overlapping by half.
func EstimateTempo(samples []float64, sampleRate int) float64 {
	window := int(float64(sampleRate) * tempoWindowSeconds)
	hop := window / 2
	if hop == 0 {
		return DefaultTempoBPM
	}

	var energies []float64
	for start := 0; start < len(samples)-window; start += hop {
		energy := 0.0
		for _, sample := range samples[start : start+window] {
			energy += sample * sample
		}
		energies = append(energies, energy)
	}

	var peaks []int
	for i := 1; i < len(energies)-1; i++ {
		if energies[i] > energies[i-1] && energies[i] > energies[i+1] {
			peaks = append(peaks, i)
		}
	}

	if len(peaks) < 2 {
		return DefaultTempoBPM
	}

	interval := float64(peaks[len(peaks)-1]-peaks[0]) / float64(len(peaks)-1)
	secondsPerBeat := interval * float64(hop) / float64(sampleRate)

	return 60 / secondsPerBeat
}
