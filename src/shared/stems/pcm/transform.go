package pcm

import (
	"math"
	"math/rand"

	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/lib/cerr"
)

const (
	GrainSeconds = 0.05
	GrainOverlap = 0.5
	grainGain    = 0.5
)

// Reverse returns a copy of b played backwards.
func Reverse(b Buffer) (Buffer, error) {
	if err := b.Validate(); err != nil {
		return Buffer{}, cerr.Wrap(err).Error("Cannot reverse an invalid buffer")
	}

	out := emptyLike(b, b.NumSamples())
	for c, channel := range b.Channels {
		last := len(channel) - 1
		for i := range channel {
			out.Channels[c][i] = channel[last-i]
		}
	}

	return out, nil
}

// PitchShift resamples b by 2^(semitones/12) with nearest sample lookup. The
// duration changes with the pitch.
func PitchShift(b Buffer, semitones int) (Buffer, error) {
	if err := b.Validate(); err != nil {
		return Buffer{}, cerr.Wrap(err).Error("Cannot pitch shift an invalid buffer")
	}

	ratio := math.Pow(2, float64(semitones)/12)
	length := int(math.Floor(float64(b.NumSamples()) / ratio))

	out := emptyLike(b, length)
	for c, channel := range b.Channels {
		for i := 0; i < length; i++ {
			source := int(math.Floor(float64(i) * ratio))
			if source < len(channel) {
				out.Channels[c][i] = channel[source]
			}
		}
	}

	return out, nil
}

// Granular rebuilds b from Hann windowed grains taken at random offsets. The
// result keeps the length of b.
func Granular(b Buffer, random *rand.Rand) (Buffer, error) {
	if err := b.Validate(); err != nil {
		return Buffer{}, cerr.Wrap(err).Error("Cannot resynthesize an invalid buffer")
	}

	length := b.NumSamples()
	grain := int(GrainSeconds * float64(b.SampleRate))
	if grain < 2 || grain >= length {
		return Buffer{}, cerr.Fields(cerr.F{
			"grain_samples": grain,
			"samples":       length,
		}).Error("Buffer is too short for granular synthesis")
	}
	hop := int(float64(grain) * (1 - GrainOverlap))

	out := emptyLike(b, length)
	for c, channel := range b.Channels {
		dst := out.Channels[c]
		for start := 0; start < length; start += hop {
			offset := random.Intn(length - grain)
			for j := 0; j < grain && start+j < length; j++ {
				window := 0.5 - 0.5*math.Cos(2*math.Pi*float64(j)/float64(grain))
				dst[start+j] += channel[offset+j] * window * grainGain
			}
		}
	}

	return out, nil
}

func emptyLike(b Buffer, length int) Buffer {
	out := Buffer{
		Channels:   make([][]float64, b.NumChannels()),
		SampleRate: b.SampleRate,
	}
	for c := range out.Channels {
		out.Channels[c] = make([]float64, length)
	}

	return out
}
