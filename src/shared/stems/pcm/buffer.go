// Package pcm holds decoded audio as channel-major float samples in the
// range [-1, 1] and the few transformations the separation pipeline needs.
package pcm

import (
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/lib/cerr"
)

const StereoChannels = 2

type Buffer struct {
	// Channels[c][i] is sample i of channel c.
	Channels   [][]float64
	SampleRate int
}

func (b Buffer) NumChannels() int {
	return len(b.Channels)
}

func (b Buffer) NumSamples() int {
	if len(b.Channels) == 0 {
		return 0
	}
	return len(b.Channels[0])
}

func (b Buffer) Validate() error {
	if b.SampleRate <= 0 {
		return cerr.Field("sample_rate", b.SampleRate).Error("Sample rate must be positive")
	}

	if len(b.Channels) == 0 {
		return cerr.Error("Buffer has no channels")
	}

	samples := len(b.Channels[0])
	for i, channel := range b.Channels {
		if len(channel) != samples {
			return cerr.Fields(cerr.F{
				"channel":  i,
				"expected": samples,
				"actual":   len(channel),
			}).Error("Channels have different lengths")
		}
	}

	return nil
}

// SameShape reports whether both buffers have the same channel count, length
// and sample rate.
func (b Buffer) SameShape(other Buffer) bool {
	return b.SampleRate == other.SampleRate &&
		b.NumChannels() == other.NumChannels() &&
		b.NumSamples() == other.NumSamples()
}

// NormalizeChannels returns a stereo copy of b. Mono is duplicated into both
// channels, anything wider keeps its first two channels.
func (b Buffer) NormalizeChannels() (Buffer, error) {
	if err := b.Validate(); err != nil {
		return Buffer{}, cerr.Wrap(err).Error("Cannot normalize an invalid buffer")
	}

	out := Buffer{
		Channels:   make([][]float64, StereoChannels),
		SampleRate: b.SampleRate,
	}

	if len(b.Channels) == 1 {
		out.Channels[0] = copySamples(b.Channels[0])
		out.Channels[1] = copySamples(b.Channels[0])
		return out, nil
	}

	out.Channels[0] = copySamples(b.Channels[0])
	out.Channels[1] = copySamples(b.Channels[1])
	return out, nil
}

// Sum adds buffers sample by sample. The result has the shape of the inputs
// and is neither clipped nor rescaled.
func Sum(buffers ...Buffer) (Buffer, error) {
	if len(buffers) == 0 {
		return Buffer{}, cerr.Error("Nothing to sum")
	}

	first := buffers[0]
	if err := first.Validate(); err != nil {
		return Buffer{}, cerr.Wrap(err).Error("Cannot sum an invalid buffer")
	}

	out := Buffer{
		Channels:   make([][]float64, first.NumChannels()),
		SampleRate: first.SampleRate,
	}
	for c := range out.Channels {
		out.Channels[c] = make([]float64, first.NumSamples())
	}

	for i, buffer := range buffers {
		if !buffer.SameShape(first) {
			return Buffer{}, cerr.Fields(cerr.F{
				"index":          i,
				"expected_shape": shape(first),
				"actual_shape":   shape(buffer),
			}).Error("Cannot sum buffers of different shapes")
		}

		for c, channel := range buffer.Channels {
			dst := out.Channels[c]
			for s, sample := range channel {
				dst[s] += sample
			}
		}
	}

	return out, nil
}

func shape(b Buffer) [3]int {
	return [3]int{b.NumChannels(), b.NumSamples(), b.SampleRate}
}

func copySamples(samples []float64) []float64 {
	return append([]float64(nil), samples...)
}
