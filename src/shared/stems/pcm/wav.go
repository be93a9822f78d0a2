package pcm

import (
	"io"
	"math"
	"os"

	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/lib/cerr"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/errors/domains"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

var UnsupportedFormatMark = domains.New("unsupported_audio_format")

const (
	DefaultBitDepth = 16

	wavFormatPCM        = 1
	wavFormatExtensible = 0xFFFE
)

func DecodeWAV(r io.ReadSeeker) (Buffer, error) {
	decoder := wav.NewDecoder(r)
	if !decoder.IsValidFile() {
		return Buffer{}, errors.Mark(cerr.Error("Input is not a valid WAV file"), UnsupportedFormatMark)
	}

	if decoder.WavAudioFormat != wavFormatPCM && decoder.WavAudioFormat != wavFormatExtensible {
		return Buffer{}, errors.Mark(cerr.Field("wav_format", decoder.WavAudioFormat).
			Error("Only integer PCM WAV files are supported"), UnsupportedFormatMark)
	}

	intBuffer, err := decoder.FullPCMBuffer()
	if err != nil {
		return Buffer{}, errors.Mark(cerr.Wrap(err).Error("Failed to decode WAV samples"), UnsupportedFormatMark)
	}

	numChannels := intBuffer.Format.NumChannels
	if numChannels <= 0 {
		return Buffer{}, errors.Mark(cerr.Error("WAV file declares no channels"), UnsupportedFormatMark)
	}

	bitDepth := int(decoder.BitDepth)
	frames := len(intBuffer.Data) / numChannels

	buffer := Buffer{
		Channels:   make([][]float64, numChannels),
		SampleRate: intBuffer.Format.SampleRate,
	}
	for c := range buffer.Channels {
		buffer.Channels[c] = make([]float64, frames)
	}

	for i := 0; i < frames*numChannels; i++ {
		buffer.Channels[i%numChannels][i/numChannels] = intToFloat(intBuffer.Data[i], bitDepth)
	}

	return buffer, nil
}

func ReadWAVFile(path string) (Buffer, error) {
	file, err := os.Open(path)
	if err != nil {
		return Buffer{}, cerr.Field("path", path).Wrap(err).Error("Failed to open WAV file")
	}
	defer file.Close()

	buffer, err := DecodeWAV(file)
	if err != nil {
		return Buffer{}, cerr.Field("path", path).Wrap(err).Error("Failed to read WAV file")
	}

	return buffer, nil
}

// EncodeWAV writes b as integer PCM. Samples outside [-1, 1] are clamped at
// this point since the integer format can't hold them.
func EncodeWAV(w io.WriteSeeker, b Buffer, bitDepth int) error {
	if err := b.Validate(); err != nil {
		return cerr.Wrap(err).Error("Cannot encode an invalid buffer")
	}

	numChannels := b.NumChannels()
	frames := b.NumSamples()

	data := make([]int, frames*numChannels)
	for s := 0; s < frames; s++ {
		for c := 0; c < numChannels; c++ {
			data[s*numChannels+c] = floatToInt(b.Channels[c][s], bitDepth)
		}
	}

	encoder := wav.NewEncoder(w, b.SampleRate, bitDepth, numChannels, wavFormatPCM)

	err := encoder.Write(&audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: numChannels,
			SampleRate:  b.SampleRate,
		},
		Data:           data,
		SourceBitDepth: bitDepth,
	})
	if err != nil {
		return cerr.Wrap(err).Error("Failed to write WAV samples")
	}

	if err := encoder.Close(); err != nil {
		return cerr.Wrap(err).Error("Failed to finalize WAV file")
	}

	return nil
}

func WriteWAVFile(path string, b Buffer) error {
	file, err := os.Create(path)
	if err != nil {
		return cerr.Field("path", path).Wrap(err).Error("Failed to create WAV file")
	}
	defer file.Close()

	if err := EncodeWAV(file, b, DefaultBitDepth); err != nil {
		return cerr.Field("path", path).Wrap(err).Error("Failed to encode WAV file")
	}

	return file.Close()
}

func intToFloat(sample int, bitDepth int) float64 {
	if bitDepth == 8 {
		// 8 bit WAV is unsigned
		return float64(sample-128) / 128
	}

	return float64(sample) / float64(int64(1)<<(bitDepth-1))
}

func floatToInt(sample float64, bitDepth int) int {
	clamped := math.Max(-1, math.Min(1, sample))
	maxValue := float64(int64(1)<<(bitDepth-1)) - 1

	if bitDepth == 8 {
		return int(math.Round(clamped*127)) + 128
	}

	return int(math.Round(clamped * maxValue))
}
