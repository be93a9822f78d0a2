package dummy

import (
	"bytes"
	"io"
	"math"

	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/pcm"
)

const SampleRate = 8000

// Sine is a stereo tone at half amplitude.
func Sine(frequency float64, seconds float64) pcm.Buffer {
	frames := int(seconds * SampleRate)
	left := make([]float64, frames)
	for i := range left {
		left[i] = 0.5 * math.Sin(2*math.Pi*frequency*float64(i)/SampleRate)
	}

	return pcm.Buffer{
		Channels:   [][]float64{left, append([]float64(nil), left...)},
		SampleRate: SampleRate,
	}
}

// Constant is a buffer holding value in every sample.
func Constant(value float64, channels int, frames int) pcm.Buffer {
	buffer := pcm.Buffer{
		Channels:   make([][]float64, channels),
		SampleRate: SampleRate,
	}
	for c := range buffer.Channels {
		buffer.Channels[c] = make([]float64, frames)
		for i := range buffer.Channels[c] {
			buffer.Channels[c][i] = value
		}
	}
	return buffer
}

// WAV encodes buffer as a 16 bit WAV file.
func WAV(buffer pcm.Buffer) []byte {
	var out writeSeeker
	if err := pcm.EncodeWAV(&out, buffer, pcm.DefaultBitDepth); err != nil {
		panic(err)
	}
	return out.buf.Bytes()
}

func SineWAV() []byte {
	return WAV(Sine(440, 0.25))
}

// writeSeeker is an in memory io.WriteSeeker, which the WAV encoder needs to
// patch the header after writing samples.
type writeSeeker struct {
	buf bytes.Buffer
	pos int
}

func (w *writeSeeker) Write(p []byte) (int, error) {
	end := w.pos + len(p)
	if end > w.buf.Len() {
		w.buf.Grow(end - w.buf.Len())
		w.buf.Write(make([]byte, end-w.buf.Len()))
	}
	copy(w.buf.Bytes()[w.pos:end], p)
	w.pos = end
	return len(p), nil
}

func (w *writeSeeker) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		w.pos = int(offset)
	case io.SeekCurrent:
		w.pos += int(offset)
	case io.SeekEnd:
		w.pos = w.buf.Len() + int(offset)
	}
	return int64(w.pos), nil
}
