package pcm_test

import (
	"bytes"
	"path/filepath"

	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/pcm"
	. "github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/testing"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/testing/dummy"
	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("WAV", func() {
	It("round trips samples within 16 bit precision", func() {
		original := dummy.Sine(440, 0.05)

		decoded := ExpectSuccess(pcm.DecodeWAV(bytes.NewReader(dummy.WAV(original))))

		Expect(decoded.SampleRate).To(Equal(original.SampleRate))
		Expect(decoded.NumChannels()).To(Equal(original.NumChannels()))
		Expect(decoded.NumSamples()).To(Equal(original.NumSamples()))

		for c := range original.Channels {
			for i := range original.Channels[c] {
				Expect(decoded.Channels[c][i]).To(BeNumerically("~", original.Channels[c][i], 1e-3))
			}
		}
	})

	It("clamps samples outside the integer range", func() {
		loud := dummy.Constant(1.8, 1, 8)

		decoded := ExpectSuccess(pcm.DecodeWAV(bytes.NewReader(dummy.WAV(loud))))
		for _, sample := range decoded.Channels[0] {
			Expect(sample).To(BeNumerically("~", 1, 1e-3))
		}
	})

	It("reads and writes files", func() {
		path := filepath.Join(GinkgoT().TempDir(), "tone.wav")
		Expect(pcm.WriteWAVFile(path, dummy.Sine(220, 0.05))).To(Succeed())

		buffer := ExpectSuccess(pcm.ReadWAVFile(path))
		Expect(buffer.SampleRate).To(Equal(dummy.SampleRate))
	})

	It("marks input that is not a WAV file as unsupported", func() {
		_, err := pcm.DecodeWAV(bytes.NewReader([]byte("ID3 definitely an mp3 file")))
		Expect(errors.Is(err, pcm.UnsupportedFormatMark)).To(BeTrue())
	})

	It("refuses to encode an invalid buffer", func() {
		path := filepath.Join(GinkgoT().TempDir(), "bad.wav")
		Expect(pcm.WriteWAVFile(path, pcm.Buffer{})).NotTo(Succeed())
	})
})
