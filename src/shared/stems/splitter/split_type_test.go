package splitter_test

import (
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/splitter"
	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Split options", func() {
	DescribeTable("ParseSplitType",
		func(input string, expected splitter.SplitType, stems []string) {
			splitType, err := splitter.ParseSplitType(input)
			Expect(err).NotTo(HaveOccurred())
			Expect(splitType).To(Equal(expected))
			Expect(splitType.StemNames()).To(Equal(stems))
		},
		Entry("2stems", "2stems", splitter.SplitTwoStemsType, []string{"vocals", "accompaniment"}),
		Entry("4stems", "4stems", splitter.SplitFourStemsType, []string{"vocals", "drums", "bass", "other"}),
		Entry("5stems", "5stems", splitter.SplitFiveStemsType, []string{"vocals", "drums", "bass", "piano", "other"}),
	)

	It("rejects an unknown split type", func() {
		_, err := splitter.ParseSplitType("3stems")
		Expect(errors.Is(err, splitter.InvalidOptionMark)).To(BeTrue())
	})

	It("hands out copies of the stem names", func() {
		names := splitter.SplitTwoStemsType.StemNames()
		names[0] = "changed"
		Expect(splitter.SplitTwoStemsType.StemNames()[0]).To(Equal("vocals"))
	})

	It("parses engines", func() {
		Expect(splitter.ParseEngineType("spleeter")).To(Equal(splitter.SpleeterType))
		Expect(splitter.ParseEngineType("demucs")).To(Equal(splitter.DemucsType))

		_, err := splitter.ParseEngineType("openunmix")
		Expect(errors.Is(err, splitter.InvalidOptionMark)).To(BeTrue())
	})

	It("names engines for users", func() {
		Expect(splitter.SpleeterType.DisplayName()).To(Equal("Spleeter"))
		Expect(splitter.DemucsType.DisplayName()).To(Equal("Demucs"))
	})
})
