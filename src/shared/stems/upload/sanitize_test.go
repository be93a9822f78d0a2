package upload_test

import (
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/upload"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Sanitize", func() {
	DescribeTable("SanitizeBaseName",
		func(input string, expected string) {
			Expect(upload.SanitizeBaseName(input)).To(Equal(expected))
		},
		Entry("keeps letters and numbers", "Track01", "Track01"),
		Entry("replaces spaces and punctuation", "my song (live)!", "my_song__live__"),
		Entry("replaces path separators", "../etc/passwd", "___etc_passwd"),
		Entry("keeps non latin letters", "Ünïcødé 曲", "Ünïcødé_曲"),
		Entry("composes decomposed accents", "Cafe\u0301", "Caf\u00e9"),
		Entry("empty stays empty", "", ""),
	)

	It("is idempotent", func() {
		for _, name := range []string{"my song (live)!", "Ünïcødé 曲", "a.b.c", "..."} {
			once := upload.SanitizeBaseName(name)
			Expect(upload.SanitizeBaseName(once)).To(Equal(once))
		}
	})

	DescribeTable("SafeFileName",
		func(input string, expected string) {
			Expect(upload.SafeFileName(input)).To(Equal(expected))
		},
		Entry("keeps the extension", "my song.wav", "my_song.wav"),
		Entry("only the last dot starts the extension", "a.b.mp3", "a_b.mp3"),
		Entry("sanitizes the extension", "song.w@v", "song.w_v"),
		Entry("treats a leading dot as part of the name", ".hidden", "_hidden"),
		Entry("handles no extension", "song", "song"),
	)

	DescribeTable("SplitExt",
		func(input string, base string, ext string) {
			actualBase, actualExt := upload.SplitExt(input)
			Expect(actualBase).To(Equal(base))
			Expect(actualExt).To(Equal(ext))
		},
		Entry("simple", "song.wav", "song", ".wav"),
		Entry("no extension", "song", "song", ""),
		Entry("hidden file", ".hidden", ".hidden", ""),
		Entry("double extension", "song.tar.gz", "song.tar", ".gz"),
	)
})
