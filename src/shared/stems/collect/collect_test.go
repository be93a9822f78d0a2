package collect_test

import (
	"archive/zip"
	"os"
	"path/filepath"

	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/collect"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/pcm"
	. "github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/testing"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/testing/dummy"
	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func writeFile(path string, content string) {
	ExpectWithOffset(1, os.MkdirAll(filepath.Dir(path), os.ModePerm)).To(Succeed())
	ExpectWithOffset(1, os.WriteFile(path, []byte(content), 0o644)).To(Succeed())
}

var _ = Describe("Collect", func() {
	var outputDir string

	BeforeEach(func() {
		outputDir = filepath.Join(GinkgoT().TempDir(), "output")
	})

	It("marks a missing output directory as no output", func() {
		_, err := collect.Collect(outputDir)
		Expect(errors.Is(err, collect.NoOutputMark)).To(BeTrue())
	})

	It("marks an empty output directory as no output", func() {
		Expect(os.MkdirAll(outputDir, os.ModePerm)).To(Succeed())

		_, err := collect.Collect(outputDir)
		Expect(errors.Is(err, collect.NoOutputMark)).To(BeTrue())
	})

	It("marks a result folder without files as no output", func() {
		Expect(os.MkdirAll(filepath.Join(outputDir, "song", "empty"), os.ModePerm)).To(Succeed())

		_, err := collect.Collect(outputDir)
		Expect(errors.Is(err, collect.NoOutputMark)).To(BeTrue())
	})

	It("finds files one level down, the spleeter layout", func() {
		writeFile(filepath.Join(outputDir, "song", "vocals.wav"), "v")
		writeFile(filepath.Join(outputDir, "song", "accompaniment.wav"), "a")

		files := ExpectSuccess(collect.Collect(outputDir))
		Expect(files).To(ConsistOf(
			filepath.Join(outputDir, "song", "vocals.wav"),
			filepath.Join(outputDir, "song", "accompaniment.wav"),
		))
	})

	It("finds files two levels down, the demucs layout", func() {
		writeFile(filepath.Join(outputDir, "htdemucs", "song", "drums.wav"), "d")
		writeFile(filepath.Join(outputDir, "htdemucs", "song", "bass.wav"), "b")

		files := ExpectSuccess(collect.Collect(outputDir))
		Expect(files).To(HaveLen(2))
	})

	It("collects files written directly into the output directory", func() {
		writeFile(filepath.Join(outputDir, "vocals.wav"), "v")

		files := ExpectSuccess(collect.Collect(outputDir))
		Expect(files).To(ConsistOf(filepath.Join(outputDir, "vocals.wav")))
	})
})

var _ = Describe("Archive", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	It("zips files by base name", func() {
		writeFile(filepath.Join(dir, "a", "vocals.wav"), "vocals-data")
		writeFile(filepath.Join(dir, "b", "drums.wav"), "drums-data")
		archivePath := filepath.Join(dir, "out.zip")

		err := collect.Archive([]string{
			filepath.Join(dir, "a", "vocals.wav"),
			filepath.Join(dir, "b", "drums.wav"),
		}, archivePath)
		Expect(err).NotTo(HaveOccurred())

		reader := ExpectSuccess(zip.OpenReader(archivePath))
		defer reader.Close()

		names := []string{}
		for _, file := range reader.File {
			names = append(names, file.Name)
		}
		Expect(names).To(ConsistOf("vocals.wav", "drums.wav"))
	})

	It("never overwrites an existing archive", func() {
		writeFile(filepath.Join(dir, "vocals.wav"), "v")
		archivePath := filepath.Join(dir, "out.zip")
		writeFile(archivePath, "existing")

		err := collect.Archive([]string{filepath.Join(dir, "vocals.wav")}, archivePath)
		Expect(err).To(HaveOccurred())
		Expect(os.ReadFile(archivePath)).To(Equal([]byte("existing")))
	})

	It("fails when a file is missing", func() {
		err := collect.Archive([]string{filepath.Join(dir, "missing.wav")}, filepath.Join(dir, "out.zip"))
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("WriteStems", func() {
	It("writes one WAV per stem", func() {
		dir := filepath.Join(GinkgoT().TempDir(), "job")
		stems := pcm.StemSet{
			"vocals":        dummy.Sine(440, 0.05),
			"accompaniment": dummy.Sine(220, 0.05),
		}

		paths := ExpectSuccess(collect.WriteStems(stems, dir))
		Expect(paths).To(Equal(collect.StemFilePaths{
			"vocals":        filepath.Join(dir, "vocals.wav"),
			"accompaniment": filepath.Join(dir, "accompaniment.wav"),
		}))

		buffer := ExpectSuccess(pcm.ReadWAVFile(paths["vocals"]))
		Expect(buffer.NumSamples()).To(Equal(stems["vocals"].NumSamples()))
	})
})
