package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/config/envvar"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/viper"
)

var _ = Describe("Settings", func() {
	setEnv := func(key string, value string) {
		previous, wasSet := os.LookupEnv(key)
		ExpectWithOffset(1, os.Setenv(key, value)).To(Succeed())

		DeferCleanup(func() {
			if wasSet {
				Expect(os.Setenv(key, previous)).To(Succeed())
			} else {
				Expect(os.Unsetenv(key)).To(Succeed())
			}
		})
	}

	Describe("loadSettings", func() {
		It("falls back to the defaults", func() {
			settings, err := loadSettings(viper.New())
			Expect(err).NotTo(HaveOccurred())
			Expect(settings).To(Equal(DefaultSettings()))
		})

		It("reads overrides from STEMS_ env vars", func() {
			setEnv("STEMS_CLEANUP_DELAY", "10s")
			setEnv("STEMS_DEFAULT_ENGINE", "demucs")
			setEnv("STEMS_RETENTION_PERIOD", "24h")
			setEnv("STEMS_MAX_UPLOAD_BYTES", "1024")

			settings, err := loadSettings(viper.New())
			Expect(err).NotTo(HaveOccurred())

			Expect(settings.CleanupDelay).To(Equal(10 * time.Second))
			Expect(settings.DefaultEngine).To(Equal("demucs"))
			Expect(settings.RetentionPeriod).To(Equal(24 * time.Hour))
			Expect(settings.MaxUploadBytes).To(Equal(int64(1024)))
			Expect(settings.DefaultSplitType).To(Equal("4stems"))
		})

		It("reads a settings file", func() {
			dir := GinkgoT().TempDir()
			contents := "port: \":6000\"\ndefault_split_type: 2stems\ncleanup_delay: 2s\n"
			Expect(os.WriteFile(filepath.Join(dir, "stems.yaml"), []byte(contents), 0o644)).To(Succeed())

			v := viper.New()
			v.AddConfigPath(dir)

			settings, err := loadSettings(v)
			Expect(err).NotTo(HaveOccurred())

			Expect(settings.Port).To(Equal(":6000"))
			Expect(settings.DefaultSplitType).To(Equal("2stems"))
			Expect(settings.CleanupDelay).To(Equal(2 * time.Second))
		})

		It("rejects invalid values", func() {
			setEnv("STEMS_DEFAULT_ENGINE", "audacity")

			_, err := loadSettings(viper.New())
			Expect(err).To(HaveOccurred())
		})
	})

	DescribeTable("Validate",
		func(modify func(s *Settings), valid bool) {
			settings := DefaultSettings()
			modify(&settings)

			if valid {
				Expect(settings.Validate()).To(Succeed())
			} else {
				Expect(settings.Validate()).NotTo(Succeed())
			}
		},
		Entry("defaults", func(s *Settings) {}, true),
		Entry("zero cleanup delay", func(s *Settings) { s.CleanupDelay = 0 }, true),
		Entry("negative cleanup delay", func(s *Settings) { s.CleanupDelay = -time.Second }, false),
		Entry("no data dir", func(s *Settings) { s.DataDir = "" }, false),
		Entry("no upload limit", func(s *Settings) { s.MaxUploadBytes = 0 }, false),
		Entry("unknown split type", func(s *Settings) { s.DefaultSplitType = "3stems" }, false),
		Entry("unknown engine", func(s *Settings) { s.DefaultEngine = "audacity" }, false),
		Entry("no CORS origins", func(s *Settings) { s.CORSAllowedOrigins = nil }, false),
		Entry("unknown log level", func(s *Settings) { s.LogLevel = "loud" }, false),
	)

	Describe("binary lookup", func() {
		It("returns nothing for a missing binary", func() {
			Expect(FindBin("surely-not-an-installed-separator")).To(BeEmpty())
		})

		It("prefers the env override", func() {
			setEnv(envvar.SPLEETER_BIN_PATH, "/opt/spleeter/bin/spleeter")
			setEnv(envvar.DEMUCS_BIN_PATH, "/opt/demucs/bin/demucs")

			Expect(SpleeterPath()).To(Equal("/opt/spleeter/bin/spleeter"))
			Expect(DemucsPath()).To(Equal("/opt/demucs/bin/demucs"))
		})
	})
})
