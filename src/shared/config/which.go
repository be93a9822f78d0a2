package config

import (
	"os"
	"os/exec"
	"strings"

	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/config/envvar"
	"github.com/apex/log"
)

// FindBin resolves bin through `which`. An empty result means the tool is
// not installed.
func FindBin(bin string) string {
	cmd := exec.Command("which", bin)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return ""
	}

	return strings.TrimSpace(string(output))
}

// binPath prefers an explicit env override and falls back to PATH lookup.
func binPath(envKey string, bin string) string {
	if path := os.Getenv(envKey); path != "" {
		return path
	}

	path := FindBin(bin)
	if path == "" {
		log.WithFields(log.Fields{
			"bin":     bin,
			"env_key": envKey,
		}).Warn("Binary not found, jobs that need it will fail")
	}

	return path
}

func SpleeterPath() string {
	return binPath(envvar.SPLEETER_BIN_PATH, "spleeter")
}

func DemucsPath() string {
	return binPath(envvar.DEMUCS_BIN_PATH, "demucs")
}
