package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/lib/cerr"
)

func copyFile(src string, dst string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, cerr.Field("src", src).Wrap(err).Error("Failed to open file to copy")
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), os.ModePerm); err != nil {
		return 0, cerr.Field("dst", dst).Wrap(err).Error("Failed to create destination directory")
	}

	out, err := os.Create(dst)
	if err != nil {
		return 0, cerr.Field("dst", dst).Wrap(err).Error("Failed to create destination file")
	}
	defer out.Close()

	written, err := io.Copy(out, in)
	if err != nil {
		return 0, cerr.Fields(cerr.F{"src": src, "dst": dst}).Wrap(err).Error("Failed to copy file")
	}

	return written, out.Close()
}

func humanSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}

	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	return fmt.Sprintf("%.1f %ciB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
