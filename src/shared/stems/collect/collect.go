package collect

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/lib/cerr"
	"github.com/apex/log"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/errors/domains"
)

var NoOutputMark = domains.New("no_output_produced")

// Collect finds the files a separation tool produced under outputDir. The
// tool picks its own subfolder layout, so the directory is listed rather than
// assumed: the first entry is taken as the result root when it is a directory
// and every regular file below it is returned.
func Collect(outputDir string) ([]string, error) {
	logger := log.WithField("output_dir", outputDir)
	errctx := cerr.Field("output_dir", outputDir)

	logger.Info("Reading directory to collect stem files")

	entries, err := os.ReadDir(outputDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Mark(errctx.Wrap(err).Error("Output directory was not created"), NoOutputMark)
		}
		return nil, errctx.Wrap(err).Error("Error reading output directory")
	}

	if len(entries) == 0 {
		return nil, errors.Mark(errctx.Error("No files in output directory"), NoOutputMark)
	}

	root := outputDir
	if entries[0].IsDir() {
		root = filepath.Join(outputDir, entries[0].Name())
	}

	logger = logger.WithField("result_root", root)
	logger.Info("Found separation output")

	var files []string
	err = filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		if entry.Type().IsRegular() {
			files = append(files, path)
		}

		return nil
	})
	if err != nil {
		return nil, errctx.Field("result_root", root).Wrap(err).Error("Failed to walk output directory")
	}

	if len(files) == 0 {
		return nil, errors.Mark(errctx.Field("result_root", root).Error("Output directory holds no files"), NoOutputMark)
	}

	return files, nil
}
