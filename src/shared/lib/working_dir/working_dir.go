package working_dir

import (
	"os"
	"path/filepath"

	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/lib/cerr"
)

const (
	tempDirName    = "tmp"
	uploadsDirName = "uploads"
	outputDirName  = "output"
)

type WorkingDir struct {
	root string
}

func NewWorkingDir(dir string) (WorkingDir, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return WorkingDir{}, cerr.Field("dir", dir).Wrap(err).Error("Failed to convert working dir to absolute format")
	}

	return WorkingDir{root: root}, nil
}

func (w WorkingDir) Root() string {
	return w.root
}

func (w WorkingDir) TempDir() string {
	return filepath.Join(w.root, tempDirName)
}

func (w WorkingDir) UploadsDir() string {
	return filepath.Join(w.root, uploadsDirName)
}

func (w WorkingDir) OutputDir() string {
	return filepath.Join(w.root, outputDirName)
}

func (w WorkingDir) JobOutputDir(jobID string) string {
	return filepath.Join(w.OutputDir(), jobID)
}

func (w WorkingDir) ArchivePath(jobID string) string {
	return filepath.Join(w.UploadsDir(), jobID+"_stems.zip")
}

// Ensure creates every directory the working dir hands out.
func (w WorkingDir) Ensure() error {
	for _, dir := range []string{w.root, w.TempDir(), w.UploadsDir(), w.OutputDir()} {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return cerr.Field("dir", dir).Wrap(err).Error("Failed to create working directory")
		}
	}

	return nil
}

func (w WorkingDir) String() string {
	return w.root
}
