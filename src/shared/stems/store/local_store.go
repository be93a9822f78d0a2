package store

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/lib/cerr"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/collect"
	"github.com/cockroachdb/errors"
)

var _ Store = LocalStemStore{}

func NewLocalStemStore(rootDir string) LocalStemStore {
	return LocalStemStore{rootDir: rootDir}
}

// LocalStemStore serves stems straight out of <root>/<job id>/<stem>.wav.
type LocalStemStore struct {
	rootDir string
}

func (l LocalStemStore) path(jobID string, stem string) string {
	return filepath.Join(l.rootDir, filepath.FromSlash(objectName(jobID, stem)))
}

func (l LocalStemStore) SaveStems(_ context.Context, jobID string, stems collect.StemFilePaths) error {
	for stem, src := range stems {
		dst := l.path(jobID, stem)
		if filepath.Clean(src) == dst {
			continue
		}

		if err := copyFile(src, dst); err != nil {
			return cerr.Fields(cerr.F{
				"job_id": jobID,
				"stem":   stem,
			}).Wrap(err).Error("Failed to save stem locally")
		}
	}

	return nil
}

func (l LocalStemStore) OpenStem(_ context.Context, jobID string, stem string) (io.ReadCloser, error) {
	file, err := os.Open(l.path(jobID, stem))
	if err != nil {
		errctx := cerr.Fields(cerr.F{"job_id": jobID, "stem": stem})
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Mark(errctx.Wrap(err).Error("Stem file does not exist"), StemNotFoundMark)
		}
		return nil, errctx.Wrap(err).Error("Failed to open stem file")
	}

	return file, nil
}

func (l LocalStemStore) DeleteJob(_ context.Context, jobID string) error {
	dir := filepath.Join(l.rootDir, jobID)
	if err := os.RemoveAll(dir); err != nil {
		return cerr.Field("dir", dir).Wrap(err).Error("Failed to delete job stems")
	}

	return nil
}

func copyFile(src string, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), os.ModePerm); err != nil {
		return cerr.Wrap(err).Error("Failed to create stem directory")
	}

	in, err := os.Open(src)
	if err != nil {
		return cerr.Field("src", src).Wrap(err).Error("Failed to open stem source")
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return cerr.Field("dst", dst).Wrap(err).Error("Failed to create stem destination")
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return cerr.Wrap(err).Error("Failed to copy stem")
	}

	return out.Close()
}
