package collect

import (
	"os"
	"path/filepath"

	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/lib/cerr"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/pcm"
)

const StemExt = ".wav"

// StemFilePaths maps a stem name to the file holding it.
type StemFilePaths = map[string]string

// WriteStems writes each stem of the set to <dir>/<stem>.wav.
func WriteStems(stems pcm.StemSet, dir string) (StemFilePaths, error) {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, cerr.Field("dir", dir).Wrap(err).Error("Failed to create stem directory")
	}

	paths := StemFilePaths{}
	for _, name := range stems.Names() {
		path := filepath.Join(dir, name+StemExt)
		if err := pcm.WriteWAVFile(path, stems[name]); err != nil {
			return nil, cerr.Field("stem", name).Wrap(err).Error("Failed to write stem file")
		}
		paths[name] = path
	}

	return paths, nil
}
