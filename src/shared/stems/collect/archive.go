package collect

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"

	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/lib/cerr"
	"github.com/apex/log"
)

// Archive zips files into a new archive at archivePath, one entry per file,
// named by base name only. An existing archive is never overwritten.
func Archive(files []string, archivePath string) error {
	errctx := cerr.Field("archive_path", archivePath)

	archiveFile, err := os.OpenFile(archivePath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return errctx.Wrap(err).Error("Failed to create archive file")
	}
	defer archiveFile.Close()

	zipWriter := zip.NewWriter(archiveFile)

	for _, file := range files {
		if err := addToArchive(zipWriter, file); err != nil {
			_ = zipWriter.Close()
			return errctx.Field("file", file).Wrap(err).Error("Failed to add file to archive")
		}
	}

	if err := zipWriter.Close(); err != nil {
		return errctx.Wrap(err).Error("Failed to finish archive")
	}

	if err := archiveFile.Close(); err != nil {
		return errctx.Wrap(err).Error("Failed to close archive file")
	}

	log.WithFields(log.Fields{
		"archive_path": archivePath,
		"entries":      len(files),
	}).Info("Results zipped")

	return nil
}

func addToArchive(zipWriter *zip.Writer, path string) error {
	src, err := os.Open(path)
	if err != nil {
		return cerr.Wrap(err).Error("Failed to open file")
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return cerr.Wrap(err).Error("Failed to stat file")
	}

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return cerr.Wrap(err).Error("Failed to build zip header")
	}
	header.Name = filepath.Base(path)
	header.Method = zip.Deflate

	dst, err := zipWriter.CreateHeader(header)
	if err != nil {
		return cerr.Wrap(err).Error("Failed to create zip entry")
	}

	if _, err := io.Copy(dst, src); err != nil {
		return cerr.Wrap(err).Error("Failed to copy file into zip")
	}

	return nil
}
