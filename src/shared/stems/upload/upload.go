package upload

import (
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/lib/cerr"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/lib/errors/mark"
	"github.com/apex/log"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/errors/domains"
	"github.com/google/uuid"
)

const FormField = "audioFile"

var (
	NoAudioFileMark    = domains.New("no_audio_file")
	NoSelectedFileMark = domains.New("no_selected_file")
	TooLargeMark       = domains.New("upload_too_large")
)

func NewJobID() string {
	return uuid.NewString()
}

// Input is an upload persisted under its job's namespace.
type Input struct {
	JobID        string
	OriginalName string
	Path         string
}

// DownloadName is the attachment name offered for the job's archive. It keeps
// the caller's own base name.
func (i Input) DownloadName() string {
	base, _ := SplitExt(filepath.Base(i.OriginalName))
	return base + "_stems.zip"
}

func NewReceiver(uploadsDir string, maxBytes int64) Receiver {
	return Receiver{
		uploadsDir: uploadsDir,
		maxBytes:   maxBytes,
		newJobID:   NewJobID,
	}
}

type Receiver struct {
	uploadsDir string
	maxBytes   int64
	newJobID   func() string
}

// FormFile picks the audio file out of a parsed multipart form. A field sent
// without a filename may arrive as a plain value, which means the form was
// submitted without choosing a file.
func FormFile(form *multipart.Form) (*multipart.FileHeader, error) {
	if form != nil {
		if files := form.File[FormField]; len(files) > 0 {
			return files[0], nil
		}

		if _, ok := form.Value[FormField]; ok {
			return nil, mark.Message(NoSelectedFileMark, "Form field holds no file")
		}
	}

	return nil, mark.Message(NoAudioFileMark, "No audio file in request")
}

// ReceiveFile persists a multipart upload. A nil header means the request had
// no file field at all.
func (r Receiver) ReceiveFile(header *multipart.FileHeader) (Input, error) {
	if header == nil {
		return Input{}, mark.Message(NoAudioFileMark, "No audio file in request")
	}

	if header.Filename == "" {
		return Input{}, mark.Message(NoSelectedFileMark, "Uploaded file has no name")
	}

	file, err := header.Open()
	if err != nil {
		return Input{}, cerr.Field("filename", header.Filename).
			Wrap(err).Error("Failed to open uploaded file")
	}
	defer file.Close()

	return r.Receive(header.Filename, file)
}

// Receive writes src to uploads/<job id>_<safe name>.
func (r Receiver) Receive(filename string, src io.Reader) (Input, error) {
	if filename == "" {
		return Input{}, mark.Message(NoSelectedFileMark, "Uploaded file has no name")
	}

	input := Input{
		JobID:        r.newJobID(),
		OriginalName: filename,
	}
	input.Path = filepath.Join(r.uploadsDir, input.JobID+"_"+SafeFileName(filepath.Base(filename)))

	errctx := cerr.Fields(cerr.F{
		"job_id":     input.JobID,
		"filename":   filename,
		"input_path": input.Path,
	})

	written, err := r.write(input.Path, src)
	if err != nil {
		removeQuietly(input.Path)
		return Input{}, errctx.Wrap(err).Error("Failed to save uploaded file")
	}

	if written == 0 {
		removeQuietly(input.Path)
		return Input{}, errors.Mark(errctx.Error("Uploaded file is empty"), NoSelectedFileMark)
	}

	log.WithFields(log.Fields{
		"job_id": input.JobID,
		"path":   input.Path,
		"bytes":  written,
	}).Info("Upload saved")

	return input, nil
}

func (r Receiver) write(path string, src io.Reader) (int64, error) {
	dst, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return 0, cerr.Wrap(err).Error("Failed to create input file")
	}
	defer dst.Close()

	limited := src
	if r.maxBytes > 0 {
		limited = io.LimitReader(src, r.maxBytes+1)
	}

	written, err := io.Copy(dst, limited)
	if err != nil {
		return written, cerr.Wrap(err).Error("Failed to copy upload to disk")
	}

	if r.maxBytes > 0 && written > r.maxBytes {
		return written, mark.Message(TooLargeMark, "Uploaded file exceeds the size limit")
	}

	return written, dst.Close()
}

func removeQuietly(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.WithError(err).WithField("path", path).Warn("Failed to remove rejected upload")
	}
}
