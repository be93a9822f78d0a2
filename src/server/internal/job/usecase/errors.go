package jobusecase

import (
	"fmt"

	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/server/internal/errors/api"
	joberrors "github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/server/internal/job/errors"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/collect"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/model"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/pcm"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/splitter"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/upload"
	"github.com/cockroachdb/errors/markers"
)

// commitJobError turns a failed step of a job into the error the caller
// sees. engine names the tool in the messages about separation.
func commitJobError(err error, engine splitter.EngineType) *api.Error {
	switch {
	case markers.Is(err, upload.NoAudioFileMark):
		return api.CommitError(err, joberrors.NoAudioFileCode, "No audio file provided")

	case markers.Is(err, upload.NoSelectedFileMark):
		return api.CommitError(err, joberrors.NoSelectedFileCode, "No selected file")

	case markers.Is(err, upload.TooLargeMark):
		return api.CommitError(err, joberrors.UploadTooLargeCode, "Audio file is too large")

	case markers.Is(err, splitter.InvalidOptionMark):
		return api.CommitError(err, joberrors.InvalidOptionCode,
			"The requested stems or engine are not supported. Please pick another option")

	case markers.Is(err, pcm.UnsupportedFormatMark):
		return api.CommitError(err, joberrors.UnsupportedFormatCode,
			"Only uncompressed WAV audio can be separated into individual stems")

	case markers.Is(err, splitter.SeparationFailedMark):
		apiErr := api.CommitError(err, joberrors.SeparationFailedCode,
			fmt.Sprintf("%s process failed.", engine.DisplayName()))
		if diagnostics, ok := splitter.Diagnostics(err); ok {
			apiErr.WithDetails(diagnostics)
		}
		return apiErr

	case markers.Is(err, collect.NoOutputMark):
		return api.CommitError(err, joberrors.NoOutputCode,
			fmt.Sprintf("%s did not produce any output files. "+
				"The audio format might be unsupported or the file is corrupt.", engine.DisplayName()))

	case markers.Is(err, model.UnavailableMark):
		return api.CommitError(err, joberrors.ModelUnavailableCode,
			"The separation model is not available right now. Please try again later")

	default:
		return api.CommitError(err, api.DefaultErrorCode, api.DefaultUserMessage)
	}
}
