package joberrors

import (
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/server/internal/errors/api"
)

const (
	NoAudioFileCode       = api.ErrorCode("no_audio_file")
	NoSelectedFileCode    = api.ErrorCode("no_selected_file")
	MalformedRequestCode  = api.ErrorCode("malformed_request")
	InvalidOptionCode     = api.ErrorCode("invalid_option")
	UploadTooLargeCode    = api.ErrorCode("upload_too_large")
	UnsupportedFormatCode = api.ErrorCode("unsupported_audio_format")
	SeparationFailedCode  = api.ErrorCode("separation_failed")
	NoOutputCode          = api.ErrorCode("no_output_produced")
	ModelUnavailableCode  = api.ErrorCode("model_unavailable")
	JobNotFoundCode       = api.ErrorCode("job_not_found")
	StemNotFoundCode      = api.ErrorCode("stem_not_found")
	JobNotFinishedCode    = api.ErrorCode("job_not_finished")
)
