package gateway

import (
	"fmt"
	"net/http"

	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/server/api_error"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/server/internal/errors/api"
	joberrors "github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/server/internal/job/errors"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/lib/cerr"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/lib/env"
	"github.com/labstack/echo/v4"
)

var httpStatusCodeMap = map[api.ErrorCode]int{
	api.DefaultErrorCode:            http.StatusInternalServerError,
	joberrors.NoAudioFileCode:       http.StatusBadRequest,
	joberrors.NoSelectedFileCode:    http.StatusBadRequest,
	joberrors.MalformedRequestCode:  http.StatusBadRequest,
	joberrors.InvalidOptionCode:     http.StatusBadRequest,
	joberrors.UploadTooLargeCode:    http.StatusRequestEntityTooLarge,
	joberrors.UnsupportedFormatCode: http.StatusUnsupportedMediaType,
	joberrors.SeparationFailedCode:  http.StatusInternalServerError,
	joberrors.NoOutputCode:          http.StatusInternalServerError,
	joberrors.ModelUnavailableCode:  http.StatusServiceUnavailable,
	joberrors.JobNotFoundCode:       http.StatusNotFound,
	joberrors.StemNotFoundCode:      http.StatusNotFound,
	joberrors.JobNotFinishedCode:    http.StatusConflict,
}

func ErrorResponse(c echo.Context, err *api.Error) error {
	statusCode, ok := httpStatusCodeMap[err.ErrorCode]
	if !ok {
		msg := fmt.Sprintf("Error code %s has no HTTP status code mapping", err.ErrorCode)
		panic(msg)
	}

	if statusCode >= http.StatusInternalServerError {
		cerr.Log(err.InternalError)
	}

	return c.JSON(statusCode, api_error.JSONAPIError{
		Code:    string(err.ErrorCode),
		Error:   err.UserMessage,
		Details: details(err),
	})
}

// internal error text is only exposed outside of production
func details(err *api.Error) string {
	if err.Details != "" {
		return err.Details
	}

	if err.ErrorCode != api.DefaultErrorCode || !env.IsSet() || env.Get() == env.Production {
		return ""
	}

	return err.Error()
}
