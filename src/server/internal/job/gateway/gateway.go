package jobgateway

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/server/internal/errors/api"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/server/internal/errors/gateway"
	joberrors "github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/server/internal/job/errors"
	jobusecase "github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/server/internal/job/usecase"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/server/internal/lib/request"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/collect"
	"github.com/apex/log"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// room for the multipart envelope and the small option fields around the file
const formOverheadBytes = 1 << 20

const wavContentType = "audio/wav"

type StemLink struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	DownloadURL string `json:"download_url"`
}

// StemFeatures are measured on the first channel of the stem.
type StemFeatures struct {
	DurationSeconds  float64 `json:"duration_seconds"`
	SampleRate       int     `json:"sample_rate"`
	Channels         int     `json:"channels"`
	RMS              float64 `json:"rms"`
	ZeroCrossingRate float64 `json:"zero_crossing_rate"`
	TempoBPM         float64 `json:"tempo_bpm"`
}

type SeparateResponse struct {
	JobID    string                  `json:"job_id"`
	Stems    []StemLink              `json:"stems"`
	Features map[string]StemFeatures `json:"features"`
}

type Gateway struct {
	usecase        jobusecase.Usecase
	maxUploadBytes int64
}

func NewGateway(usecase jobusecase.Usecase, maxUploadBytes int64) Gateway {
	return Gateway{
		usecase:        usecase,
		maxUploadBytes: maxUploadBytes,
	}
}

func StemPath(jobID string, stem string) string {
	return fmt.Sprintf("/jobs/%s/stems/%s", jobID, stem)
}

func (g Gateway) Process(c echo.Context) error {
	ctx := request.Context(c)

	form, apiErr := g.parseForm(c)
	if apiErr != nil {
		return gateway.ErrorResponse(c, apiErr)
	}
	defer removeFormFiles(form)

	// cleanup of the job's files waits until the archive is fully sent
	done := make(chan struct{})
	defer close(done)

	result, apiErr := g.usecase.Process(ctx, form, done)
	if apiErr != nil {
		apiErr = api.WrapError(apiErr, "Failed to process upload")
		return gateway.ErrorResponse(c, apiErr)
	}

	return c.Attachment(result.ArchivePath, result.DownloadName)
}

func (g Gateway) Separate(c echo.Context) error {
	ctx := request.Context(c)

	form, apiErr := g.parseForm(c)
	if apiErr != nil {
		return gateway.ErrorResponse(c, apiErr)
	}
	defer removeFormFiles(form)

	done := make(chan struct{})
	defer close(done)

	result, apiErr := g.usecase.Separate(ctx, form, done)
	if apiErr != nil {
		apiErr = api.WrapError(apiErr, "Failed to separate upload")
		return gateway.ErrorResponse(c, apiErr)
	}

	response := SeparateResponse{
		JobID:    result.JobID,
		Stems:    make([]StemLink, 0, len(result.Stems)),
		Features: make(map[string]StemFeatures, len(result.Features)),
	}
	for _, stem := range result.Stems {
		path := StemPath(result.JobID, stem)
		response.Stems = append(response.Stems, StemLink{
			Name:        stem,
			URL:         path,
			DownloadURL: path + "?download=true",
		})
	}
	for stem, features := range result.Features {
		response.Features[stem] = StemFeatures{
			DurationSeconds:  features.Duration.Seconds(),
			SampleRate:       features.SampleRate,
			Channels:         features.Channels,
			RMS:              features.RMS,
			ZeroCrossingRate: features.ZeroCrossingRate,
			TempoBPM:         features.TempoBPM,
		}
	}

	return c.JSON(http.StatusOK, response)
}

func (g Gateway) GetStem(c echo.Context, jobID string, stem string) error {
	ctx := request.Context(c)

	download := false
	if param := c.QueryParam("download"); param != "" {
		parsed, err := strconv.ParseBool(param)
		if err != nil {
			err = errors.Wrap(err, "Failed to parse download query param")
			return gateway.ErrorResponse(c, api.CommitError(err,
				joberrors.MalformedRequestCode,
				"The download parameter must be true or false"))
		}
		download = parsed
	}

	reader, apiErr := g.usecase.OpenStem(ctx, jobID, stem)
	if apiErr != nil {
		apiErr = api.WrapError(apiErr, "Failed to get stem")
		return gateway.ErrorResponse(c, apiErr)
	}
	defer reader.Close()

	disposition := "inline"
	if download {
		disposition = "attachment"
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("%s; filename=%q", disposition, stem+collect.StemExt))

	return c.Stream(http.StatusOK, wavContentType, reader)
}

// parseForm reads the multipart body. A request that isn't multipart at all
// has no audio file, which the usecase reports with a nil form.
func (g Gateway) parseForm(c echo.Context) (*multipart.Form, *api.Error) {
	if g.maxUploadBytes > 0 {
		c.Request().Body = http.MaxBytesReader(c.Response(), c.Request().Body, g.maxUploadBytes+formOverheadBytes)
	}

	form, err := c.MultipartForm()
	if err == nil {
		return form, nil
	}

	var maxBytesErr *http.MaxBytesError
	switch {
	case errors.Is(err, http.ErrNotMultipart):
		return nil, nil

	case errors.As(err, &maxBytesErr):
		err = errors.Wrap(err, "Request body exceeds the upload limit")
		return nil, api.CommitError(err, joberrors.UploadTooLargeCode, "Audio file is too large")

	default:
		err = errors.Wrap(err, "Failed to parse multipart form")
		return nil, api.CommitError(err,
			joberrors.MalformedRequestCode,
			"The upload could not be read. Please try again")
	}
}

func removeFormFiles(form *multipart.Form) {
	if form == nil {
		return
	}

	if err := form.RemoveAll(); err != nil {
		log.WithError(err).Warn("Failed to remove multipart temp files")
	}
}
