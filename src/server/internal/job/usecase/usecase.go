package jobusecase

import (
	"context"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/server/internal/errors/api"
	jobentity "github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/server/internal/job/entity"
	joberrors "github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/server/internal/job/errors"
	jobevents "github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/server/internal/job/events"
	jobstorage "github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/server/internal/job/storage"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/lib/cerr"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/pcm"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/pipeline"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/splitter"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/store"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/upload"
	"github.com/apex/log"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/errors/markers"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type Config struct {
	Defaults Options
	// Retention is how long finished jobs are kept. Zero keeps them forever.
	Retention time.Duration
}

type Usecase struct {
	receiver        upload.Receiver
	archivePipeline pipeline.ArchivePipeline
	stemPipeline    pipeline.StemPipeline
	jobStore        jobentity.Store
	stemStore       store.Store
	notifier        jobevents.Notifier
	validate        *validator.Validate
	config          Config
}

func NewUsecase(
	receiver upload.Receiver,
	archivePipeline pipeline.ArchivePipeline,
	stemPipeline pipeline.StemPipeline,
	jobStore jobentity.Store,
	stemStore store.Store,
	notifier jobevents.Notifier,
	config Config,
) Usecase {
	return Usecase{
		receiver:        receiver,
		archivePipeline: archivePipeline,
		stemPipeline:    stemPipeline,
		jobStore:        jobStore,
		stemStore:       stemStore,
		notifier:        notifier,
		validate:        validator.New(),
		config:          config,
	}
}

type ArchiveResult struct {
	JobID        string
	ArchivePath  string
	DownloadName string
}

type SeparateResult struct {
	JobID    string
	Stems    []string
	Features map[string]pcm.Features
}

// Process runs the archive variant. done is closed by the caller once the
// archive has been sent, which starts the cleanup clock.
func (u Usecase) Process(ctx context.Context, form *multipart.Form, done <-chan struct{}) (ArchiveResult, *api.Error) {
	options, input, apiErr := u.receive(form, u.config.Defaults, "")
	if apiErr != nil {
		return ArchiveResult{}, apiErr
	}

	job := u.startJob(ctx, input, jobentity.ArchiveVariant, options)

	result, err := u.archivePipeline.Run(ctx, input, pipeline.ArchiveOptions{
		SplitType: options.SplitType,
		Engine:    options.Engine,
	}, done)
	if err != nil {
		return ArchiveResult{}, u.failJob(ctx, job, err)
	}

	job.Stems = stemNamesFromFiles(result.Files)
	u.finishJob(ctx, job)

	return ArchiveResult{
		JobID:        input.JobID,
		ArchivePath:  result.ArchivePath,
		DownloadName: input.DownloadName(),
	}, nil
}

// Separate runs the in-process variant, leaving each stem available through
// OpenStem.
func (u Usecase) Separate(ctx context.Context, form *multipart.Form, done <-chan struct{}) (SeparateResult, *api.Error) {
	defaults := u.config.Defaults
	defaults.Engine = splitter.DemucsType

	options, input, apiErr := u.receive(form, defaults, splitter.DemucsType)
	if apiErr != nil {
		return SeparateResult{}, apiErr
	}

	job := u.startJob(ctx, input, jobentity.StemsVariant, options)

	result, err := u.stemPipeline.Run(ctx, input, options.SplitType, done)
	if err != nil {
		return SeparateResult{}, u.failJob(ctx, job, err)
	}

	job.Stems = result.Names
	u.finishJob(ctx, job)

	return SeparateResult{
		JobID:    input.JobID,
		Stems:    result.Names,
		Features: result.Features,
	}, nil
}

func (u Usecase) OpenStem(ctx context.Context, jobID string, stem string) (io.ReadCloser, *api.Error) {
	errctx := cerr.Fields(cerr.F{"job_id": jobID, "stem": stem})

	if _, err := uuid.Parse(jobID); err != nil {
		return nil, api.CommitError(errctx.Wrap(err).Error("Job ID is malformed"),
			joberrors.JobNotFoundCode, "The job could not be found")
	}

	job, err := u.jobStore.Get(ctx, jobID)
	if err != nil {
		err = errctx.Wrap(err).Error("Failed to look up job")
		if markers.Is(err, jobstorage.JobNotFoundMark) {
			return nil, api.CommitError(err, joberrors.JobNotFoundCode, "The job could not be found")
		}
		return nil, api.CommitError(err, api.DefaultErrorCode, api.DefaultUserMessage)
	}

	if job.State != jobentity.SucceededState {
		return nil, api.CommitError(errctx.Field("state", job.State).Error("Job has not succeeded"),
			joberrors.JobNotFinishedCode, "The job has not finished successfully")
	}

	if job.Variant != jobentity.StemsVariant || !job.HasStem(stem) {
		return nil, api.CommitError(errctx.Error("Job has no such stem"),
			joberrors.StemNotFoundCode, "The stem could not be found")
	}

	reader, err := u.stemStore.OpenStem(ctx, jobID, stem)
	if err != nil {
		err = errctx.Wrap(err).Error("Failed to open stem")
		if markers.Is(err, store.StemNotFoundMark) {
			return nil, api.CommitError(err, joberrors.StemNotFoundCode, "The stem could not be found")
		}
		return nil, api.CommitError(err, api.DefaultErrorCode, api.DefaultUserMessage)
	}

	return reader, nil
}

// receive validates the request before anything touches the disk, then
// saves the upload.
func (u Usecase) receive(form *multipart.Form, defaults Options, only splitter.EngineType) (Options, upload.Input, *api.Error) {
	header, err := upload.FormFile(form)
	if err != nil {
		return Options{}, upload.Input{}, commitJobError(err, defaults.Engine)
	}

	options, err := parseOptions(u.validate, form, defaults, only)
	if err != nil {
		return Options{}, upload.Input{}, commitJobError(err, defaults.Engine)
	}

	input, err := u.receiver.ReceiveFile(header)
	if err != nil {
		return Options{}, upload.Input{}, commitJobError(errors.Wrap(err, "Failed to receive upload"), options.Engine)
	}

	return options, input, nil
}

// bookkeeping below is best effort, a job never fails because its record or
// event could not be written

func (u Usecase) startJob(ctx context.Context, input upload.Input, variant jobentity.Variant, options Options) jobentity.Job {
	job := jobentity.NewJob(input.JobID, variant, options.SplitType, options.Engine, u.config.Retention)
	u.record(ctx, job, "")

	u.transition(ctx, &job, jobentity.ProcessingState, "")
	return job
}

func (u Usecase) failJob(ctx context.Context, job jobentity.Job, err error) *api.Error {
	apiErr := commitJobError(errors.Wrap(err, "Job failed"), job.Engine)
	u.transition(ctx, &job, jobentity.FailedState, string(apiErr.ErrorCode))
	return apiErr
}

func (u Usecase) finishJob(ctx context.Context, job jobentity.Job) {
	u.transition(ctx, &job, jobentity.SucceededState, "")
}

func (u Usecase) transition(ctx context.Context, job *jobentity.Job, next jobentity.State, errorCode string) {
	if err := job.TransitionTo(next); err != nil {
		cerr.Log(err)
		return
	}

	u.record(ctx, *job, errorCode)
}

func (u Usecase) record(ctx context.Context, job jobentity.Job, errorCode string) {
	if err := u.jobStore.Put(ctx, job); err != nil {
		cerr.Log(cerr.Field("job_id", job.ID).Wrap(err).Error("Failed to record job state"))
	}

	log.WithFields(log.Fields{
		"job_id": job.ID,
		"state":  job.State,
	}).Debug("Job state recorded")

	u.notifier.JobChanged(ctx, job, errorCode)
}

func stemNamesFromFiles(files []string) []string {
	names := make([]string, 0, len(files))
	for _, file := range files {
		base := filepath.Base(file)
		names = append(names, strings.TrimSuffix(base, filepath.Ext(base)))
	}

	return names
}
