package jobusecase_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	jobentity "github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/server/internal/job/entity"
	joberrors "github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/server/internal/job/errors"
	jobevents "github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/server/internal/job/events"
	jobstorage "github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/server/internal/job/storage"
	jobusecase "github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/server/internal/job/usecase"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/collect"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/pipeline"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/splitter"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/store"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/upload"
	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("OpenStem", func() {
	var (
		ctx       context.Context
		jobStore  *jobstorage.MemoryStore
		stemStore store.LocalStemStore
		usecase   jobusecase.Usecase
		job       jobentity.Job
	)

	BeforeEach(func() {
		ctx = context.Background()
		jobStore = jobstorage.NewMemoryStore()
		stemStore = store.NewLocalStemStore(GinkgoT().TempDir())

		usecase = jobusecase.NewUsecase(
			upload.NewReceiver(GinkgoT().TempDir(), 0),
			pipeline.ArchivePipeline{},
			pipeline.StemPipeline{},
			jobStore,
			stemStore,
			jobevents.NoopNotifier{},
			jobusecase.Config{},
		)

		job = jobentity.NewJob(uuid.NewString(), jobentity.StemsVariant, splitter.SplitTwoStemsType, splitter.DemucsType, time.Hour)
		job.Stems = []string{"vocals", "accompaniment"}

		stemDir := GinkgoT().TempDir()
		stemFiles := collect.StemFilePaths{}
		for _, stem := range job.Stems {
			path := filepath.Join(stemDir, stem+".wav")
			Expect(os.WriteFile(path, []byte(stem), 0o644)).To(Succeed())
			stemFiles[stem] = path
		}
		Expect(stemStore.SaveStems(ctx, job.ID, stemFiles)).To(Succeed())
	})

	putJob := func(states ...jobentity.State) {
		for _, state := range states {
			ExpectWithOffset(1, job.TransitionTo(state)).To(Succeed())
		}
		ExpectWithOffset(1, jobStore.Put(ctx, job)).To(Succeed())
	}

	It("opens a stem of a finished job", func() {
		putJob(jobentity.ProcessingState, jobentity.SucceededState)

		reader, apiErr := usecase.OpenStem(ctx, job.ID, "vocals")
		Expect(apiErr).To(BeNil())
		defer reader.Close()

		Expect(io.ReadAll(reader)).To(Equal([]byte("vocals")))
	})

	It("refuses a job that is still running", func() {
		putJob(jobentity.ProcessingState)

		_, apiErr := usecase.OpenStem(ctx, job.ID, "vocals")
		Expect(apiErr).NotTo(BeNil())
		Expect(apiErr.ErrorCode).To(Equal(joberrors.JobNotFinishedCode))
	})

	It("refuses a job that failed", func() {
		putJob(jobentity.FailedState)

		_, apiErr := usecase.OpenStem(ctx, job.ID, "vocals")
		Expect(apiErr.ErrorCode).To(Equal(joberrors.JobNotFinishedCode))
	})

	It("has no stems for archive jobs", func() {
		job.Variant = jobentity.ArchiveVariant
		putJob(jobentity.ProcessingState, jobentity.SucceededState)

		_, apiErr := usecase.OpenStem(ctx, job.ID, "vocals")
		Expect(apiErr.ErrorCode).To(Equal(joberrors.StemNotFoundCode))
	})

	It("reports stems missing from the store", func() {
		putJob(jobentity.ProcessingState, jobentity.SucceededState)
		Expect(stemStore.DeleteJob(ctx, job.ID)).To(Succeed())

		_, apiErr := usecase.OpenStem(ctx, job.ID, "vocals")
		Expect(apiErr.ErrorCode).To(Equal(joberrors.StemNotFoundCode))
	})

	It("reports a job that was never recorded", func() {
		_, apiErr := usecase.OpenStem(ctx, job.ID, "vocals")
		Expect(apiErr.ErrorCode).To(Equal(joberrors.JobNotFoundCode))
	})

	It("never looks up a malformed id", func() {
		_, apiErr := usecase.OpenStem(ctx, "../../etc", "vocals")
		Expect(apiErr.ErrorCode).To(Equal(joberrors.JobNotFoundCode))
	})
})
