package janitor_test

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/server/internal/janitor"
	jobentity "github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/server/internal/job/entity"
	jobstorage "github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/server/internal/job/storage"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/lib/working_dir"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/collect"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/splitter"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/store"
	. "github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/testing"
	"github.com/cockroachdb/errors"
	"github.com/gofrs/flock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Janitor", func() {
	const retention = time.Hour

	var (
		ctx        context.Context
		workingDir working_dir.WorkingDir
		jobStore   *jobstorage.MemoryStore
		stemStore  store.LocalStemStore
		j          *janitor.Janitor
	)

	exists := func(path string) bool {
		_, err := os.Stat(path)
		return err == nil
	}

	writeFile := func(path string) {
		ExpectWithOffset(1, os.MkdirAll(filepath.Dir(path), os.ModePerm)).To(Succeed())
		ExpectWithOffset(1, os.WriteFile(path, []byte("data"), 0o644)).To(Succeed())
	}

	age := func(path string, by time.Duration) {
		then := time.Now().Add(-by)
		ExpectWithOffset(1, os.Chtimes(path, then, then)).To(Succeed())
	}

	finished := func(job jobentity.Job) jobentity.Job {
		ExpectWithOffset(1, job.TransitionTo(jobentity.ProcessingState)).To(Succeed())
		ExpectWithOffset(1, job.TransitionTo(jobentity.SucceededState)).To(Succeed())
		return job
	}

	makeJanitor := func(config janitor.Config) *janitor.Janitor {
		return janitor.NewJanitor(workingDir, jobStore, stemStore, config)
	}

	BeforeEach(func() {
		ctx = context.Background()
		workingDir = ExpectSuccess(working_dir.NewWorkingDir(GinkgoT().TempDir()))
		Expect(workingDir.Ensure()).To(Succeed())

		jobStore = jobstorage.NewMemoryStore()
		stemStore = store.NewLocalStemStore(filepath.Join(workingDir.Root(), "stems"))
		j = makeJanitor(janitor.Config{Retention: retention, Interval: time.Hour})
	})

	Describe("Enabled", func() {
		It("needs both a retention and an interval", func() {
			Expect(j.Enabled()).To(BeTrue())
			Expect(makeJanitor(janitor.Config{Interval: time.Hour}).Enabled()).To(BeFalse())
			Expect(makeJanitor(janitor.Config{Retention: time.Hour}).Enabled()).To(BeFalse())
		})
	})

	Describe("Sweep", func() {
		var archiveJob, stemsJob jobentity.Job

		BeforeEach(func() {
			archiveJob = finished(jobentity.NewJob("archive-job", jobentity.ArchiveVariant, splitter.SplitTwoStemsType, splitter.SpleeterType, retention))
			Expect(jobStore.Put(ctx, archiveJob)).To(Succeed())
			writeFile(filepath.Join(workingDir.JobOutputDir(archiveJob.ID), "vocals.wav"))
			writeFile(workingDir.ArchivePath(archiveJob.ID))

			stemsJob = finished(jobentity.NewJob("stems-job", jobentity.StemsVariant, splitter.SplitTwoStemsType, splitter.DemucsType, retention))
			stemsJob.Stems = []string{"vocals"}
			Expect(jobStore.Put(ctx, stemsJob)).To(Succeed())

			src := filepath.Join(GinkgoT().TempDir(), "vocals.wav")
			writeFile(src)
			Expect(stemStore.SaveStems(ctx, stemsJob.ID, collect.StemFilePaths{"vocals": src})).To(Succeed())
		})

		It("keeps jobs that have not expired", func() {
			j.Sweep(ctx)

			Expect(exists(workingDir.ArchivePath(archiveJob.ID))).To(BeTrue())
			Expect(exists(workingDir.JobOutputDir(archiveJob.ID))).To(BeTrue())
			ExpectSuccess(jobStore.Get(ctx, archiveJob.ID))

			stem := ExpectSuccess(stemStore.OpenStem(ctx, stemsJob.ID, "vocals"))
			Expect(stem.Close()).To(Succeed())
		})

		Context("once the retention has passed", func() {
			BeforeEach(func() {
				later := time.Now().Add(retention + time.Minute)
				j.SetNow(func() time.Time { return later })
			})

			It("removes the files and record of an archive job", func() {
				j.Sweep(ctx)

				Expect(exists(workingDir.ArchivePath(archiveJob.ID))).To(BeFalse())
				Expect(exists(workingDir.JobOutputDir(archiveJob.ID))).To(BeFalse())

				_, err := jobStore.Get(ctx, archiveJob.ID)
				Expect(errors.Is(err, jobstorage.JobNotFoundMark)).To(BeTrue())
			})

			It("removes the stored stems of a stems job", func() {
				j.Sweep(ctx)

				_, err := stemStore.OpenStem(ctx, stemsJob.ID, "vocals")
				Expect(errors.Is(err, store.StemNotFoundMark)).To(BeTrue())

				_, err = jobStore.Get(ctx, stemsJob.ID)
				Expect(errors.Is(err, jobstorage.JobNotFoundMark)).To(BeTrue())
			})

			It("keeps an expired job that is still running", func() {
				running := jobentity.NewJob("running-job", jobentity.ArchiveVariant, splitter.SplitTwoStemsType, splitter.SpleeterType, retention)
				Expect(running.TransitionTo(jobentity.ProcessingState)).To(Succeed())
				Expect(jobStore.Put(ctx, running)).To(Succeed())

				j.Sweep(ctx)

				ExpectSuccess(jobStore.Get(ctx, running.ID))
			})

			It("keeps jobs that never expire", func() {
				forever := jobentity.NewJob("forever", jobentity.ArchiveVariant, splitter.SplitTwoStemsType, splitter.SpleeterType, 0)
				Expect(jobStore.Put(ctx, forever)).To(Succeed())

				j.Sweep(ctx)

				ExpectSuccess(jobStore.Get(ctx, forever.ID))
			})
		})

		It("removes orphaned files older than the retention", func() {
			oldUpload := filepath.Join(workingDir.UploadsDir(), "old_song.mp3")
			writeFile(oldUpload)
			age(oldUpload, 2*retention)

			oldOutput := filepath.Join(workingDir.OutputDir(), "old-job")
			writeFile(filepath.Join(oldOutput, "vocals.wav"))
			age(oldOutput, 2*retention)

			freshUpload := filepath.Join(workingDir.UploadsDir(), "fresh_song.mp3")
			writeFile(freshUpload)

			j.Sweep(ctx)

			Expect(exists(oldUpload)).To(BeFalse())
			Expect(exists(oldOutput)).To(BeFalse())
			Expect(exists(freshUpload)).To(BeTrue())
		})

		It("keeps old files of a job that is still running", func() {
			running := jobentity.NewJob("running-job", jobentity.StemsVariant, splitter.SplitFourStemsType, splitter.DemucsType, retention)
			Expect(running.TransitionTo(jobentity.ProcessingState)).To(Succeed())
			Expect(jobStore.Put(ctx, running)).To(Succeed())

			output := workingDir.JobOutputDir(running.ID)
			writeFile(filepath.Join(output, "vocals.wav"))
			age(output, 2*retention)

			upload := filepath.Join(workingDir.UploadsDir(), running.ID+"_song.wav")
			writeFile(upload)
			age(upload, 2*retention)

			j.Sweep(ctx)

			Expect(exists(output)).To(BeTrue())
			Expect(exists(upload)).To(BeTrue())
		})

		It("removes old files of a job that has finished", func() {
			done := jobentity.NewJob("done-job", jobentity.StemsVariant, splitter.SplitFourStemsType, splitter.DemucsType, 0)
			Expect(done.TransitionTo(jobentity.FailedState)).To(Succeed())
			Expect(jobStore.Put(ctx, done)).To(Succeed())

			output := workingDir.JobOutputDir(done.ID)
			writeFile(filepath.Join(output, "vocals.wav"))
			age(output, 2*retention)

			j.Sweep(ctx)

			Expect(exists(output)).To(BeFalse())
		})

		It("skips the round while another janitor holds the lock", func() {
			other := flock.New(filepath.Join(workingDir.Root(), ".janitor.lock"))
			Expect(ExpectSuccess(other.TryLock())).To(BeTrue())
			defer func() {
				Expect(other.Unlock()).To(Succeed())
			}()

			oldUpload := filepath.Join(workingDir.UploadsDir(), "old_song.mp3")
			writeFile(oldUpload)
			age(oldUpload, 2*retention)

			j.Sweep(ctx)

			Expect(exists(oldUpload)).To(BeTrue())
		})
	})

	Describe("Start", func() {
		It("sweeps on every interval until stopped", func() {
			j = makeJanitor(janitor.Config{Retention: retention, Interval: 10 * time.Millisecond})

			oldUpload := filepath.Join(workingDir.UploadsDir(), "old_song.mp3")
			writeFile(oldUpload)
			age(oldUpload, 2*retention)

			j.Start()
			defer j.Stop()

			Eventually(func() bool {
				return exists(oldUpload)
			}).Should(BeFalse())
		})

		It("does nothing when disabled", func() {
			j = makeJanitor(janitor.Config{Interval: 10 * time.Millisecond})

			oldUpload := filepath.Join(workingDir.UploadsDir(), "old_song.mp3")
			writeFile(oldUpload)
			age(oldUpload, 2*retention)

			j.Start()
			Consistently(func() bool {
				return exists(oldUpload)
			}, 100*time.Millisecond, 10*time.Millisecond).Should(BeTrue())

			j.Stop()
		})

		It("can be stopped more than once", func() {
			j.Start()
			j.Stop()
			j.Stop()
		})
	})
})
