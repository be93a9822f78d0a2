// Package janitor sweeps expired jobs and their files. It only runs when a
// retention period is configured; otherwise results are kept forever.
package janitor

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	jobentity "github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/server/internal/job/entity"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/lib/cerr"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/lib/working_dir"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/store"
	"github.com/apex/log"
	"github.com/gofrs/flock"
)

const lockFileName = ".janitor.lock"

type Config struct {
	Retention time.Duration
	Interval  time.Duration
}

type Janitor struct {
	workingDir working_dir.WorkingDir
	jobStore   jobentity.Store
	stemStore  store.Store
	config     Config
	lock       *flock.Flock
	now        func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
	stopped  sync.WaitGroup
}

func NewJanitor(workingDir working_dir.WorkingDir, jobStore jobentity.Store, stemStore store.Store, config Config) *Janitor {
	return &Janitor{
		workingDir: workingDir,
		jobStore:   jobStore,
		stemStore:  stemStore,
		config:     config,
		lock:       flock.New(filepath.Join(workingDir.Root(), lockFileName)),
		now:        time.Now,
		stop:       make(chan struct{}),
	}
}

func (j *Janitor) Enabled() bool {
	return j.config.Retention > 0 && j.config.Interval > 0
}

// Start sweeps on every interval until Stop. It does nothing when disabled.
func (j *Janitor) Start() {
	if !j.Enabled() {
		log.Info("Retention sweep disabled, results are kept indefinitely")
		return
	}

	log.WithFields(log.Fields{
		"retention": j.config.Retention.String(),
		"interval":  j.config.Interval.String(),
	}).Info("Starting retention sweep")

	j.stopped.Add(1)
	go func() {
		defer j.stopped.Done()

		ticker := time.NewTicker(j.config.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-j.stop:
				return
			case <-ticker.C:
				j.Sweep(context.Background())
			}
		}
	}()
}

func (j *Janitor) Stop() {
	j.stopOnce.Do(func() {
		close(j.stop)
	})
	j.stopped.Wait()
}

// Sweep runs one round. Another process holding the lock makes this round a
// no-op. Failures are logged and the round carries on.
func (j *Janitor) Sweep(ctx context.Context) {
	locked, err := j.lock.TryLock()
	if err != nil {
		log.WithError(err).Warn("Failed to take janitor lock")
		return
	}
	if !locked {
		log.Debug("Another janitor holds the lock, skipping sweep")
		return
	}
	defer func() {
		if err := j.lock.Unlock(); err != nil {
			log.WithError(err).Warn("Failed to release janitor lock")
		}
	}()

	cutoff := j.now().Add(-j.config.Retention)

	expiredJobs := j.sweepExpiredJobs(ctx)
	orphans := j.sweepOrphans(ctx, j.workingDir.UploadsDir(), cutoff) +
		j.sweepOrphans(ctx, j.workingDir.OutputDir(), cutoff)

	log.WithFields(log.Fields{
		"expired_jobs":    expiredJobs,
		"orphans_removed": orphans,
	}).Info("Retention sweep finished")
}

func (j *Janitor) sweepExpiredJobs(ctx context.Context) int {
	jobs, err := j.jobStore.ListExpired(ctx, j.now())
	if err != nil {
		cerr.Log(cerr.Wrap(err).Error("Failed to list expired jobs"))
		return 0
	}

	removed := 0
	for _, job := range jobs {
		if !job.IsFinished() {
			log.WithFields(log.Fields{
				"job_id": job.ID,
				"state":  job.State,
			}).Debug("Expired job still running, keeping it")
			continue
		}

		if err := j.deleteJob(ctx, job); err != nil {
			cerr.Log(err)
			continue
		}
		removed++
	}

	return removed
}

func (j *Janitor) deleteJob(ctx context.Context, job jobentity.Job) error {
	errctx := cerr.Field("job_id", job.ID)

	for _, path := range []string{j.workingDir.JobOutputDir(job.ID), j.workingDir.ArchivePath(job.ID)} {
		if err := os.RemoveAll(path); err != nil {
			return errctx.Field("path", path).Wrap(err).Error("Failed to remove job files")
		}
	}

	if job.Variant == jobentity.StemsVariant {
		if err := j.stemStore.DeleteJob(ctx, job.ID); err != nil {
			return errctx.Wrap(err).Error("Failed to remove stored stems")
		}
	}

	if err := j.jobStore.Delete(ctx, job.ID); err != nil {
		return errctx.Wrap(err).Error("Failed to delete job record")
	}

	log.WithField("job_id", job.ID).Info("Expired job removed")
	return nil
}

// sweepOrphans removes entries of dir last modified before cutoff, covering
// files whose job record is gone or was never written. Entries of a job that
// is still running are left alone.
func (j *Janitor) sweepOrphans(ctx context.Context, dir string, cutoff time.Time) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			log.WithError(err).WithField("dir", dir).Warn("Failed to list directory for sweep")
		}
		return 0
	}

	removed := 0
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			continue
		}

		if !info.ModTime().Before(cutoff) {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		if j.isRunning(ctx, jobIDOf(entry.Name())) {
			log.WithField("path", path).Debug("Skipping files of a running job")
			continue
		}

		if err := os.RemoveAll(path); err != nil {
			log.WithError(err).WithField("path", path).Warn("Failed to remove orphaned file")
			continue
		}

		log.WithField("path", path).Debug("Orphaned file removed")
		removed++
	}

	return removed
}

// jobIDOf maps an uploads entry (<id>_<name>) or an output dir (<id>) to its
// job id.
func jobIDOf(name string) string {
	id, _, _ := strings.Cut(name, "_")
	return id
}

func (j *Janitor) isRunning(ctx context.Context, jobID string) bool {
	job, err := j.jobStore.Get(ctx, jobID)
	if err != nil {
		return false
	}

	return !job.IsFinished()
}
