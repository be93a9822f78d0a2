package jobstorage

import (
	"context"
	"sync"
	"time"

	jobentity "github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/server/internal/job/entity"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/lib/errors/mark"
)

var _ jobentity.Store = &MemoryStore{}

// MemoryStore keeps job records for the lifetime of the process.
type MemoryStore struct {
	mutex sync.RWMutex
	jobs  map[string]jobentity.Job
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{jobs: map[string]jobentity.Job{}}
}

func (m *MemoryStore) Put(_ context.Context, job jobentity.Job) error {
	if job.ID == "" {
		return mark.Message(DefaultErrorMark, "Job has no ID")
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	job.Stems = append([]string(nil), job.Stems...)
	m.jobs[job.ID] = job
	return nil
}

func (m *MemoryStore) Get(_ context.Context, jobID string) (jobentity.Job, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	job, ok := m.jobs[jobID]
	if !ok {
		return jobentity.Job{}, mark.Message(JobNotFoundMark, "Job is not found")
	}

	job.Stems = append([]string(nil), job.Stems...)
	return job, nil
}

func (m *MemoryStore) ListExpired(_ context.Context, before time.Time) ([]jobentity.Job, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	expired := []jobentity.Job{}
	for _, job := range m.jobs {
		if job.IsExpired(before) {
			expired = append(expired, job)
		}
	}

	return expired, nil
}

func (m *MemoryStore) Delete(_ context.Context, jobID string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	delete(m.jobs, jobID)
	return nil
}
