package cleanup

import (
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/apex/log"
	"github.com/cockroachdb/errors"
)

const DefaultDelay = 5 * time.Second

func NewManager(delay time.Duration) *Manager {
	return &Manager{
		delay:  delay,
		remove: os.RemoveAll,
		stat:   os.Lstat,
	}
}

// Manager deletes job artifacts in the background. Deletion is best effort:
// failures are logged and never reach the caller.
type Manager struct {
	delay     time.Duration
	remove    func(path string) error
	stat      func(path string) (fs.FileInfo, error)
	waitGroup sync.WaitGroup
}

func (m *Manager) Delay() time.Duration {
	return m.delay
}

// Schedule removes paths once the delay has passed.
func (m *Manager) Schedule(paths ...string) {
	m.ScheduleAfter(nil, paths...)
}

// ScheduleAfter removes paths once done is closed and the delay has passed
// after that. A nil done counts as already closed.
func (m *Manager) ScheduleAfter(done <-chan struct{}, paths ...string) {
	if len(paths) == 0 {
		return
	}

	pathsToDelete := append([]string(nil), paths...)

	m.waitGroup.Add(1)
	go func() {
		defer m.waitGroup.Done()

		if done != nil {
			<-done
		}

		time.Sleep(m.delay)
		m.deleteAll(pathsToDelete)
	}()
}

// Wait blocks until every scheduled deletion has run.
func (m *Manager) Wait() {
	m.waitGroup.Wait()
}

func (m *Manager) deleteAll(paths []string) {
	log.WithField("paths", paths).Debug("Background cleanup started")

	for _, path := range paths {
		m.delete(path)
	}
}

func (m *Manager) delete(path string) {
	logger := log.WithField("path", path)

	// RemoveAll is silent about missing paths, check first so it gets logged
	if _, err := m.stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Debug("Nothing to clean up, path already gone")
			return
		}

		logger.WithError(err).Warn("Error during background cleanup")
		return
	}

	if err := m.remove(path); err != nil {
		logger.WithError(err).Warn("Error during background cleanup")
		return
	}

	logger.Info("Deleted")
}
