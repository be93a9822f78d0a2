package jobentity

import (
	"fmt"
	"time"

	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/lib/cerr"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/splitter"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/errors/domains"
)

var InvalidTransitionMark = domains.New("invalid_job_transition")

type State string

const (
	ReceivedState   State = "received"
	ProcessingState State = "processing"
	SucceededState  State = "succeeded"
	FailedState     State = "failed"
)

var allowedTransitions = map[State][]State{
	ReceivedState:   {ProcessingState, FailedState},
	ProcessingState: {SucceededState, FailedState},
}

// Variant says how a job's results are handed back.
type Variant string

const (
	ArchiveVariant Variant = "archive"
	StemsVariant   Variant = "stems"
)

type Job struct {
	ID        string
	State     State
	Variant   Variant
	SplitType splitter.SplitType
	Engine    splitter.EngineType
	Stems     []string
	CreatedAt time.Time
	// ExpiresAt is zero when results are retained forever.
	ExpiresAt time.Time
}

func NewJob(id string, variant Variant, splitType splitter.SplitType, engine splitter.EngineType, retention time.Duration) Job {
	// truncated so records compare equal after a round trip through storage
	now := time.Now().UTC().Truncate(time.Second)

	job := Job{
		ID:        id,
		State:     ReceivedState,
		Variant:   variant,
		SplitType: splitType,
		Engine:    engine,
		CreatedAt: now,
	}

	if retention > 0 {
		job.ExpiresAt = now.Add(retention)
	}

	return job
}

// TransitionTo moves the job forward. Terminal states never change again.
func (j *Job) TransitionTo(next State) error {
	for _, allowed := range allowedTransitions[j.State] {
		if allowed == next {
			j.State = next
			return nil
		}
	}

	err := cerr.Fields(cerr.F{
		"job_id": j.ID,
		"from":   j.State,
		"to":     next,
	}).Error(fmt.Sprintf("Job cannot move from %s to %s", j.State, next))

	return errors.Mark(err, InvalidTransitionMark)
}

// IsFinished reports whether the job reached a terminal state.
func (j Job) IsFinished() bool {
	return j.State == SucceededState || j.State == FailedState
}

func (j Job) IsExpired(now time.Time) bool {
	return !j.ExpiresAt.IsZero() && !now.Before(j.ExpiresAt)
}

func (j Job) HasStem(name string) bool {
	for _, stem := range j.Stems {
		if stem == name {
			return true
		}
	}

	return false
}
