package jobevents

import (
	"context"
	"encoding/json"
	"time"

	jobentity "github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/server/internal/job/entity"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/lib/cerr"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/lib/rabbitmq"
	"github.com/apex/log"
	"github.com/rabbitmq/amqp091-go"
)

type EventType string

const (
	JobReceivedType   EventType = "job_received"
	JobProcessingType EventType = "job_processing"
	JobSucceededType  EventType = "job_succeeded"
	JobFailedType     EventType = "job_failed"
)

var stateEvents = map[jobentity.State]EventType{
	jobentity.ReceivedState:   JobReceivedType,
	jobentity.ProcessingState: JobProcessingType,
	jobentity.SucceededState:  JobSucceededType,
	jobentity.FailedState:     JobFailedType,
}

type Event struct {
	JobID     string    `json:"job_id"`
	State     string    `json:"state"`
	Variant   string    `json:"variant"`
	SplitType string    `json:"split_type"`
	Engine    string    `json:"engine,omitempty"`
	Stems     []string  `json:"stems,omitempty"`
	ErrorCode string    `json:"error_code,omitempty"`
	At        time.Time `json:"at"`
}

// Notifier announces job state changes. Announcing is best effort and never
// fails the job.
type Notifier interface {
	JobChanged(ctx context.Context, job jobentity.Job, errorCode string)
}

var _ Notifier = NoopNotifier{}

type NoopNotifier struct{}

func (NoopNotifier) JobChanged(context.Context, jobentity.Job, string) {}

var _ Notifier = RabbitMQNotifier{}

func NewRabbitMQNotifier(publisher rabbitmq.Publisher) RabbitMQNotifier {
	return RabbitMQNotifier{publisher: publisher}
}

type RabbitMQNotifier struct {
	publisher rabbitmq.Publisher
}

func (r RabbitMQNotifier) JobChanged(ctx context.Context, job jobentity.Job, errorCode string) {
	logger := log.WithFields(log.Fields{
		"job_id": job.ID,
		"state":  job.State,
	})

	if err := r.publish(ctx, job, errorCode); err != nil {
		logger.WithFields(cerr.ExtractFields(err)).WithError(err).Warn("Failed to publish job event")
		return
	}

	logger.Debug("Published job event")
}

func (r RabbitMQNotifier) publish(ctx context.Context, job jobentity.Job, errorCode string) error {
	eventType, ok := stateEvents[job.State]
	if !ok {
		return cerr.Field("state", job.State).Error("No event for job state")
	}

	body, err := json.Marshal(Event{
		JobID:     job.ID,
		State:     string(job.State),
		Variant:   string(job.Variant),
		SplitType: string(job.SplitType),
		Engine:    string(job.Engine),
		Stems:     job.Stems,
		ErrorCode: errorCode,
		At:        time.Now().UTC(),
	})
	if err != nil {
		return cerr.Wrap(err).Error("Failed to marshal job event")
	}

	err = r.publisher.Publish(ctx, amqp091.Publishing{
		Type: string(eventType),
		Body: body,
	})
	if err != nil {
		return cerr.Field("event_type", eventType).Wrap(err).Error("Failed to publish job event")
	}

	return nil
}
