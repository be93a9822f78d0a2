package jobevents_test

import (
	"context"
	"encoding/json"
	"time"

	jobentity "github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/server/internal/job/entity"
	jobevents "github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/server/internal/job/events"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/lib/rabbitmq/rabbitmqfakes"
	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/stems/splitter"
	"github.com/cockroachdb/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("RabbitMQ notifier", func() {
	var (
		publisher *rabbitmqfakes.FakePublisher
		notifier  jobevents.RabbitMQNotifier
		job       jobentity.Job
	)

	BeforeEach(func() {
		publisher = &rabbitmqfakes.FakePublisher{}
		notifier = jobevents.NewRabbitMQNotifier(publisher)
		job = jobentity.NewJob("job-id", jobentity.StemsVariant, splitter.SplitTwoStemsType, splitter.DemucsType, time.Hour)
	})

	decodeEvent := func(i int) (string, jobevents.Event) {
		_, message := publisher.PublishArgsForCall(i)

		event := jobevents.Event{}
		Expect(json.Unmarshal(message.Body, &event)).To(Succeed())
		return message.Type, event
	}

	It("publishes the job's state", func() {
		notifier.JobChanged(context.Background(), job, "")

		Expect(publisher.PublishCallCount()).To(Equal(1))
		eventType, event := decodeEvent(0)
		Expect(eventType).To(Equal(string(jobevents.JobReceivedType)))
		Expect(event.JobID).To(Equal("job-id"))
		Expect(event.State).To(Equal("received"))
		Expect(event.Variant).To(Equal("stems"))
		Expect(event.SplitType).To(Equal("2stems"))
		Expect(event.ErrorCode).To(BeEmpty())
	})

	It("includes the stems of a finished job", func() {
		Expect(job.TransitionTo(jobentity.ProcessingState)).To(Succeed())
		Expect(job.TransitionTo(jobentity.SucceededState)).To(Succeed())
		job.Stems = []string{"vocals", "accompaniment"}

		notifier.JobChanged(context.Background(), job, "")

		eventType, event := decodeEvent(0)
		Expect(eventType).To(Equal(string(jobevents.JobSucceededType)))
		Expect(event.Stems).To(Equal([]string{"vocals", "accompaniment"}))
	})

	It("includes the error code of a failed job", func() {
		Expect(job.TransitionTo(jobentity.FailedState)).To(Succeed())

		notifier.JobChanged(context.Background(), job, "separation_failed")

		eventType, event := decodeEvent(0)
		Expect(eventType).To(Equal(string(jobevents.JobFailedType)))
		Expect(event.ErrorCode).To(Equal("separation_failed"))
	})

	It("swallows publish failures", func() {
		publisher.PublishReturns(errors.New("connection reset"))

		Expect(func() {
			notifier.JobChanged(context.Background(), job, "")
		}).NotTo(Panic())
		Expect(publisher.PublishCallCount()).To(Equal(1))
	})

	It("publishes nothing for an unknown state", func() {
		job.State = jobentity.State("paused")

		notifier.JobChanged(context.Background(), job, "")
		Expect(publisher.PublishCallCount()).To(BeZero())
	})
})
