package testing

import (
	"encoding/json"
	"sync"

	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/lib/rabbitmq"
	"github.com/rabbitmq/amqp091-go"
)

func MakeRabbitMQConnection() *amqp091.Connection {
	return ExpectSuccess(amqp091.Dial(RabbitMQHost))
}

// RabbitMQAvailable reports whether a local broker accepts connections.
func RabbitMQAvailable() bool {
	conn, err := amqp091.Dial(RabbitMQHost)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

func ResetRabbitMQ(conn *amqp091.Connection) {
	channel := ExpectSuccess(conn.Channel())
	ExpectSuccess(channel.QueuePurge(RabbitMQQueueName, false))
}

func AfterSuiteRabbitMQ(conn *amqp091.Connection) {
	channel := ExpectSuccess(conn.Channel())
	ExpectSuccess(channel.QueueDelete(RabbitMQQueueName, false, false, false))
}

func MakeRabbitMQPublisher() *rabbitmq.QueuePublisher {
	return ExpectSuccess(rabbitmq.NewQueuePublisher(RabbitMQHost, RabbitMQQueueName))
}

type ReceivedMessage struct {
	Type    string
	Message map[string]interface{}
}

type RabbitMQConsumer struct {
	channel          *amqp091.Channel
	lock             sync.Mutex
	queueName        string
	receivedMessages []ReceivedMessage
	err              error
}

func NewRabbitMQConsumer(conn *amqp091.Connection) *RabbitMQConsumer {
	return &RabbitMQConsumer{
		channel:   ExpectSuccess(conn.Channel()),
		queueName: RabbitMQQueueName,
	}
}

func (r *RabbitMQConsumer) AsyncStart() {
	r.lock.Lock()
	if r.channel == nil {
		r.lock.Unlock()
		return
	}

	messageStream := ExpectSuccess(r.channel.Consume(
		r.queueName,
		"",
		true,
		false,
		false,
		false,
		nil,
	))
	r.lock.Unlock()

	for message := range messageStream {
		body := map[string]interface{}{}
		err := json.Unmarshal(message.Body, &body)

		r.lock.Lock()
		if err != nil {
			r.err = err
		} else if r.err == nil {
			r.receivedMessages = append(r.receivedMessages, ReceivedMessage{
				Type:    message.Type,
				Message: body,
			})
		}
		r.lock.Unlock()
	}
}

func (r *RabbitMQConsumer) Stop() {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.channel != nil {
		_ = r.channel.Close()
	}
	r.channel = nil
}

func (r *RabbitMQConsumer) Unload() ([]ReceivedMessage, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.err != nil {
		return nil, r.err
	}

	receivedMessages := r.receivedMessages
	r.receivedMessages = nil
	return receivedMessages, nil
}
