package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/praekeltfoundation/hellomama-registration/internal/config"
)

// TaskMessage is the payload published for each registration to validate.
type TaskMessage struct {
	RegistrationID string    `json:"registration_id"`
	EnqueuedAt     time.Time `json:"enqueued_at"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaProducer publishes validation tasks to the task topic.
type KafkaProducer struct {
	writer messageWriter
	topic  string
}

// NewKafkaProducer returns a producer for cfg.Topic.
func NewKafkaProducer(cfg config.Kafka) (*KafkaProducer, error) {
	if !cfg.Enabled() {
		return nil, errors.New("at least one broker is required")
	}
	if cfg.Topic == "" {
		return nil, errors.New("topic is required")
	}
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &KafkaProducer{writer: writer, topic: cfg.Topic}, nil
}

// Submit publishes registrationID, keyed by itself so repeated tasks for a
// registration land on the same partition.
func (p *KafkaProducer) Submit(ctx context.Context, registrationID string) error {
	value, err := json.Marshal(TaskMessage{RegistrationID: registrationID, EnqueuedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("encode task: %w", err)
	}
	msg := kafka.Message{Key: []byte(registrationID), Value: value}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish task to %s: %w", p.topic, err)
	}
	return nil
}

// Close flushes and closes the writer.
func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}

// KafkaConsumer reads validation tasks from the topic and hands them to a
// Submitter, normally a Pool. An offset is committed once its task has been
// accepted.
type KafkaConsumer struct {
	reader messageReader
	next   Submitter
	log    *zap.Logger
	topic  string

	// retryDelay is the pause after a failed fetch.
	retryDelay time.Duration

	wg      sync.WaitGroup
	mu      sync.Mutex
	cancel  context.CancelFunc
	running bool
}

// NewKafkaConsumer returns a consumer in cfg.GroupID feeding next.
func NewKafkaConsumer(cfg config.Kafka, next Submitter, log *zap.Logger) (*KafkaConsumer, error) {
	switch {
	case !cfg.Enabled():
		return nil, errors.New("at least one broker is required")
	case cfg.Topic == "":
		return nil, errors.New("topic is required")
	case cfg.GroupID == "":
		return nil, errors.New("group ID is required")
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		Topic:          cfg.Topic,
		GroupID:        cfg.GroupID,
		MinBytes:       1,
		MaxBytes:       1 << 20,
		MaxWait:        time.Second,
		StartOffset:    kafka.FirstOffset,
		SessionTimeout: 30 * time.Second,
	})
	return newKafkaConsumer(reader, cfg.Topic, next, log), nil
}

const fetchRetryDelay = time.Second

func newKafkaConsumer(reader messageReader, topic string, next Submitter, log *zap.Logger) *KafkaConsumer {
	if log == nil {
		log = zap.NewNop()
	}
	return &KafkaConsumer{
		reader: reader,
		next:   next,
		log:    log.With(zap.String("topic", topic)),
		topic:  topic,

		retryDelay: fetchRetryDelay,
	}
}

// Start consumes in the background until ctx is cancelled or Stop is called.
func (c *KafkaConsumer) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return errors.New("consumer is already running")
	}
	c.running = true
	ctx, c.cancel = context.WithCancel(ctx)

	c.wg.Add(1)
	go c.loop(ctx)
	c.log.Info("kafka consumer started")
	return nil
}

// Stop ends consumption and closes the reader.
func (c *KafkaConsumer) Stop() error {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return nil
	}
	c.running = false
	c.cancel()
	c.mu.Unlock()

	c.wg.Wait()
	if err := c.reader.Close(); err != nil {
		return fmt.Errorf("close reader: %w", err)
	}
	c.log.Info("kafka consumer stopped")
	return nil
}

func (c *KafkaConsumer) loop(ctx context.Context) {
	defer c.wg.Done()
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.log.Error("fetch message", zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(c.retryDelay):
			}
			continue
		}

		var task TaskMessage
		if err := json.Unmarshal(msg.Value, &task); err != nil || task.RegistrationID == "" {
			// Malformed tasks are committed so they cannot block the partition.
			c.log.Error("discarding malformed task", zap.Int64("offset", msg.Offset), zap.Error(err))
			c.commit(ctx, msg)
			continue
		}

		if err := c.next.Submit(ctx, task.RegistrationID); err != nil {
			if ctx.Err() != nil {
				return
			}
			// Leave the offset uncommitted; the task is redelivered after a rebalance.
			c.log.Error("submit task", zap.String("registration_id", task.RegistrationID), zap.Error(err))
			continue
		}
		c.commit(ctx, msg)
	}
}

func (c *KafkaConsumer) commit(ctx context.Context, msg kafka.Message) {
	if err := c.reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
		c.log.Error("commit message", zap.Int64("offset", msg.Offset), zap.Error(err))
	}
}
