// Package ingest folds attendance events from Kafka into an in-memory snapshot.
package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/segmentio/kafka-go"

	"example.com/attendance/internal/events"
)

// Reader is the slice of *kafka.Reader the attendance log is folded from.
// ReplayReader satisfies it for partition replay.
type Reader interface {
	FetchMessage(context.Context) (kafka.Message, error)
	CommitMessages(context.Context, ...kafka.Message) error
	Close() error
}

// Handler applies one attendance event to a projection.
type Handler interface {
	Handle(context.Context, Message) error
}

// Message is an attendance event with its schema frame stripped. Payload is the
// JSON body for EventType.
type Message struct {
	Topic         string
	Partition     int
	Offset        int64
	Timestamp     time.Time
	EventType     string
	SchemaSubject string
	SchemaID      int
	Payload       json.RawMessage
}

var errMissingEventType = errors.New("missing event_type header")

// Option tunes a Processor.
type Option func(*Processor)

// WithLogger routes skipped and rejected events to logger.
func WithLogger(logger *log.Logger) Option {
	return func(p *Processor) {
		p.logger = logger
	}
}

// Processor folds one attendance topic into a Handler, one record at a time.
type Processor struct {
	reader  Reader
	handler Handler
	logger  *log.Logger
}

// NewProcessor binds reader to handler.
func NewProcessor(reader Reader, handler Handler, opts ...Option) *Processor {
	p := &Processor{
		reader:  reader,
		handler: handler,
		logger:  log.New(log.Writer(), "[attendance-ingest] ", log.LstdFlags|log.Lshortfile),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run applies events until ctx ends. A record with a broken frame or no
// event_type is skipped past; an event the handler rejects stays uncommitted.
func (p *Processor) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		msg, err := p.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			p.logger.Printf("fetch error: %v", err)
			continue
		}

		event, decodeErr := unframe(msg)
		if decodeErr != nil {
			p.logger.Printf("skipping malformed record %s[%d]@%d: %v", msg.Topic, msg.Partition, msg.Offset, decodeErr)
			observeMalformed(msg.Topic)
			if commitErr := p.reader.CommitMessages(ctx, msg); commitErr != nil {
				p.logger.Printf("commit past malformed record: %v", commitErr)
			}
			continue
		}

		if handleErr := p.handler.Handle(ctx, event); handleErr != nil {
			p.logger.Printf("rejected %s at %s[%d]@%d: %v", event.EventType, event.Topic, event.Partition, event.Offset, handleErr)
			observeRejected(event)
			continue
		}

		if commitErr := p.reader.CommitMessages(ctx, msg); commitErr != nil {
			p.logger.Printf("commit error: %v", commitErr)
		} else {
			observeApplied(event)
		}
	}
}

func unframe(msg kafka.Message) (Message, error) {
	schemaID, payload, err := events.DecodeFrame(msg.Value)
	if err != nil {
		return Message{}, err
	}

	eventType, ok := headerValue(msg, "event_type")
	if !ok || len(eventType) == 0 {
		return Message{}, errMissingEventType
	}
	schemaSubject, _ := headerValue(msg, "schema_subject")

	return Message{
		Topic:         msg.Topic,
		Partition:     msg.Partition,
		Offset:        msg.Offset,
		Timestamp:     msg.Time,
		EventType:     string(eventType),
		SchemaSubject: string(schemaSubject),
		SchemaID:      schemaID,
		Payload:       payload,
	}, nil
}

func headerValue(msg kafka.Message, key string) ([]byte, bool) {
	for _, header := range msg.Headers {
		if header.Key == key {
			return header.Value, true
		}
	}
	return nil, false
}
