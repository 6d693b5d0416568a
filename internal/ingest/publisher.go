package ingest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"example.com/attendance/internal/domain"
	"example.com/attendance/internal/events"
)

type messageWriter interface {
	WriteMessages(context.Context, string, ...kafka.Message) error
}

// KafkaProducer lazily manages writers per topic.
type KafkaProducer struct {
	brokers []string
	mu      sync.Mutex
	writers map[string]*kafka.Writer
}

// NewKafkaProducer creates a KafkaProducer.
func NewKafkaProducer(brokers []string) *KafkaProducer {
	return &KafkaProducer{
		brokers: brokers,
		writers: make(map[string]*kafka.Writer),
	}
}

// WriteMessages writes messages to the given topic, creating a writer if necessary.
func (p *KafkaProducer) WriteMessages(ctx context.Context, topic string, msgs ...kafka.Message) error {
	return p.writerForTopic(topic).WriteMessages(ctx, msgs...)
}

func (p *KafkaProducer) writerForTopic(topic string) *kafka.Writer {
	p.mu.Lock()
	defer p.mu.Unlock()

	if writer, ok := p.writers[topic]; ok {
		return writer
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(p.brokers...),
		Topic:                  topic,
		RequiredAcks:           kafka.RequireAll,
		Compression:            kafka.Snappy,
		AllowAutoTopicCreation: true,
	}
	p.writers[topic] = writer
	return writer
}

// Close releases all writers.
func (p *KafkaProducer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var firstErr error
	for topic, writer := range p.writers {
		if err := writer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(p.writers, topic)
	}
	return firstErr
}

// Publisher frames attendance events and writes them to a topic.
type Publisher struct {
	writer messageWriter
	topic  string
}

// NewPublisher constructs a Publisher writing to topic.
func NewPublisher(writer messageWriter, topic string) *Publisher {
	return &Publisher{writer: writer, topic: topic}
}

// Record is one event ready to publish.
type Record struct {
	Key       string
	EventType string
	Payload   any
}

// Publish encodes records and writes them in order.
func (p *Publisher) Publish(ctx context.Context, records ...Record) error {
	if len(records) == 0 {
		return nil
	}
	msgs := make([]kafka.Message, 0, len(records))
	for _, rec := range records {
		frame, schema, err := events.Marshal(rec.EventType, rec.Payload)
		if err != nil {
			return err
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(rec.Key),
			Value: frame,
			Time:  time.Now().UTC(),
			Headers: []kafka.Header{
				{Key: "event_type", Value: []byte(rec.EventType)},
				{Key: "schema_subject", Value: []byte(schema.Subject)},
			},
		})
	}
	if err := p.writer.WriteMessages(ctx, p.topic, msgs...); err != nil {
		return fmt.Errorf("publish to %s: %w", p.topic, err)
	}
	return nil
}

// SnapshotRecords converts a snapshot into the events that rebuild it: members
// first, then check-ins with their completions, then logged activities.
// Synthesized birthday entries are skipped.
func SnapshotRecords(snap domain.Snapshot) []Record {
	out := make([]Record, 0, len(snap.Members)+2*len(snap.CheckIns)+len(snap.Activities))
	for _, m := range snap.Members {
		out = append(out, Record{Key: m.ID, EventType: events.TypeMemberUpserted, Payload: events.MemberUpserted{
			MemberID:       m.ID,
			FirstName:      m.FirstName,
			LastName:       m.LastName,
			Email:          m.Email,
			Phone:          m.Phone,
			MembershipType: m.MembershipType,
			Status:         m.Status,
			JoinDate:       m.JoinDate,
			DateOfBirth:    m.DateOfBirth,
			UpdatedAt:      m.JoinDate,
		}})
	}
	for _, rec := range snap.CheckIns {
		out = append(out, Record{Key: rec.MemberID, EventType: events.TypeCheckInRecorded, Payload: events.CheckInRecorded{
			CheckInID:      rec.ID,
			MemberID:       rec.MemberID,
			MemberName:     rec.MemberName,
			MembershipType: rec.MembershipType,
			Role:           rec.Role,
			Phone:          rec.Phone,
			CheckedInAt:    rec.CheckInTime,
		}})
		if rec.CheckOutTime != nil {
			out = append(out, Record{Key: rec.MemberID, EventType: events.TypeCheckInCompleted, Payload: events.CheckInCompleted{
				CheckInID:    rec.ID,
				MemberID:     rec.MemberID,
				CheckedOutAt: *rec.CheckOutTime,
			}})
		}
	}
	for _, act := range snap.Activities {
		if act.Type == domain.ActivityBirthdayUpcoming {
			continue
		}
		out = append(out, Record{Key: act.ID, EventType: events.TypeActivityLogged, Payload: events.ActivityLogged{
			ActivityID:   act.ID,
			ActivityType: string(act.Type),
			Message:      act.Message,
			MemberID:     act.MemberID,
			OccurredAt:   act.Timestamp,
		}})
	}
	return out
}
