package ingest

import (
	"context"
	"errors"
	"fmt"

	"github.com/segmentio/kafka-go"
)

// ReplayReader reads a single partition from its first offset without joining a
// consumer group. Offsets are never committed, so every start folds the full log.
type ReplayReader struct {
	*kafka.Reader
}

// CommitMessages is a no-op; replay position is not tracked by the broker.
func (ReplayReader) CommitMessages(context.Context, ...kafka.Message) error { return nil }

// NewReplayReaders opens one ReplayReader per partition of topic.
func NewReplayReaders(ctx context.Context, brokers []string, topic string) ([]Reader, error) {
	partitions, err := readPartitions(ctx, brokers, topic)
	if err != nil {
		return nil, err
	}

	readers := make([]Reader, 0, len(partitions))
	for _, p := range partitions {
		r := kafka.NewReader(kafka.ReaderConfig{
			Brokers:   brokers,
			Topic:     topic,
			Partition: p.ID,
			MinBytes:  1,
			MaxBytes:  10e6,
		})
		if err := r.SetOffset(kafka.FirstOffset); err != nil {
			_ = r.Close()
			return nil, fmt.Errorf("rewind %s[%d]: %w", topic, p.ID, err)
		}
		readers = append(readers, ReplayReader{Reader: r})
	}
	return readers, nil
}

func readPartitions(ctx context.Context, brokers []string, topic string) ([]kafka.Partition, error) {
	if len(brokers) == 0 {
		return nil, errors.New("no kafka brokers configured")
	}
	var lastErr error
	for _, broker := range brokers {
		conn, err := kafka.DialContext(ctx, "tcp", broker)
		if err != nil {
			lastErr = err
			continue
		}
		partitions, err := conn.ReadPartitions(topic)
		_ = conn.Close()
		if err != nil {
			lastErr = err
			continue
		}
		if len(partitions) == 0 {
			return nil, fmt.Errorf("topic %s has no partitions", topic)
		}
		return partitions, nil
	}
	return nil, fmt.Errorf("read partitions of %s: %w", topic, lastErr)
}
