package events

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
)

const (
	magicByte   = 0x00
	frameHeader = 5
)

// ErrShortFrame is returned when a record is too small to carry the wire header.
var ErrShortFrame = errors.New("events: frame shorter than wire header")

// Schema identifies the registered schema for an event type.
type Schema struct {
	ID      int
	Subject string
}

// Catalog maps event types to their schema metadata.
var Catalog = map[string]Schema{
	TypeCheckInRecorded:  {ID: 1, Subject: "attendance_checkins-value"},
	TypeCheckInCompleted: {ID: 2, Subject: "attendance_checkins-value"},
	TypeMemberUpserted:   {ID: 3, Subject: "attendance_members-value"},
	TypeActivityLogged:   {ID: 4, Subject: "attendance_activities-value"},
}

// EncodeFrame applies the schema registry framing: magic byte, big-endian schema id, body.
func EncodeFrame(schemaID int, body []byte) []byte {
	frame := make([]byte, frameHeader+len(body))
	frame[0] = magicByte
	binary.BigEndian.PutUint32(frame[1:frameHeader], uint32(schemaID))
	copy(frame[frameHeader:], body)
	return frame
}

// DecodeFrame splits a framed record into schema id and a copy of the body.
func DecodeFrame(frame []byte) (int, json.RawMessage, error) {
	if len(frame) < frameHeader {
		return 0, nil, fmt.Errorf("%w: %d bytes", ErrShortFrame, len(frame))
	}
	schemaID := int(binary.BigEndian.Uint32(frame[1:frameHeader]))
	body := json.RawMessage(append([]byte(nil), frame[frameHeader:]...))
	return schemaID, body, nil
}

// Marshal encodes payload as JSON and frames it with the schema of eventType.
func Marshal(eventType string, payload any) ([]byte, Schema, error) {
	schema, ok := Catalog[eventType]
	if !ok {
		return nil, Schema{}, fmt.Errorf("no schema metadata for event_type=%s", eventType)
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, Schema{}, fmt.Errorf("marshal %s: %w", eventType, err)
	}
	return EncodeFrame(schema.ID, body), schema, nil
}
