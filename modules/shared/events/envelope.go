// Package events provides the event infrastructure shared by all modules.
// Modules publish envelopes to topics without knowing who will consume them,
// and subscribe to topics without knowing who published (choreography).
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SpecVersion is the envelope format version carried on every message.
const SpecVersion = "1.0"

// Envelope is the immutable metadata+payload wrapper for every published
// message. Two envelopes with the same ID are the same delivery attempt,
// possibly redelivered; consumers deduplicate on (Type, ID).
type Envelope struct {
	ID          string          `json:"id"`
	Source      string          `json:"source"`
	Type        Type            `json:"type"`
	SpecVersion string          `json:"spec_version"`
	ContentType string          `json:"content_type"`
	Data        json.RawMessage `json:"data"`
	Timestamp   time.Time       `json:"timestamp"`
}

// NewEnvelope wraps a payload in a fresh envelope. The ID is unique per call,
// so redeliveries of the same publish share an ID while retries by the caller
// do not.
func NewEnvelope(source string, eventType Type, payload any) (Envelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshaling %s payload: %w", eventType, err)
	}
	return Envelope{
		ID:          uuid.New().String(),
		Source:      source,
		Type:        eventType,
		SpecVersion: SpecVersion,
		ContentType: "application/json",
		Data:        data,
		Timestamp:   time.Now().UTC(),
	}, nil
}

// DecodeData unmarshals the envelope payload into v.
func (e Envelope) DecodeData(v any) error {
	if err := json.Unmarshal(e.Data, v); err != nil {
		return fmt.Errorf("decoding %s payload: %w", e.Type, err)
	}
	return nil
}
