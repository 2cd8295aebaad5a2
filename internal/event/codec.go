package event

import (
	"encoding/json"
	"fmt"
)

// Marshal encodes the event as its canonical JSON document. Timestamps are
// stored in UTC so encode/decode round-trips are lossless.
func Marshal(e Event) ([]byte, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("encode event %s: %w", e.ID, err)
	}
	return payload, nil
}

// Unmarshal decodes a canonical JSON document back into an Event. The
// append-only collections come back non-nil so callers can range and append
// without nil checks.
func Unmarshal(payload []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(payload, &e); err != nil {
		return Event{}, fmt.Errorf("decode event: %w", err)
	}
	if e.PriorityList == nil {
		e.PriorityList = []string{}
	}
	if e.Invites == nil {
		e.Invites = []Invite{}
	}
	if e.Confirmed == nil {
		e.Confirmed = []Confirmation{}
	}
	if e.Declined == nil {
		e.Declined = []Decline{}
	}
	return e, nil
}
