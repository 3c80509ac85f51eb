package combat

import (
	"bytes"
	"encoding/json"
	"sort"
)

// eventJSON is the canonical wire shape of a CombatEvent.
type eventJSON struct {
	EventType string             `json:"event_type"`
	Round     int                `json:"round"`
	Phase     string             `json:"phase"`
	Source    eventSourceJSON    `json:"source"`
	Values    map[string]float64 `json:"values,omitempty"`
}

type eventSourceJSON struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
}

// SerializeEventsJSON renders events as canonical JSON: object keys sorted
// recursively, six-decimal number formatting for float values.
func SerializeEventsJSON(events []CombatEvent) ([]byte, error) {
	out := make([]eventJSON, len(events))
	for i, e := range events {
		values := make(map[string]float64, len(e.Values))
		for k, v := range e.Values {
			values[k] = roundF64(v)
		}
		out[i] = eventJSON{
			EventType: e.EventType,
			Round:     e.Round,
			Phase:     e.Phase,
			Source:    eventSourceJSON{Kind: e.Source.Kind, ID: e.Source.ID},
			Values:    values,
		}
	}
	raw, err := json.Marshal(out)
	if err != nil {
		return nil, err
	}
	return ToCanonicalJSON(raw)
}

// ToCanonicalJSON re-encodes a JSON document with object keys sorted
// recursively at every nesting level, so two semantically identical event
// lists always serialize to byte-identical output.
func ToCanonicalJSON(raw []byte) ([]byte, error) {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := sortJSON(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func sortJSON(buf *bytes.Buffer, v interface{}) error {
	switch val := v.(type) {
	case map[string]interface{}:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, err := json.Marshal(k)
			if err != nil {
				return err
			}
			buf.Write(kb)
			buf.WriteByte(':')
			if err := sortJSON(buf, val[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	case []interface{}:
		buf.WriteByte('[')
		for i, item := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := sortJSON(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return err
		}
		buf.Write(b)
		return nil
	}
}
