package lava

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type fieldPolicy int

const (
	// fieldRequired is always written.
	fieldRequired fieldPolicy = iota
	// fieldNullable is written as null when absent.
	fieldNullable
	// fieldOmittable is dropped from the body when absent.
	fieldOmittable
)

type wireField struct {
	key     string
	policy  fieldPolicy
	value   any
	present bool
}

// wireSchema is implemented by every request body. The returned table fixes
// both the wire keys and their order in the canonical encoding.
type wireSchema interface {
	wireFields() []wireField
}

func required(key string, value any) wireField {
	return wireField{key: key, policy: fieldRequired, value: value, present: true}
}

func nullable[T any](key string, o Optional[T]) wireField {
	v, ok := o.Get()
	return wireField{key: key, policy: fieldNullable, value: v, present: ok}
}

func omittable[T any](key string, o Optional[T]) wireField {
	v, ok := o.Get()
	return wireField{key: key, policy: fieldOmittable, value: v, present: ok}
}

// encodeRequest renders a request into the canonical byte sequence that is
// both signed and transmitted.
func encodeRequest(req wireSchema) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	first := true
	for _, f := range req.wireFields() {
		if !f.present && f.policy == fieldOmittable {
			continue
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false

		key, err := marshalValue(f.key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		if !f.present {
			buf.WriteString("null")
			continue
		}
		value, err := marshalValue(f.value)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", f.key, err)
		}
		buf.Write(value)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func marshalValue(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// payloadSchema is implemented by response payloads that cannot be decoded
// without certain keys. For list payloads the keys apply to each element.
type payloadSchema interface {
	requiredKeys() []string
}

var envelopeKeys = []string{"status", "status_check"}

func decodeEnvelope[T any](body []byte) (*Envelope[T], error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: response is not an object", ErrSerialization)
	}
	if err := checkKeys(raw, envelopeKeys); err != nil {
		return nil, fmt.Errorf("%w: envelope %v", ErrSerialization, err)
	}

	if data, ok := raw["data"]; ok && !isNull(data) {
		var payload T
		if rk, ok := any(&payload).(payloadSchema); ok {
			if err := checkPayloadKeys(data, rk.requiredKeys()); err != nil {
				return nil, fmt.Errorf("%w: data %v", ErrSerialization, err)
			}
		}
	}

	var envelope Envelope[T]
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	return &envelope, nil
}

func checkPayloadKeys(data json.RawMessage, keys []string) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return err
		}
		for i, item := range items {
			if err := checkKeys(item, keys); err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}
		}
		return nil
	}

	var object map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &object); err != nil {
		return err
	}
	return checkKeys(object, keys)
}

func checkKeys(object map[string]json.RawMessage, keys []string) error {
	for _, key := range keys {
		if _, ok := object[key]; !ok {
			return fmt.Errorf("missing required field %q", key)
		}
	}
	return nil
}

func isNull(data json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(data), []byte("null"))
}
