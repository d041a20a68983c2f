package model

import (
	"bytes"
	"encoding/json"

	"github.com/rotisserie/eris"
)

// Extra holds JSON fields a record type does not model. They are carried
// through decode and encode untouched so newer writers never lose data to
// older readers.
type Extra map[string]json.RawMessage

// splitExtra returns the top-level fields of data that are not in known.
func splitExtra(data []byte, known []string) (Extra, error) {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, eris.Wrap(err, "model: decode fields")
	}
	for _, k := range known {
		delete(all, k)
	}
	if len(all) == 0 {
		return nil, nil
	}
	// Compact so a decoded record compares equal to its re-encoded self.
	for k, v := range all {
		var buf bytes.Buffer
		if err := json.Compact(&buf, v); err != nil {
			return nil, eris.Wrapf(err, "model: compact field %s", k)
		}
		all[k] = buf.Bytes()
	}
	return Extra(all), nil
}

// mergeExtra adds extra fields to an encoded object. Modeled fields win on
// key collisions.
func mergeExtra(encoded []byte, extra Extra) ([]byte, error) {
	if len(extra) == 0 {
		return encoded, nil
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(encoded, &all); err != nil {
		return nil, eris.Wrap(err, "model: re-decode fields")
	}
	for k, v := range extra {
		if _, ok := all[k]; !ok {
			all[k] = v
		}
	}
	out, err := json.Marshal(all)
	return out, eris.Wrap(err, "model: encode fields")
}

// Get decodes the extra field key into dst. It reports false when the field
// is absent.
func (e Extra) Get(key string, dst any) (bool, error) {
	raw, ok := e[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return true, eris.Wrapf(err, "model: decode extra field %s", key)
	}
	return true, nil
}

// Set encodes v under key, allocating the map on first use.
func (e *Extra) Set(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return eris.Wrapf(err, "model: encode extra field %s", key)
	}
	if *e == nil {
		*e = make(Extra)
	}
	(*e)[key] = raw
	return nil
}
