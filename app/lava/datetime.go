package lava

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// DateTimeLayout is the textual timestamp format used by the gateway in both directions.
const DateTimeLayout = "2006-01-02 15:04:05"

// DateTime is a timestamp rendered as "yyyy-MM-dd HH:mm:ss".
// No time zone conversion is applied: the wall clock is written as carried and
// parsed values are returned in UTC without offset adjustment.
type DateTime struct {
	time.Time
}

func (d DateTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(DateTimeLayout))
}

func (d *DateTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		d.Time = time.Time{}
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("datetime must be a string: %w", err)
	}
	parsed, err := time.Parse(DateTimeLayout, raw)
	if err != nil {
		return fmt.Errorf("datetime %q does not match %s: %w", raw, DateTimeLayout, err)
	}
	d.Time = parsed
	return nil
}
