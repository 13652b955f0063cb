package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FlexInt is an int64 that decodes from JSON numbers and from the decimal strings the
// settlement helper emits for big integers (optionally suffixed with "n").
type FlexInt int64

func (v *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*v = 0
		return nil
	}
	raw := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSuffix(strings.TrimSpace(s), "n")
		if raw == "" {
			*v = 0
			return nil
		}
	}
	parsed, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil {
			return fmt.Errorf("parse integer %q: %w", raw, err)
		}
		parsed = int64(f)
	}
	*v = FlexInt(parsed)
	return nil
}

func (v FlexInt) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatInt(int64(v), 10)), nil
}

func (v FlexInt) Int64() int64 {
	return int64(v)
}
