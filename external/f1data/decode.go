package f1data

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
)

// flexInt accepts a JSON number, a numeric string or null.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := sonic.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*f = 0
			return nil
		}
		v, err := strconv.Atoi(s)
		if err != nil {
			return err
		}
		*f = flexInt(v)
		return nil
	}
	var v float64
	if err := sonic.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = flexInt(int(v))
	return nil
}

// listOrWrapped decodes either a bare array or an object holding the array
// under one of keys.
func listOrWrapped[T any](raw []byte, keys ...string) ([]T, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	if raw[0] == '[' {
		var items []T
		if err := sonic.Unmarshal(raw, &items); err != nil {
			return nil, err
		}
		return items, nil
	}

	var wrapper map[string]json.RawMessage
	if err := sonic.Unmarshal(raw, &wrapper); err != nil {
		return nil, err
	}
	for _, key := range keys {
		inner, ok := wrapper[key]
		if !ok {
			continue
		}
		var items []T
		if err := sonic.Unmarshal(inner, &items); err != nil {
			return nil, err
		}
		return items, nil
	}
	return nil, nil
}
