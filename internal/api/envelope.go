package api

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// The backend is not consistent about response shapes: the same concept may
// arrive as {data: x}, x itself, or {items: [...]}. All of that ambiguity is
// absorbed here so the rest of the codebase only sees canonical types.

type envelope struct {
	Code    int             `json:"code"`
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Token   string          `json:"token"`
	Data    json.RawMessage `json:"data"`
	Items   json.RawMessage `json:"items"`
	Total   *int64          `json:"total"`
	Meta    *struct {
		Total      *int64 `json:"total"`
		TotalCount *int64 `json:"totalCount"`
	} `json:"meta"`
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// decodeData unmarshals the payload of body into v, preferring the `data`
// field and falling back to the body itself.
func decodeData(body []byte, v interface{}) error {
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil && !isNull(env.Data) {
		if err := json.Unmarshal(env.Data, v); err != nil {
			return fmt.Errorf("decode data field: %w", err)
		}
		return nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}

// flexString tolerates the backend sending ids as either JSON numbers or
// strings.
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	if len(b) >= 2 && b[0] == '"' {
		var raw string
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
		*s = flexString(raw)
		return nil
	}
	*s = flexString(b)
	return nil
}
