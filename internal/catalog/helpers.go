package catalog

import (
	"bytes"
	"encoding/json"
)

// encodeJSON matches the bytes transport.WriteJSON produces, trailing newline included.
func encodeJSON(payload interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
