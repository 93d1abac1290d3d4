package sqlutil

import (
	"encoding/json"

	"github.com/sqlc-dev/pqtype"
)

// Helper functions for converting JSON documents to and from nullable SQL columns

// ToNullRawMessage wraps a JSON document for a JSON/JSONB column. Empty input is stored as NULL.
func ToNullRawMessage(data []byte) pqtype.NullRawMessage {
	return pqtype.NullRawMessage{RawMessage: json.RawMessage(data), Valid: len(data) > 0}
}

// FromNullRawMessage returns the stored document, or nil for NULL.
func FromNullRawMessage(val pqtype.NullRawMessage) []byte {
	if !val.Valid {
		return nil
	}
	return []byte(val.RawMessage)
}
