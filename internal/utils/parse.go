package utils

import (
	"encoding/json"
	"fmt"

	"github.com/kaptinlin/jsonrepair"
)

// UnmarshalLenient decodes data into target. When strict decoding fails, the
// payload is passed through jsonrepair (unquoted keys, single quotes, trailing
// commas, truncated objects) and decoding is retried once.
//
// It is only meant for payloads where a best-effort read is better than
// nothing, such as upstream error envelopes. Completion bodies are decoded
// strictly.
func UnmarshalLenient(data []byte, target any) error {
	err := json.Unmarshal(data, target)
	if err == nil {
		return nil
	}

	repaired, repairErr := jsonrepair.JSONRepair(string(data))
	if repairErr != nil {
		return fmt.Errorf("failed to unmarshal JSON and failed to repair it: unmarshal error: %w, repair error: %v", err, repairErr)
	}

	if err = json.Unmarshal([]byte(repaired), target); err != nil {
		return fmt.Errorf("failed to unmarshal repaired JSON: %w", err)
	}
	return nil
}
