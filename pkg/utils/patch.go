package utils

import "encoding/json"

// SentFields reports which top-level keys were present in a JSON body.
// Partial updates must distinguish "field absent" from "field set to a
// zero value" (false, 0, ""), so presence is checked against the raw body
// instead of trusting struct zero values.
func SentFields(rawBody []byte) (map[string]bool, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(rawBody, &fields); err != nil {
		return nil, err
	}

	sent := make(map[string]bool, len(fields))
	for k := range fields {
		sent[k] = true
	}
	return sent, nil
}
