package application

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// FingerprintSubmission builds a deterministic hash of an order payload.
// encoding/json writes map keys in sorted order, so equal payloads hash equally
// regardless of the order fields arrived in.
func FingerprintSubmission(payload map[string]any) (string, error) {
	if payload == nil {
		payload = map[string]any{}
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(encoded)
	return hex.EncodeToString(sum[:]), nil
}
