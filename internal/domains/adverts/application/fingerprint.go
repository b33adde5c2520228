package application

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/petsetu/petsetu-web/internal/domains/adverts/domain"
)

// FingerprintPayload builds a deterministic hash of a create-post payload.
func FingerprintPayload(payload domain.CreatePostPayload) (string, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}
