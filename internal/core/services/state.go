package services

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/alice-todoist/internal/core/ports/driven"
)

// Ensure UUIDStateGenerator implements StateGenerator
var _ driven.StateGenerator = UUIDStateGenerator{}

// UUIDStateGenerator produces 32-character hex states from random (v4) UUIDs.
// The randomness comes from crypto/rand.
type UUIDStateGenerator struct{}

// Generate returns a fresh state string.
func (UUIDStateGenerator) Generate() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate state: %w", err)
	}
	return strings.ReplaceAll(id.String(), "-", ""), nil
}
