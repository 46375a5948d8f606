package driving

import (
	"context"

	"github.com/custodia-labs/alice-todoist/internal/core/domain"
)

// SkillService answers voice-platform webhook turns.
type SkillService interface {
	// HandleTurn produces exactly one platform response for the turn.
	// It never fails: every upstream problem is translated into speech.
	HandleTurn(ctx context.Context, req SkillRequest) *domain.AliceResponse
}

// SkillRequest is one parsed webhook turn.
type SkillRequest struct {
	Alice *domain.AliceRequest

	// BearerToken is a request-scoped token taken from the
	// Authorization header, if the platform sent one.
	BearerToken string
}
