package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/custodia-labs/alice-todoist/internal/core/domain"
	"github.com/custodia-labs/alice-todoist/internal/core/ports/driven"
	"github.com/custodia-labs/alice-todoist/internal/core/ports/driving"
	"github.com/custodia-labs/alice-todoist/internal/logger"
	"github.com/custodia-labs/alice-todoist/internal/metrics"
)

// Ensure skillService implements SkillService
var _ driving.SkillService = (*skillService)(nil)

// Speech texts
const (
	TextUnknownUser   = "Не удалось определить пользователя. Попробуйте позже."
	TextAskCommand    = "Что добавить в Todoist?"
	TextLinkRequired  = "Чтобы добавлять задачи, подключите Todoist: откройте ссылку и разрешите доступ."
	TextRelink        = "Доступ к Todoist больше не действует. Пожалуйста, подключите Todoist заново по ссылке."
	TextTaskFailed    = "Произошла ошибка при добавлении задачи. Попробуйте ещё раз позже."
	TextLinkButton    = "Подключить Todoist"
	taskCreatedFormat = "Задача «%s» добавлена в Todoist."
)

// SkillServiceConfig holds configuration for the skill service.
type SkillServiceConfig struct {
	Linking driving.LinkingService
	Tasks   driven.TaskCreator
	Logger  *slog.Logger
}

type skillService struct {
	linking driving.LinkingService
	tasks   driven.TaskCreator
	logger  *slog.Logger
}

// NewSkillService creates the per-turn command dispatcher.
func NewSkillService(cfg SkillServiceConfig) driving.SkillService {
	l := cfg.Logger
	if l == nil {
		l = slog.Default()
	}
	return &skillService{
		linking: cfg.Linking,
		tasks:   cfg.Tasks,
		logger:  l,
	}
}

// HandleTurn applies the dispatcher rules in order; the first match wins.
func (s *skillService) HandleTurn(ctx context.Context, req driving.SkillRequest) *domain.AliceResponse {
	alice := req.Alice
	log := logger.With(ctx, s.logger)

	userID := alice.UserIdentity()
	if userID == "" {
		metrics.WebhookTurns.WithLabelValues(metrics.OutcomeNoUser).Inc()
		log.Warn("webhook turn without user identity", "session_id", alice.Session.SessionID)
		return domain.NewAliceResponse(alice, domain.AliceSpeech{Text: TextUnknownUser, EndSession: true})
	}
	log = log.With("user_id", userID)

	content := ExtractTaskContent(alice.Utterance())
	if content == "" {
		metrics.WebhookTurns.WithLabelValues(metrics.OutcomeEmptyCommand).Inc()
		return domain.NewAliceResponse(alice, domain.AliceSpeech{Text: TextAskCommand, EndSession: false})
	}

	platformToken := req.BearerToken
	if platformToken == "" {
		platformToken = alice.PlatformAccessToken()
	}

	storedToken, err := s.linking.AccessToken(ctx, userID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		log.Error("failed to load access token binding", "error", err)
		if platformToken == "" {
			metrics.WebhookTurns.WithLabelValues(metrics.OutcomeInternalError).Inc()
			return s.retryLater(alice)
		}
	}

	if platformToken == "" && storedToken == "" {
		metrics.WebhookTurns.WithLabelValues(metrics.OutcomeLinkRequired).Inc()
		return s.linkPrompt(ctx, alice, userID, TextLinkRequired)
	}

	result, usedStored := s.createTask(ctx, platformToken, storedToken, content)

	switch result.Outcome {
	case domain.TaskCreated:
		metrics.WebhookTurns.WithLabelValues(metrics.OutcomeTaskCreated).Inc()
		log.Info("task created", "task_id", result.TaskID)
		name := result.Content
		if name == "" {
			name = content
		}
		return domain.NewAliceResponse(alice, domain.AliceSpeech{
			Text:       fmt.Sprintf(taskCreatedFormat, name),
			EndSession: true,
		})

	case domain.TaskUnauthorized:
		metrics.WebhookTurns.WithLabelValues(metrics.OutcomeRelinkNeeded).Inc()
		log.Warn("todoist rejected access token", "stored_token", usedStored, "status", result.StatusCode)
		if usedStored {
			if err := s.linking.Unlink(ctx, userID); err != nil {
				log.Error("failed to delete revoked access token", "error", err)
			}
		}
		return s.linkPrompt(ctx, alice, userID, TextRelink)

	case domain.TaskRejected, domain.TaskNetworkFailure:
		metrics.WebhookTurns.WithLabelValues(metrics.OutcomeUpstreamError).Inc()
		log.Error("failed to add todoist task",
			"outcome", result.Outcome.String(),
			"status", result.StatusCode,
			"error", result.Err)
		return s.retryLater(alice)

	default:
		metrics.WebhookTurns.WithLabelValues(metrics.OutcomeInternalError).Inc()
		log.Error("unexpected task outcome", "outcome", result.Outcome.String())
		return s.retryLater(alice)
	}
}

// createTask tries the platform-supplied token first. When it is rejected
// and a different stored binding exists, the stored token gets one try.
// usedStored reports which token produced the returned result.
func (s *skillService) createTask(ctx context.Context, platformToken, storedToken, content string) (domain.TaskResult, bool) {
	if platformToken != "" {
		result := s.tasks.CreateTask(ctx, platformToken, content)
		if result.Outcome != domain.TaskUnauthorized || storedToken == "" || storedToken == platformToken {
			return result, platformToken == storedToken
		}
		logger.With(ctx, s.logger).Info("platform token rejected, falling back to stored binding")
	}
	return s.tasks.CreateTask(ctx, storedToken, content), true
}

// linkPrompt starts (or restarts) account linking and renders the
// authorize affordance.
func (s *skillService) linkPrompt(ctx context.Context, alice *domain.AliceRequest, userID, text string) *domain.AliceResponse {
	inv, err := s.linking.BeginLink(ctx, userID)
	if err != nil {
		logger.With(ctx, s.logger).Error("failed to begin account linking", "user_id", userID, "error", err)
		return s.retryLater(alice)
	}

	return domain.NewAliceResponse(alice, domain.AliceSpeech{
		Text:       text,
		EndSession: false,
		Buttons: []domain.AliceButton{{
			Title: TextLinkButton,
			URL:   inv.AuthorizeURL,
			Hide:  false,
		}},
		Directives: &domain.AliceDirectives{AccountLinking: &struct{}{}},
	})
}

func (s *skillService) retryLater(alice *domain.AliceRequest) *domain.AliceResponse {
	return domain.NewAliceResponse(alice, domain.AliceSpeech{Text: TextTaskFailed, EndSession: false})
}
