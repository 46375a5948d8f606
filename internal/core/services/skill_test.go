package services

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/alice-todoist/internal/core/domain"
	"github.com/custodia-labs/alice-todoist/internal/core/ports/driven/mocks"
	"github.com/custodia-labs/alice-todoist/internal/core/ports/driving"
)

type skillFixture struct {
	skill driving.SkillService
	store *mocks.MockTokenStore
	tasks *mocks.MockTaskCreator
}

func newSkillFixture(t *testing.T) *skillFixture {
	t.Helper()

	store := mocks.NewMockTokenStore()
	tasks := mocks.NewMockTaskCreator()
	linking := NewLinkingService(LinkingServiceConfig{
		Store:    store,
		Provider: &mocks.MockOAuthProvider{},
		BaseURL:  testBaseURL,
	})

	return &skillFixture{
		skill: NewSkillService(SkillServiceConfig{Linking: linking, Tasks: tasks}),
		store: store,
		tasks: tasks,
	}
}

func turn(userID, utterance string) *domain.AliceRequest {
	return &domain.AliceRequest{
		Version: "1.0",
		Session: domain.AliceSession{
			SessionID: "session-1",
			MessageID: 3,
			UserID:    userID,
		},
		Request: domain.AliceRequestPayload{
			Command:           strings.ToLower(utterance),
			OriginalUtterance: utterance,
			Type:              "SimpleUtterance",
		},
	}
}

func linkKeys(store *mocks.MockTokenStore) []string {
	var keys []string
	for _, k := range store.Keys() {
		if strings.HasPrefix(k, domain.LinkStatePrefix) {
			keys = append(keys, k)
		}
	}
	return keys
}

func TestSkillService_UnknownUser(t *testing.T) {
	f := newSkillFixture(t)

	resp := f.skill.HandleTurn(context.Background(), driving.SkillRequest{Alice: turn("", "добавь купить молоко")})

	assert.Equal(t, TextUnknownUser, resp.Response.Text)
	assert.True(t, resp.Response.EndSession)
	assert.False(t, resp.HasLinkingAffordance())
	assert.Empty(t, f.tasks.Calls())
	assert.Empty(t, f.store.Keys())
}

func TestSkillService_SessionUserPreferred(t *testing.T) {
	f := newSkillFixture(t)
	require.NoError(t, f.store.Put(context.Background(), "token:platform-user", "tok", 0))

	req := turn("anonymous", "купить хлеб")
	req.Session.User = &domain.AliceUser{UserID: "platform-user"}

	resp := f.skill.HandleTurn(context.Background(), driving.SkillRequest{Alice: req})

	assert.Equal(t, "Задача «купить хлеб» добавлена в Todoist.", resp.Response.Text)
	require.Len(t, f.tasks.Calls(), 1)
	assert.Equal(t, "tok", f.tasks.Calls()[0].AccessToken)
}

func TestSkillService_EmptyCommand(t *testing.T) {
	for _, utterance := range []string{"", "   ", "добавь", "Добавь задачу"} {
		t.Run(utterance, func(t *testing.T) {
			f := newSkillFixture(t)
			require.NoError(t, f.store.Put(context.Background(), "token:user-1", "tok", 0))

			resp := f.skill.HandleTurn(context.Background(), driving.SkillRequest{Alice: turn("user-1", utterance)})

			assert.Equal(t, TextAskCommand, resp.Response.Text)
			assert.False(t, resp.Response.EndSession)
			assert.Empty(t, f.tasks.Calls())
		})
	}
}

func TestSkillService_LinkRequired(t *testing.T) {
	f := newSkillFixture(t)

	resp := f.skill.HandleTurn(context.Background(), driving.SkillRequest{Alice: turn("user-1", "купить молоко")})

	assert.Equal(t, TextLinkRequired, resp.Response.Text)
	assert.Contains(t, resp.Response.Text, "подключите Todoist")
	assert.False(t, resp.Response.EndSession)
	assert.Empty(t, f.tasks.Calls())

	require.NotNil(t, resp.Response.Directives)
	assert.NotNil(t, resp.Response.Directives.AccountLinking)

	require.Len(t, resp.Response.Buttons, 1)
	button := resp.Response.Buttons[0]
	assert.Equal(t, TextLinkButton, button.Title)
	assert.True(t, strings.HasPrefix(button.URL, testBaseURL+"/oauth/authorize?state="))

	u, err := url.Parse(button.URL)
	require.NoError(t, err)
	state := u.Query().Get("state")

	keys := linkKeys(f.store)
	require.Len(t, keys, 1)
	assert.Equal(t, "link:"+state, keys[0], "the state in the link is already stored")

	rec := readRecord(t, f.store, keys[0])
	assert.Equal(t, "user-1", rec.UserID)
}

func TestSkillService_LinkRequired_EachPromptIssuesFreshState(t *testing.T) {
	f := newSkillFixture(t)
	ctx := context.Background()

	first := f.skill.HandleTurn(ctx, driving.SkillRequest{Alice: turn("user-1", "купить молоко")})
	second := f.skill.HandleTurn(ctx, driving.SkillRequest{Alice: turn("user-1", "купить молоко")})

	assert.NotEqual(t, first.Response.Buttons[0].URL, second.Response.Buttons[0].URL)
	assert.Len(t, linkKeys(f.store), 2)
}

func TestSkillService_LinkRequired_BeginLinkFailure(t *testing.T) {
	f := newSkillFixture(t)
	f.store.PutFn = func(key, value string, ttl time.Duration) error {
		return errors.New("store down")
	}

	resp := f.skill.HandleTurn(context.Background(), driving.SkillRequest{Alice: turn("user-1", "купить молоко")})

	assert.Equal(t, TextTaskFailed, resp.Response.Text)
	assert.False(t, resp.HasLinkingAffordance())
}

func TestSkillService_TaskCreated(t *testing.T) {
	f := newSkillFixture(t)
	require.NoError(t, f.store.Put(context.Background(), "token:user-1", "stored-token", 0))

	resp := f.skill.HandleTurn(context.Background(), driving.SkillRequest{Alice: turn("user-1", "Добавь купить молоко")})

	assert.Equal(t, "Задача «купить молоко» добавлена в Todoist.", resp.Response.Text)
	assert.True(t, resp.Response.EndSession)
	assert.False(t, resp.HasLinkingAffordance())

	calls := f.tasks.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, mocks.TaskCall{AccessToken: "stored-token", Content: "купить молоко"}, calls[0])
}

func TestSkillService_TaskCreated_UsesUpstreamContent(t *testing.T) {
	f := newSkillFixture(t)
	require.NoError(t, f.store.Put(context.Background(), "token:user-1", "tok", 0))
	f.tasks.CreateTaskFn = func(token, content string) domain.TaskResult {
		return domain.Created("42", "Купить молоко")
	}

	resp := f.skill.HandleTurn(context.Background(), driving.SkillRequest{Alice: turn("user-1", "купить молоко")})

	assert.Equal(t, "Задача «Купить молоко» добавлена в Todoist.", resp.Response.Text)
}

func TestSkillService_Unauthorized_DeletesBindingAndOffersRelink(t *testing.T) {
	f := newSkillFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.Put(ctx, "token:user-1", "revoked", 0))
	f.tasks.CreateTaskFn = func(token, content string) domain.TaskResult {
		return domain.TaskResult{Outcome: domain.TaskUnauthorized, StatusCode: 401}
	}

	resp := f.skill.HandleTurn(ctx, driving.SkillRequest{Alice: turn("user-1", "купить молоко")})

	assert.Equal(t, TextRelink, resp.Response.Text)
	assert.False(t, resp.Response.EndSession)
	assert.True(t, resp.HasLinkingAffordance())

	_, err := f.store.Get(ctx, "token:user-1")
	assert.ErrorIs(t, err, domain.ErrNotFound, "rejected binding is deleted")

	f.tasks.CreateTaskFn = nil
	next := f.skill.HandleTurn(ctx, driving.SkillRequest{Alice: turn("user-1", "купить молоко")})
	assert.Equal(t, TextLinkRequired, next.Response.Text)
	assert.Len(t, f.tasks.Calls(), 1, "no task call without a token")
}

func TestSkillService_UpstreamFailure(t *testing.T) {
	outcomes := []domain.TaskResult{
		{Outcome: domain.TaskRejected, StatusCode: 500},
		{Outcome: domain.TaskRejected, StatusCode: 400},
		{Outcome: domain.TaskNetworkFailure, Err: errors.New("dial tcp: timeout")},
		{Outcome: domain.TaskOutcome(99)},
	}

	for _, result := range outcomes {
		t.Run(result.Outcome.String(), func(t *testing.T) {
			f := newSkillFixture(t)
			ctx := context.Background()
			require.NoError(t, f.store.Put(ctx, "token:user-1", "tok", 0))
			f.tasks.CreateTaskFn = func(token, content string) domain.TaskResult { return result }

			resp := f.skill.HandleTurn(ctx, driving.SkillRequest{Alice: turn("user-1", "купить молоко")})

			assert.Equal(t, TextTaskFailed, resp.Response.Text)
			assert.False(t, resp.Response.EndSession)
			assert.False(t, resp.HasLinkingAffordance())

			token, err := f.store.Get(ctx, "token:user-1")
			require.NoError(t, err)
			assert.Equal(t, "tok", token, "binding survives non-auth failures")
		})
	}
}

func TestSkillService_PlatformTokenPrecedence(t *testing.T) {
	t.Run("bearer header beats session token and binding", func(t *testing.T) {
		f := newSkillFixture(t)
		require.NoError(t, f.store.Put(context.Background(), "token:user-1", "stored", 0))
		req := turn("user-1", "купить молоко")
		req.Session.User = &domain.AliceUser{UserID: "user-1", AccessToken: "session"}

		f.skill.HandleTurn(context.Background(), driving.SkillRequest{Alice: req, BearerToken: "header"})

		calls := f.tasks.Calls()
		require.Len(t, calls, 1)
		assert.Equal(t, "header", calls[0].AccessToken)
	})

	t.Run("session token without binding", func(t *testing.T) {
		f := newSkillFixture(t)
		req := turn("user-1", "купить молоко")
		req.Session.User = &domain.AliceUser{UserID: "user-1", AccessToken: "session"}

		resp := f.skill.HandleTurn(context.Background(), driving.SkillRequest{Alice: req})

		assert.True(t, resp.Response.EndSession)
		calls := f.tasks.Calls()
		require.Len(t, calls, 1)
		assert.Equal(t, "session", calls[0].AccessToken)
	})

	t.Run("rejected platform token falls back to binding", func(t *testing.T) {
		f := newSkillFixture(t)
		ctx := context.Background()
		require.NoError(t, f.store.Put(ctx, "token:user-1", "stored", 0))
		f.tasks.CreateTaskFn = func(token, content string) domain.TaskResult {
			if token == "stored" {
				return domain.Created("1", content)
			}
			return domain.TaskResult{Outcome: domain.TaskUnauthorized, StatusCode: 401}
		}

		resp := f.skill.HandleTurn(ctx, driving.SkillRequest{Alice: turn("user-1", "купить молоко"), BearerToken: "header"})

		assert.True(t, resp.Response.EndSession)
		calls := f.tasks.Calls()
		require.Len(t, calls, 2)
		assert.Equal(t, "header", calls[0].AccessToken)
		assert.Equal(t, "stored", calls[1].AccessToken)
	})

	t.Run("rejected platform token keeps binding", func(t *testing.T) {
		f := newSkillFixture(t)
		ctx := context.Background()
		f.tasks.CreateTaskFn = func(token, content string) domain.TaskResult {
			return domain.TaskResult{Outcome: domain.TaskUnauthorized, StatusCode: 401}
		}

		resp := f.skill.HandleTurn(ctx, driving.SkillRequest{Alice: turn("user-1", "купить молоко"), BearerToken: "header"})

		assert.Equal(t, TextRelink, resp.Response.Text)
		assert.Len(t, f.tasks.Calls(), 1)
	})
}

func TestSkillService_StoreErrorWithPlatformToken(t *testing.T) {
	f := newSkillFixture(t)
	f.store.GetFn = func(key string) (string, error) {
		return "", errors.New("store down")
	}

	resp := f.skill.HandleTurn(context.Background(), driving.SkillRequest{Alice: turn("user-1", "купить молоко"), BearerToken: "header"})
	assert.True(t, resp.Response.EndSession)
	assert.Len(t, f.tasks.Calls(), 1)

	resp = f.skill.HandleTurn(context.Background(), driving.SkillRequest{Alice: turn("user-1", "купить молоко")})
	assert.Equal(t, TextTaskFailed, resp.Response.Text)
	assert.Len(t, f.tasks.Calls(), 1)
}

func TestSkillService_EchoesSession(t *testing.T) {
	f := newSkillFixture(t)

	resp := f.skill.HandleTurn(context.Background(), driving.SkillRequest{Alice: turn("user-1", "")})

	assert.Equal(t, "1.0", resp.Version)
	assert.Equal(t, "session-1", resp.Session.SessionID)
	assert.Equal(t, 3, resp.Session.MessageID)
	assert.Equal(t, "user-1", resp.Session.UserID)
}
