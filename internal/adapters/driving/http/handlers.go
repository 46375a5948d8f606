package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/swaggo/swag"

	"github.com/custodia-labs/alice-todoist/internal/core/domain"
	"github.com/custodia-labs/alice-todoist/internal/core/ports/driving"
	"github.com/custodia-labs/alice-todoist/internal/logger"
)

// maxWebhookBody caps the webhook payload size.
const maxWebhookBody = 64 << 10

// ErrorResponse represents an API error response
// @Description API error response
type ErrorResponse struct {
	Error string `json:"error" example:"invalid request body"`
}

// StatusResponse represents a simple status response
// @Description Simple status response
type StatusResponse struct {
	Status string `json:"status" example:"ready"`
}

// VersionResponse represents the API version response
// @Description API version response
type VersionResponse struct {
	Version string `json:"version" example:"1.0.0"`
}

// Health endpoints

// handleHealth godoc
// @Summary      Liveness check
// @Description  Always answers ok while the process is serving
// @Tags         Health
// @Produce      plain
// @Success      200  {string}  string  "ok"
// @Router       /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleReady godoc
// @Summary      Readiness check
// @Description  Returns ready when the token store answers
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Failure      503  {object}  StatusResponse
// @Router       /ready [get]
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.store != nil {
		if err := s.store.Ping(r.Context()); err != nil {
			logger.With(r.Context(), s.logger).Warn("token store not ready", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, StatusResponse{Status: "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, StatusResponse{Status: "ready"})
}

// handleVersion godoc
// @Summary      Get version
// @Description  Returns the running build version
// @Tags         Health
// @Produce      json
// @Success      200  {object}  VersionResponse
// @Router       /version [get]
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, VersionResponse{Version: s.version})
}

// handleSwaggerDoc serves the registered OpenAPI document.
func (s *Server) handleSwaggerDoc(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc()
	if err != nil {
		writeError(w, http.StatusNotFound, "api documentation not available")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(doc))
}

// Skill endpoints

// handleWebhook godoc
// @Summary      Voice platform webhook
// @Description  Handles one conversational turn and answers with speech, buttons and directives
// @Tags         Skill
// @Accept       json
// @Produce      json
// @Param        request  body      domain.AliceRequest  true  "Webhook turn"
// @Success      200      {object}  domain.AliceResponse
// @Failure      400      {object}  ErrorResponse  "Malformed body"
// @Router       /webhook [post]
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	var req domain.AliceRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxWebhookBody)).Decode(&req); err != nil {
		logger.With(r.Context(), s.logger).Warn("malformed webhook body", "error", err)
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp := s.skillService.HandleTurn(r.Context(), driving.SkillRequest{
		Alice:       &req,
		BearerToken: extractBearerToken(r),
	})

	writeJSON(w, http.StatusOK, resp)
}

// Account-linking endpoints

// handleOAuthAuthorize godoc
// @Summary      Start provider authorization
// @Description  Consumes the link state and redirects the browser to Todoist
// @Tags         OAuth
// @Produce      html
// @Param        state  query  string  true  "Link state from the skill's authorize link"
// @Success      302
// @Failure      400  {string}  string  "Invalid or expired link"
// @Failure      500  {string}  string  "Internal error"
// @Router       /oauth/authorize [get]
func (s *Server) handleOAuthAuthorize(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")

	redirectURL, err := s.linkingService.Authorize(r.Context(), state)
	if err != nil {
		if domain.IsStateRejection(err) {
			logger.With(r.Context(), s.logger).Info("authorize rejected", "reason", err)
			writePage(w, http.StatusBadRequest, pageLinkInvalid)
			return
		}
		logger.With(r.Context(), s.logger).Error("authorize failed", "error", err)
		writePage(w, http.StatusInternalServerError, pageInternalError)
		return
	}

	http.Redirect(w, r, redirectURL, http.StatusFound)
}

// handleOAuthCallback godoc
// @Summary      Provider OAuth callback
// @Description  Consumes the provider state, exchanges the code and binds the access token
// @Tags         OAuth
// @Produce      html
// @Param        code               query  string  false  "Authorization code"
// @Param        state              query  string  true   "Provider state"
// @Param        error              query  string  false  "Provider error"
// @Param        error_description  query  string  false  "Provider error description"
// @Success      200  {string}  string  "Linked"
// @Failure      400  {string}  string  "Invalid state or provider error"
// @Failure      500  {string}  string  "Token exchange failed"
// @Router       /oauth/callback [get]
func (s *Server) handleOAuthCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := driving.CallbackRequest{
		Code:             q.Get("code"),
		State:            q.Get("state"),
		Error:            q.Get("error"),
		ErrorDescription: q.Get("error_description"),
	}

	_, err := s.linkingService.Callback(r.Context(), req)
	if err != nil {
		status, page := callbackFailure(err)
		log := logger.With(r.Context(), s.logger)
		if status >= http.StatusInternalServerError {
			log.Error("oauth callback failed", "error", err)
		} else {
			log.Info("oauth callback rejected", "reason", err)
		}
		writePage(w, status, page)
		return
	}

	writePage(w, http.StatusOK, pageLinked)
}

// callbackFailure maps a Callback error to a status and page.
func callbackFailure(err error) (int, page) {
	if domain.IsStateRejection(err) {
		return http.StatusBadRequest, pageLinkInvalid
	}

	var oauthErr *driving.OAuthError
	if errors.As(err, &oauthErr) {
		if errors.Is(oauthErr, driving.ErrOAuthExchangeFailed) {
			return http.StatusInternalServerError, pageExchangeFailed
		}
		if errors.Is(oauthErr, driving.ErrOAuthAccessDenied) {
			return http.StatusBadRequest, pageAccessDenied
		}
		return http.StatusBadRequest, pageProviderError
	}

	return http.StatusInternalServerError, pageInternalError
}

// Helpers

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
