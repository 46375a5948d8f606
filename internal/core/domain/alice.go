package domain

// AliceRequest is the webhook payload sent by the voice platform.
type AliceRequest struct {
	Meta    AliceMeta           `json:"meta"`
	Session AliceSession        `json:"session"`
	Version string              `json:"version"`
	Request AliceRequestPayload `json:"request"`
	State   *AliceState         `json:"state,omitempty"`
}

// AliceMeta describes the client device.
type AliceMeta struct {
	Locale     string         `json:"locale"`
	Timezone   string         `json:"timezone"`
	ClientID   string         `json:"client_id,omitempty"`
	Interfaces map[string]any `json:"interfaces,omitempty"`
}

// AliceSession identifies the conversation and the user.
type AliceSession struct {
	SessionID string     `json:"session_id"`
	MessageID int        `json:"message_id"`
	UserID    string     `json:"user_id"`
	SkillID   string     `json:"skill_id,omitempty"`
	New       bool       `json:"new,omitempty"`
	User      *AliceUser `json:"user,omitempty"`
}

// AliceUser is present for users authenticated on the platform.
type AliceUser struct {
	UserID      string `json:"user_id,omitempty"`
	AccessToken string `json:"access_token,omitempty"`
}

// AliceRequestPayload carries the recognised utterance.
type AliceRequestPayload struct {
	Command           string         `json:"command"`
	OriginalUtterance string         `json:"original_utterance"`
	Type              string         `json:"type"`
	Payload           map[string]any `json:"payload,omitempty"`
	NLU               *AliceNLU      `json:"nlu,omitempty"`
}

// AliceNLU is the platform's own parse of the utterance.
type AliceNLU struct {
	Tokens   []string         `json:"tokens"`
	Entities []map[string]any `json:"entities"`
	Intents  map[string]any   `json:"intents,omitempty"`
}

// AliceState holds state the platform keeps on the skill's behalf.
type AliceState struct {
	Session     map[string]any `json:"session,omitempty"`
	User        map[string]any `json:"user,omitempty"`
	Application map[string]any `json:"application,omitempty"`
}

// UserIdentity resolves the stable user id, preferring the
// authenticated platform user over the anonymous session user.
func (r *AliceRequest) UserIdentity() string {
	if r.Session.User != nil && r.Session.User.UserID != "" {
		return r.Session.User.UserID
	}
	return r.Session.UserID
}

// PlatformAccessToken returns the request-scoped token the platform
// supplied in the session, if any.
func (r *AliceRequest) PlatformAccessToken() string {
	if r.Session.User == nil {
		return ""
	}
	return r.Session.User.AccessToken
}

// Utterance returns the raw command text, preferring the original utterance.
func (r *AliceRequest) Utterance() string {
	if r.Request.OriginalUtterance != "" {
		return r.Request.OriginalUtterance
	}
	return r.Request.Command
}

// AliceResponse is the skill's answer to a webhook turn.
type AliceResponse struct {
	Version  string               `json:"version"`
	Session  AliceResponseSession `json:"session"`
	Response AliceSpeech          `json:"response"`
}

// AliceResponseSession echoes the session identifiers.
type AliceResponseSession struct {
	SessionID string `json:"session_id"`
	MessageID int    `json:"message_id"`
	UserID    string `json:"user_id"`
}

// AliceSpeech is the user-visible part of the response.
type AliceSpeech struct {
	Text       string           `json:"text"`
	TTS        string           `json:"tts,omitempty"`
	EndSession bool             `json:"end_session"`
	Buttons    []AliceButton    `json:"buttons,omitempty"`
	Directives *AliceDirectives `json:"directives,omitempty"`
}

// AliceButton is a suggestion or link button.
type AliceButton struct {
	Title   string         `json:"title"`
	Payload map[string]any `json:"payload,omitempty"`
	URL     string         `json:"url,omitempty"`
	Hide    bool           `json:"hide"`
}

// AliceDirectives carries platform directives.
type AliceDirectives struct {
	AccountLinking *struct{} `json:"account_linking,omitempty"`
}

// NewAliceResponse builds a response echoing the request's session.
func NewAliceResponse(req *AliceRequest, speech AliceSpeech) *AliceResponse {
	return &AliceResponse{
		Version: req.Version,
		Session: AliceResponseSession{
			SessionID: req.Session.SessionID,
			MessageID: req.Session.MessageID,
			UserID:    req.Session.UserID,
		},
		Response: speech,
	}
}

// HasLinkingAffordance reports whether the response asks the user to link.
func (r *AliceResponse) HasLinkingAffordance() bool {
	if r.Response.Directives != nil && r.Response.Directives.AccountLinking != nil {
		return true
	}
	for _, b := range r.Response.Buttons {
		if b.URL != "" {
			return true
		}
	}
	return false
}
