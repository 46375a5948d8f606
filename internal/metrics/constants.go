package metrics

// Label names
const (
	LabelMethod     = "method"
	LabelRoute      = "route"
	LabelStatus     = "status"
	LabelOutcome    = "outcome"
	LabelTransition = "transition"
	LabelKind       = "kind"
	LabelResult     = "result"
)

// Webhook turn outcomes
const (
	OutcomeNoUser        = "no_user"
	OutcomeEmptyCommand  = "empty_command"
	OutcomeLinkRequired  = "link_required"
	OutcomeTaskCreated   = "task_created"
	OutcomeRelinkNeeded  = "relink_required"
	OutcomeUpstreamError = "upstream_error"
	OutcomeInternalError = "internal_error"
)

// Link transitions
const (
	TransitionBeginLink = "unlinked_to_link_initiated"
	TransitionAuthorize = "link_initiated_to_provider_authorizing"
	TransitionLinked    = "provider_authorizing_to_linked"
	TransitionUnlinked  = "linked_to_unlinked"
)

// Consume results
const (
	ResultConsumed = "consumed"
	ResultExpired  = "expired"
	ResultReplayed = "replayed"
	ResultUnknown  = "unknown"
	ResultError    = "error"
)
