package driven

// StateGenerator produces unguessable, URL-safe correlation tokens.
type StateGenerator interface {
	Generate() (string, error)
}
