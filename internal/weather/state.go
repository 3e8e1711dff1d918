package weather

// StateKind tags the variant held by a ForecastState.
type StateKind string

const (
	StateLoading StateKind = "loading"
	StateSuccess StateKind = "success"
	StateError   StateKind = "error"
)

// ForecastState is the value published by a Pipeline. Document is set only
// for StateSuccess and Message only for StateError.
type ForecastState struct {
	Kind     StateKind         `json:"state"`
	Document *ForecastDocument `json:"forecast,omitempty"`
	Message  string            `json:"message,omitempty"`
}

// Loading returns the transient state held while a fetch is outstanding.
func Loading() ForecastState {
	return ForecastState{Kind: StateLoading}
}

// Success wraps a fetched document.
func Success(doc *ForecastDocument) ForecastState {
	return ForecastState{Kind: StateSuccess, Document: doc}
}

// Failed carries a fetch failure message.
func Failed(message string) ForecastState {
	return ForecastState{Kind: StateError, Message: message}
}

// Terminal reports whether s is Success or Error.
func (s ForecastState) Terminal() bool {
	return s.Kind == StateSuccess || s.Kind == StateError
}
