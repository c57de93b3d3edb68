package domain

// AppState is the lifecycle of the current search
type AppState string

const (
	StateIdle    AppState = "idle"
	StateLoading AppState = "loading"
	StateSuccess AppState = "success"
	StateError   AppState = "error"
)

// View is the screen the user is looking at
type View string

const (
	ViewHome    View = "home"
	ViewLibrary View = "library"
)

// UIState is the application state handed to the rendering layer. All
// transitions are value methods returning the next state.
type UIState struct {
	State   AppState        `json:"state"`
	View    View            `json:"view"`
	Current *MetadataRecord `json:"current,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// InitialState is the state on startup
func InitialState() UIState {
	return UIState{State: StateIdle, View: ViewHome}
}

// StartSearch moves to the home view and drops the previous result
func (s UIState) StartSearch() UIState {
	return UIState{State: StateLoading, View: ViewHome}
}

// SearchSucceeded shows record
func (s UIState) SearchSucceeded(record MetadataRecord) UIState {
	s.State = StateSuccess
	s.Current = &record
	s.Error = ""
	return s
}

// SearchFailed records a failed search
func (s UIState) SearchFailed(reason string) UIState {
	s.State = StateError
	s.Current = nil
	s.Error = reason
	return s
}

// ShowLibrary switches to the library view, keeping the search state
func (s UIState) ShowLibrary() UIState {
	s.View = ViewLibrary
	return s
}

// ShowHome switches back to the home view
func (s UIState) ShowHome() UIState {
	s.View = ViewHome
	return s
}

// LoadFromLibrary opens a saved record as if it had just been fetched
func (s UIState) LoadFromLibrary(record MetadataRecord) UIState {
	return UIState{State: StateSuccess, View: ViewHome, Current: &record}
}

// IsLoading reports whether a search is in flight
func (s UIState) IsLoading() bool {
	return s.State == StateLoading
}
