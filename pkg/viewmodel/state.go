package viewmodel

// Status tells which variant a State holds.
type Status int

const (
	Idle Status = iota
	Loading
	Loaded
	Failed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// State is a tagged union: Idle, Loading, Loaded(data) or Failed(err).
// Fields are unexported so no other combination can be built.
type State[T any] struct {
	status Status
	data   T
	err    error
}

// IdleState returns the initial state.
func IdleState[T any]() State[T] { return State[T]{status: Idle} }

// LoadingState marks a fetch in progress.
func LoadingState[T any]() State[T] { return State[T]{status: Loading} }

// LoadedState holds fetched data. An empty list is still Loaded.
func LoadedState[T any](data T) State[T] { return State[T]{status: Loaded, data: data} }

// FailedState holds the error of the last fetch.
func FailedState[T any](err error) State[T] { return State[T]{status: Failed, err: err} }

// Status returns the variant.
func (s State[T]) Status() Status { return s.status }

// Data returns the data and true when the state is Loaded.
func (s State[T]) Data() (T, bool) { return s.data, s.status == Loaded }

// Err returns the error when the state is Failed.
func (s State[T]) Err() error { return s.err }

func (s State[T]) IsIdle() bool    { return s.status == Idle }
func (s State[T]) IsLoading() bool { return s.status == Loading }
func (s State[T]) IsLoaded() bool  { return s.status == Loaded }
func (s State[T]) IsFailed() bool  { return s.status == Failed }
