package tui

// State tracks answers and pending error messages keyed by field name across
// prompt rounds.
type State struct {
	values map[string]any
	errors map[string]string
}

// NewState seeds the state with prefilled values and errors.
func NewState(prefill map[string]any, errs map[string]string) *State {
	s := &State{
		values: make(map[string]any, len(prefill)),
		errors: make(map[string]string, len(errs)),
	}
	for name, value := range prefill {
		s.values[name] = value
	}
	for name, msg := range errs {
		s.errors[name] = msg
	}
	return s
}

// Values returns a copy of the answers.
func (s *State) Values() map[string]any {
	out := make(map[string]any, len(s.values))
	for name, value := range s.values {
		out[name] = value
	}
	return out
}

// Value returns the answer recorded for name.
func (s *State) Value(name string) (any, bool) {
	value, ok := s.values[name]
	return value, ok
}

// SetValue records an answer and clears the pending error for name.
func (s *State) SetValue(name string, value any) {
	s.values[name] = value
	delete(s.errors, name)
}

// Error returns the pending error for name.
func (s *State) Error(name string) string {
	return s.errors[name]
}

// SetErrors replaces the pending errors.
func (s *State) SetErrors(errs map[string]string) {
	s.errors = make(map[string]string, len(errs))
	for name, msg := range errs {
		s.errors[name] = msg
	}
}
