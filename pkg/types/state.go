package types

// LoadState lets callers tell "still loading" and "failed" apart from a
// genuinely empty result set.
type LoadState uint8

const (
	LoadNotStarted LoadState = iota
	LoadPending
	LoadReady
	LoadFailed
)

func (s LoadState) String() string {
	switch s {
	case LoadPending:
		return "loading"
	case LoadReady:
		return "ready"
	case LoadFailed:
		return "error"
	default:
		return "not_loaded"
	}
}

func (s LoadState) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

func (s *LoadState) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case `"loading"`:
		*s = LoadPending
	case `"ready"`:
		*s = LoadReady
	case `"error"`:
		*s = LoadFailed
	default:
		*s = LoadNotStarted
	}
	return nil
}
