package groupform

// Status is the lifecycle of a single submit attempt.
type Status int

const (
	StatusIdle Status = iota
	StatusSaving
	StatusFailed
	StatusSucceeded
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusSaving:
		return "saving"
	case StatusFailed:
		return "failed"
	case StatusSucceeded:
		return "succeeded"
	}
	return "unknown"
}

// SubmissionState drives button enablement and error display. Field errors
// stay set until the next submit attempt clears them.
type SubmissionState struct {
	Status       Status
	NameErr      error
	MentionErr   error
	UnknownError bool
}

// Saving reports whether a remote call is in flight.
func (s SubmissionState) Saving() bool {
	return s.Status == StatusSaving
}

// FormErr is the form-level error to render, if any.
func (s SubmissionState) FormErr() error {
	if s.UnknownError {
		return ErrUnknownRemote
	}
	return nil
}

func savingState() SubmissionState {
	return SubmissionState{Status: StatusSaving}
}
