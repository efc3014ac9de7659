package groupform

import "github.com/chupakbra/mmgroups/internal/model"

// EditDraft is the state of the Edit Group Details dialog.
//
// Mention follows Name through NormalizeMention until the user edits the
// mention field directly; after that MentionUpdatedManually stays true and
// name changes no longer touch it.
type EditDraft struct {
	GroupID                string
	Name                   string
	Mention                string
	MentionUpdatedManually bool
	HasUpdated             bool
	State                  SubmissionState
}

// NewEditDraft seeds a draft from the group being edited.
func NewEditDraft(g model.Group) EditDraft {
	return EditDraft{
		GroupID: g.ID,
		Name:    g.DisplayName,
		Mention: g.Mention(),
	}
}

// WithName applies an edit of the display name field.
func (d EditDraft) WithName(value string) EditDraft {
	d.Name = value
	d.HasUpdated = true
	if !d.MentionUpdatedManually {
		d.Mention = NormalizeMention(value)
	}
	return d
}

// WithMention applies an edit of the mention field.
func (d EditDraft) WithMention(value string) EditDraft {
	d.Mention = value
	d.HasUpdated = true
	d.MentionUpdatedManually = true
	return d
}

// Submittable reports whether the save action is enabled.
func (d EditDraft) Submittable() bool {
	return d.Name != "" && d.Mention != "" && d.HasUpdated && !d.State.Saving()
}

// BeginSubmit validates the draft and, when valid, returns the patch to send
// with the draft moved to Saving. On a validation failure the returned draft
// carries the field error, is back to Idle and ok is false.
func (d EditDraft) BeginSubmit() (next EditDraft, patch model.GroupPatch, ok bool) {
	if d.State.Saving() {
		return d, model.GroupPatch{}, false
	}
	d.State = savingState()

	if d.Name == "" {
		d.State = SubmissionState{NameErr: &EmptyFieldError{Field: FieldName}}
		return d, model.GroupPatch{}, false
	}

	mention := StripMention(d.Mention)
	if err := ValidateMention(mention); err != nil {
		d.State = SubmissionState{MentionErr: err}
		return d, model.GroupPatch{}, false
	}

	return d, model.GroupPatch{Name: mention, DisplayName: d.Name}, true
}

// Resolve folds the result of the patch call into the draft.
func (d EditDraft) Resolve(err error) EditDraft {
	switch {
	case err == nil:
		d.State = SubmissionState{Status: StatusSucceeded}
	case ServerErrorID(err) == UniqueNameErrorID:
		d.State = SubmissionState{Status: StatusFailed, MentionErr: ErrDuplicateMention}
	default:
		d.State = SubmissionState{Status: StatusFailed, UnknownError: true}
	}
	return d
}
