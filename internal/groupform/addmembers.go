package groupform

import (
	"slices"

	"github.com/chupakbra/mmgroups/internal/model"
)

// AddMembersDraft is the state of the Add Members dialog. Pending is the
// ordered set of users staged for one batch add.
type AddMembersDraft struct {
	GroupID string
	Pending []model.User
	State   SubmissionState
}

// NewAddMembersDraft starts an empty draft for g.
func NewAddMembersDraft(g model.Group) AddMembersDraft {
	return AddMembersDraft{GroupID: g.ID}
}

// WithSelection replaces the pending set with the picker's full selection.
func (d AddMembersDraft) WithSelection(users []model.User) AddMembersDraft {
	d.Pending = slices.Clone(users)
	return d
}

// Submittable reports whether the add action is enabled.
func (d AddMembersDraft) Submittable() bool {
	return len(d.Pending) > 0 && !d.State.Saving()
}

// BeginSubmit returns the user ids to add, in selection order, with the draft
// moved to Saving. An empty pending set leaves the draft untouched.
func (d AddMembersDraft) BeginSubmit() (next AddMembersDraft, userIDs []string, ok bool) {
	if !d.Submittable() {
		return d, nil, false
	}
	ids := make([]string, len(d.Pending))
	for i, u := range d.Pending {
		ids[i] = u.ID
	}
	d.State = savingState()
	return d, ids, true
}

// Resolve folds the result of the add call into the draft. Failures are not
// retried.
func (d AddMembersDraft) Resolve(err error) AddMembersDraft {
	if err != nil {
		d.State = SubmissionState{Status: StatusFailed, UnknownError: true}
		return d
	}
	d.State = SubmissionState{Status: StatusSucceeded}
	return d
}
