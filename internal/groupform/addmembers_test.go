package groupform

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chupakbra/mmgroups/internal/model"
)

var (
	alice = model.User{ID: "u1", Username: "alice"}
	bob   = model.User{ID: "u2", Username: "bob"}
)

func TestAddMembersDraftSelection(t *testing.T) {
	d := NewAddMembersDraft(testGroup())
	assert.Equal(t, "g1", d.GroupID)
	assert.False(t, d.Submittable())

	sel := []model.User{alice, bob}
	d = d.WithSelection(sel)
	assert.True(t, d.Submittable())

	// The draft keeps its own copy of the selection.
	sel[0] = model.User{ID: "other"}
	assert.Equal(t, "u1", d.Pending[0].ID)

	d = d.WithSelection(nil)
	assert.Empty(t, d.Pending)
	assert.False(t, d.Submittable())
}

func TestAddMembersDraftBeginSubmitEmpty(t *testing.T) {
	d := NewAddMembersDraft(testGroup())
	next, ids, ok := d.BeginSubmit()
	assert.False(t, ok)
	assert.Nil(t, ids)
	assert.Equal(t, d, next)
	assert.Equal(t, StatusIdle, next.State.Status)
}

func TestAddMembersDraftBeginSubmit(t *testing.T) {
	d := NewAddMembersDraft(testGroup()).WithSelection([]model.User{bob, alice})
	d.State = SubmissionState{Status: StatusFailed, UnknownError: true}

	next, ids, ok := d.BeginSubmit()
	require.True(t, ok)
	assert.Equal(t, []string{"u2", "u1"}, ids)
	assert.True(t, next.State.Saving())
	assert.False(t, next.State.UnknownError)

	_, _, ok = next.BeginSubmit()
	assert.False(t, ok, "submit while saving must be ignored")
}

func TestAddMembersDraftResolve(t *testing.T) {
	saving := AddMembersDraft{GroupID: "g1", Pending: []model.User{alice}, State: SubmissionState{Status: StatusSaving}}

	ok := saving.Resolve(nil)
	assert.Equal(t, StatusSucceeded, ok.State.Status)
	assert.False(t, ok.State.UnknownError)

	failed := saving.Resolve(errors.New("boom"))
	assert.Equal(t, StatusFailed, failed.State.Status)
	assert.True(t, failed.State.UnknownError)
	assert.Equal(t, []model.User{alice}, failed.Pending, "selection survives a failed add")
	assert.True(t, failed.Submittable())
}
