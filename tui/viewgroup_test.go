package tui

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/chupakbra/mmgroups/internal/actions"
	"github.com/chupakbra/mmgroups/internal/model"
)

func TestLoadViewGroupCmd(t *testing.T) {
	svc := newMockService(t)
	g := testGroup()
	g.MemberCount = 2
	svc.EXPECT().GetGroup(gomock.Any(), "g1").Return(&g, nil)
	svc.EXPECT().ListGroupMembers(gomock.Any(), "g1", 0, actions.DefaultPerPage).Return([]model.User{alice, bob}, nil)

	msg, ok := loadViewGroupCmd(svc, 5, "g1")().(viewGroupLoadedMsg)
	require.True(t, ok)
	require.NoError(t, msg.err)
	assert.Equal(t, int64(5), msg.id)
	assert.Equal(t, 2, msg.group.MemberCount)
	assert.Len(t, msg.members, 2)
}

func TestLoadViewGroupCmdError(t *testing.T) {
	svc := newMockService(t)
	svc.EXPECT().GetGroup(gomock.Any(), "g1").Return(nil, errors.New("gone"))
	svc.EXPECT().ListGroupMembers(gomock.Any(), "g1", 0, actions.DefaultPerPage).Return(nil, nil).AnyTimes()

	msg, ok := loadViewGroupCmd(svc, 5, "g1")().(viewGroupLoadedMsg)
	require.True(t, ok)
	assert.ErrorContains(t, msg.err, "loading group")
}

func loadedViewGroup(t *testing.T, g model.Group) viewGroupModal {
	t.Helper()
	m := newViewGroupModal(newMockService(t), g, 100, 40)
	m, _ = m.update(viewGroupLoadedMsg{id: m.id, group: &g, members: []model.User{alice, bob}})
	require.False(t, m.loading)
	return m
}

func TestViewGroupOpensDialogs(t *testing.T) {
	m := loadedViewGroup(t, testGroup())

	_, cmd := m.update(key("a"))
	require.NotNil(t, cmd)
	assert.Equal(t, openAddMembersMsg{group: testGroup()}, cmd())

	_, cmd = m.update(key("e"))
	require.NotNil(t, cmd)
	assert.Equal(t, openEditGroupMsg{group: testGroup()}, cmd())
}

func TestViewGroupSyncedGroupNotEditable(t *testing.T) {
	g := testGroup()
	g.Source = "ldap"
	m := loadedViewGroup(t, g)

	_, cmd := m.update(key("a"))
	assert.Nil(t, cmd)
	_, cmd = m.update(key("e"))
	assert.Nil(t, cmd)
}

func TestViewGroupFilterMembers(t *testing.T) {
	m := loadedViewGroup(t, testGroup())
	require.Len(t, m.table.Rows(), 2)

	m, _ = m.update(key("/"))
	require.True(t, m.filter.active)
	m, _ = m.update(key("ali"))
	assert.Len(t, m.table.Rows(), 1)

	// The first esc closes the filter prompt, the second clears it.
	m, _ = m.update(key("esc"))
	assert.False(t, m.filter.active)
	m, cmd := m.update(key("esc"))
	assert.Nil(t, cmd)
	assert.Len(t, m.table.Rows(), 2)
	assert.True(t, m.visible)

	m, cmd = m.update(key("esc"))
	assert.False(t, m.visible)
	assert.Empty(t, m.view())
	assert.Equal(t, modalExitedMsg{id: m.id}, cmd())
}
