package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/chupakbra/mmgroups/internal/actions"
	"github.com/chupakbra/mmgroups/internal/model"
)

func TestGroupsFetchAndOpen(t *testing.T) {
	svc := newMockService(t)
	devs := testGroup()
	ops := model.Group{ID: "g2", Name: "ops", DisplayName: "Ops", Source: model.GroupSourceCustom}
	svc.EXPECT().ListGroups(gomock.Any(), actions.ListGroupsOptions{PerPage: 200}).Return([]model.Group{devs, ops}, nil)

	m := newGroupsModel(svc, "work", 100, 40)
	res, ok := find[groupsFetchedMsg](drain(t, m.init()))
	require.True(t, ok)

	m, _ = m.update(res)
	require.False(t, m.loading)
	require.Len(t, m.table.Rows(), 2)
	assert.Contains(t, m.view(), "Groups - work")

	m, _ = m.update(key("down"))
	_, cmd := m.update(key("enter"))
	require.NotNil(t, cmd)
	assert.Equal(t, openViewGroupMsg{group: ops}, cmd())
}

func TestGroupsStaleFetchDiscarded(t *testing.T) {
	m := newGroupsModel(newMockService(t), "work", 100, 40)

	m, _ = m.update(groupsFetchedMsg{fetchID: m.fetchID - 1, groups: []model.Group{testGroup()}})
	assert.True(t, m.loading)
	assert.Empty(t, m.groups)
}

func TestGroupsFilter(t *testing.T) {
	m := newGroupsModel(newMockService(t), "work", 100, 40)
	m, _ = m.update(groupsFetchedMsg{fetchID: m.fetchID, groups: []model.Group{
		testGroup(),
		{ID: "g2", Name: "ops", DisplayName: "Ops"},
	}})

	m, _ = m.update(key("/"))
	m, _ = m.update(key("op"))
	require.Len(t, m.table.Rows(), 1)

	m, _ = m.update(key("enter"))
	_, cmd := m.update(key("enter"))
	require.NotNil(t, cmd)
	assert.Equal(t, "g2", cmd().(openViewGroupMsg).group.ID)
}
