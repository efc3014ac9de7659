package actions

import (
	"context"

	"github.com/chupakbra/mmgroups/internal/client"
	"github.com/chupakbra/mmgroups/internal/model"
)

//go:generate mockgen -source=service.go -destination=mocks/mock_service.go -package=mocks GroupService

// GroupService is the set of remote operations the group screens and dialogs
// depend on.
type GroupService interface {
	Me(ctx context.Context) (*model.User, error)
	ListGroups(ctx context.Context, opts ListGroupsOptions) ([]model.Group, error)
	GetGroup(ctx context.Context, groupID string) (*model.Group, error)
	ListGroupMembers(ctx context.Context, groupID string, page, perPage int) ([]model.User, error)
	SearchUsers(ctx context.Context, term, notInGroupID string, limit int) ([]model.User, error)
	GetUsersByUsernames(ctx context.Context, usernames []string) ([]model.User, error)
	AddUsersToGroup(ctx context.Context, groupID string, userIDs []string) error
	PatchGroup(ctx context.Context, groupID string, patch model.GroupPatch) (*model.Group, error)
}

// Service implements GroupService on top of the REST client.
type Service struct {
	c *client.Client
}

var _ GroupService = (*Service)(nil)

// New wraps a client.
func New(c *client.Client) *Service {
	return &Service{c: c}
}

// Me returns the user the token belongs to. Used to verify credentials.
func (s *Service) Me(ctx context.Context) (*model.User, error) {
	var u model.User
	if err := s.c.Get(ctx, "/users/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
