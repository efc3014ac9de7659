package actions

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/tidwall/sjson"

	"github.com/chupakbra/mmgroups/internal/model"
)

// DefaultPerPage matches the server's page size for group listings.
const DefaultPerPage = 60

// ListGroupsOptions filters GET /groups.
type ListGroupsOptions struct {
	Query   string
	Page    int
	PerPage int
}

func (o ListGroupsOptions) values() url.Values {
	perPage := o.PerPage
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	v := url.Values{
		"source":                 {model.GroupSourceCustom},
		"filter_allow_reference": {"true"},
		"include_member_count":   {"true"},
		"page":                   {strconv.Itoa(o.Page)},
		"per_page":               {strconv.Itoa(perPage)},
	}
	if o.Query != "" {
		v.Set("q", o.Query)
	}
	return v
}

func (s *Service) ListGroups(ctx context.Context, opts ListGroupsOptions) ([]model.Group, error) {
	var groups []model.Group
	if err := s.c.Get(ctx, "/groups", opts.values(), &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

func (s *Service) GetGroup(ctx context.Context, groupID string) (*model.Group, error) {
	var g model.Group
	q := url.Values{"include_member_count": {"true"}}
	if err := s.c.Get(ctx, "/groups/"+url.PathEscape(groupID), q, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// ListGroupMembers returns one page of the group's members.
func (s *Service) ListGroupMembers(ctx context.Context, groupID string, page, perPage int) ([]model.User, error) {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	q := url.Values{
		"in_group": {groupID},
		"page":     {strconv.Itoa(page)},
		"per_page": {strconv.Itoa(perPage)},
		"sort":     {"display_name"},
	}
	var users []model.User
	if err := s.c.Get(ctx, "/users", q, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// AddUsersToGroup adds every user in one request. The server applies the
// whole batch or none of it.
func (s *Service) AddUsersToGroup(ctx context.Context, groupID string, userIDs []string) error {
	if len(userIDs) == 0 {
		return fmt.Errorf("no users to add")
	}
	body, err := sjson.SetBytes([]byte(`{}`), "user_ids", userIDs)
	if err != nil {
		return fmt.Errorf("encoding members: %w", err)
	}
	return s.c.Post(ctx, "/groups/"+url.PathEscape(groupID)+"/members", body, nil)
}

// PatchGroup updates the group's mention and display name and returns the
// stored group.
func (s *Service) PatchGroup(ctx context.Context, groupID string, patch model.GroupPatch) (*model.Group, error) {
	body, err := sjson.SetBytes([]byte(`{}`), "name", patch.Name)
	if err == nil {
		body, err = sjson.SetBytes(body, "display_name", patch.DisplayName)
	}
	if err != nil {
		return nil, fmt.Errorf("encoding patch: %w", err)
	}
	var g model.Group
	if err := s.c.Put(ctx, "/groups/"+url.PathEscape(groupID)+"/patch", body, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// ResolveGroup finds a group by id or by mention ("eng" or "@eng").
func ResolveGroup(ctx context.Context, s GroupService, ref string) (*model.Group, error) {
	if ref == "" {
		return nil, fmt.Errorf("group is required")
	}
	name := ref
	if ref[0] == '@' {
		name = ref[1:]
	} else if isServerID(ref) {
		g, err := s.GetGroup(ctx, ref)
		if err == nil {
			return g, nil
		}
	}
	groups, err := s.ListGroups(ctx, ListGroupsOptions{Query: name})
	if err != nil {
		return nil, fmt.Errorf("searching groups: %w", err)
	}
	for _, g := range groups {
		if g.Name == name {
			return &g, nil
		}
	}
	return nil, fmt.Errorf("group %q not found", ref)
}

// isServerID reports whether s looks like a 26-character server id.
func isServerID(s string) bool {
	if len(s) != 26 {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}
