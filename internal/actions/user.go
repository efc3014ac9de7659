package actions

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tidwall/sjson"

	"github.com/chupakbra/mmgroups/internal/model"
)

// DefaultSearchLimit caps picker search results.
const DefaultSearchLimit = 20

// SearchUsers runs the server's user autocomplete search. notInGroupID hides
// users who already belong to that group.
func (s *Service) SearchUsers(ctx context.Context, term, notInGroupID string, limit int) ([]model.User, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	body, err := sjson.SetBytes([]byte(`{}`), "term", term)
	if err == nil && notInGroupID != "" {
		body, err = sjson.SetBytes(body, "not_in_group_id", notInGroupID)
	}
	if err == nil {
		body, err = sjson.SetBytes(body, "limit", limit)
	}
	if err != nil {
		return nil, fmt.Errorf("encoding search: %w", err)
	}
	var users []model.User
	if err := s.c.Post(ctx, "/users/search", body, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// GetUsersByUsernames looks users up by exact username. Unknown usernames are
// silently absent from the result.
func (s *Service) GetUsersByUsernames(ctx context.Context, usernames []string) ([]model.User, error) {
	body, err := json.Marshal(usernames)
	if err != nil {
		return nil, fmt.Errorf("encoding usernames: %w", err)
	}
	var users []model.User
	if err := s.c.Post(ctx, "/users/usernames", body, &users); err != nil {
		return nil, err
	}
	return users, nil
}
