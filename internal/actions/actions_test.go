package actions

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chupakbra/mmgroups/internal/client"
	"github.com/chupakbra/mmgroups/internal/config"
	"github.com/chupakbra/mmgroups/internal/groupform"
	"github.com/chupakbra/mmgroups/internal/logging"
	"github.com/chupakbra/mmgroups/internal/model"
)

func newTestService(t *testing.T, mux *http.ServeMux) *Service {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	c, err := client.New(&config.InstanceConfig{URL: srv.URL, Token: "tok"}, client.WithLogger(logging.Discard()))
	require.NoError(t, err)
	return New(c)
}

func readJSON(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	var body map[string]any
	data, err := io.ReadAll(r.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &body))
	return body
}

func TestListGroupsQuery(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v4/groups", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "custom", q.Get("source"))
		assert.Equal(t, "true", q.Get("include_member_count"))
		assert.Equal(t, "2", q.Get("page"))
		assert.Equal(t, "60", q.Get("per_page"))
		assert.Equal(t, "eng", q.Get("q"))
		fmt.Fprint(w, `[{"id":"g1","name":"eng","display_name":"Engineering","member_count":3,"source":"custom"}]`)
	})
	s := newTestService(t, mux)

	groups, err := s.ListGroups(context.Background(), ListGroupsOptions{Query: "eng", Page: 2})
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, model.Group{ID: "g1", Name: "eng", DisplayName: "Engineering", MemberCount: 3, Source: "custom"}, groups[0])
}

func TestAddUsersToGroupBody(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v4/groups/g1/members", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, map[string]any{"user_ids": []any{"u1", "u2"}}, readJSON(t, r))
		fmt.Fprint(w, `{"id":"g1"}`)
	})
	s := newTestService(t, mux)
	require.NoError(t, s.AddUsersToGroup(context.Background(), "g1", []string{"u1", "u2"}))
}

func TestAddUsersToGroupEmpty(t *testing.T) {
	s := newTestService(t, http.NewServeMux())
	assert.Error(t, s.AddUsersToGroup(context.Background(), "g1", nil))
}

func TestPatchGroup(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v4/groups/g1/patch", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, map[string]any{"name": "engteam", "display_name": "Engineers"}, readJSON(t, r))
		fmt.Fprint(w, `{"id":"g1","name":"engteam","display_name":"Engineers"}`)
	})
	s := newTestService(t, mux)

	g, err := s.PatchGroup(context.Background(), "g1", model.GroupPatch{Name: "engteam", DisplayName: "Engineers"})
	require.NoError(t, err)
	assert.Equal(t, "@engteam", g.Mention())
}

func TestPatchGroupDuplicateMention(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v4/groups/g1/patch", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"id":"app.custom_group.unique_name","message":"Group name is not unique.","status_code":400}`)
	})
	s := newTestService(t, mux)

	_, err := s.PatchGroup(context.Background(), "g1", model.GroupPatch{Name: "taken", DisplayName: "Taken"})
	require.Error(t, err)
	assert.Equal(t, groupform.UniqueNameErrorID, groupform.ServerErrorID(err))

	d := groupform.EditDraft{Name: "Taken", Mention: "@taken", HasUpdated: true}
	d = d.Resolve(err)
	assert.ErrorIs(t, d.State.MentionErr, groupform.ErrDuplicateMention)
	assert.False(t, d.State.UnknownError)
}

func TestSearchUsersBody(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v4/users/search", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, map[string]any{"term": "al", "not_in_group_id": "g1", "limit": float64(20)}, readJSON(t, r))
		fmt.Fprint(w, `[{"id":"u1","username":"alice","first_name":"Alice"}]`)
	})
	s := newTestService(t, mux)

	users, err := s.SearchUsers(context.Background(), "al", "g1", 0)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "@alice - Alice", users[0].Label())
}

func TestGetUsersByUsernames(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v4/users/usernames", func(w http.ResponseWriter, r *http.Request) {
		var names []string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&names))
		assert.Equal(t, []string{"alice", "bob"}, names)
		fmt.Fprint(w, `[{"id":"u1","username":"alice"}]`)
	})
	s := newTestService(t, mux)

	users, err := s.GetUsersByUsernames(context.Background(), []string{"alice", "bob"})
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestListGroupMembers(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v4/users", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "g1", r.URL.Query().Get("in_group"))
		fmt.Fprint(w, `[{"id":"u1","username":"alice"},{"id":"u2","username":"bob"}]`)
	})
	s := newTestService(t, mux)

	users, err := s.ListGroupMembers(context.Background(), "g1", 0, 0)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestResolveGroup(t *testing.T) {
	const id = "abcdefghijklmnopqrstuvwxyz"
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v4/groups/"+id, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"id":%q,"name":"byid"}`, id)
	})
	mux.HandleFunc("/api/v4/groups", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"id":"g1","name":"engineering"},{"id":"g2","name":"eng"}]`)
	})
	s := newTestService(t, mux)
	ctx := context.Background()

	g, err := ResolveGroup(ctx, s, id)
	require.NoError(t, err)
	assert.Equal(t, "byid", g.Name)

	g, err = ResolveGroup(ctx, s, "@eng")
	require.NoError(t, err)
	assert.Equal(t, "g2", g.ID, "only an exact mention match counts")

	g, err = ResolveGroup(ctx, s, "engineering")
	require.NoError(t, err)
	assert.Equal(t, "g1", g.ID)

	_, err = ResolveGroup(ctx, s, "missing")
	assert.ErrorContains(t, err, `"missing" not found`)

	_, err = ResolveGroup(ctx, s, "")
	assert.Error(t, err)
}

func TestMe(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v4/users/me", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"id":"api.context.session_expired.app_error","status_code":401}`)
	})
	s := newTestService(t, mux)

	_, err := s.Me(context.Background())
	assert.True(t, client.IsUnauthorized(err))
}
