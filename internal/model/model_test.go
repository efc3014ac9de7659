package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGroupMention(t *testing.T) {
	assert.Equal(t, "@eng", Group{Name: "eng"}.Mention())
	assert.Equal(t, "", Group{}.Mention())
}

func TestUserLabel(t *testing.T) {
	tests := []struct {
		name string
		user User
		want string
	}{
		{"full name", User{Username: "alice", FirstName: "Alice", LastName: "Liddell"}, "@alice - Alice Liddell"},
		{"nickname fallback", User{Username: "bob", Nickname: "bobby"}, "@bob - bobby"},
		{"username only", User{Username: "carol"}, "@carol"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.user.Label())
		})
	}
}
