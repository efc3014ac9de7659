// Package model holds the server entities shared by the transport, the forms
// and the terminal UI.
package model

import "strings"

// Group is a user group as returned by the groups API. Name is the mention
// handle without the leading "@".
type Group struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	DisplayName    string `json:"display_name"`
	Description    string `json:"description,omitempty"`
	Source         string `json:"source"`
	AllowReference bool   `json:"allow_reference"`
	MemberCount    int    `json:"member_count,omitempty"`
	CreateAt       int64  `json:"create_at,omitempty"`
	UpdateAt       int64  `json:"update_at,omitempty"`
	DeleteAt       int64  `json:"delete_at,omitempty"`
}

// Mention returns the group's handle with the "@" prefix.
func (g Group) Mention() string {
	if g.Name == "" {
		return ""
	}
	return "@" + g.Name
}

// GroupSourceCustom marks groups created by users, as opposed to
// directory-synced ones. Only custom groups can be edited.
const GroupSourceCustom = "custom"

// GroupDisplayNameMaxLength is the server's limit on a group's display name.
const GroupDisplayNameMaxLength = 128

// GroupPatch is the partial update applied by PUT /groups/{id}/patch.
type GroupPatch struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
}

// User is the subset of a user record the client renders.
type User struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Nickname  string `json:"nickname,omitempty"`
	Email     string `json:"email,omitempty"`
	DeleteAt  int64  `json:"delete_at,omitempty"`
}

// FullName joins first and last name, falling back to the nickname.
func (u User) FullName() string {
	full := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if full == "" {
		return u.Nickname
	}
	return full
}

// Label is the one-line form used in pickers: "@username - Full Name".
func (u User) Label() string {
	if name := u.FullName(); name != "" {
		return "@" + u.Username + " - " + name
	}
	return "@" + u.Username
}
