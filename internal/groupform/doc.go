// Package groupform implements the form logic behind the group dialogs:
// adding members to a group and editing a group's display name and mention.
//
// Drafts are plain values. Every handler takes a draft and returns the next
// one, so a dialog can be tested as a sequence of (draft, event) -> draft
// transitions without a terminal or a server. Remote calls are not made here;
// BeginSubmit hands back the payload to send and Resolve folds the call's
// result into the draft.
package groupform
