package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/chupakbra/mmgroups/internal/actions"
	"github.com/chupakbra/mmgroups/internal/groupform"
	"github.com/chupakbra/mmgroups/internal/model"
)

func groupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "group",
		Aliases: []string{"grp"},
		Short:   "Manage custom user groups",
		Long: `List custom user groups, inspect their members, add people and change a
group's name or @mention. A group can be given by id or by mention
("eng" or "@eng").`,
	}
	cmd.AddCommand(groupListCmd())
	cmd.AddCommand(groupShowCmd())
	cmd.AddCommand(groupMembersCmd())
	cmd.AddCommand(groupAddMembersCmd())
	cmd.AddCommand(groupEditCmd())
	return cmd
}

func groupListCmd() *cobra.Command {
	var opts actions.ListGroupsOptions
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List custom groups",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := initClient(cmd); err != nil {
				return err
			}
			s := startSpinner("Loading groups...")
			groups, err := groupService.ListGroups(cmd.Context(), opts)
			s.Stop()
			if err != nil {
				return handleErr(err)
			}

			if flagOutput == "json" {
				if groups == nil {
					groups = []model.Group{}
				}
				return jsonOut(cmd, groups)
			}
			if len(groups) == 0 {
				notice(cmd, "No custom groups found.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tMENTION\tMEMBERS")
			for _, g := range groups {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", g.ID, g.DisplayName, g.Mention(), g.MemberCount)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVarP(&opts.Query, "query", "q", "", "only groups whose name matches")
	cmd.Flags().IntVar(&opts.Page, "page", 0, "page number, starting at 0")
	cmd.Flags().IntVar(&opts.PerPage, "per-page", actions.DefaultPerPage, "groups per page")
	return cmd
}

func groupShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <group>",
		Short: "Show a group's details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := initClient(cmd); err != nil {
				return err
			}
			g, err := actions.ResolveGroup(cmd.Context(), groupService, args[0])
			if err != nil {
				return handleErr(err)
			}

			if flagOutput == "json" {
				return jsonOut(cmd, g)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "ID:\t%s\n", g.ID)
			fmt.Fprintf(w, "Name:\t%s\n", g.DisplayName)
			fmt.Fprintf(w, "Mention:\t%s\n", dash(g.Mention()))
			fmt.Fprintf(w, "Description:\t%s\n", dash(g.Description))
			fmt.Fprintf(w, "Source:\t%s\n", g.Source)
			fmt.Fprintf(w, "Members:\t%d\n", g.MemberCount)
			fmt.Fprintf(w, "Mentionable:\t%v\n", g.AllowReference)
			if g.UpdateAt > 0 {
				fmt.Fprintf(w, "Updated:\t%s\n", time.UnixMilli(g.UpdateAt).Format(time.DateTime))
			}
			return w.Flush()
		},
	}
}

func groupMembersCmd() *cobra.Command {
	var page, perPage int
	cmd := &cobra.Command{
		Use:   "members <group>",
		Short: "List a group's members",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := initClient(cmd); err != nil {
				return err
			}
			ctx := cmd.Context()
			g, err := actions.ResolveGroup(ctx, groupService, args[0])
			if err != nil {
				return handleErr(err)
			}
			s := startSpinner("Loading members...")
			users, err := groupService.ListGroupMembers(ctx, g.ID, page, perPage)
			s.Stop()
			if err != nil {
				return handleErr(err)
			}

			if flagOutput == "json" {
				if users == nil {
					users = []model.User{}
				}
				return jsonOut(cmd, users)
			}
			if len(users) == 0 {
				notice(cmd, fmt.Sprintf("%s has no members.", g.Mention()))
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "USERNAME\tNAME\tEMAIL")
			for _, u := range users {
				fmt.Fprintf(w, "@%s\t%s\t%s\n", u.Username, dash(u.FullName()), dash(u.Email))
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVar(&page, "page", 0, "page number, starting at 0")
	cmd.Flags().IntVar(&perPage, "per-page", actions.DefaultPerPage, "members per page")
	return cmd
}

func groupAddMembersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add-members <group> <username>...",
		Short: "Add people to a custom group",
		Example: `  mmgroups group add-members @eng alice bob
  mmgroups group add-members 8d1c4ajzyfrdfmjhz1epkh1nqc @carol`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := initClient(cmd); err != nil {
				return err
			}
			ctx := cmd.Context()
			g, err := editableGroup(cmd, args[0])
			if err != nil {
				return err
			}

			usernames := make([]string, len(args)-1)
			for i, a := range args[1:] {
				usernames[i] = strings.TrimPrefix(a, "@")
			}
			users, err := groupService.GetUsersByUsernames(ctx, usernames)
			if err != nil {
				return handleErr(err)
			}
			if missing := missingUsernames(usernames, users); len(missing) > 0 {
				return fmt.Errorf("unknown user(s): %s", strings.Join(missing, ", "))
			}

			draft, ids, ok := groupform.NewAddMembersDraft(*g).WithSelection(users).BeginSubmit()
			if !ok {
				return fmt.Errorf("no users to add")
			}
			s := startSpinner(fmt.Sprintf("Adding %d member(s)...", len(ids)))
			err = groupService.AddUsersToGroup(ctx, g.ID, ids)
			s.Stop()
			if draft = draft.Resolve(err); draft.State.Status != groupform.StatusSucceeded {
				return handleErr(err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added %d member(s) to %s.\n", len(ids), g.Mention())
			return nil
		},
	}
}

func groupEditCmd() *cobra.Command {
	var (
		name        string
		mention     string
		keepMention bool
	)
	cmd := &cobra.Command{
		Use:   "edit <group>",
		Short: "Change a group's name or @mention",
		Long: `Change a custom group's display name and/or @mention.

As in the TUI, a new --name also derives the mention from it (lowercased,
letters and digits only) unless --mention is given or --keep-mention is set.`,
		Example: `  mmgroups group edit @eng --name "Platform Engineering"
  mmgroups group edit @eng --mention @platform
  mmgroups group edit @eng --name "Platform" --keep-mention`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			nameSet := cmd.Flags().Changed("name")
			mentionSet := cmd.Flags().Changed("mention")
			if !nameSet && !mentionSet {
				return fmt.Errorf("nothing to change, pass --name and/or --mention")
			}
			if err := initClient(cmd); err != nil {
				return err
			}
			g, err := editableGroup(cmd, args[0])
			if err != nil {
				return err
			}

			draft := groupform.NewEditDraft(*g)
			if keepMention {
				draft = draft.WithMention(draft.Mention)
			}
			if nameSet {
				draft = draft.WithName(name)
			}
			if mentionSet {
				draft = draft.WithMention(mention)
			}

			draft, patch, ok := draft.BeginSubmit()
			if !ok {
				return formError(draft.State)
			}
			s := startSpinner("Saving...")
			updated, err := groupService.PatchGroup(cmd.Context(), g.ID, patch)
			s.Stop()
			draft = draft.Resolve(err)
			switch {
			case draft.State.MentionErr != nil:
				return fmt.Errorf("@%s: %w", patch.Name, draft.State.MentionErr)
			case err != nil:
				return handleErr(err)
			}

			if flagOutput == "json" {
				return jsonOut(cmd, updated)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated group %q (%s).\n", updated.DisplayName, updated.Mention())
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new display name")
	cmd.Flags().StringVar(&mention, "mention", "", "new mention, with or without the leading @")
	cmd.Flags().BoolVar(&keepMention, "keep-mention", false, "do not derive the mention from --name")
	cmd.MarkFlagsMutuallyExclusive("mention", "keep-mention")
	return cmd
}

// editableGroup resolves ref and rejects groups the API will not let us change.
func editableGroup(cmd *cobra.Command, ref string) (*model.Group, error) {
	g, err := actions.ResolveGroup(cmd.Context(), groupService, ref)
	if err != nil {
		return nil, handleErr(err)
	}
	if g.Source != model.GroupSourceCustom {
		return nil, fmt.Errorf("%s is synced from %s and cannot be changed here", g.DisplayName, g.Source)
	}
	if g.DeleteAt != 0 {
		return nil, fmt.Errorf("%s has been archived", g.DisplayName)
	}
	return g, nil
}

func formError(st groupform.SubmissionState) error {
	switch {
	case st.NameErr != nil:
		return st.NameErr
	case st.MentionErr != nil:
		return st.MentionErr
	case st.FormErr() != nil:
		return st.FormErr()
	}
	return fmt.Errorf("group details are not valid")
}

func missingUsernames(want []string, got []model.User) []string {
	found := make(map[string]bool, len(got))
	for _, u := range got {
		found[strings.ToLower(u.Username)] = true
	}
	var missing []string
	for _, name := range want {
		if !found[strings.ToLower(name)] {
			missing = append(missing, name)
		}
	}
	return missing
}
