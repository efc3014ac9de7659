package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/chupakbra/mmgroups/internal/client"
	"github.com/chupakbra/mmgroups/internal/config"
	"github.com/chupakbra/mmgroups/internal/model"
)

const verifyTimeout = 15 * time.Second

func instanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "instance",
		Short: "Manage configured chat servers",
		Long:  "Add, remove, list, and switch between configured chat servers.",
	}

	cmd.AddCommand(instanceListCmd())
	cmd.AddCommand(instanceAddCmd())
	cmd.AddCommand(instanceRemoveCmd())
	cmd.AddCommand(instanceUseCmd())
	cmd.AddCommand(instanceShowCmd())
	return cmd
}

func sortedInstanceNames(cfg *config.Config) []string {
	names := make([]string, 0, len(cfg.Instances))
	for name := range cfg.Instances {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// instanceListCmd lists all configured instances.
func instanceListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all configured instances",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			if flagOutput == "json" {
				type row struct {
					Name      string `json:"name"`
					URL       string `json:"url"`
					VerifyTLS bool   `json:"verify-tls"`
					Current   bool   `json:"current"`
				}
				rows := []row{}
				for _, name := range sortedInstanceNames(cfg) {
					inst := cfg.Instances[name]
					rows = append(rows, row{
						Name:      name,
						URL:       inst.URL,
						VerifyTLS: inst.VerifyTLS,
						Current:   name == cfg.CurrentInstance,
					})
				}
				return jsonOut(cmd, rows)
			}

			if len(cfg.Instances) == 0 {
				notice(cmd, "No instances configured.")
				return nil
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tURL\tVERIFY TLS\tCURRENT")
			for _, name := range sortedInstanceNames(cfg) {
				inst := cfg.Instances[name]
				current := ""
				if name == cfg.CurrentInstance {
					current = "*"
				}
				fmt.Fprintf(w, "%s\t%s\t%v\t%s\n", name, inst.URL, inst.VerifyTLS, current)
			}
			return w.Flush()
		},
	}
}

// instanceAddCmd adds a new named instance to the config.
func instanceAddCmd() *cobra.Command {
	var (
		url      string
		token    string
		insecure bool
		noVerify bool
	)

	cmd := &cobra.Command{
		Use:          "add <name>",
		Short:        "Add a new chat server",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: false, // show usage when required flags are missing
		Example: `  mmgroups instance add work \
    --url https://chat.example.com \
    --token xxxxxxxx

  mmgroups instance add lab --url https://10.0.0.5:8065 --token xxxxxxxx --insecure`,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if _, exists := cfg.Instances[name]; exists {
				return fmt.Errorf("instance %q already exists, remove it first", name)
			}

			instCfg := config.InstanceConfig{
				URL:       strings.TrimRight(url, "/"),
				Token:     token,
				VerifyTLS: !insecure,
			}

			if !noVerify {
				s := startSpinner(fmt.Sprintf("Verifying connection to %s...", instCfg.URL))
				me, connErr := verifyInstance(cmd.Context(), &instCfg)
				s.Stop()
				if connErr != nil {
					return fmt.Errorf("connection check failed: %w\n\nHint: %s", connErr, connectionHint(&instCfg, connErr))
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Connection verified as @%s.\n", me.Username)
			}

			cfg.Instances[name] = instCfg
			if cfg.CurrentInstance == "" {
				cfg.CurrentInstance = name
			}
			if err := config.Save(cfg); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Instance %q added.\n", name)
			if cfg.CurrentInstance == name {
				fmt.Fprintf(cmd.OutOrStdout(), "Set %q as the default instance.\n", name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "server URL, e.g. https://chat.example.com")
	cmd.Flags().StringVar(&token, "token", "", "personal access token")
	cmd.Flags().BoolVar(&insecure, "insecure", false, "skip TLS certificate verification")
	cmd.Flags().BoolVar(&noVerify, "no-verify", false, "save without checking the token against the server")
	_ = cmd.MarkFlagRequired("url")
	_ = cmd.MarkFlagRequired("token")
	return cmd
}

// instanceRemoveCmd removes a named instance from the config.
func instanceRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a configured instance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			if _, ok := cfg.Instances[name]; !ok {
				return fmt.Errorf("instance %q not found", name)
			}
			delete(cfg.Instances, name)

			if cfg.CurrentInstance == name {
				cfg.CurrentInstance = ""
			}

			if err := config.Save(cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Instance %q removed.\n", name)
			return nil
		},
	}
}

// instanceUseCmd sets the default instance.
func instanceUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use <name>",
		Short: "Set the default instance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			if _, ok := cfg.Instances[name]; !ok {
				return fmt.Errorf("instance %q not found, add it first with 'instance add'", name)
			}

			cfg.CurrentInstance = name
			if err := config.Save(cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Default instance set to %q.\n", name)
			return nil
		},
	}
}

// instanceShowCmd shows config for the current or named instance.
func instanceShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [name]",
		Short: "Show config for the current or named instance",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			name := cfg.CurrentInstance
			if len(args) > 0 {
				name = args[0]
			}
			if name == "" {
				return fmt.Errorf("no instance selected and no name provided")
			}

			inst, ok := cfg.Instances[name]
			if !ok {
				return fmt.Errorf("instance %q not found", name)
			}

			if flagOutput == "json" {
				type out struct {
					Name      string `json:"name"`
					URL       string `json:"url"`
					Token     string `json:"token"`
					VerifyTLS bool   `json:"verify-tls"`
					Current   bool   `json:"current"`
				}
				return jsonOut(cmd, out{
					Name:      name,
					URL:       inst.URL,
					Token:     mask(inst.Token),
					VerifyTLS: inst.VerifyTLS,
					Current:   name == cfg.CurrentInstance,
				})
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Name:\t%s\n", name)
			fmt.Fprintf(w, "URL:\t%s\n", inst.URL)
			fmt.Fprintf(w, "Token:\t%s\n", mask(inst.Token))
			fmt.Fprintf(w, "Verify TLS:\t%v\n", inst.VerifyTLS)
			fmt.Fprintf(w, "Current:\t%v\n", name == cfg.CurrentInstance)
			return w.Flush()
		},
	}
}

// verifyInstance confirms the server is reachable and the token belongs to a
// user, returning that user.
func verifyInstance(ctx context.Context, instCfg *config.InstanceConfig) (*model.User, error) {
	svc, err := newService(instCfg)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, verifyTimeout)
	defer cancel()
	return svc.Me(ctx)
}

// connectionHint returns a human-readable hint based on the error type.
func connectionHint(instCfg *config.InstanceConfig, err error) string {
	msg := err.Error()
	switch {
	case client.IsUnauthorized(err):
		return "verify that the access token is correct and has not been revoked"
	case client.IsNotFound(err):
		return fmt.Sprintf("%s does not look like a server with the v4 API, check the URL", instCfg.URL)
	case strings.Contains(msg, "connection refused") || strings.Contains(msg, "no such host") ||
		strings.Contains(msg, "i/o timeout") || strings.Contains(msg, "dial"):
		return fmt.Sprintf("check that %s is reachable and the port is correct", instCfg.URL)
	case strings.Contains(msg, "certificate") || strings.Contains(msg, "x509"):
		return "the server certificate could not be verified, pass --insecure only if you trust this network"
	default:
		return "check the URL, token, and network connectivity"
	}
}
