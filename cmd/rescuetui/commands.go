package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rescueworks/rescuetui/internal/app"
)

const passwordEnv = "RESCUETUI_PASSWORD"

// Test seams.
var (
	isTerminal   = term.IsTerminal
	readPassword = term.ReadPassword
)

func newRootCmd() *cobra.Command {
	opts := &app.Options{}

	cmd := &cobra.Command{
		Use:           "rescuetui",
		Short:         "Terminal client for the RescueWorks pet rescue backend.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !isTerminal(int(os.Stdout.Fd())) {
				return errors.New("the interactive UI needs a terminal; try `rescuetui snapshot`")
			}
			return app.Run(cmd.Context(), *opts)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.ConfigPath, "config", "", "config file (default ~/.config/rescuetui/config.toml)")
	flags.StringVar(&opts.PrefsPath, "prefs", "", "preferences file (default ~/.config/rescuetui/prefs.toml)")
	flags.StringVar(&opts.APIURL, "api", "", "backend base URL, overrides api_url")
	flags.StringVar(&opts.LogLevel, "log-level", "", "debug, info, warn or error; overrides log_level")

	cmd.AddCommand(newSnapshotCmd(opts))
	return cmd
}

func newSnapshotCmd(opts *app.Options) *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Sign in, load the dashboard once and print it.",
		Example: `
rescuetui snapshot --username staff@rescue.org
RESCUETUI_PASSWORD=secret rescuetui snapshot --username staff@rescue.org --api http://10.0.0.5:8000
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := lookupPassword(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return app.Snapshot(cmd.Context(), app.SnapshotOptions{
				Options:  *opts,
				Username: username,
				Password: password,
				Out:      cmd.OutOrStdout(),
			})
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "account email")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

// lookupPassword prefers the environment and falls back to a no-echo prompt.
func lookupPassword(w io.Writer) (string, error) {
	if pw, ok := os.LookupEnv(passwordEnv); ok {
		return pw, nil
	}
	fd := int(os.Stdin.Fd())
	if !isTerminal(fd) {
		return "", fmt.Errorf("no terminal to prompt for a password; set %s", passwordEnv)
	}
	_, _ = fmt.Fprint(w, "Password: ")
	pw, err := readPassword(fd)
	_, _ = fmt.Fprintln(w)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(string(pw), "\r\n"), nil
}
