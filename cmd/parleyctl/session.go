package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/matheus3301/parley/internal/app"
	"github.com/matheus3301/parley/internal/gate"
	"github.com/matheus3301/parley/internal/profile"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var passwordFlag string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the profile's session state",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withController(cmd, func(ctx context.Context, c *app.Controller) error {
			s, err := c.Gate.Activate(ctx)
			if err != nil && !errors.Is(err, gate.ErrUnauthenticated) {
				return err
			}
			st := statusView{
				Profile:       profile.Resolve(profileFlag),
				State:         string(c.Gate.State()),
				Server:        c.Client.BaseURL(),
				Backend:       c.Config.Storage.Backend,
				Username:      s.User.Username,
				Phone:         s.User.Phone,
				Messages:      c.Pipeline.Len(),
				Conversations: c.Conversations.Len(),
			}
			if err != nil {
				st.Reason = err.Error()
			}
			if jsonOutput {
				return outputJSON(st)
			}
			printStatus(os.Stdout, st)
			return nil
		})
	},
}

var signinCmd = &cobra.Command{
	Use:   "signin <identifier>",
	Short: "Sign in with a username or phone and store the token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password := passwordFlag
		if password == "" {
			var err error
			if password, err = readPassword(); err != nil {
				return err
			}
		}
		return withController(cmd, func(ctx context.Context, c *app.Controller) error {
			token, err := c.Client.SignIn(ctx, args[0], password)
			if err != nil {
				return fmt.Errorf("sign in: %w", err)
			}
			return establish(ctx, c, token)
		})
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage the stored session token",
}

var tokenSetCmd = &cobra.Command{
	Use:   "set <token>",
	Short: "Store a token obtained elsewhere and validate it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withController(cmd, func(ctx context.Context, c *app.Controller) error {
			return establish(ctx, c, args[0])
		})
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withController(cmd, func(_ context.Context, c *app.Controller) error {
			if err := c.Logout(); err != nil {
				return err
			}
			fmt.Println("signed out")
			return nil
		})
	},
}

func init() {
	signinCmd.Flags().StringVar(&passwordFlag, "password", "", "password (prompted when omitted)")

	tokenCmd.AddCommand(tokenSetCmd)
	rootCmd.AddCommand(statusCmd, signinCmd, tokenCmd, logoutCmd)
}

// establish stores token and validates it with a profile fetch. A rejected
// token is removed again by the gate.
func establish(ctx context.Context, c *app.Controller, token string) error {
	if err := c.Gate.Establish(token); err != nil {
		return err
	}
	s, err := c.Gate.Activate(ctx)
	if err != nil {
		return err
	}
	if jsonOutput {
		return outputJSON(map[string]string{"id": s.User.ID, "username": s.User.Username})
	}
	fmt.Printf("signed in as %s\n", s.User.Username)
	return nil
}

func readPassword() (string, error) {
	if term.IsTerminal(int(syscall.Stdin)) {
		fmt.Fprint(os.Stderr, "Password: ")
		b, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(b), nil
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
