package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/matheus3301/parley/internal/app"
	"github.com/matheus3301/parley/internal/gate"
	"github.com/matheus3301/parley/internal/profile"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

var (
	profileFlag string
	jsonOutput  bool
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "parleyctl",
	Short: "Command-line control for a parley profile",
	Long: `parleyctl drives the same session controller as the parley TUI:
sign in, ask the assistant, read history and conversations, and edit
display preferences.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&profileFlag, "profile", "", "profile name (overrides config default)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "also log to stderr")
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// withController starts the session controller for the selected profile,
// runs fn and stops it again, which flushes pending saves.
func withController(cmd *cobra.Command, fn func(ctx context.Context, c *app.Controller) error) (err error) {
	name := profile.Resolve(profileFlag)
	if err := profile.ValidateName(name); err != nil {
		return err
	}

	var ctrl *app.Controller
	fxApp := fx.New(
		app.Module(app.Params{Profile: name, Program: "parleyctl", Console: verbose}),
		app.WithZapLogger(),
		fx.Populate(&ctrl),
	)
	if err := fxApp.Err(); err != nil {
		return err
	}

	ctx := cmd.Context()
	if err := fxApp.Start(ctx); err != nil {
		return err
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if stopErr := fxApp.Stop(stopCtx); stopErr != nil && err == nil {
			err = stopErr
		}
	}()

	return fn(ctx, ctrl)
}

// activate opens the session or explains how to get one.
func activate(ctx context.Context, c *app.Controller) (gate.Session, error) {
	s, err := c.Gate.Activate(ctx)
	if errors.Is(err, gate.ErrUnauthenticated) {
		return s, fmt.Errorf("%w (run parleyctl signin or parleyctl token set)", err)
	}
	return s, err
}

func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
