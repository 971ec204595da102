package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/matheus3301/parley/internal/app"
	"github.com/matheus3301/parley/internal/gate"
	"github.com/matheus3301/parley/internal/profile"
	"github.com/matheus3301/parley/internal/tui"
	"go.uber.org/fx"
)

func main() {
	profileFlag := flag.String("profile", "", "profile name (overrides config default)")
	flag.Parse()

	name := profile.Resolve(*profileFlag)
	if err := profile.ValidateName(name); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	var ctrl *app.Controller
	fxApp := fx.New(
		app.Module(app.Params{Profile: name, Program: "parley"}),
		app.WithZapLogger(),
		fx.Populate(&ctrl),
	)

	startCtx, cancel := context.WithTimeout(context.Background(), fx.DefaultTimeout)
	defer cancel()
	if err := fxApp.Start(startCtx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	code := run(ctrl, name)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer stopCancel()
	if err := fxApp.Stop(stopCtx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	os.Exit(code)
}

func run(ctrl *app.Controller, name string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	_, err := ctrl.Gate.Activate(ctx)
	stop()
	if err != nil {
		if errors.Is(err, gate.ErrUnauthenticated) {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			printSignInHint(name)
			return 1
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	t := tui.NewApp(ctrl, name)
	err = t.Run()
	switch {
	case errors.Is(err, tui.ErrSessionEnded):
		fmt.Fprintln(os.Stderr, "the service rejected the session token")
		printSignInHint(name)
		return 1
	case err != nil:
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	case t.LoggedOut():
		fmt.Println("signed out")
	}
	return 0
}

func printSignInHint(name string) {
	fmt.Fprintf(os.Stderr, "sign in with: parleyctl --profile %s signin <identifier>\n", name)
	fmt.Fprintf(os.Stderr, "          or: parleyctl --profile %s token set <token>\n", name)
}
