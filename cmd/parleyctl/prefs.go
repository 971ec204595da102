package main

import (
	"context"
	"fmt"
	"os"

	"github.com/matheus3301/parley/internal/app"
	"github.com/matheus3301/parley/internal/prefs"
	"github.com/spf13/cobra"
)

var (
	colorFlag string
	fontFlag  string
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Show or change display preferences",
}

var prefsGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the current preferences",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withController(cmd, func(_ context.Context, c *app.Controller) error {
			p := c.Prefs.Get()
			if jsonOutput {
				return outputJSON(toPrefsView(p))
			}
			newRenderer(p).prefs(os.Stdout, p)
			return nil
		})
	},
}

var prefsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change the accent color and/or font scale",
	Example: `  parleyctl prefs set --color "#10b981"
  parleyctl prefs set --font large`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		var u prefs.Update
		if cmd.Flags().Changed("color") {
			u.AccentColor = &colorFlag
		}
		if cmd.Flags().Changed("font") {
			fs, err := prefs.ParseFontScale(fontFlag)
			if err != nil {
				return err
			}
			u.FontScale = &fs
		}
		if u.AccentColor == nil && u.FontScale == nil {
			return fmt.Errorf("nothing to set: pass --color and/or --font")
		}
		return withController(cmd, func(_ context.Context, c *app.Controller) error {
			if !c.Config.Features.ThemeSwitch {
				return fmt.Errorf("theme switching is disabled in config")
			}
			p, err := c.Prefs.Set(u)
			if err != nil {
				return err
			}
			if jsonOutput {
				return outputJSON(toPrefsView(p))
			}
			newRenderer(p).prefs(os.Stdout, p)
			return nil
		})
	},
}

func init() {
	prefsSetCmd.Flags().StringVar(&colorFlag, "color", "", "accent color, e.g. #3b82f6")
	prefsSetCmd.Flags().StringVar(&fontFlag, "font", "", "font scale: small, medium or large")

	prefsCmd.AddCommand(prefsGetCmd, prefsSetCmd)
	rootCmd.AddCommand(prefsCmd)
}
