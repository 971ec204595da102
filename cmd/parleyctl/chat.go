package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/matheus3301/parley/internal/app"
	"github.com/matheus3301/parley/internal/view"
	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask <prompt>",
	Short: "Send one prompt to the assistant and print the reply",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withController(cmd, func(ctx context.Context, c *app.Controller) error {
			if _, err := activate(ctx, c); err != nil {
				return err
			}
			c.Pipeline.SetInput(strings.Join(args, " "))
			sendErr := c.Send(ctx)

			msgs := c.Pipeline.Messages()
			if len(msgs) == 0 {
				return sendErr
			}
			reply := msgs[len(msgs)-1]
			if jsonOutput {
				if err := outputJSON(toMessageView(reply)); err != nil {
					return err
				}
			} else {
				newRenderer(c.Prefs.Get()).thread(os.Stdout, msgs[len(msgs)-1:], "You", "Assistant")
			}
			return sendErr
		})
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Print the assistant conversation history",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withController(cmd, func(ctx context.Context, c *app.Controller) error {
			if _, err := activate(ctx, c); err != nil {
				return err
			}
			msgs := c.Pipeline.Messages()
			if jsonOutput {
				return outputJSON(toMessageViews(msgs))
			}
			if len(msgs) == 0 {
				fmt.Println("no messages")
				return nil
			}
			newRenderer(c.Prefs.Get()).thread(os.Stdout, msgs, "You", "Assistant")
			return nil
		})
	},
}

var conversationsCmd = &cobra.Command{
	Use:     "conversations [id]",
	Aliases: []string{"convs"},
	Short:   "List peer conversations, or show one",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withController(cmd, func(ctx context.Context, c *app.Controller) error {
			if !c.View.ConversationsEnabled() {
				return view.ErrDisabled
			}
			if _, err := activate(ctx, c); err != nil {
				return err
			}
			r := newRenderer(c.Prefs.Get())

			if len(args) == 0 {
				convs := c.Conversations.List()
				if jsonOutput {
					return outputJSON(toConversationViews(convs))
				}
				r.conversations(os.Stdout, convs)
				return nil
			}

			if err := c.View.Switch(view.Conversations); err != nil {
				return err
			}
			if err := c.View.Select(args[0]); err != nil {
				if errors.Is(err, view.ErrNotFound) {
					return fmt.Errorf("%w: %s", err, args[0])
				}
				return err
			}
			conv, _ := c.View.Selected()
			if jsonOutput {
				return outputJSON(toConversationView(conv, true))
			}
			r.thread(os.Stdout, conv.Messages, "You", conv.Counterpart.Username)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(askCmd, historyCmd, conversationsCmd)
}
