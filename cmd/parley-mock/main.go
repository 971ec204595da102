package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/matheus3301/parley/internal/api"
	"github.com/matheus3301/parley/internal/api/apitest"
	"github.com/matheus3301/parley/internal/chat"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	addr     string
	token    string
	username string
	password string
	askDelay time.Duration
	noSeed   bool
)

var rootCmd = &cobra.Command{
	Use:   "parley-mock",
	Short: "Run a local fake chat service for development",
	Long: `parley-mock serves the chat service API on a local address with an
echoing assistant. Point server.base_url at it and sign in with the
configured username and password.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().StringVar(&addr, "addr", "127.0.0.1:5000", "listen address")
	rootCmd.Flags().StringVar(&token, "token", "dev-token", "token accepted by the service")
	rootCmd.Flags().StringVar(&username, "username", "alice", "signed-in user")
	rootCmd.Flags().StringVar(&password, "password", "secret", "password for signin")
	rootCmd.Flags().DurationVar(&askDelay, "ask-delay", 500*time.Millisecond, "delay before each answer")
	rootCmd.Flags().BoolVar(&noSeed, "no-seed", false, "start with empty history and conversations")
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	logger, err := zap.NewDevelopment()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	fake := apitest.New(token, chat.UserProfile{ID: uuid.NewString(), Username: username, Phone: "+15550100"})
	fake.AddCredentials(username, password)
	fake.SetAskDelay(askDelay)
	if !noSeed {
		seed(fake, time.Now())
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           fake.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("fake service listening", zap.String("addr", addr), zap.String("user", username))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

// seed loads a short history and two peer conversations.
func seed(fake *apitest.Server, now time.Time) {
	bob := chat.UserProfile{ID: uuid.NewString(), Username: "bob.smith", Phone: "+15550101"}
	carol := chat.UserProfile{ID: uuid.NewString(), Username: "carol", Phone: "+15550102"}

	forwarded := api.NewHistoryMessage(uuid.NewString(), chat.SenderCounterpart, "Meeting moved to 3pm.", now.Add(-50*time.Minute))
	from := api.UserFromProfile(bob)
	forwarded.ForwardedFrom = &from

	fake.SetHistory([]api.HistoryMessage{
		api.NewHistoryMessage(uuid.NewString(), chat.SenderSelf, "What's on my calendar today?", now.Add(-time.Hour)),
		api.NewHistoryMessage(uuid.NewString(), chat.SenderCounterpart, "You have a meeting with Bob at 2pm.", now.Add(-time.Hour+time.Second)),
		forwarded,
	})

	fake.SetConversations([]api.Conversation{
		{
			ID:        uuid.NewString(),
			OtherUser: api.UserFromProfile(bob),
			Messages: []api.PeerMessage{
				api.NewPeerMessage("Are we still on for today?", now.Add(-3*time.Hour), false),
				api.NewPeerMessage("Yes, see you at 2.", now.Add(-2*time.Hour), true),
			},
		},
		{
			ID:        uuid.NewString(),
			OtherUser: api.UserFromProfile(carol),
			Messages: []api.PeerMessage{
				api.NewPeerMessage("Lunch tomorrow?", now.Add(-26*time.Hour), false),
			},
		},
	})
}
