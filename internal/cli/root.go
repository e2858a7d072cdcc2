package cli

import (
	"SmileApp/pkg/log"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version is the camera client version.
const Version = "0.1.0"

type rootOptions struct {
	apiURL string
}

func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "camera",
		Short:         "Score smiles from a webcam and share them to the feed",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.apiURL, "api", envOr("SMILE_API_URL", "http://localhost:3000"), "Smile API base URL")

	cmd.AddCommand(
		newCaptureCmd(opts),
		newFeedCmd(opts),
		newScoreCmd(),
	)

	return cmd
}

func Execute() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := NewRootCmd()
	root.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	if err := root.ExecuteContext(ctx); err != nil {
		log.NewLogger().Debugf("command failed: %v", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
