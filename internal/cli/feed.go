package cli

import (
	"SmileApp/internal/api/post"
	"SmileApp/pkg/log"
	websocketPkg "SmileApp/pkg/websocket"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newFeedCmd(root *rootOptions) *cobra.Command {
	var clearScreen bool

	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Follow the live feed of shared smiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := websocketPkg.NewFeedClient(root.apiURL, log.NewLogger())
			if err != nil {
				return err
			}
			defer client.Close()

			out := cmd.OutOrStdout()
			err = client.Subscribe(cmd.Context(), func(feed posts.FeedResponse) {
				if clearScreen {
					fmt.Fprint(out, "\033[H\033[2J")
				}
				RenderFeed(out, feed)
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&clearScreen, "clear", true, "Clear the terminal before every update")

	return cmd
}

// RenderFeed writes one row per post, newest first as delivered.
func RenderFeed(w io.Writer, feed posts.FeedResponse) {
	if len(feed.Posts) == 0 {
		fmt.Fprintln(w, "No smiles shared yet.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "USER\tSCORE\tLIKES\tWHEN\tCAPTION\tIMAGE")
	for _, p := range feed.Posts {
		fmt.Fprintf(tw, "%s\t%d%%\t%d\t%s\t%s\t%s\n",
			p.Username, p.SmileScore, p.Likes, p.TimeAgo, oneLine(p.Caption), p.Image)
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "%d posts\n", feed.Total)
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
