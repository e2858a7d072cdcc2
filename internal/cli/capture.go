package cli

import (
	"SmileApp/pkg/camera"
	"SmileApp/pkg/log"
	"SmileApp/pkg/smile"
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

type captureOptions struct {
	device    int
	threshold int
	interval  time.Duration
	fields    PostFields
}

// screenshotter is the part of the webcam the capture loop needs beyond
// smile.VideoSource.
type screenshotter interface {
	smile.VideoSource
	Screenshot() ([]byte, error)
}

func newCaptureCmd(root *rootOptions) *cobra.Command {
	opts := &captureOptions{}

	cmd := &cobra.Command{
		Use:   "capture",
		Short: "Watch the webcam and post a screenshot once the smile is strong enough",
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.threshold < smile.MinScore || opts.threshold > smile.MaxScore {
				return fmt.Errorf("--threshold must be within %d..%d", smile.MinScore, smile.MaxScore)
			}

			cam, err := camera.Open(opts.device)
			if err != nil {
				return err
			}
			defer cam.Close()

			image, score, err := waitForSmile(cmd.Context(), cam, opts)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Captured with smile score %d%% %s, uploading...\n", score, smile.RateScore(score).Label)

			resp, err := NewUploader(root.apiURL).Upload(image, score, opts.fields)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Posted %s: %s\n", resp.ID, resp.Caption)
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.device, "device", 0, "Video capture device index")
	cmd.Flags().IntVar(&opts.threshold, "threshold", smile.DefaultCaptureThreshold, "Minimum score before capturing")
	cmd.Flags().DurationVar(&opts.interval, "interval", smile.DefaultInterval, "Time between sampled frames")
	cmd.Flags().StringVar(&opts.fields.Caption, "caption", "", "Post caption (defaults to one mentioning the score)")
	cmd.Flags().StringVar(&opts.fields.Username, "username", "", "Display name")
	cmd.Flags().StringVar(&opts.fields.UserImage, "user-image", "", "Avatar URL")

	return cmd
}

// waitForSmile samples source until a tick reaches the threshold and returns
// a screenshot taken on that tick.
func waitForSmile(ctx context.Context, source screenshotter, opts *captureOptions) ([]byte, int, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	bar := progressbar.NewOptions(smile.MaxScore,
		progressbar.OptionSetDescription("😐 Smile"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionClearOnFinish(),
	)
	defer bar.Close()

	var (
		image    []byte
		captured int
		shotErr  error
	)

	sampler := smile.NewSampler(source,
		smile.WithInterval(opts.interval),
		smile.WithLogger(log.NewLogger()),
	)

	err := sampler.Run(ctx, func(score int) {
		_ = bar.Set(score)
		bar.Describe(smile.RateScore(score).Label + " Smile")

		if !smile.CanCapture(score, opts.threshold) {
			return
		}

		image, shotErr = source.Screenshot()
		captured = score
		cancel()
	})

	if shotErr != nil {
		return nil, 0, shotErr
	}
	if image != nil {
		return image, captured, nil
	}
	if errors.Is(err, context.Canceled) {
		return nil, 0, errors.New("capture cancelled")
	}
	return nil, 0, err
}
