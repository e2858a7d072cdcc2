package cli

import (
	"SmileApp/pkg/imaging"
	"SmileApp/pkg/log"
	"SmileApp/pkg/smile"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func newScoreCmd() *cobra.Command {
	var threshold int

	cmd := &cobra.Command{
		Use:   "score <image>",
		Short: "Score a still image locally",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			return scoreImage(cmd.OutOrStdout(), data, threshold)
		},
	}

	cmd.Flags().IntVar(&threshold, "threshold", smile.DefaultCaptureThreshold, "Minimum score for a capture")

	return cmd
}

func scoreImage(w io.Writer, data []byte, threshold int) error {
	img, err := imaging.Decode(data)
	if err != nil {
		return err
	}

	raster, err := smile.RasterFromImage(img, smile.DefaultWidth, smile.DefaultHeight)
	if err != nil {
		return err
	}

	score := smile.ScoreWithLogger(raster, log.NewLogger())
	fmt.Fprintf(w, "score: %d%%\nrating: %s\ncan capture: %t\n",
		score, smile.RateScore(score).Label, smile.CanCapture(score, threshold))
	return nil
}
