package cmd

import (
	"net/http"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/wsmxd/mxdblog/pkg/envs"
	"github.com/wsmxd/mxdblog/pkg/logging"
	"github.com/wsmxd/mxdblog/pkg/tracker"
)

// NewTrackCmd ...
func NewTrackCmd() *cobra.Command {
	var (
		serverURL   string
		markersPath string
		cooldown    time.Duration
	)

	trackCmd := cobra.Command{
		Use:   "track <slug>",
		Short: "Report a post view to the read-count server, at most once per cooldown.",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			slug := args[0]
			trk := tracker.New(
				tracker.NewHTTPSender(serverURL, &http.Client{Timeout: 10 * time.Second}),
				tracker.NewFileMarkerStore(markersPath),
				tracker.WithCooldown(cooldown),
				tracker.WithLogger(logging.GetSystemLogger()),
			)

			if !trk.Track(slug) {
				color.Yellow("%s already counted within %s, skipped", slug, cooldown)
				return
			}
			trk.Wait()
			color.Green("%s view reported to %s", slug, serverURL)
		},
	}

	trackCmd.Flags().StringVar(&serverURL, "server", "http://127.0.0.1:"+envs.ServerPort, "read-count server base url")
	trackCmd.Flags().StringVar(
		&markersPath, "markers", filepath.Join(envs.BaseDir, ".mxdblog", "markers.json"), "file to store dedup markers",
	)
	trackCmd.Flags().DurationVar(&cooldown, "cooldown", tracker.DefaultCooldown, "minimum interval between two reports of a post")

	return &trackCmd
}

func init() {
	rootCmd.AddCommand(NewTrackCmd())
}
