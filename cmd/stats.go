package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wsmxd/mxdblog/pkg/envs"
	"github.com/wsmxd/mxdblog/pkg/logging"
	"github.com/wsmxd/mxdblog/pkg/service/reads"
	"github.com/wsmxd/mxdblog/pkg/storage"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print aggregate read stats of all posts as JSON.",
	Run: func(cmd *cobra.Command, args []string) {
		logger := logging.GetSystemLogger()
		ctx := context.Background()

		kvClient, err := newKVClient(ctx, nil)
		if err != nil {
			logger.Fatalf("failed to create kv store client: %s", err)
		}
		defer kvClient.Close()

		postStore, err := storage.NewPostStore(envs.PostsDir)
		if err != nil {
			logger.Fatalf("failed to load posts from %s: %s", envs.PostsDir, err)
		}

		stats := reads.NewService(kvClient, postStore, reads.WithLogger(logger)).GetStats(ctx)
		out, _ := json.MarshalIndent(stats, "", "  ")
		fmt.Println(string(out))
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
