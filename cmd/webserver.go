package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/oklog/run"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/wsmxd/mxdblog/pkg/envs"
	"github.com/wsmxd/mxdblog/pkg/handler"
	"github.com/wsmxd/mxdblog/pkg/logging"
	"github.com/wsmxd/mxdblog/pkg/router"
	"github.com/wsmxd/mxdblog/pkg/service/reads"
	"github.com/wsmxd/mxdblog/pkg/storage"
)

var webServerCmd = &cobra.Command{
	Use:   "webserver",
	Short: "webserver start http server.",
	Run: func(cmd *cobra.Command, args []string) {
		logger := logging.GetSystemLogger()
		ctx := context.Background()

		registry := prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)

		kvClient, err := newKVClient(ctx, registry)
		if err != nil {
			logger.Fatalf("failed to create kv store client: %s", err)
		}
		defer kvClient.Close()

		postStore, err := storage.NewPostStore(envs.PostsDir)
		if err != nil {
			logger.Fatalf("failed to load posts from %s: %s", envs.PostsDir, err)
		}

		readSvc := reads.NewService(kvClient, postStore, reads.WithRegisterer(registry))
		h := handler.New(readSvc, postStore, handler.KVStatus{
			Backend:  kvClient.Backend(),
			HasURL:   envs.UpstashRestURL != "",
			HasToken: envs.UpstashRestToken != "",
		})
		server := router.NewServer(":"+envs.ServerPort, router.New(h, registry), logger)

		var g run.Group
		{
			g.Add(server.Start, server.Stop)
		}
		{
			watchCtx, cancel := context.WithCancel(ctx)
			g.Add(func() error {
				return postStore.Watch(watchCtx)
			}, func(error) {
				cancel()
			})
		}
		{
			sigCh := make(chan os.Signal, 1)
			g.Add(func() error {
				signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
				sig, ok := <-sigCh
				if !ok {
					return nil
				}
				return fmt.Errorf("received signal %s", sig)
			}, func(error) {
				signal.Stop(sigCh)
				close(sigCh)
			})
		}

		color.Green("Starting server at http://0.0.0.0:%s/ (kv backend: %s, %d posts)",
			envs.ServerPort, kvClient.Backend(), len(postStore.Data().Posts))
		logger.Infof("exit: %v", g.Run())
	},
}

func init() {
	rootCmd.AddCommand(webServerCmd)
}
