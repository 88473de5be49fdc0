package cmd

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/wsmxd/mxdblog/pkg/envs"
	"github.com/wsmxd/mxdblog/pkg/logging"
)

var rootCmd = &cobra.Command{
	Use:   "mxdblog",
	Short: "mxdblog is the read-count service of wsmxd's blog.",
	// 所有子命令执行前初始化日志（--log-level 优先于 LOG_LEVEL）
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("log-level") {
			envs.LogLevel, _ = cmd.Flags().GetString("log-level")
		}
		logging.InitLogger()
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("log-level", envs.LogLevel, "log level (panic/fatal/error/warn/info/debug/trace)")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		color.Red("mxdblog: %s", err)
		os.Exit(1)
	}
}
