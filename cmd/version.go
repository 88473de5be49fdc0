package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wsmxd/mxdblog/pkg/version"
)

// NewVersionCmd ...
func NewVersionCmd() *cobra.Command {
	var short bool

	versionCmd := cobra.Command{
		Use:   "version",
		Short: "Show mxdblog version info.",
		Run: func(cmd *cobra.Command, args []string) {
			if short {
				fmt.Println(version.Version)
				return
			}
			fmt.Println(version.GetVersion())
		},
	}
	versionCmd.Flags().BoolVar(&short, "short", false, "print the version number only")

	return &versionCmd
}

func init() {
	rootCmd.AddCommand(NewVersionCmd())
}
