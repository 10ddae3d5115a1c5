package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yacobolo/varinspect/internal/varinspect"
)

// version is set at build time via ldflags:
//
//	go build -ldflags "-X main.version=1.0.0" ./cmd/varinspect
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of varinspect",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "varinspect %s (json schema %s)\n", version, varinspect.JSONVersion)
	},
}
