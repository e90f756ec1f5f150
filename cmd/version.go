// Copyright 2026 The Seer Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/seer-datalog/seer/version"
)

func init() {

	versionCommand := &cobra.Command{
		Use:   "version",
		Short: "Print the version of seer",
		Long:  "Show version and build information.",
		Run: func(cmd *cobra.Command, args []string) {
			printVersion(os.Stdout)
		},
	}

	RootCommand.AddCommand(versionCommand)
}

func printVersion(out io.Writer) {
	fmt.Fprintln(out, "Version: "+version.Version)
	fmt.Fprintln(out, "Build Commit: "+version.Vcs)
	fmt.Fprintln(out, "Build Timestamp: "+version.Timestamp)
	fmt.Fprintln(out, "Build Hostname: "+version.Hostname)
	fmt.Fprintln(out, "Go Version: "+version.GoVersion)
	fmt.Fprintln(out, "Platform: "+version.Platform)
}
