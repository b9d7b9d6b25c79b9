// Package main is the entry point for the lazyqr application.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/chmouel/lazyqr/internal/bootstrap"
	"github.com/chmouel/lazyqr/internal/buildinfo"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

func main() {
	buildinfo.Set(version, commit, date, builtBy)

	if err := bootstrap.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
