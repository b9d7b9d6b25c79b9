// Package bootstrap wires the lazyqr command line.
package bootstrap

import (
	"fmt"
	"strings"

	urfavecli "github.com/urfave/cli/v3"

	"github.com/chmouel/lazyqr/internal/config"
	"github.com/chmouel/lazyqr/internal/export"
)

// globalFlags returns all global flags for the application.
// Note: --version is provided automatically by urfave/cli via Command.Version
func globalFlags() []urfavecli.Flag {
	return []urfavecli.Flag{
		&urfavecli.StringFlag{
			Name:  "config-file",
			Usage: "Path to configuration file",
		},
		&urfavecli.StringFlag{
			Name:  "debug-log",
			Usage: "Path to debug log file",
		},
		&urfavecli.StringFlag{
			Name:    "theme",
			Aliases: []string{"t"},
			Usage:   "Override the UI theme",
		},
		&urfavecli.IntFlag{
			Name:    "size",
			Aliases: []string{"s"},
			Usage:   fmt.Sprintf("QR image edge in pixels (%d-%d)", config.MinQRSize, config.MaxQRSize),
		},
		&urfavecli.StringSliceFlag{
			Name:    "config",
			Aliases: []string{"C"},
			Usage:   "Override config values (repeatable): --config=qr.key=value",
		},
	}
}

func exportFlags() []urfavecli.Flag {
	names := make([]string, 0, len(export.Formats()))
	for _, f := range export.Formats() {
		names = append(names, f.String())
	}
	return []urfavecli.Flag{
		&urfavecli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Value:   export.PNG.String(),
			Usage:   "Output format: " + strings.Join(names, ", "),
			Validator: func(v string) error {
				_, err := export.ParseFormat(v)
				return err
			},
		},
		&urfavecli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Directory to write the file to (defaults to export_dir)",
		},
	}
}

func copyFlags() []urfavecli.Flag {
	return []urfavecli.Flag{
		&urfavecli.BoolFlag{
			Name:  "text",
			Usage: "Copy the text itself instead of the QR image",
		},
	}
}
