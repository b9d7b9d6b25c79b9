package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	urfavecli "github.com/urfave/cli/v3"

	"github.com/chmouel/lazyqr/internal/buildinfo"
	"github.com/chmouel/lazyqr/internal/clipboard"
	"github.com/chmouel/lazyqr/internal/config"
	"github.com/chmouel/lazyqr/internal/export"
	"github.com/chmouel/lazyqr/internal/generator"
	"github.com/chmouel/lazyqr/internal/qr"
	"github.com/chmouel/lazyqr/internal/theme"
)

// errNoPayload is returned when neither arguments nor piped input carry text.
var errNoPayload = errors.New("no text given: pass it as an argument or pipe it on stdin")

func exportCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:      "export",
		Usage:     "Write a QR code file without starting the UI",
		ArgsUsage: "[TEXT]",
		Flags:     exportFlags(),
		Action:    runExport,
	}
}

func copyCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:      "copy",
		Usage:     "Copy a QR code image to the clipboard",
		ArgsUsage: "[TEXT]",
		Flags:     copyFlags(),
		Action:    runCopy,
	}
}

func showCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:      "show",
		Usage:     "Print a QR code to the terminal",
		ArgsUsage: "[TEXT]",
		Action:    runShow,
	}
}

func themesCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:  "themes",
		Usage: "List available UI themes",
		Action: func(_ context.Context, cmd *urfavecli.Command) error {
			printThemes(cmd.Root().Writer)
			return nil
		},
	}
}

func versionCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:  "version",
		Usage: "Print build information",
		Action: func(_ context.Context, cmd *urfavecli.Command) error {
			printVersion(cmd)
			return nil
		},
	}
}

// readPayload joins args, or reads stdin when it is not a terminal. Text
// that is present but blank fails with the same validation error as the
// UI.
func readPayload(args []string, in io.Reader, isTerminal bool) (string, error) {
	var text string
	switch {
	case len(args) > 0:
		text = strings.Join(args, " ")
	case isTerminal || in == nil:
		return "", errNoPayload
	default:
		data, err := io.ReadAll(in)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		text = strings.TrimRight(string(data), "\r\n")
	}
	if strings.TrimSpace(text) == "" {
		return "", generator.ErrEmptyInput
	}
	return text, nil
}

// newCLIController builds a generator with the code already displayed.
func newCLIController(cfg *config.AppConfig, text string, clip *clipboard.System) (*generator.Controller, error) {
	var opts []generator.Option
	opts = append(opts, generator.WithSize(cfg.QRSize))
	var images generator.ImageWriter
	if clip != nil {
		images = clip
		opts = append(opts, generator.WithTextWriter(clip))
	}
	ctrl := generator.New(
		qr.NewRenderer(cfg.RecoveryLevel),
		images,
		export.NewSet(cfg.ResolveExportDir(), cfg.ExportBasename),
		opts...,
	)
	ctrl.SetInputText(text)
	if err := ctrl.Generate(); err != nil {
		return nil, err
	}
	return ctrl, nil
}

func prepare(cmd *urfavecli.Command) (*config.AppConfig, string, error) {
	cfg, err := loadCLIConfig(optionsFrom(cmd), cmd.Root().ErrWriter)
	if err != nil {
		return nil, "", err
	}
	text, err := readPayload(cmd.Args().Slice(), stdin, stdinIsTerminal())
	if err != nil {
		return nil, "", err
	}
	return cfg, text, nil
}

func runExport(ctx context.Context, cmd *urfavecli.Command) error {
	cfg, text, err := prepare(cmd)
	if err != nil {
		return err
	}
	format, err := export.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	if out := cmd.String("output"); out != "" {
		cfg.ExportDir = out
	}

	ctrl, err := newCLIController(cfg, text, nil)
	if err != nil {
		return err
	}
	ctrl.OpenExportMenu()
	path, err := ctrl.ExportAs(ctx, format)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.Root().Writer, path)
	return nil
}

func runCopy(ctx context.Context, cmd *urfavecli.Command) error {
	cfg, text, err := prepare(cmd)
	if err != nil {
		return err
	}
	ctrl, err := newCLIController(cfg, text, clipboard.NewSystem(cfg.ClipboardCommand))
	if err != nil {
		return err
	}
	if cmd.Bool("text") {
		_, err = ctrl.CopyText(ctx)
	} else {
		_, err = ctrl.CopyImage(ctx)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.Root().ErrWriter, "QR Code Copied!")
	return nil
}

func runShow(_ context.Context, cmd *urfavecli.Command) error {
	cfg, text, err := prepare(cmd)
	if err != nil {
		return err
	}
	ctrl, err := newCLIController(cfg, text, nil)
	if err != nil {
		return err
	}
	img, err := ctrl.Image()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.Root().Writer, img.Terminal())
	return nil
}

// printVersion is shared by the version subcommand and --version.
func printVersion(cmd *urfavecli.Command) {
	buildinfo.Enrich()
	fmt.Fprintln(cmd.Root().Writer, buildinfo.Summary())
}

func printThemes(w io.Writer) {
	fmt.Fprintln(w, "Available themes:")
	for _, name := range theme.AvailableThemes() {
		kind := "dark"
		if theme.IsLight(name) {
			kind = "light"
		}
		fmt.Fprintf(w, "  %-16s %s\n", name, kind)
	}
}
