package bootstrap

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	urfavecli "github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/chmouel/lazyqr/internal/app"
	"github.com/chmouel/lazyqr/internal/buildinfo"
	"github.com/chmouel/lazyqr/internal/config"
	"github.com/chmouel/lazyqr/internal/log"
	"github.com/chmouel/lazyqr/internal/theme"
)

var (
	stdin           io.Reader = os.Stdin
	stdinIsTerminal           = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) }
	runProgram                = func(ctx context.Context, m *app.Model) error {
		_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
		return err
	}
)

func init() {
	urfavecli.VersionPrinter = printVersion
}

// NewCommand builds the lazyqr command tree.
func NewCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:      "lazyqr",
		Usage:     "Generate QR codes from the terminal",
		ArgsUsage: "[TEXT]",
		Version:   buildinfo.Version(),
		Flags:     globalFlags(),
		Commands: []*urfavecli.Command{
			exportCommand(),
			copyCommand(),
			showCommand(),
			themesCommand(),
			versionCommand(),
		},
		Action: runTUI,
	}
}

// Run executes the command line in args.
func Run(ctx context.Context, args []string) error {
	return NewCommand().Run(ctx, args)
}

// cliOptions are the flags that shape the configuration.
type cliOptions struct {
	configFile string
	theme      string
	size       int
	overrides  []string
}

func optionsFrom(cmd *urfavecli.Command) cliOptions {
	return cliOptions{
		configFile: cmd.String("config-file"),
		theme:      cmd.String("theme"),
		size:       cmd.Int("size"),
		overrides:  cmd.StringSlice("config"),
	}
}

// apply layers flags over a loaded configuration; overrides win.
func (o cliOptions) apply(cfg *config.AppConfig) error {
	if o.theme != "" {
		normalized := theme.Normalize(o.theme)
		if normalized == "" {
			return fmt.Errorf("unknown theme %q", o.theme)
		}
		cfg.Theme = normalized
	}
	if o.size != 0 {
		cfg.QRSize = config.ClampQRSize(o.size)
	}
	if len(o.overrides) > 0 {
		if err := cfg.ApplyCLIOverrides(o.overrides); err != nil {
			return fmt.Errorf("error applying config overrides: %w", err)
		}
	}
	return nil
}

// load is used for live reloads, where errors are reported in the UI.
func (o cliOptions) load() (*config.AppConfig, error) {
	cfg, err := config.LoadConfig(o.configFile)
	if err != nil {
		return nil, err
	}
	if err := o.apply(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadCLIConfig loads the configuration, falling back to defaults when the
// file is unreadable.
func loadCLIConfig(o cliOptions, errOut io.Writer) (*config.AppConfig, error) {
	cfg, err := config.LoadConfig(o.configFile)
	if err != nil {
		fmt.Fprintf(errOut, "Error loading config: %v\n", err)
		cfg = config.DefaultConfig()
		if cfg.Theme == "" {
			cfg.Theme = theme.DefaultDark()
		}
	}
	if err := o.apply(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setupDebugLog points the debug logger at the flag value, or the config
// value, discarding buffered output when neither is set.
func setupDebugLog(flagValue, configValue string, errOut io.Writer) {
	path := flagValue
	if path == "" {
		path = configValue
	}
	if path == "" {
		_ = log.SetFile("")
		return
	}
	if expanded, err := config.ExpandPath(path); err == nil {
		path = expanded
	}
	if err := log.SetFile(path); err != nil {
		fmt.Fprintf(errOut, "Error opening debug log file %q: %v\n", path, err)
	}
}

// runTUI is the default action that launches the TUI when no subcommand is given.
func runTUI(ctx context.Context, cmd *urfavecli.Command) error {
	errOut := cmd.Root().ErrWriter
	opts := optionsFrom(cmd)

	cfg, err := loadCLIConfig(opts, errOut)
	if err != nil {
		_ = log.SetFile("")
		return err
	}
	setupDebugLog(cmd.String("debug-log"), cfg.DebugLog, errOut)
	defer func() { _ = log.Close() }()

	log.Printf("starting lazyqr %s (config %q, theme %s, size %d)", buildinfo.Version(), cfg.Path, cfg.Theme, cfg.QRSize)

	model := app.NewModel(cfg,
		app.WithConfigLoader(opts.load),
		app.WithInitialText(strings.Join(cmd.Args().Slice(), " ")),
	)
	err = runProgram(ctx, model)
	model.Close()
	if err != nil {
		return fmt.Errorf("error running app: %w", err)
	}
	return nil
}
