// Package clipboard writes QR images and payload text to the system
// clipboard.
package clipboard

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	atotto "github.com/atotto/clipboard"
	osc52 "github.com/aymanbagabas/go-osc52/v2"
)

// ErrUnavailable is returned when no image-capable clipboard tool is found.
var ErrUnavailable = errors.New("no image clipboard tool available (install wl-clipboard or xclip, or set clipboard_command)")

const (
	osDarwin  = "darwin"
	osWindows = "windows"

	// Some tools (wl-copy) fork a server that inherits our pipes.
	commandWaitDelay = 2 * time.Second
)

// CommandRunner builds the command used to reach a clipboard tool.
type CommandRunner func(ctx context.Context, name string, args ...string) *exec.Cmd

// ImageWriter puts PNG data on the clipboard.
type ImageWriter interface {
	WriteImage(ctx context.Context, png []byte) error
}

// TextWriter puts plain text on the clipboard.
type TextWriter interface {
	WriteText(ctx context.Context, text string) error
}

// System talks to the clipboard of the host OS.
type System struct {
	// Command overrides tool detection; the PNG is passed on stdin.
	Command []string

	commandRunner CommandRunner
	lookPath      func(string) (string, error)
	getenv        func(string) string
	goos          string
	tempDir       string
	writeText     func(string) error
	textUnsupport bool
	osc52Out      io.Writer
}

// NewSystem returns a clipboard writer. command may be empty.
func NewSystem(command []string) *System {
	return &System{
		Command:       command,
		commandRunner: exec.CommandContext,
		lookPath:      exec.LookPath,
		getenv:        os.Getenv,
		goos:          runtime.GOOS,
		writeText:     atotto.WriteAll,
		textUnsupport: atotto.Unsupported,
		osc52Out:      os.Stderr,
	}
}

// WriteImage copies png to the clipboard.
func (s *System) WriteImage(ctx context.Context, png []byte) error {
	if len(png) == 0 {
		return errors.New("empty image")
	}
	if len(s.Command) > 0 {
		return s.runWithStdin(ctx, png, s.Command[0], s.Command[1:]...)
	}

	switch s.goos {
	case osDarwin:
		return s.runWithTempFile(ctx, png, func(path string) (string, []string) {
			script := fmt.Sprintf(`set the clipboard to (read (POSIX file %q) as «class PNGf»)`, path)
			return "osascript", []string{"-e", script}
		})
	case osWindows:
		return s.runWithTempFile(ctx, png, func(path string) (string, []string) {
			script := "Add-Type -AssemblyName System.Windows.Forms; Add-Type -AssemblyName System.Drawing; " +
				fmt.Sprintf("[System.Windows.Forms.Clipboard]::SetImage([System.Drawing.Image]::FromFile('%s'))", strings.ReplaceAll(path, "'", "''"))
			return "powershell", []string{"-NoProfile", "-STA", "-Command", script}
		})
	}

	if s.getenv("WAYLAND_DISPLAY") != "" {
		if _, err := s.lookPath("wl-copy"); err == nil {
			return s.runWithStdin(ctx, png, "wl-copy", "--type", "image/png")
		}
	}
	if s.getenv("DISPLAY") != "" {
		if _, err := s.lookPath("xclip"); err == nil {
			return s.runWithStdin(ctx, png, "xclip", "-selection", "clipboard", "-t", "image/png", "-i")
		}
	}
	return ErrUnavailable
}

// WriteText copies text to the clipboard. When no native clipboard is
// reachable it emits an OSC52 sequence so terminals (and SSH sessions) can
// still pick it up.
func (s *System) WriteText(_ context.Context, text string) error {
	if !s.textUnsupport {
		if err := s.writeText(text); err == nil {
			return nil
		}
	}
	seq := osc52.New(text)
	if s.getenv("TMUX") != "" {
		seq = seq.Tmux()
	}
	if _, err := seq.WriteTo(s.osc52Out); err != nil {
		return fmt.Errorf("osc52: %w", err)
	}
	return nil
}

func (s *System) runWithStdin(ctx context.Context, data []byte, name string, args ...string) error {
	// #nosec G204 -- the tool is either detected or explicitly configured
	cmd := s.commandRunner(ctx, name, args...)
	cmd.Stdin = bytes.NewReader(data)
	return runCommand(cmd, name)
}

func (s *System) runWithTempFile(ctx context.Context, data []byte, build func(path string) (string, []string)) error {
	f, err := os.CreateTemp(s.tempDir, "lazyqr-*.png")
	if err != nil {
		return fmt.Errorf("create temp image: %w", err)
	}
	path := f.Name()
	defer func() { _ = os.Remove(path) }()

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("write temp image: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write temp image: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	name, args := build(abs)
	// #nosec G204 -- arguments are built from a temp path we created
	return runCommand(s.commandRunner(ctx, name, args...), name)
}

func runCommand(cmd *exec.Cmd, name string) error {
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	cmd.WaitDelay = commandWaitDelay
	if err := cmd.Run(); err != nil {
		// The tool exited cleanly; only a forked helper kept the pipe open.
		if errors.Is(err, exec.ErrWaitDelay) {
			return nil
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
