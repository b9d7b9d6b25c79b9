// Package generator holds the view state of the QR widget and the controller
// that is its only writer. It has no UI dependency: hosts drive it with
// discrete user actions and schedule the notice timer it hands back.
package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chmouel/lazyqr/internal/config"
	"github.com/chmouel/lazyqr/internal/export"
	"github.com/chmouel/lazyqr/internal/qr"
)

// DefaultNoticeDelay is how long the "copied" notice stays up.
const DefaultNoticeDelay = 4 * time.Second

// ErrEmptyInput is the validation error for blank input.
var ErrEmptyInput = errors.New("please enter text or URL")

// ErrUnsupportedFormat is wrapped when no exporter is registered for a format.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Operation names carried by CollaboratorError.
const (
	OpRender   = "render"
	OpCopy     = "copy"
	OpCopyText = "copy text"
	OpExport   = "export"
)

// ViewState is the observable state of the widget.
type ViewState struct {
	InputText           string
	QRVisible           bool
	CopiedNoticeVisible bool
	ExportMenuVisible   bool
}

// Renderer produces QR images.
type Renderer interface {
	Render(text string, size int) (*qr.Image, error)
}

// ImageWriter puts PNG data on the clipboard.
type ImageWriter interface {
	WriteImage(ctx context.Context, png []byte) error
}

// TextWriter puts text on the clipboard.
type TextWriter interface {
	WriteText(ctx context.Context, text string) error
}

// CollaboratorError reports a failed renderer, clipboard or exporter call.
type CollaboratorError struct {
	Op     string
	Format export.Format
	Err    error
}

func (e *CollaboratorError) Error() string {
	if e.Op == OpExport {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Format, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *CollaboratorError) Unwrap() error {
	return e.Err
}

// NoticeTimer identifies a scheduled auto-hide of the copied notice. The
// host must call HideNotice(ID) once Delay has elapsed. The zero value
// means nothing was scheduled.
type NoticeTimer struct {
	ID    uint64
	Delay time.Duration
}

// Scheduled reports whether the timer needs to be armed.
func (t NoticeTimer) Scheduled() bool {
	return t.ID != 0
}

// Option configures a Controller.
type Option func(*Controller)

// WithSize sets the raster edge in pixels.
func WithSize(size int) Option {
	return func(c *Controller) { c.size = config.ClampQRSize(size) }
}

// WithNoticeDelay overrides DefaultNoticeDelay.
func WithNoticeDelay(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.noticeDelay = d
		}
	}
}

// WithTextWriter enables CopyText.
func WithTextWriter(w TextWriter) Option {
	return func(c *Controller) { c.text = w }
}

// Controller owns a ViewState and applies user actions to it. It is not
// safe for concurrent use; hosts call it from a single goroutine and run
// the I/O returned by the Start* methods wherever they like.
type Controller struct {
	state ViewState

	renderer  Renderer
	clipboard ImageWriter
	text      TextWriter
	exporters map[export.Format]export.Exporter

	size        int
	noticeDelay time.Duration

	// noticeID is the handle of the only timer allowed to hide the notice.
	noticeID uint64
	// epoch changes on Clear so completions started earlier are ignored.
	epoch uint64

	cached *qr.Image
}

// New returns a controller in the initial state.
func New(renderer Renderer, clipboard ImageWriter, exporters map[export.Format]export.Exporter, opts ...Option) *Controller {
	c := &Controller{
		renderer:    renderer,
		clipboard:   clipboard,
		exporters:   exporters,
		size:        config.DefaultQRSize,
		noticeDelay: DefaultNoticeDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns a copy of the current view state.
func (c *Controller) State() ViewState {
	return c.state
}

// Size returns the raster edge in pixels.
func (c *Controller) Size() int {
	return c.size
}

// SetSize changes the raster edge; out-of-range values are clamped.
func (c *Controller) SetSize(size int) {
	c.size = config.ClampQRSize(size)
}

// SetNoticeDelay changes the delay of timers issued from now on.
func (c *Controller) SetNoticeDelay(d time.Duration) {
	if d > 0 {
		c.noticeDelay = d
	}
}

// SetRenderer swaps the renderer, for example after the recovery level
// changed. The cached image is dropped.
func (c *Controller) SetRenderer(r Renderer) {
	if r == nil {
		return
	}
	c.renderer = r
	c.cached = nil
}

// SetExporters replaces the format to exporter mapping.
func (c *Controller) SetExporters(exporters map[export.Format]export.Exporter) {
	c.exporters = exporters
}

// SetInputText replaces the input. A visible code follows the new text.
func (c *Controller) SetInputText(text string) {
	c.state.InputText = text
}

// Generate shows the code for the current input, or returns ErrEmptyInput
// and leaves the state alone.
func (c *Controller) Generate() error {
	if strings.TrimSpace(c.state.InputText) == "" {
		return ErrEmptyInput
	}
	c.state.QRVisible = true
	return nil
}

// Image renders the live input. It returns nil without error while no code
// is displayed, and ErrEmptyInput when the input was erased after Generate.
func (c *Controller) Image() (*qr.Image, error) {
	if !c.state.QRVisible {
		return nil, nil
	}
	text := c.state.InputText
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}
	if c.cached != nil && c.cached.Text == text && c.cached.Size == c.size {
		return c.cached, nil
	}
	img, err := c.renderer.Render(text, c.size)
	if err != nil {
		return nil, &CollaboratorError{Op: OpRender, Err: err}
	}
	c.cached = img
	return img, nil
}

// CopyJob is a pending clipboard write.
type CopyJob struct {
	Op    string
	Image *qr.Image
	Text  string

	epoch uint64
	run   func(ctx context.Context) error
}

// Run performs the write. It touches no controller state.
func (j *CopyJob) Run(ctx context.Context) error {
	return j.run(ctx)
}

// StartCopy snapshots the displayed code for the clipboard. It returns a nil
// job when no code is displayed.
func (c *Controller) StartCopy() (*CopyJob, error) {
	if !c.state.QRVisible {
		return nil, nil
	}
	if c.clipboard == nil {
		return nil, &CollaboratorError{Op: OpCopy, Err: errors.New("no clipboard configured")}
	}
	img, err := c.Image()
	if err != nil {
		return nil, err
	}
	writer := c.clipboard
	png := img.PNG
	return &CopyJob{
		Op:    OpCopy,
		Image: img,
		epoch: c.epoch,
		run:   func(ctx context.Context) error { return writer.WriteImage(ctx, png) },
	}, nil
}

// StartCopyText prepares a write of the raw payload. It returns a nil job
// when no code is displayed.
func (c *Controller) StartCopyText() (*CopyJob, error) {
	if !c.state.QRVisible {
		return nil, nil
	}
	if c.text == nil {
		return nil, &CollaboratorError{Op: OpCopyText, Err: errors.New("no text clipboard configured")}
	}
	text := c.state.InputText
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyInput
	}
	writer := c.text
	return &CopyJob{
		Op:    OpCopyText,
		Text:  text,
		epoch: c.epoch,
		run:   func(ctx context.Context) error { return writer.WriteText(ctx, text) },
	}, nil
}

// FinishCopy applies the outcome of job. On success the notice is shown and
// a fresh timer handle is returned; any older handle becomes stale. On
// failure the notice is left as it was. Completions of jobs started before
// the last Clear are ignored apart from their error.
func (c *Controller) FinishCopy(job *CopyJob, err error) (NoticeTimer, error) {
	if job == nil {
		return NoticeTimer{}, nil
	}
	if err != nil {
		return NoticeTimer{}, &CollaboratorError{Op: job.Op, Err: err}
	}
	if job.epoch != c.epoch {
		return NoticeTimer{}, nil
	}
	c.noticeID++
	c.state.CopiedNoticeVisible = true
	return NoticeTimer{ID: c.noticeID, Delay: c.noticeDelay}, nil
}

// CopyImage copies the displayed code to the clipboard synchronously.
func (c *Controller) CopyImage(ctx context.Context) (NoticeTimer, error) {
	job, err := c.StartCopy()
	if err != nil || job == nil {
		return NoticeTimer{}, err
	}
	return c.FinishCopy(job, job.Run(ctx))
}

// CopyText copies the raw payload to the clipboard synchronously.
func (c *Controller) CopyText(ctx context.Context) (NoticeTimer, error) {
	job, err := c.StartCopyText()
	if err != nil || job == nil {
		return NoticeTimer{}, err
	}
	return c.FinishCopy(job, job.Run(ctx))
}

// HideNotice hides the notice if id is the current timer handle and reports
// whether it did.
func (c *Controller) HideNotice(id uint64) bool {
	if id == 0 || id != c.noticeID || !c.state.CopiedNoticeVisible {
		return false
	}
	c.state.CopiedNoticeVisible = false
	return true
}

// OpenExportMenu shows the format chooser when a code is displayed.
func (c *Controller) OpenExportMenu() bool {
	if !c.state.QRVisible {
		return false
	}
	c.state.ExportMenuVisible = true
	return true
}

// CancelExportMenu hides the format chooser.
func (c *Controller) CancelExportMenu() {
	c.state.ExportMenuVisible = false
}

// ExportJob is a pending export of one snapshot.
type ExportJob struct {
	Format export.Format
	Image  *qr.Image

	exporter export.Exporter
}

// Run writes the file and returns its path. It touches no controller state.
func (j *ExportJob) Run(ctx context.Context) (string, error) {
	return j.exporter.Export(ctx, j.Image)
}

// StartExport closes the menu and snapshots the displayed code for format.
// It returns a nil job unless both the code and the menu are visible. The
// menu is closed whatever happens next.
func (c *Controller) StartExport(format export.Format) (*ExportJob, error) {
	if !c.state.QRVisible || !c.state.ExportMenuVisible {
		return nil, nil
	}
	c.state.ExportMenuVisible = false

	exporter, ok := c.exporters[format]
	if !ok || exporter == nil {
		return nil, &CollaboratorError{Op: OpExport, Format: format, Err: ErrUnsupportedFormat}
	}
	img, err := c.Image()
	if err != nil {
		return nil, err
	}
	return &ExportJob{Format: format, Image: img, exporter: exporter}, nil
}

// FinishExport wraps the outcome of job.
func (c *Controller) FinishExport(job *ExportJob, path string, err error) (string, error) {
	if job == nil {
		return "", nil
	}
	if err != nil {
		return "", &CollaboratorError{Op: OpExport, Format: job.Format, Err: err}
	}
	return path, nil
}

// ExportAs exports the displayed code synchronously and returns the path
// of the written file.
func (c *Controller) ExportAs(ctx context.Context, format export.Format) (string, error) {
	job, err := c.StartExport(format)
	if err != nil || job == nil {
		return "", err
	}
	path, runErr := job.Run(ctx)
	return c.FinishExport(job, path, runErr)
}

// Clear resets the widget and invalidates any pending notice timer.
func (c *Controller) Clear() {
	c.state = ViewState{}
	c.noticeID++
	c.epoch++
	c.cached = nil
}
