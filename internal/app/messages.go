package app

import (
	"github.com/chmouel/lazyqr/internal/export"
	"github.com/chmouel/lazyqr/internal/generator"
)

// Message types for the Bubble Tea app
type (
	copyResultMsg struct {
		job *generator.CopyJob
		err error
	}
	noticeExpiredMsg struct{ id uint64 }
	exportChosenMsg  struct{ format export.Format }
	exportResultMsg  struct {
		job  *generator.ExportJob
		path string
		err  error
	}
	exportCancelledMsg struct{}
	statusExpiredMsg   struct{ id uint64 }
	configChangedMsg   struct{}
)
