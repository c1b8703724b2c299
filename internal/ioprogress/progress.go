// Package ioprogress draws terminal progress bars for long ingestion
// stages. Bars can be switched off, in that case all methods are no-ops.
package ioprogress

import (
	"io"

	"github.com/cheggaaa/pb/v3"
)

// Bar is a progress bar that may be disabled.
type Bar struct {
	bar *pb.ProgressBar
}

// New creates and starts a progress bar with consistent settings. When
// show is false the returned bar draws nothing.
func New(total int, prefix string, show bool) *Bar {
	if !show {
		return &Bar{}
	}
	bar := pb.Full.Start(total)
	bar.Set("prefix", prefix)
	bar.Set(pb.CleanOnFinish, true)
	return &Bar{bar: bar}
}

// NewBytes creates a progress bar that counts bytes, for downloads.
// Unknown size is given as a negative total.
func NewBytes(total int64, prefix string, show bool) *Bar {
	if !show {
		return &Bar{}
	}
	bar := pb.Full.Start64(total)
	bar.Set(pb.Bytes, true)
	bar.Set("prefix", prefix)
	bar.Set(pb.CleanOnFinish, true)
	return &Bar{bar: bar}
}

// Add moves the bar forward by n.
func (b *Bar) Add(n int) {
	if b.bar != nil {
		b.bar.Add(n)
	}
}

// Reader wraps r so that reads move the bar.
func (b *Bar) Reader(r io.Reader) io.Reader {
	if b.bar == nil {
		return r
	}
	return b.bar.NewProxyReader(r)
}

// Finish stops the bar and clears it from the terminal.
func (b *Bar) Finish() {
	if b.bar != nil {
		b.bar.Finish()
	}
}

// Enabled reports whether the bar is drawn.
func (b *Bar) Enabled() bool {
	return b.bar != nil
}
