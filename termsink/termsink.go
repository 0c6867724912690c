// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package termsink implements the panel transport against a terminal
// instead of hardware, using ANSI color codes.
//
// Useful while you are waiting for your display board to come by mail: the
// sink decodes the driver's transaction stream, keeps a software copy of the
// controller's graphics RAM, and renders it as 256-color blocks. It models
// the silicon's addressing quirks, including dropping continuation chunks
// that were not preceded by a start marker, so everything the driver gets
// wrong on hardware shows up here too.
package termsink

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"

	"github.com/panelkit/axs15231"
	"github.com/panelkit/axs15231/rgb565"
)

// DCS registers the sink decodes. Everything else is accepted and ignored.
const (
	dcsDisplayOff = 0x28
	dcsDisplayOn  = 0x29
	dcsColumnAddr = 0x2A
	dcsRowAddr    = 0x2B
)

// bufSize mimics a typical spidev DMA buffer so chunking through the sink
// matches real hardware.
const bufSize = 4096

// Opts represents the options available for this sink.
type Opts struct {
	// W and H are the emulated panel dimensions.
	W int
	H int
	// To receives the rendered frames. Default is a colorable stdout.
	To io.Writer
	// Palette used for rendering. Default is ansi256.Default.
	Palette *ansi256.Palette
	// Cols caps the rendered width in terminal cells. Default is 80; the
	// framebuffer is subsampled to fit.
	Cols int

	_ struct{}
}

// Sink is a panel emulator that outputs to the console.
type Sink struct {
	w       io.Writer
	palette ansi256.Palette
	cols    int

	fb     *rgb565.Image
	window image.Rectangle
	cursor int
	// writing is set by a start marker and is the reason continuation-only
	// streams leave the framebuffer untouched.
	writing bool
	on      bool

	buf bytes.Buffer
}

// New returns a Sink emulating a W x H panel at the console.
//
// Pass it to axs15231.NewFromTransport. Permits local testing of content
// sources without hardware.
func New(opts *Opts) *Sink {
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	w := opts.To
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	cols := opts.Cols
	if cols <= 0 {
		cols = 80
	}
	r := image.Rect(0, 0, opts.W, opts.H)
	return &Sink{
		w:       w,
		palette: *p,
		cols:    cols,
		fb:      rgb565.New(r),
		window:  r,
	}
}

func (s *Sink) String() string {
	return "termsink"
}

// MaxTxSize implements axs15231.Transport.
func (s *Sink) MaxTxSize() int {
	return bufSize
}

// Tx implements axs15231.Transport. It decodes the transaction the way the
// controller would.
func (s *Sink) Tx(t *axs15231.Transaction) error {
	if len(t.Data)+4 > bufSize && !t.NoHeader || len(t.Data) > bufSize {
		return fmt.Errorf("termsink: transaction of %d bytes exceeds the %d byte buffer", len(t.Data), bufSize)
	}
	if t.NoHeader {
		// Header-less continuation of a held chip-select session.
		if s.writing {
			s.pixels(t.Data)
		}
		return nil
	}
	switch t.Opcode {
	case axs15231.OpCommand:
		s.command(byte(t.Address>>8), t.Data)
	case axs15231.OpPixelWrite:
		switch t.Address {
		case axs15231.MarkerStart:
			s.writing = true
			s.cursor = 0
			s.pixels(t.Data)
		case axs15231.MarkerContinue:
			if s.writing {
				s.pixels(t.Data)
			}
		}
	}
	return nil
}

// Framebuffer exposes the emulated graphics RAM.
func (s *Sink) Framebuffer() *rgb565.Image {
	return s.fb
}

// On reports whether the emulated panel is lit.
func (s *Sink) On() bool {
	return s.on
}

func (s *Sink) command(reg byte, data []byte) {
	switch reg {
	case dcsColumnAddr:
		if len(data) == 4 {
			x1 := int(data[0])<<8 | int(data[1])
			x2 := int(data[2])<<8 | int(data[3])
			s.window.Min.X, s.window.Max.X = x1, x2+1
			s.writing = false
		}
	case dcsRowAddr:
		if len(data) == 4 {
			y1 := int(data[0])<<8 | int(data[1])
			y2 := int(data[2])<<8 | int(data[3])
			s.window.Min.Y, s.window.Max.Y = y1, y2+1
			s.writing = false
		}
	case dcsDisplayOn:
		s.on = true
	case dcsDisplayOff:
		s.on = false
	}
}

// pixels advances the GRAM cursor through the window, wrapping at the
// window end the way the controller does.
func (s *Sink) pixels(data []byte) {
	w := s.window.Dx()
	h := s.window.Dy()
	if w <= 0 || h <= 0 {
		return
	}
	for i := 0; i+1 < len(data); i += 2 {
		if s.cursor >= w*h {
			s.cursor = 0
		}
		x := s.window.Min.X + s.cursor%w
		y := s.window.Min.Y + s.cursor/w
		s.fb.SetRGB565(x, y, rgb565.Color(data[i])<<8|rgb565.Color(data[i+1]))
		s.cursor++
	}
}

// Render paints the current framebuffer to the configured writer. The frame
// is subsampled to at most Cols cells per row, two rows of pixels per line
// of text.
func (s *Sink) Render() error {
	// This code is designed to minimize the amount of memory allocated per
	// call.
	s.buf.Reset()
	w := s.fb.Rect.Dx()
	h := s.fb.Rect.Dy()
	if w == 0 || h == 0 {
		return nil
	}
	step := (w + s.cols - 1) / s.cols
	if step < 1 {
		step = 1
	}
	for y := 0; y < h; y += 2 * step {
		for x := 0; x < w; x += step {
			r16, g16, b16, _ := s.fb.RGB565At(x, y).RGBA()
			c := color.NRGBA{uint8(r16 >> 8), uint8(g16 >> 8), uint8(b16 >> 8), 255}
			_, _ = io.WriteString(&s.buf, s.palette.Block(c))
		}
		_, _ = s.buf.WriteString("\033[0m\n")
	}
	_, err := s.buf.WriteTo(s.w)
	return err
}

var _ axs15231.Transport = &Sink{}
