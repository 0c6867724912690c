// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package termsink

import (
	"bytes"
	"image"
	"strings"
	"testing"

	"github.com/panelkit/axs15231"
	"github.com/panelkit/axs15231/rgb565"
)

func newTestSink(w, h int) *Sink {
	var buf bytes.Buffer
	return New(&Opts{W: w, H: h, To: &buf, Cols: 16})
}

func newTestDev(t *testing.T, s *Sink, w, h int) *axs15231.Dev {
	t.Helper()
	opts := axs15231.DefaultOpts
	opts.W, opts.H = w, h
	d, err := axs15231.NewFromTransport(s, nil, nil, &opts)
	if err != nil {
		t.Fatalf("NewFromTransport() = %v", err)
	}
	return d
}

func TestInitTurnsPanelOn(t *testing.T) {
	s := newTestSink(8, 4)
	newTestDev(t, s, 8, 4)
	if !s.On() {
		t.Error("panel not on after init")
	}
}

func TestFillPaintsFramebuffer(t *testing.T) {
	s := newTestSink(8, 4)
	d := newTestDev(t, s, 8, 4)
	if err := d.Fill(rgb565.Red); err != nil {
		t.Fatalf("Fill() = %v", err)
	}
	fb := s.Framebuffer()
	for y := 0; y < 4; y++ {
		for x := 0; x < 8; x++ {
			if got := fb.RGB565At(x, y); got != rgb565.Red {
				t.Fatalf("pixel (%d,%d) = %#04x, want %#04x", x, y, got, rgb565.Red)
			}
		}
	}
}

func TestWindowedStream(t *testing.T) {
	s := newTestSink(8, 4)
	d := newTestDev(t, s, 8, 4)
	if err := d.Fill(rgb565.Black); err != nil {
		t.Fatal(err)
	}
	w := image.Rect(2, 1, 6, 3) // 4x2 pixels
	if err := d.SetWindow(w); err != nil {
		t.Fatal(err)
	}
	pix := bytes.Repeat([]byte{0x07, 0xE0}, 4*2)
	if err := d.StreamPixels(pix); err != nil {
		t.Fatal(err)
	}
	fb := s.Framebuffer()
	for y := 0; y < 4; y++ {
		for x := 0; x < 8; x++ {
			want := rgb565.Black
			if image.Pt(x, y).In(w) {
				want = rgb565.Green
			}
			if got := fb.RGB565At(x, y); got != want {
				t.Errorf("pixel (%d,%d) = %#04x, want %#04x", x, y, got, want)
			}
		}
	}
}

func TestContinuationWithoutStartIsDropped(t *testing.T) {
	s := newTestSink(4, 2)
	err := s.Tx(&axs15231.Transaction{
		Opcode:  axs15231.OpPixelWrite,
		Address: axs15231.MarkerContinue,
		Mode:    axs15231.QuadLine,
		Data:    bytes.Repeat([]byte{0xFF, 0xFF}, 4),
	})
	if err != nil {
		t.Fatalf("Tx() = %v", err)
	}
	fb := s.Framebuffer()
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			if got := fb.RGB565At(x, y); got != rgb565.Black {
				t.Fatalf("pixel (%d,%d) = %#04x, want untouched GRAM", x, y, got)
			}
		}
	}
}

func TestWindowWriteResetsSession(t *testing.T) {
	s := newTestSink(4, 2)
	start := &axs15231.Transaction{
		Opcode:  axs15231.OpPixelWrite,
		Address: axs15231.MarkerStart,
		Mode:    axs15231.QuadLine,
		Data:    []byte{0xFF, 0xFF},
	}
	if err := s.Tx(start); err != nil {
		t.Fatal(err)
	}
	// Reprogramming the window ends the streaming session; a bare
	// continuation afterwards must be dropped.
	if err := s.Tx(&axs15231.Transaction{
		Opcode:  axs15231.OpCommand,
		Address: uint32(dcsColumnAddr) << 8,
		Mode:    axs15231.SingleLine,
		Data:    []byte{0x00, 0x00, 0x00, 0x03},
	}); err != nil {
		t.Fatal(err)
	}
	if err := s.Tx(&axs15231.Transaction{
		Opcode:  axs15231.OpPixelWrite,
		Address: axs15231.MarkerContinue,
		Mode:    axs15231.QuadLine,
		Data:    []byte{0xFF, 0xFF},
	}); err != nil {
		t.Fatal(err)
	}
	if got := s.Framebuffer().RGB565At(1, 0); got != rgb565.Black {
		t.Errorf("continuation after window write painted pixel (1,0) = %#04x", got)
	}
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	s := New(&Opts{W: 8, H: 4, To: &buf, Cols: 8})
	d := newTestDev(t, s, 8, 4)
	if err := d.Fill(rgb565.Blue); err != nil {
		t.Fatal(err)
	}
	if err := s.Render(); err != nil {
		t.Fatalf("Render() = %v", err)
	}
	out := buf.String()
	if out == "" {
		t.Fatal("Render() wrote nothing")
	}
	if !strings.Contains(out, "\033[") {
		t.Error("Render() output carries no ANSI escapes")
	}
	if got, want := strings.Count(out, "\n"), 2; got != want {
		t.Errorf("Render() wrote %d lines, want %d (two pixel rows per line)", got, want)
	}
}

func TestString(t *testing.T) {
	if got := newTestSink(4, 2).String(); got != "termsink" {
		t.Errorf("String() = %q", got)
	}
}
