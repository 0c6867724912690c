// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package axs15231

import (
	"fmt"

	"github.com/panelkit/axs15231/rgb565"
)

// Framing selects the chip-select strategy for pixel streaming sessions.
// It is a property of the controller revision, fixed at construction time.
// The two strategies must never be mixed within one session.
type Framing uint8

const (
	// FramePerChunk toggles chip-select around every chunk. Continuation
	// chunks re-send the header with the continuation marker. This is the
	// canonical revision's behavior.
	FramePerChunk Framing = iota
	// FrameHold keeps chip-select asserted across the whole session. Only
	// the first chunk carries a header; continuation chunks are payload
	// only. Required by a later controller revision.
	FrameHold
)

// Set implements flag.Value.
func (f *Framing) Set(s string) error {
	switch s {
	case "per-chunk":
		*f = FramePerChunk
	case "hold":
		*f = FrameHold
	default:
		return fmt.Errorf("unknown framing %q: expected per-chunk or hold", s)
	}
	return nil
}

func (f Framing) String() string {
	if f == FrameHold {
		return "hold"
	}
	return "per-chunk"
}

// session tracks one pixel streaming session. The first chunk carries the
// start marker, everything after it the continuation marker; interleaving
// chunks of two sessions would corrupt the window contents, which is why the
// driver never hands a session out and always runs it to completion.
type session struct {
	d      *Dev
	chunks int
}

// write dispatches one chunk. last must be true on the final chunk so the
// held-CS strategy knows when to release the line.
func (s *session) write(p []byte, last bool) error {
	tx := Transaction{
		Opcode: OpPixelWrite,
		Mode:   QuadLine,
		Data:   p,
	}
	switch {
	case s.chunks == 0:
		tx.Address = MarkerStart
		tx.HoldCS = s.d.framing == FrameHold && !last
	case s.d.framing == FramePerChunk:
		tx.Address = MarkerContinue
	default:
		tx.NoHeader = true
		tx.HoldCS = !last
	}
	s.chunks++
	return s.d.t.Tx(&tx)
}

// chunkCap is the largest pixel payload that fits the staging buffer next to
// a header, rounded down to a whole number of 2 byte samples.
func (d *Dev) chunkCap() int {
	return (d.t.MaxTxSize() - headerLen) &^ 1
}

// StreamPixels streams pix to the address window programmed by the last
// SetWindow call. pix is big-endian RGB565, its length must be even and
// should match the window area; the controller wraps to the window origin
// when given more.
//
// The stream is split into staging-buffer-sized chunks: the first chunk
// opens the GRAM write at the window origin, all following chunks continue
// it. An empty pix is a no-op.
func (d *Dev) StreamPixels(pix []byte) error {
	if d.halted {
		return errHalted
	}
	if len(pix)%2 != 0 {
		return fmt.Errorf("axs15231: pixel stream of %d bytes is not a whole number of RGB565 samples", len(pix))
	}
	if len(pix) == 0 {
		return nil
	}
	max := d.chunkCap()
	s := session{d: d}
	for len(pix) > 0 {
		n := min(max, len(pix))
		if err := s.write(pix[:n], n == len(pix)); err != nil {
			return err
		}
		pix = pix[n:]
	}
	return nil
}

// Fill paints the whole screen in a single color.
//
// The fill buffer is populated with the repeating 2 byte pattern once and
// reused for every chunk, so a full 480x320 frame costs no allocation.
func (d *Dev) Fill(c rgb565.Color) error {
	if d.halted {
		return errHalted
	}
	if err := d.SetWindow(d.rect); err != nil {
		return err
	}
	total := d.rect.Dx() * d.rect.Dy() * 2
	buf := d.fillBuf
	if len(buf) > total {
		buf = buf[:total]
	}
	hi, lo := byte(c>>8), byte(c)
	for i := 0; i < len(buf); i += 2 {
		buf[i] = hi
		buf[i+1] = lo
	}
	s := session{d: d}
	for total > 0 {
		n := min(len(buf), total)
		if err := s.write(buf[:n], n == total); err != nil {
			return err
		}
		total -= n
	}
	return nil
}
