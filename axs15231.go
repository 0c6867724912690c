// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package axs15231

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"

	"github.com/panelkit/axs15231/rgb565"
)

// Rotation is the panel orientation, applied once after init.
type Rotation uint8

// Valid rotations, counted clock wise.
const (
	NoRotation Rotation = iota
	Rotate90
	Rotate180
	Rotate270
)

// Set implements flag.Value.
func (r *Rotation) Set(s string) error {
	switch s {
	case "0":
		*r = NoRotation
	case "90":
		*r = Rotate90
	case "180":
		*r = Rotate180
	case "270":
		*r = Rotate270
	default:
		return fmt.Errorf("unknown rotation %q: expected 0, 90, 180 or 270", s)
	}
	return nil
}

func (r Rotation) String() string {
	switch r {
	case Rotate90:
		return "90"
	case Rotate180:
		return "180"
	case Rotate270:
		return "270"
	default:
		return "0"
	}
}

// DefaultOpts is the recommended default options: the 480x320 glass this
// controller usually drives, canonical per-chunk framing.
var DefaultOpts = Opts{
	W:       480,
	H:       320,
	Framing: FramePerChunk,
	Freq:    40 * physic.MegaHertz,
}

// Opts defines the options for the device.
type Opts struct {
	// W and H are the panel dimensions before rotation.
	W int
	H int
	// Rotation is applied once through the memory access control register.
	Rotation Rotation
	// Framing is the chip-select strategy for pixel streams. It depends on
	// the controller revision; verify against the actual hardware.
	Framing Framing
	// Freq is the bus clock. Zero means DefaultOpts.Freq.
	Freq physic.Frequency
}

var errHalted = errors.New("axs15231: device is halted")

// Dev is an open handle to the display controller.
type Dev struct {
	t         Transport
	rst       gpio.PinOut
	backlight gpio.PinOut

	rect     image.Rectangle
	rotation Rotation
	framing  Framing

	// window is the rectangle the next pixel stream lands in. It persists
	// at the controller until the next SetWindow.
	window image.Rectangle
	// fillBuf is the staging chunk reused by Fill.
	fillBuf []byte
	// next is lazily allocated by Draw for non-RGB565 sources.
	next *rgb565.Image

	initialized bool
	halted      bool
}

// New opens the display behind a quad-line capable SPI port.
//
// cs is the chip-select line driven by the driver around every transaction.
// rst is the RESX line; pass nil if reset is wired externally, the hardware
// reset is then skipped. backlight may be nil if the backlight is not
// software controlled.
//
// New performs the hardware reset and the full controller bring-up. An error
// here is fatal: no transaction must be attempted on the returned nil Dev,
// the documented recovery is a device restart.
func New(p spi.Port, cs, rst, backlight gpio.PinOut, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	if opts.Framing == FrameHold && cs == nil {
		return nil, errors.New("axs15231: held chip-select framing needs a driver controlled CS pin")
	}
	f := opts.Freq
	if f == 0 {
		f = DefaultOpts.Freq
	}
	t, err := newSPITransport(p, cs, f)
	if err != nil {
		return nil, err
	}
	return NewFromTransport(t, rst, backlight, opts)
}

// NewFromTransport opens the display over an already built transport. This
// is how emulated transports (termsink, test fakes) are wired in.
func NewFromTransport(t Transport, rst, backlight gpio.PinOut, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	if opts.W <= 0 || opts.H <= 0 {
		return nil, fmt.Errorf("axs15231: invalid panel size %dx%d", opts.W, opts.H)
	}
	if t.MaxTxSize() < headerLen+2 {
		return nil, fmt.Errorf("axs15231: transport buffer of %d bytes cannot carry a header and a pixel", t.MaxTxSize())
	}
	w, h := opts.W, opts.H
	if opts.Rotation == Rotate90 || opts.Rotation == Rotate270 {
		w, h = h, w
	}
	d := &Dev{
		t:         t,
		rst:       rst,
		backlight: backlight,
		rect:      image.Rect(0, 0, w, h),
		rotation:  opts.Rotation,
		framing:   opts.Framing,
	}
	d.fillBuf = make([]byte, d.chunkCap())
	if err := d.reset(); err != nil {
		return nil, err
	}
	eh := errorHandler{d: d}
	initPanel(&eh, opts.Rotation)
	if eh.err != nil {
		return nil, eh.err
	}
	d.initialized = true
	if backlight != nil {
		if err := backlight.Out(gpio.High); err != nil {
			return nil, fmt.Errorf("axs15231: failed to enable backlight: %w", err)
		}
	}
	return d, nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("axs15231.Dev{%s, %dx%d}", d.t, d.rect.Dx(), d.rect.Dy())
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return rgb565.Model
}

// Bounds implements display.Drawer. Min is guaranteed to be {0, 0}.
func (d *Dev) Bounds() image.Rectangle {
	return d.rect
}

// SetWindow programs the address window the next pixel stream will fill.
// The window persists at the controller until the next call.
//
// r uses Go image semantics (exclusive Max) and must lie within Bounds().
func (d *Dev) SetWindow(r image.Rectangle) error {
	if d.halted {
		return errHalted
	}
	if r.Empty() || !r.In(d.rect) {
		return fmt.Errorf("axs15231: window %v outside panel bounds %v", r, d.rect)
	}
	x1, y1 := r.Min.X, r.Min.Y
	x2, y2 := r.Max.X-1, r.Max.Y-1
	eh := errorHandler{d: d}
	eh.sendCommand(cmdColumnAddr, []byte{byte(x1 >> 8), byte(x1), byte(x2 >> 8), byte(x2)})
	eh.sendCommand(cmdRowAddr, []byte{byte(y1 >> 8), byte(y1), byte(y2 >> 8), byte(y2)})
	if eh.err != nil {
		return eh.err
	}
	d.window = r
	return nil
}

// Draw implements display.Drawer.
//
// It draws synchronously; once this function returns the panel is updated.
// A full-frame *rgb565.Image source is streamed without conversion.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	if d.halted {
		return errHalted
	}
	r = r.Intersect(d.rect)
	if r.Empty() {
		return nil
	}
	var pix []byte
	if img, ok := src.(*rgb565.Image); ok && r == d.rect && img.Rect == d.rect && sp.X == 0 && sp.Y == 0 {
		// Exact size, full frame, wire encoding: fast path.
		pix = img.Pix
	} else {
		if d.next == nil || d.next.Rect.Size() != r.Size() {
			d.next = rgb565.New(image.Rectangle{Max: r.Size()})
		}
		draw.Src.Draw(d.next, d.next.Rect, src, sp)
		pix = d.next.Pix
	}
	if err := d.SetWindow(r); err != nil {
		return err
	}
	return d.StreamPixels(pix)
}

// Invert the display colors.
func (d *Dev) Invert(inverted bool) error {
	if d.halted {
		return errHalted
	}
	c := cmdInvertOff
	if inverted {
		c = cmdInvertOn
	}
	return d.sendCommand(c, nil)
}

// SetBacklight drives the backlight enable line, if one was given.
func (d *Dev) SetBacklight(on bool) error {
	if d.backlight == nil {
		return errors.New("axs15231: no backlight pin configured")
	}
	return d.backlight.Out(gpio.Level(on))
}

// Halt turns the display and the backlight off, implementing conn.Resource.
// The device must be re-created to be used again.
func (d *Dev) Halt() error {
	if d.halted {
		return nil
	}
	eh := errorHandler{d: d}
	eh.sendCommand(cmdDisplayOff, nil)
	eh.pause(displayOffSettle)
	eh.sendCommand(cmdSleepIn, nil)
	if eh.err == nil && d.backlight != nil {
		eh.err = d.backlight.Out(gpio.Low)
	}
	if eh.err == nil {
		d.halted = true
	}
	return eh.err
}

// sendCommand issues one register configuration write on the single-line
// command path. The register travels in the address field of the header.
// Payloads longer than the controller's command FIFO must be split by the
// caller.
func (d *Dev) sendCommand(reg byte, data []byte) error {
	if len(data) > maxCommandLen {
		return fmt.Errorf("axs15231: register 0x%02X payload of %d bytes exceeds the %d byte command FIFO", reg, len(data), maxCommandLen)
	}
	return d.t.Tx(&Transaction{
		Opcode:  OpCommand,
		Address: uint32(reg) << 8,
		Mode:    SingleLine,
		Data:    data,
	})
}

// reset pulses the RESX line. The three delays are hardware settling
// requirements; see registers.go.
func (d *Dev) reset() error {
	if d.rst == nil {
		return nil
	}
	eh := errorHandler{d: d}
	eh.rstOut(gpio.High)
	eh.pause(resetSetup)
	eh.rstOut(gpio.Low)
	eh.pause(resetPulse)
	eh.rstOut(gpio.High)
	eh.pause(resetSettle)
	if eh.err != nil {
		return fmt.Errorf("axs15231: hardware reset failed: %w", eh.err)
	}
	return nil
}

var _ display.Drawer = &Dev{}
var _ fmt.Stringer = &Dev{}
