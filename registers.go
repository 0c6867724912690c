// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package axs15231

import "time"

// Standard DCS commands understood by the controller.
const (
	cmdNop                 byte = 0x00
	cmdSleepIn             byte = 0x10
	cmdSleepOut            byte = 0x11
	cmdInvertOff           byte = 0x20
	cmdInvertOn            byte = 0x21
	cmdDisplayOff          byte = 0x28
	cmdDisplayOn           byte = 0x29
	cmdColumnAddr          byte = 0x2A
	cmdRowAddr             byte = 0x2B
	cmdMemoryWrite         byte = 0x2C
	cmdTearingEffectOn     byte = 0x35
	cmdMemoryAccessControl byte = 0x36
	cmdPixelFormat         byte = 0x3A
	cmdMemoryWriteContinue byte = 0x3C
)

// Transaction header opcodes. The opcode tells the controller how many data
// lines carry the bytes that follow the 32 bit header.
const (
	// OpCommand is the single-line register configuration path.
	OpCommand byte = 0x02
	// OpPixelWrite is the four-line GRAM write path used for bulk pixel
	// transfers.
	OpPixelWrite byte = 0x32
)

// Pixel-path address markers. The controller interprets the address field of
// a four-line transaction as a command: MarkerStart begins a new GRAM write
// at the current window origin, MarkerContinue resumes the write where the
// previous chunk stopped. A continuation that was not preceded by a start in
// the same streaming session is silently dropped by the silicon.
const (
	MarkerStart    uint32 = uint32(cmdMemoryWrite) << 8         // 0x002C00
	MarkerContinue uint32 = uint32(cmdMemoryWriteContinue) << 8 // 0x003C00
)

// maxCommandLen is the size of the controller's command staging FIFO. Longer
// register programs must be split across multiple command transactions; the
// init sequence does this for its gamma table.
const maxCommandLen = 60

// Memory access control bits (MADCTL).
const (
	madMY  byte = 0x80 // row address order
	madMX  byte = 0x40 // column address order
	madMV  byte = 0x20 // row/column exchange
	madBGR byte = 0x08 // BGR subpixel order
)

// pixelFormat16 selects 16 bit per pixel (RGB565) for both the RGB and the
// MCU interface.
const pixelFormat16 byte = 0x55

// Fixed settle delays. These are hardware settling requirements, not
// fallible operations; shortening them reintroduces the GRAM corruption this
// driver exists to avoid.
const (
	// resetSetup keeps RESX high so the line is in a known state before the
	// pulse.
	resetSetup = 10 * time.Millisecond
	// resetPulse is the minimum RESX low width accepted by the controller.
	resetPulse = 10 * time.Millisecond
	// resetSettle covers the controller's internal reboot after RESX rises.
	resetSettle = 120 * time.Millisecond
	// sleepOutSettle lets the charge pumps reach their working voltages.
	sleepOutSettle = 120 * time.Millisecond
	// displayOnSettle covers the source driver ramp before the first frame.
	displayOnSettle  = 20 * time.Millisecond
	displayOffSettle = 20 * time.Millisecond
	sleepInSettle    = 5 * time.Millisecond
)

// regCmdProtect guards the proprietary register space. Writing unlockKey
// opens it, lockKey closes it again once the panel program has been sent.
const regCmdProtect byte = 0xBB

var (
	unlockKey = []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x5A, 0xA5}
	lockKey   = []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xA5, 0x5A}
)

// initStep is one register program of the init sequence.
type initStep struct {
	reg    byte
	data   []byte
	settle time.Duration
}

// panelProgram is the proprietary register program replayed between the
// unlock and lock writes. The tables are opaque: they configure timing,
// power rails and gamma for the 480x320 glass and were taken as-is from the
// known-working vendor sequence. Do not edit individual bytes.
//
// The gamma table at 0xC8 is larger than the command FIFO and is therefore
// split over two writes; the register auto-increments across consecutive
// writes to it.
var panelProgram = []initStep{
	{reg: 0xA0, data: []byte{
		0x00, 0x10, 0x00, 0x02, 0x00, 0x00, 0x64, 0x3F,
		0x20, 0x05, 0x3F, 0x3F, 0x00, 0x00, 0x00, 0x00, 0x00,
	}},
	{reg: 0xA2, data: []byte{
		0x30, 0x04, 0x14, 0x50, 0x10, 0x16, 0x50, 0x50,
		0x04, 0x26, 0x26, 0x14, 0x14, 0x14, 0x14, 0x14,
		0x14, 0x03, 0x00, 0x80, 0x80, 0x80, 0x08, 0x08,
		0x00, 0x26, 0xA9, 0x00, 0x00, 0x00, 0x00,
	}},
	{reg: 0xA3, data: []byte{
		0xA0, 0x06, 0xAA, 0x08, 0x08, 0x02, 0x0A, 0x04,
		0x04, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x55, 0x55,
	}},
	{reg: 0xA4, data: []byte{
		0xC0, 0x10, 0x08, 0x53, 0x44, 0x00, 0x00, 0x04,
		0x00, 0x15, 0x26, 0x40, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	}},
	{reg: 0xA5, data: []byte{
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x2A, 0x8A, 0x02, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	}},
	{reg: 0xA6, data: []byte{
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x2A, 0x8A, 0x02, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	}},
	{reg: 0xA7, data: []byte{
		0x50, 0x50, 0x00, 0x00, 0xE0, 0x91, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	}},
	{reg: 0xA8, data: []byte{
		0x04, 0x04, 0x02, 0x02, 0x04, 0x04, 0x04, 0x04,
		0x04, 0x04, 0x04, 0x04, 0x04, 0x04, 0x04, 0x04,
		0x00, 0x00, 0x00, 0x00,
	}},
	{reg: 0xA9, data: []byte{
		0x50, 0x0A, 0x02, 0x48, 0x05, 0x3B, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x32,
		0x01, 0x54, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	}},
	{reg: 0xAC, data: []byte{0x00, 0x02, 0x03, 0x4B}},
	{reg: 0xB0, data: []byte{
		0x73, 0x44, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	}},
	{reg: 0xB1, data: []byte{
		0x35, 0x32, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	}},
	{reg: 0xB4, data: []byte{
		0x0C, 0x02, 0x04, 0x00, 0x00, 0x05, 0x00, 0x00, 0x00,
	}},
	{reg: 0xB5, data: []byte{
		0x00, 0x08, 0x00, 0x40, 0x00, 0x04, 0x00, 0x00,
	}},
	{reg: 0xB6, data: []byte{
		0x3C, 0x5A, 0x39, 0x05, 0x3C, 0x3C, 0x3C, 0x3C,
	}, settle: 1 * time.Millisecond},
	{reg: 0xB7, data: []byte{
		0x30, 0x3C, 0x3C, 0x3C, 0x3C, 0x3C, 0x00, 0x00,
	}},
	{reg: 0xB8, data: []byte{0x0A, 0x38, 0x00, 0x14}},
	{reg: 0xBC, data: []byte{0x1A, 0x2A, 0x2B, 0x00}},
	{reg: 0xBD, data: []byte{
		0x33, 0x33, 0x33, 0x33, 0x33, 0x33, 0x33, 0x33,
		0x12, 0x12, 0x00, 0x00,
	}},
	{reg: 0xC1, data: []byte{
		0x33, 0x04, 0x02, 0x02, 0x71, 0x05, 0x24, 0x32,
		0x51, 0x15, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0xA0, 0x00, 0xFF, 0xC0,
	}},
	{reg: 0xC3, data: []byte{
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x3F, 0x00,
	}},
	// Gamma correction, positive and negative polarity. 90 bytes, sent as
	// 60 + 30 because of the command FIFO limit.
	{reg: 0xC8, data: []byte{
		0x00, 0x04, 0x0A, 0x12, 0x1A, 0x22, 0x2A, 0x31,
		0x38, 0x3E, 0x44, 0x4A, 0x50, 0x55, 0x5A, 0x5F,
		0x64, 0x69, 0x6E, 0x73, 0x78, 0x7D, 0x82, 0x87,
		0x8C, 0x91, 0x96, 0x9B, 0xA0, 0xA5, 0xAA, 0xAF,
		0xB4, 0xB9, 0xBE, 0xC3, 0xC8, 0xCD, 0xD2, 0xD7,
		0xDC, 0xE1, 0xE6, 0xEB, 0xF0, 0x00, 0x04, 0x0A,
		0x12, 0x1A, 0x22, 0x2A, 0x31, 0x38, 0x3E, 0x44,
		0x4A, 0x50, 0x55, 0x5A,
	}},
	{reg: 0xC8, data: []byte{
		0x5F, 0x64, 0x69, 0x6E, 0x73, 0x78, 0x7D, 0x82,
		0x87, 0x8C, 0x91, 0x96, 0x9B, 0xA0, 0xA5, 0xAA,
		0xAF, 0xB4, 0xB9, 0xBE, 0xC3, 0xC8, 0xCD, 0xD2,
		0xD7, 0xDC, 0xE1, 0xE6, 0xEB, 0xF0,
	}},
	{reg: 0xCF, data: []byte{0x34, 0x1E, 0x88, 0x58, 0x13}},
	{reg: 0xD0, data: []byte{
		0x80, 0x48, 0x65, 0x58, 0x88, 0x99, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	}},
	{reg: 0xD7, data: []byte{0x56, 0x09, 0x00, 0x00, 0x00, 0x00}},
}
