// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package axs15231 controls a 480x320 TFT panel behind an AXS15231 class
// display controller wired over quad-line SPI.
//
// The controller is picky about how pixel data reaches its graphics RAM: a
// bulk transfer must open with the "memory write" addressing sequence before
// the controller honors any "memory write continue" transfer. A generic
// streaming routine that sends the continue opcode for every chunk, or that
// restarts the write on every chunk, silently leaves stale content on the
// panel. This driver frames every transaction accordingly and splits long
// pixel runs into bus-sized chunks with the correct marker per chunk.
//
// Content (animations, decoded images, UI) is the caller's business. The
// driver exposes an address window plus a pixel byte stream, and implements
// display.Drawer on top of them. Pixels on the wire are big-endian RGB565;
// use the rgb565 subpackage to prepare frames that can be streamed without
// conversion.
//
// Two chip-select framing strategies exist across controller revisions: the
// canonical one toggles chip-select around every chunk, a later revision
// requires chip-select held for the whole stream with header-less
// continuation chunks. The strategy is fixed at construction time through
// Opts.Framing; verify against the actual silicon before shipping.
//
// The Dev is not safe for concurrent use. A pixel stream always runs to
// completion before the next operation may start.
package axs15231
