// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package axs15231

import (
	"time"

	"periph.io/x/conn/v3/gpio"
)

// errorHandler is a wrapper for error management: once a step failed, every
// following step is skipped and the first error is kept.
type errorHandler struct {
	d   *Dev
	err error
}

func (eh *errorHandler) rstOut(l gpio.Level) {
	if eh.err != nil {
		return
	}
	eh.err = eh.d.rst.Out(l)
}

func (eh *errorHandler) sendCommand(reg byte, data []byte) {
	if eh.err != nil {
		return
	}
	eh.err = eh.d.sendCommand(reg, data)
}

func (eh *errorHandler) pause(d time.Duration) {
	if eh.err != nil {
		return
	}
	time.Sleep(d)
}

var _ controller = &errorHandler{}
