// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package axs15231

import "time"

// controller is the thin surface the init sequence needs from a device. It
// exists so the sequence can be exercised against a recording fake.
type controller interface {
	sendCommand(reg byte, data []byte)
	pause(d time.Duration)
}

// initPanel replays the controller bring-up: display off, sleep in, the
// unlocked proprietary register program, lock, pixel format, sleep out,
// display on and finally the addressing order. The order and the settle
// delays are fixed; there is no branching and no retry, an error anywhere
// leaves the controller in an unusable state.
//
// Hardware reset is not part of this sequence, it happens on the RESX line
// before the first command goes out.
func initPanel(ctrl controller, rotation Rotation) {
	ctrl.sendCommand(cmdDisplayOff, nil)
	ctrl.pause(displayOffSettle)
	ctrl.sendCommand(cmdSleepIn, nil)
	ctrl.pause(sleepInSettle)

	ctrl.sendCommand(regCmdProtect, unlockKey)
	for _, s := range panelProgram {
		ctrl.sendCommand(s.reg, s.data)
		if s.settle > 0 {
			ctrl.pause(s.settle)
		}
	}
	ctrl.sendCommand(regCmdProtect, lockKey)

	ctrl.sendCommand(cmdInvertOff, nil)
	ctrl.sendCommand(cmdPixelFormat, []byte{pixelFormat16})
	ctrl.sendCommand(cmdSleepOut, nil)
	ctrl.pause(sleepOutSettle)
	ctrl.sendCommand(cmdDisplayOn, nil)
	ctrl.pause(displayOnSettle)
	ctrl.sendCommand(cmdMemoryAccessControl, []byte{madctl(rotation)})
}

// madctl maps a Rotation to the memory access control bits.
func madctl(r Rotation) byte {
	switch r {
	case Rotate90:
		return madMV | madMX
	case Rotate180:
		return madMX | madMY
	case Rotate270:
		return madMV | madMY
	default:
		return 0
	}
}
