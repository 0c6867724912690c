// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package axs15231

import (
	"fmt"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// LineMode is the number of data lines carrying the payload of a
// transaction. The header always travels on a single line; the opcode in it
// tells the controller which mode the payload uses.
type LineMode uint8

// Valid line modes.
const (
	SingleLine LineMode = 1
	QuadLine   LineMode = 4
)

// headerLen is the 32 bit {opcode, addr[23:0]} header in front of every
// headered transaction.
const headerLen = 4

// Transaction is one logical bus operation: an optional header followed by
// payload bytes, framed by chip-select.
//
// HoldCS leaves chip-select asserted after the transfer and NoHeader sends
// payload only; together they express the held-chip-select framing strategy
// where continuation chunks travel without a header while chip-select stays
// low for the whole streaming session.
type Transaction struct {
	Opcode   byte
	Address  uint32 // 24 bit
	Mode     LineMode
	Data     []byte
	HoldCS   bool
	NoHeader bool
}

// Transport moves transactions to the controller.
//
// Tx is synchronous and blocks until the transfer completed. A Tx error is a
// hard fault of the whole session: the controller state must be assumed
// inconsistent and the device restarted, no transaction is ever retried.
type Transport interface {
	Tx(t *Transaction) error
	// MaxTxSize is the size of the staging buffer: header plus payload of a
	// single transaction may not exceed it.
	MaxTxSize() int
	fmt.Stringer
}

// defaultTxSize is used when the connection does not advertise a transfer
// limit. It matches the common spidev DMA buffer size.
const defaultTxSize = 4096

// spiTransport frames transactions over a periph SPI connection with a GPIO
// driven chip-select.
//
// Payload bytes are copied into the staging buffer behind the header before
// dispatch: the source may live in memory the bus engine cannot read
// (decoder output, read-only tables), and the copy is what allows a single
// conn.Tx per chip-select cycle.
type spiTransport struct {
	c    spi.Conn
	cs   gpio.PinOut
	buf  []byte
	held bool
}

// newSPITransport connects the port. A nil cs leaves chip-select to the bus
// driver, which limits the device to per-chunk framing.
func newSPITransport(p spi.Port, cs gpio.PinOut, f physic.Frequency) (*spiTransport, error) {
	c, err := p.Connect(f, spi.Mode0, 8)
	if err != nil {
		return nil, fmt.Errorf("axs15231: failed to connect over SPI: %w", err)
	}
	max := defaultTxSize
	if l, ok := c.(conn.Limits); ok {
		if m := l.MaxTxSize(); m > 0 && m < max {
			max = m
		}
	}
	if cs != nil {
		if err := cs.Out(gpio.High); err != nil {
			return nil, fmt.Errorf("axs15231: failed to deassert CS: %w", err)
		}
	}
	return &spiTransport{c: c, cs: cs, buf: make([]byte, 0, max)}, nil
}

func (t *spiTransport) Tx(tx *Transaction) error {
	n := len(tx.Data)
	if !tx.NoHeader {
		n += headerLen
	}
	if n > cap(t.buf) {
		return fmt.Errorf("axs15231: transaction of %d bytes exceeds the %d byte transport buffer", n, cap(t.buf))
	}
	b := t.buf[:0]
	if !tx.NoHeader {
		b = append(b, tx.Opcode, byte(tx.Address>>16), byte(tx.Address>>8), byte(tx.Address))
	}
	b = append(b, tx.Data...)
	if !t.held {
		if err := t.csOut(gpio.Low); err != nil {
			return err
		}
	}
	if err := t.c.Tx(b, nil); err != nil {
		t.held = false
		_ = t.csOut(gpio.High)
		return fmt.Errorf("axs15231: bus transfer failed: %w", err)
	}
	if tx.HoldCS {
		t.held = true
		return nil
	}
	t.held = false
	return t.csOut(gpio.High)
}

func (t *spiTransport) MaxTxSize() int {
	return cap(t.buf)
}

func (t *spiTransport) String() string {
	return fmt.Sprintf("qspi{%s}", t.c)
}

func (t *spiTransport) csOut(l gpio.Level) error {
	if t.cs == nil {
		return nil
	}
	if err := t.cs.Out(l); err != nil {
		return fmt.Errorf("axs15231: failed to drive CS: %w", err)
	}
	return nil
}

var _ Transport = &spiTransport{}
