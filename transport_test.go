// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package axs15231

import (
	"bytes"
	"testing"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi/spitest"
)

func TestSPITransportWire(t *testing.T) {
	rec := &spitest.Record{}
	cs := &gpiotest.Pin{N: "CS"}
	tr, err := newSPITransport(rec, cs, 10*physic.MegaHertz)
	if err != nil {
		t.Fatalf("newSPITransport() = %v", err)
	}
	if cs.L != gpio.High {
		t.Error("CS not deasserted after connect")
	}

	err = tr.Tx(&Transaction{
		Opcode:  OpCommand,
		Address: uint32(cmdColumnAddr) << 8,
		Mode:    SingleLine,
		Data:    []byte{0x00, 0x00, 0x01, 0xDF},
	})
	if err != nil {
		t.Fatalf("Tx() = %v", err)
	}
	if len(rec.Ops) != 1 {
		t.Fatalf("got %d bus operations, want 1", len(rec.Ops))
	}
	want := []byte{0x02, 0x00, 0x2A, 0x00, 0x00, 0x00, 0x01, 0xDF}
	if !bytes.Equal(rec.Ops[0].W, want) {
		t.Errorf("wire bytes = %#v, want %#v", rec.Ops[0].W, want)
	}
	if cs.L != gpio.High {
		t.Error("CS left asserted after a framed transaction")
	}
}

func TestSPITransportHeldCS(t *testing.T) {
	rec := &spitest.Record{}
	cs := &gpiotest.Pin{N: "CS"}
	tr, err := newSPITransport(rec, cs, 10*physic.MegaHertz)
	if err != nil {
		t.Fatal(err)
	}

	if err := tr.Tx(&Transaction{
		Opcode:  OpPixelWrite,
		Address: MarkerStart,
		Mode:    QuadLine,
		Data:    []byte{0xF8, 0x00},
		HoldCS:  true,
	}); err != nil {
		t.Fatal(err)
	}
	if cs.L != gpio.Low {
		t.Error("CS released despite HoldCS")
	}

	if err := tr.Tx(&Transaction{
		Mode:     QuadLine,
		Data:     []byte{0xF8, 0x00},
		NoHeader: true,
	}); err != nil {
		t.Fatal(err)
	}
	if cs.L != gpio.High {
		t.Error("CS not released at the end of the held session")
	}

	if len(rec.Ops) != 2 {
		t.Fatalf("got %d bus operations, want 2", len(rec.Ops))
	}
	if want := []byte{0x32, 0x00, 0x2C, 0x00, 0xF8, 0x00}; !bytes.Equal(rec.Ops[0].W, want) {
		t.Errorf("first op = %#v, want %#v", rec.Ops[0].W, want)
	}
	if want := []byte{0xF8, 0x00}; !bytes.Equal(rec.Ops[1].W, want) {
		t.Errorf("continuation op = %#v, want header-less %#v", rec.Ops[1].W, want)
	}
}

func TestSPITransportOverflow(t *testing.T) {
	rec := &spitest.Record{}
	tr, err := newSPITransport(rec, nil, 10*physic.MegaHertz)
	if err != nil {
		t.Fatal(err)
	}
	if err := tr.Tx(&Transaction{
		Opcode:  OpPixelWrite,
		Address: MarkerStart,
		Mode:    QuadLine,
		Data:    make([]byte, tr.MaxTxSize()+1),
	}); err == nil {
		t.Error("oversized transaction accepted")
	}
	if len(rec.Ops) != 0 {
		t.Error("oversized transaction reached the bus")
	}
}

func TestSPITransportMaxTxSize(t *testing.T) {
	tr, err := newSPITransport(&spitest.Record{}, nil, 10*physic.MegaHertz)
	if err != nil {
		t.Fatal(err)
	}
	if tr.MaxTxSize() <= 0 || tr.MaxTxSize() > defaultTxSize {
		t.Errorf("MaxTxSize() = %d, want within (0, %d]", tr.MaxTxSize(), defaultTxSize)
	}
}
