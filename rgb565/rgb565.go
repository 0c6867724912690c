// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package rgb565 provides the big-endian 16 bit color format streamed to the
// AXS15231 panel.
//
// Image keeps its pixels in exactly the byte order the controller expects,
// so a frame prepared here can be handed to the driver without conversion.
package rgb565

import (
	"image"
	"image/color"
)

// Color is one RGB565 sample: 5 bits red, 6 bits green, 5 bits blue.
type Color uint16

// Common colors.
const (
	Black Color = 0x0000
	White Color = 0xFFFF
	Red   Color = 0xF800
	Green Color = 0x07E0
	Blue  Color = 0x001F
)

// New565 packs 8 bit channels into a Color.
func New565(r, g, b uint8) Color {
	return Color(r>>3)<<11 | Color(g>>2)<<5 | Color(b>>3)
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	// Replicate the high bits into the low ones so 0x1F maps to 0xFF.
	r8 := uint32(c>>11) & 0x1F
	r8 = r8<<3 | r8>>2
	g8 := uint32(c>>5) & 0x3F
	g8 = g8<<2 | g8>>4
	b8 := uint32(c) & 0x1F
	b8 = b8<<3 | b8>>2
	return r8<<8 | r8, g8<<8 | g8, b8<<8 | b8, 0xFFFF
}

func toColor(c color.Color) color.Color {
	if _, ok := c.(Color); ok {
		return c
	}
	r, g, b, _ := c.RGBA()
	return New565(uint8(r>>8), uint8(g>>8), uint8(b>>8))
}

// Model converts any color.Color to Color.
var Model = color.ModelFunc(toColor)

// Image is an in-memory RGB565 frame with 2 bytes per pixel, big-endian,
// rows packed back to back. Pix is in wire order: it can be passed to
// Dev.StreamPixels as-is.
type Image struct {
	// Pix holds the pixels, in wire order. Pix[o] is the high byte of the
	// pixel at PixOffset(x, y).
	Pix []byte
	// Stride is the distance in bytes between vertically adjacent pixels.
	Stride int
	// Rect is the bounds.
	Rect image.Rectangle
}

// New returns an initialized (zeroed, i.e. black) Image.
func New(r image.Rectangle) *Image {
	w, h := r.Dx(), r.Dy()
	if w < 0 || h < 0 {
		return &Image{Rect: r}
	}
	return &Image{
		Pix:    make([]byte, 2*w*h),
		Stride: 2 * w,
		Rect:   r,
	}
}

// ColorModel implements image.Image.
func (i *Image) ColorModel() color.Model {
	return Model
}

// Bounds implements image.Image.
func (i *Image) Bounds() image.Rectangle {
	return i.Rect
}

// At implements image.Image.
func (i *Image) At(x, y int) color.Color {
	return i.RGB565At(x, y)
}

// RGB565At returns the sample at (x, y).
func (i *Image) RGB565At(x, y int) Color {
	if !(image.Point{X: x, Y: y}.In(i.Rect)) {
		return Black
	}
	o := i.PixOffset(x, y)
	return Color(i.Pix[o])<<8 | Color(i.Pix[o+1])
}

// Set implements draw.Image.
func (i *Image) Set(x, y int, c color.Color) {
	i.SetRGB565(x, y, Model.Convert(c).(Color))
}

// SetRGB565 sets the sample at (x, y).
func (i *Image) SetRGB565(x, y int, c Color) {
	if !(image.Point{X: x, Y: y}.In(i.Rect)) {
		return
	}
	o := i.PixOffset(x, y)
	i.Pix[o] = byte(c >> 8)
	i.Pix[o+1] = byte(c)
}

// PixOffset returns the index into Pix of the first byte of the pixel at
// (x, y).
func (i *Image) PixOffset(x, y int) int {
	return (y-i.Rect.Min.Y)*i.Stride + (x-i.Rect.Min.X)*2
}

var _ image.Image = &Image{}
