// Package simdops runs the complex-by-real dot products of the floating
// point datapath on the SIMD kernels of github.com/tphakala/simd.
//
// Complex samples are interleaved in memory, while the vector kernels work
// on contiguous float64 slices. Planar splits a window of complex samples
// into separate real and imaginary slices so that each component is a
// single f64.DotProductUnsafe call.
package simdops

import (
	"github.com/tphakala/simd/cpu"
	"github.com/tphakala/simd/f64"
)

// Planar is a reusable split-complex scratch buffer. It is not safe for
// concurrent use.
type Planar struct {
	re []float64
	im []float64
}

// NewPlanar returns a buffer that can load windows of up to capacity
// samples without reallocating.
func NewPlanar(capacity int) *Planar {
	return &Planar{
		re: make([]float64, 0, capacity),
		im: make([]float64, 0, capacity),
	}
}

// Load replaces the buffer contents with head followed by tail.
func (p *Planar) Load(head, tail []complex128) {
	p.re = p.re[:0]
	p.im = p.im[:0]
	for _, x := range head {
		p.re = append(p.re, real(x))
		p.im = append(p.im, imag(x))
	}
	for _, x := range tail {
		p.re = append(p.re, real(x))
		p.im = append(p.im, imag(x))
	}
}

// Len returns the number of loaded samples.
func (p *Planar) Len() int { return len(p.re) }

// Real returns the loaded real parts. The slice is reused by Load.
func (p *Planar) Real() []float64 { return p.re }

// Imag returns the loaded imaginary parts. The slice is reused by Load.
func (p *Planar) Imag() []float64 { return p.im }

// Dot returns the sum of x[i]*taps[i] over the loaded samples. taps must
// hold at least Len() values.
func (p *Planar) Dot(taps []float64) complex128 {
	n := len(p.re)
	if n == 0 {
		return 0
	}
	taps = taps[:n]
	return complex(f64.DotProductUnsafe(p.re, taps), f64.DotProductUnsafe(p.im, taps))
}

// Interleave writes the loaded samples to dst as I/Q pairs. dst must hold
// at least 2*Len() values.
func (p *Planar) Interleave(dst []float64) {
	f64.Interleave2(dst[:2*len(p.re)], p.re, p.im)
}

// Accelerated reports the instruction set used by the vector kernels, or
// "" when they fall back to scalar code.
func Accelerated() string {
	return cpu.Info()
}
