package main

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	resampler "github.com/myriota/go-resampler"
)

// codec converts one complex sample to and from its little-endian wire form.
type codec[S any] interface {
	size() int
	decode(b []byte) S
	encode(b []byte, s S)
}

type complex128Codec struct{}

func (complex128Codec) size() int { return bytesPerComplex }

func (complex128Codec) decode(b []byte) complex128 {
	re := math.Float64frombits(binary.LittleEndian.Uint64(b))
	im := math.Float64frombits(binary.LittleEndian.Uint64(b[bytesPerFloat64:]))
	return complex(re, im)
}

func (complex128Codec) encode(b []byte, s complex128) {
	binary.LittleEndian.PutUint64(b, math.Float64bits(real(s)))
	binary.LittleEndian.PutUint64(b[bytesPerFloat64:], math.Float64bits(imag(s)))
}

type complex16Codec struct{}

func (complex16Codec) size() int { return bytesPerComplex16 }

func (complex16Codec) decode(b []byte) resampler.Complex16 {
	return resampler.Complex16{
		Re: int16(binary.LittleEndian.Uint16(b)),
		Im: int16(binary.LittleEndian.Uint16(b[bytesPerInt16:])),
	}
}

func (complex16Codec) encode(b []byte, s resampler.Complex16) {
	binary.LittleEndian.PutUint16(b, uint16(s.Re))
	binary.LittleEndian.PutUint16(b[bytesPerInt16:], uint16(s.Im))
}

type streamer[S any] interface {
	Process(input []S) ([]S, error)
	Flush() ([]S, error)
}

// pipe resamples everything read from in and writes it to out, returning
// the number of output samples. A trailing partial sample is ignored.
func pipe[S any](r streamer[S], c codec[S], in io.Reader, out io.Writer, flush bool) (int64, error) {
	br := bufio.NewReaderSize(in, readerBufferSize)
	bw := bufio.NewWriterSize(out, writerBufferSize)

	size := c.size()
	raw := make([]byte, chunkSamples*size)
	samples := make([]S, 0, chunkSamples)
	var written int64

	emit := func(ys []S) error {
		b := make([]byte, size)
		for _, y := range ys {
			c.encode(b, y)
			if _, err := bw.Write(b); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
		}
		written += int64(len(ys))
		return nil
	}

	for {
		k, readErr := io.ReadFull(br, raw)
		samples = samples[:0]
		for i := 0; i+size <= k; i += size {
			samples = append(samples, c.decode(raw[i:i+size]))
		}

		ys, err := r.Process(samples)
		if err != nil {
			return written, err
		}
		if err := emit(ys); err != nil {
			return written, err
		}

		if errors.Is(readErr, io.EOF) || errors.Is(readErr, io.ErrUnexpectedEOF) {
			break
		}
		if readErr != nil {
			return written, fmt.Errorf("read input: %w", readErr)
		}
	}

	if flush {
		ys, err := r.Flush()
		if err != nil {
			return written, err
		}
		if err := emit(ys); err != nil {
			return written, err
		}
	}

	if err := bw.Flush(); err != nil {
		return written, fmt.Errorf("write output: %w", err)
	}
	return written, nil
}

// writeTaps prints taps as a Verilog register array initializer.
func writeTaps(w io.Writer, name string, taps []int32) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "reg signed [15:0] %s [0:%d];\n", name, len(taps)-1)
	fmt.Fprintf(bw, "initial begin\n")
	for i, t := range taps {
		fmt.Fprintf(bw, "%s[%d] = %d;\n", name, i, t)
	}
	fmt.Fprintf(bw, "end\n")
	return bw.Flush()
}
