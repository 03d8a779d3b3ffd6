package main

// Default command-line flag values
const (
	defaultWindow = 30.0 // kernel half-width
	chunkSamples  = 4096 // complex samples per read
)

// Wire sizes in bytes
const (
	bytesPerFloat64   = 8
	bytesPerInt16     = 2
	bytesPerComplex   = 2 * bytesPerFloat64
	bytesPerComplex16 = 2 * bytesPerInt16
)

// I/O buffer sizes
const (
	readerBufferSize = 64 * 1024
	writerBufferSize = 64 * 1024
)
