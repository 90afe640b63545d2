package main

import (
	"errors"
)

var (
	// ErrSourceOpen is returned when a video path cannot be opened for decoding
	ErrSourceOpen = errors.New("unable to open video")
	// ErrStreamExhausted signals the normal end of a stream, not a failure
	ErrStreamExhausted = errors.New("stream exhausted")
)

// Frame is one decoded picture in the source's native BGR24 byte order
type Frame struct {
	Width  int
	Height int
	Pix    []byte // Width*Height*3 bytes, B G R per pixel
}

// Source is an open handle to a decodable video file yielding sequential frames
type Source interface {
	// FrameCount is the total number of frames, known once the source is open
	FrameCount() int
	// Position is the index of the next frame to be read (frames read so far)
	Position() int
	// Read decodes the next frame or returns ErrStreamExhausted at end of stream
	Read() (Frame, error)
	Close() error
}

// SourceOpener opens video files as Sources
type SourceOpener interface {
	Open(path string) (Source, error)
}
