// Package video reads input frames and writes annotated output frames.
//
// A source is either a directory of still images, read in name order, or a
// video file when built with the gocv tag. Sinks mirror the sources.
package video

import (
	"errors"
	"fmt"
	"image"
	"io"
	"os"
)

// ErrUnsupported is returned when a source or sink kind is not compiled in.
var ErrUnsupported = errors.New("unsupported video source")

// Source yields frames in order. Next returns io.EOF after the last frame.
type Source interface {
	Next() (image.Image, error)
	Info() (Info, error)
	io.Closer
}

// Sink consumes frames in order.
type Sink interface {
	Write(frame image.Image) error
	io.Closer
}

// Info describes a source's stream.
type Info struct {
	Width  int
	Height int
	FPS    float64
}

// OpenSource opens a directory of frames or a video file.
func OpenSource(path string) (Source, error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open video source: %w", err)
	}
	if st.IsDir() {
		return OpenDir(path)
	}
	return openFile(path)
}

// CreateSink creates an output for frames shaped like info. Paths with a video
// extension become video files, everything else a directory of frames.
func CreateSink(path string, info Info) (Sink, error) {
	if isVideoFile(path) {
		return createFile(path, info)
	}
	return CreateDir(path)
}

func isVideoFile(path string) bool {
	switch ext(path) {
	case ".mp4", ".avi", ".mkv", ".mov":
		return true
	}
	return false
}
