//go:build gocv

package video

import (
	"fmt"
	"image"
	"io"

	"gocv.io/x/gocv"
)

// FileSource decodes a video file.
type FileSource struct {
	capture *gocv.VideoCapture
	frame   gocv.Mat
}

func openFile(path string) (Source, error) {
	capture, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open video: %w", err)
	}
	return &FileSource{capture: capture, frame: gocv.NewMat()}, nil
}

// Next decodes the next frame.
func (s *FileSource) Next() (image.Image, error) {
	if ok := s.capture.Read(&s.frame); !ok || s.frame.Empty() {
		return nil, io.EOF
	}
	img, err := s.frame.ToImage()
	if err != nil {
		return nil, fmt.Errorf("failed to convert frame: %w", err)
	}
	return img, nil
}

// Info reports the stream size and frame rate.
func (s *FileSource) Info() (Info, error) {
	fps := s.capture.Get(gocv.VideoCaptureFPS)
	if fps == 0 {
		fps = 25.0
	}
	return Info{
		Width:  int(s.capture.Get(gocv.VideoCaptureFrameWidth)),
		Height: int(s.capture.Get(gocv.VideoCaptureFrameHeight)),
		FPS:    fps,
	}, nil
}

// Close releases the decoder.
func (s *FileSource) Close() error {
	s.frame.Close()
	return s.capture.Close()
}

// FileSink encodes an mp4v video file.
type FileSink struct {
	writer *gocv.VideoWriter
}

func createFile(path string, info Info) (Sink, error) {
	fps := info.FPS
	if fps == 0 {
		fps = 25.0
	}
	writer, err := gocv.VideoWriterFile(path, "mp4v", fps, info.Width, info.Height, true)
	if err != nil {
		return nil, fmt.Errorf("failed to create video writer: %w", err)
	}
	return &FileSink{writer: writer}, nil
}

// Write encodes frame.
func (s *FileSink) Write(frame image.Image) error {
	mat, err := gocv.ImageToMatRGB(frame)
	if err != nil {
		return fmt.Errorf("failed to convert frame: %w", err)
	}
	defer mat.Close()
	return s.writer.Write(mat)
}

// Close finalises the file.
func (s *FileSink) Close() error {
	return s.writer.Close()
}
