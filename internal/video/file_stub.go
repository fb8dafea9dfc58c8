//go:build !gocv

package video

import "fmt"

func openFile(path string) (Source, error) {
	return nil, fmt.Errorf("%s: video files need a build with the gocv tag: %w", path, ErrUnsupported)
}

func createFile(path string, _ Info) (Sink, error) {
	return nil, fmt.Errorf("%s: video files need a build with the gocv tag: %w", path, ErrUnsupported)
}
