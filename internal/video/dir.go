package video

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/disintegration/imaging"
)

var frameExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
	".gif":  true,
}

func ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// DirSource reads every image in a directory in lexical name order.
type DirSource struct {
	paths []string
	next  int
}

// OpenDir lists the frames in dir.
func OpenDir(dir string) (*DirSource, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read frame directory: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !frameExtensions[ext(e.Name())] {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return &DirSource{paths: paths}, nil
}

// Len returns the number of frames.
func (s *DirSource) Len() int { return len(s.paths) }

// Next decodes the next frame.
func (s *DirSource) Next() (image.Image, error) {
	if s.next >= len(s.paths) {
		return nil, io.EOF
	}
	path := s.paths[s.next]
	s.next++

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to load frame %s: %w", path, err)
	}
	return img, nil
}

// Info reports the size of the first frame. FPS is unknown for still frames.
func (s *DirSource) Info() (Info, error) {
	if len(s.paths) == 0 {
		return Info{}, nil
	}
	f, err := os.Open(s.paths[0])
	if err != nil {
		return Info{}, err
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return Info{}, fmt.Errorf("failed to read frame header: %w", err)
	}
	return Info{Width: cfg.Width, Height: cfg.Height}, nil
}

// Close is a no-op.
func (s *DirSource) Close() error { return nil }

// DirSink writes frames as numbered PNG files.
type DirSink struct {
	dir   string
	count int
}

// CreateDir creates dir if needed.
func CreateDir(dir string) (*DirSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create frame directory: %w", err)
	}
	return &DirSink{dir: dir}, nil
}

// Write saves frame as frame_NNNNNN.png.
func (s *DirSink) Write(frame image.Image) error {
	path := filepath.Join(s.dir, fmt.Sprintf("frame_%06d.png", s.count))
	if err := imaging.Save(frame, path); err != nil {
		return fmt.Errorf("failed to save frame: %w", err)
	}
	s.count++
	return nil
}

// Count returns the number of frames written.
func (s *DirSink) Count() int { return s.count }

// Close is a no-op.
func (s *DirSink) Close() error { return nil }
