package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/ironsheep/plate-reader/internal/render"
	"github.com/ironsheep/plate-reader/internal/results"
	"github.com/ironsheep/plate-reader/internal/video"
)

// Stats summarises a run.
type Stats struct {
	Frames       int
	FailedFrames int
	Plates       int
}

// Processor runs a Reader over every frame of a source.
type Processor struct {
	Log     Logger
	Reader  *Reader
	Results results.Sink

	// Output receives annotated frames. It may be nil.
	Output video.Sink
	Style  render.Style
}

// Run processes src until it is exhausted or ctx is cancelled.
//
// A frame whose plate detection fails is logged, counted in FailedFrames and
// written to Output unannotated. Errors from the source or the sinks stop the run.
func (p *Processor) Run(ctx context.Context, src video.Source) (Stats, error) {
	var stats Stats

	for index := 0; ; index++ {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		frame, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return stats, fmt.Errorf("failed to read frame %d: %w", index, err)
		}
		stats.Frames++

		readings, err := p.Reader.ReadFrame(frame)
		if err != nil {
			p.Log.Errorf("Frame %d: %v", index, err)
			stats.FailedFrames++
		}

		for _, r := range readings {
			rec := results.Record{FrameIndex: index, PlateText: r.Text, Confidence: r.Confidence}
			if err := p.Results.Write(rec); err != nil {
				return stats, fmt.Errorf("failed to write result for frame %d: %w", index, err)
			}
			p.Log.Debugf("Frame %d: plate %q (%.2f)", index, r.Text, r.Confidence)
		}
		stats.Plates += len(readings)

		if p.Output != nil {
			if err := p.Output.Write(render.Annotate(frame, readings, p.Style)); err != nil {
				return stats, fmt.Errorf("failed to write frame %d: %w", index, err)
			}
		}
	}

	p.Log.Infof("Processed %d frames, %d plates, %d failed frames", stats.Frames, stats.Plates, stats.FailedFrames)
	return stats, nil
}
