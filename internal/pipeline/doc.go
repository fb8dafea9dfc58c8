// Package pipeline reads plates frame by frame.
//
// Reader turns one frame into plate readings: plate detection, crop,
// alignment, resize to the working size, character detection, remap to frame
// coordinates, row layout and text assembly. Processor drives a Reader over a
// video source and writes results and annotated frames.
//
// Processing is sequential. A frame is finished before the next one starts and
// nothing is carried from one frame or plate to the next.
package pipeline
