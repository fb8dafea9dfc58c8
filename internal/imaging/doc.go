// Package imaging provides the pixel-level operations used by the plate reader.
//
// This package implements the image primitives the alignment and recognition
// stages are built from: grayscale conversion, Gaussian smoothing, Canny edge
// detection, cropping, resizing and affine warping. All operations work with
// standard Go image.Image types and use a coordinate system where (0,0) is at
// the top-left corner, X increases rightward, and Y increases downward.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, (x1,y1) is inclusive (top-left), (x2,y2) is exclusive (bottom-right)
//
// Every function returns a freshly allocated image whose bounds start at (0,0),
// regardless of the bounds of its input. Inputs are never modified.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Individual image operations
// are stateless and can be called concurrently on different images.
//
// # Error Handling
//
// Functions return errors for invalid inputs such as:
//   - Regions that are empty after clipping to the image bounds
//   - Singular affine transforms
//   - File I/O errors during image loading
//   - Encoding errors during image output
package imaging
