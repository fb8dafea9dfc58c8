// Package detection finds geometric structure in edge maps.
//
// The plate aligner needs the dominant direction of the straight edges in a
// plate crop: the plate border, the character baseline and the top of the
// characters. HoughLinesP finds those edges as finite segments using the
// progressive probabilistic Hough transform.
//
// FindRectangles traces closed contours instead and reports the boxes that
// look like outlines. The contour plate detector uses it to propose plate
// regions without a model.
//
// # Hough Pipeline
//
//  1. Edge Detection: done by the caller (see imaging.Canny)
//  2. Voting: edge pixels vote in a (rho, theta) accumulator in random order
//  3. Tracing: strong lines are walked pixel by pixel to find their endpoints
//  4. Filtering: spans shorter than the minimum length are discarded
//
// # Coordinate System
//
// All coordinates use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//
// Angles follow the same convention: atan2(dy, dx) in degrees, so a segment
// that descends to the right has a positive angle.
//
// # Performance Considerations
//
// Every visited edge pixel votes for all accumulator angles, so the cost is
// O(edges × angles). Plate crops are small, which keeps this well below the
// cost of the detectors that surround it.
package detection
