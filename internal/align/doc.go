// Package align estimates and corrects the in-plane rotation of a plate crop.
//
// The estimate comes from the straight edges of the plate: the border and the
// top and bottom of the characters. Edges are found with Canny, turned into
// segments with the probabilistic Hough transform and split into a
// near-horizontal and a near-vertical bucket. The median of the horizontal
// bucket, clamped to ±15°, is the correction angle.
//
// Angles use image coordinates (Y down): a plate whose baseline descends to
// the right gives a positive angle, and rotating by that angle (counter-
// clockwise as displayed) brings it upright.
package align
