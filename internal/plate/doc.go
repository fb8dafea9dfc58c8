// Package plate holds the geometry and assembly steps that turn character
// detections on an aligned plate crop into plate text.
//
// The steps are:
//   - Remap: maps a character box from the fixed working image back into
//     frame coordinates.
//   - ResolveLayout: groups character boxes into rows and decides the reading
//     order, including two-row motorcycle plates.
//   - AssembleText: joins the row labels into the final plate string.
//
// Everything in this package is pure: inputs are never modified and the same
// input always yields the same output. Detector output reaches the package as
// Detection values; class indices are decoded through an Alphabet owned by
// the caller so the geometry stays independent of the symbol set.
package plate
