package plate

import "sort"

// DefaultRowGap is the largest vertical distance, in pixels, between a box's
// top edge and its row anchor's top edge.
const DefaultRowGap = 50

// ResolveLayout groups character boxes into rows and returns them together
// with the flattened reading order.
//
// Boxes are sorted by top edge, then left edge. A single scan then assigns
// each box to the current row when its top edge is within gap of the row's
// first box, and otherwise starts a new row. Rows are ordered left to right.
//
// The flattened order is row 0 for a single-row plate and row 0 followed by
// row 1 otherwise. Rows past the second are returned in rows but not in the
// flattened order. A low first box can anchor a row on its own and split
// what should be one line.
//
// The input slice is not modified. Empty input returns (nil, nil).
func ResolveLayout(chars []CharacterBox, gap int) ([]CharacterBox, []Row) {
	if len(chars) == 0 {
		return nil, nil
	}

	sorted := append([]CharacterBox(nil), chars...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y1 != sorted[j].Y1 {
			return sorted[i].Y1 < sorted[j].Y1
		}
		return sorted[i].X1 < sorted[j].X1
	})

	var rows []Row
	current := Row{sorted[0]}
	for _, c := range sorted[1:] {
		if abs(c.Y1-current[0].Y1) <= gap {
			current = append(current, c)
			continue
		}
		rows = append(rows, closeRow(current))
		current = Row{c}
	}
	rows = append(rows, closeRow(current))

	var ordered []CharacterBox
	if len(rows) > 1 {
		ordered = make([]CharacterBox, 0, len(rows[0])+len(rows[1]))
		ordered = append(ordered, rows[0]...)
		ordered = append(ordered, rows[1]...)
	} else {
		ordered = append([]CharacterBox(nil), rows[0]...)
	}
	return ordered, rows
}

func closeRow(r Row) Row {
	sort.SliceStable(r, func(i, j int) bool { return r[i].X1 < r[j].X1 })
	return r
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
