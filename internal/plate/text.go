package plate

import "strings"

// AssembleText joins the row texts with a single space, in row order.
func AssembleText(rows []Row) string {
	parts := make([]string, len(rows))
	for i, r := range rows {
		parts[i] = r.Text()
	}
	return strings.Join(parts, " ")
}
