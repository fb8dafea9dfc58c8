package plate

import "fmt"

// Alphabet maps character detector class indices to symbols.
// It is immutable once created.
type Alphabet struct {
	symbols []string
}

// DefaultAlphabet is the 36-symbol table: classes 0-9 are the digits and
// classes 10-35 are the letters A-Z.
var DefaultAlphabet = NewAlphabet(
	"0", "1", "2", "3", "4", "5", "6", "7", "8", "9",
	"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L", "M",
	"N", "O", "P", "Q", "R", "S", "T", "U", "V", "W", "X", "Y", "Z",
)

// NewAlphabet builds an alphabet where class i decodes to symbols[i].
func NewAlphabet(symbols ...string) Alphabet {
	return Alphabet{symbols: append([]string(nil), symbols...)}
}

// Len returns the number of classes.
func (a Alphabet) Len() int { return len(a.symbols) }

// Symbols returns a copy of the symbol table.
func (a Alphabet) Symbols() []string { return append([]string(nil), a.symbols...) }

// Lookup decodes a class index.
func (a Alphabet) Lookup(class int) (string, error) {
	if class < 0 || class >= len(a.symbols) {
		return "", fmt.Errorf("class %d outside alphabet of %d symbols: %w", class, len(a.symbols), ErrDetectionUnavailable)
	}
	return a.symbols[class], nil
}

// Index returns the class of symbol, or -1 if it is not in the alphabet.
func (a Alphabet) Index(symbol string) int {
	for i, s := range a.symbols {
		if s == symbol {
			return i
		}
	}
	return -1
}
