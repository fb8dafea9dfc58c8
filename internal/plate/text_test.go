package plate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssembleTextSingleRow(t *testing.T) {
	rows := []Row{{char("A", 0, 0), char("B", 20, 0), char("1", 40, 0)}}
	assert.Equal(t, "AB1", AssembleText(rows))
}

func TestAssembleTextTwoRows(t *testing.T) {
	rows := []Row{
		{char("5", 0, 0), char("1", 20, 0)},
		{char("A", 0, 80), char("B", 20, 80), char("C", 40, 80)},
	}
	assert.Equal(t, "51 ABC", AssembleText(rows))
}

func TestAssembleTextEmpty(t *testing.T) {
	assert.Equal(t, "", AssembleText(nil))
}

func TestRowText(t *testing.T) {
	assert.Equal(t, "", Row(nil).Text())
	assert.Equal(t, "A7", Row{char("A", 0, 0), char("7", 20, 0)}.Text())
}

func TestAssembleTextDeterministic(t *testing.T) {
	rows := []Row{{char("9", 0, 0)}, {char("Z", 0, 80), char("0", 30, 80)}}
	assert.Equal(t, AssembleText(rows), AssembleText(rows))
}

func TestLayoutThenAssemble(t *testing.T) {
	chars := []CharacterBox{
		char("C", 60, 90), char("5", 0, 0), char("A", 0, 95),
		char("1", 30, 3), char("B", 30, 92),
	}

	_, rows := ResolveLayout(chars, DefaultRowGap)
	require.Len(t, rows, 2)
	assert.Equal(t, "51 ABC", AssembleText(rows))
}

func TestAlphabet(t *testing.T) {
	require.Equal(t, 36, DefaultAlphabet.Len())

	for class, want := range map[int]string{0: "0", 9: "9", 10: "A", 35: "Z"} {
		got, err := DefaultAlphabet.Lookup(class)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := DefaultAlphabet.Lookup(36)
	assert.ErrorIs(t, err, ErrDetectionUnavailable)
	_, err = DefaultAlphabet.Lookup(-1)
	assert.ErrorIs(t, err, ErrDetectionUnavailable)

	assert.Equal(t, 17, DefaultAlphabet.Index("H"))
	assert.Equal(t, -1, DefaultAlphabet.Index("a"))
}

func TestAlphabetIsImmutable(t *testing.T) {
	symbols := []string{"X", "Y"}
	a := NewAlphabet(symbols...)
	symbols[0] = "Q"

	got, err := a.Lookup(0)
	require.NoError(t, err)
	assert.Equal(t, "X", got)

	copied := a.Symbols()
	copied[1] = "Q"
	got, _ = a.Lookup(1)
	assert.Equal(t, "Y", got)
}
