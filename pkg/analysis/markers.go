package analysis

import "fmt"

// markerSymbols is the fixed marker alphabet: Greek lowercase, Greek
// uppercase, Latin lowercase, digits. 84 symbols total.
var markerSymbols = buildMarkerSymbols()

func buildMarkerSymbols() []string {
	var symbols []string
	for r := 'α'; r <= 'ω'; r++ {
		if r == 'ς' { // final sigma, visually ambiguous with σ
			continue
		}
		symbols = append(symbols, string(r))
	}
	for r := 'Α'; r <= 'Ω'; r++ {
		if r == 0x03A2 { // reserved code point between Ρ and Σ
			continue
		}
		symbols = append(symbols, string(r))
	}
	for r := 'a'; r <= 'z'; r++ {
		symbols = append(symbols, string(r))
	}
	for r := '0'; r <= '9'; r++ {
		symbols = append(symbols, string(r))
	}
	return symbols
}

// MarkerAlphabetError reports more frequent targets than available marker
// symbols. Ambiguous markers would mis-render the graph, so the run aborts.
type MarkerAlphabetError struct {
	Size int
}

func (e *MarkerAlphabetError) Error() string {
	return fmt.Sprintf("marker alphabet exhausted: more than %d frequent targets", e.Size)
}

// MarkerAlphabet hands out marker symbols in a fixed order. It is plain
// local state passed into the detector, not package state; each run gets its
// own counter.
type MarkerAlphabet struct {
	next int
}

// NewMarkerAlphabet returns a fresh alphabet with all symbols available.
func NewMarkerAlphabet() *MarkerAlphabet {
	return &MarkerAlphabet{}
}

// Next returns the next unused symbol, or MarkerAlphabetError once the
// alphabet is exhausted.
func (a *MarkerAlphabet) Next() (string, error) {
	if a.next >= len(markerSymbols) {
		return "", &MarkerAlphabetError{Size: len(markerSymbols)}
	}
	symbol := markerSymbols[a.next]
	a.next++
	return symbol, nil
}

// Remaining returns the number of unused symbols.
func (a *MarkerAlphabet) Remaining() int {
	return len(markerSymbols) - a.next
}

// Size returns the total alphabet size.
func (a *MarkerAlphabet) Size() int {
	return len(markerSymbols)
}
