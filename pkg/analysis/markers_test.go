package analysis

import (
	"errors"
	"testing"
)

func TestMarkerAlphabetSize(t *testing.T) {
	a := NewMarkerAlphabet()

	if a.Size() != 84 {
		t.Errorf("Size() = %d, want 84", a.Size())
	}
	if a.Remaining() != 84 {
		t.Errorf("Remaining() = %d, want 84", a.Remaining())
	}
}

func TestMarkerSymbolsOrderAndUniqueness(t *testing.T) {
	a := NewMarkerAlphabet()

	seen := make(map[string]bool)
	var symbols []string
	for {
		symbol, err := a.Next()
		if err != nil {
			break
		}
		if seen[symbol] {
			t.Errorf("Duplicate symbol '%s'", symbol)
		}
		seen[symbol] = true
		symbols = append(symbols, symbol)
	}

	if len(symbols) != 84 {
		t.Fatalf("Expected 84 symbols, got %d", len(symbols))
	}
	if symbols[0] != "α" {
		t.Errorf("Expected first symbol 'α', got '%s'", symbols[0])
	}
	if symbols[83] != "9" {
		t.Errorf("Expected last symbol '9', got '%s'", symbols[83])
	}
	if seen["ς"] {
		t.Error("Final sigma must not be in the alphabet")
	}
	if seen[string(rune(0x03A2))] {
		t.Error("Reserved code point must not be in the alphabet")
	}
}

func TestMarkerAlphabetExhaustion(t *testing.T) {
	a := NewMarkerAlphabet()
	for i := 0; i < 84; i++ {
		if _, err := a.Next(); err != nil {
			t.Fatalf("Next() #%d error = %v", i, err)
		}
	}

	_, err := a.Next()
	var exhausted *MarkerAlphabetError
	if !errors.As(err, &exhausted) {
		t.Fatalf("Expected MarkerAlphabetError, got %v", err)
	}
	if exhausted.Size != 84 {
		t.Errorf("Expected size 84 in error, got %d", exhausted.Size)
	}
}
