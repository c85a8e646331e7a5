package base83

import (
	"errors"
	"strings"
	"testing"
)

func TestAlphabetSize(t *testing.T) {
	if len(Alphabet) != 83 {
		t.Fatalf("alphabet has %d characters, want 83", len(Alphabet))
	}
	seen := map[byte]bool{}
	for i := 0; i < len(Alphabet); i++ {
		if seen[Alphabet[i]] {
			t.Fatalf("duplicate character %q", Alphabet[i])
		}
		seen[Alphabet[i]] = true
	}
}

func TestEncode_Known(t *testing.T) {
	cases := []struct {
		value, length int
		want          string
	}{
		{0, 1, "0"},
		{82, 1, "~"},
		{83, 2, "10"},
		{21, 1, "L"},
		{0xFF0000, 4, "TI:j"},
		{9934485, 4, "HV6n"},
		{6888, 2, "~~"},
		{0, 4, "0000"},
	}
	for _, c := range cases {
		if got := Encode(c.value, c.length); got != c.want {
			t.Errorf("Encode(%d, %d) = %q, want %q", c.value, c.length, got, c.want)
		}
	}
}

func TestDecode_Known(t *testing.T) {
	cases := map[string]int{
		"0":    0,
		"~":    82,
		"L":    21,
		"HV6n": 9934485,
		"TI:j": 0xFF0000,
		"~~":   6888,
	}
	for s, want := range cases {
		got, err := Decode(s)
		if err != nil {
			t.Fatalf("Decode(%q): %v", s, err)
		}
		if got != want {
			t.Errorf("Decode(%q) = %d, want %d", s, got, want)
		}
	}
}

func TestRoundtrip_AllLengths(t *testing.T) {
	limit := 1
	for length := 1; length <= 4; length++ {
		limit *= 83
		for _, v := range []int{0, 1, limit / 3, limit / 2, limit - 1} {
			s := Encode(v, length)
			if len(s) != length {
				t.Fatalf("Encode(%d, %d) length %d", v, length, len(s))
			}
			got, err := Decode(s)
			if err != nil {
				t.Fatalf("Decode(%q): %v", s, err)
			}
			if got != v {
				t.Errorf("length %d: %d -> %q -> %d", length, v, s, got)
			}
		}
	}
}

func TestEncode_OutputInAlphabet(t *testing.T) {
	for v := 0; v < 83*83; v += 7 {
		for _, c := range Encode(v, 2) {
			if !strings.ContainsRune(Alphabet, c) {
				t.Fatalf("Encode(%d, 2) produced %q outside the alphabet", v, c)
			}
		}
	}
}

func TestAppendEncode_KeepsPrefix(t *testing.T) {
	got := string(AppendEncode([]byte("ab"), 83, 2))
	if got != "ab10" {
		t.Errorf("got %q, want %q", got, "ab10")
	}
}

func TestDecode_InvalidCharacter(t *testing.T) {
	for _, s := range []string{"!", "ab\"", " ", "LEHV/", "é", "\x00"} {
		_, err := Decode(s)
		if !errors.Is(err, ErrInvalidCharacter) {
			t.Errorf("Decode(%q): got %v, want ErrInvalidCharacter", s, err)
		}
	}
}

func TestIndexInvalid(t *testing.T) {
	cases := map[string]int{
		"":       -1,
		"00TI:j": -1,
		Alphabet: -1,
		"!":      0,
		"ab\"c":   2,
		"LEHV/":  4,
	}
	for s, want := range cases {
		if got := IndexInvalid(s); got != want {
			t.Errorf("IndexInvalid(%q) = %d, want %d", s, got, want)
		}
	}
}
