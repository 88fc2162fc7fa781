package bwt

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// Symbol codes in lexicographic rank order. The terminator always sorts first,
// whatever its byte value, so the C array is built over codes rather than raw
// bytes. N keeps a slot on the 4-letter path too; it just never occurs there.
const (
	symTERM = iota
	symA
	symC
	symG
	symN
	symT
	numSym
)

var symName = [numSym]string{"TERM", "A", "C", "G", "N", "T"}

// CheckTerm rejects terminator bytes that collide with the DNA alphabet.
func CheckTerm(term byte) error {
	switch term {
	case 'A', 'C', 'G', 'T', 'N':
		return fmt.Errorf("invalid terminator '%c': cannot be one of A, C, G, T, N", term)
	}
	return nil
}

// HasN reports whether the BWT file at path contains the symbol 'N'.
// Either input containing 'N' selects the 5-letter alphabet.
func HasN(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("scanning %s: %w", path, err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	for {
		c, err := r.ReadByte()
		if err == io.EOF {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("scanning %s: %w", path, err)
		}
		if c == 'N' {
			return true, nil
		}
	}
}

// codeTable maps BWT bytes to symbol codes; unknown bytes map to -1.
func codeTable(term byte) [256]int8 {
	var t [256]int8
	for i := range t {
		t[i] = -1
	}
	t[term] = symTERM
	t['A'] = symA
	t['C'] = symC
	t['G'] = symG
	t['N'] = symN
	t['T'] = symT
	return t
}
