package entities

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	// CombinationLength is the number of symbols in a combination
	CombinationLength = 6

	// SymbolMin and SymbolMax bound each symbol value
	SymbolMin = 0
	SymbolMax = 9
)

// Combination is an ordered sequence of six symbols, each in [0,9].
// It marshals to a plain JSON array, which is the form that gets
// encrypted for storage.
type Combination [CombinationLength]int

// NewCombination builds a Combination from a raw slice, validating shape
// and range before any persistence happens.
func NewCombination(symbols []int) (Combination, error) {
	var c Combination
	if len(symbols) != CombinationLength {
		return c, fmt.Errorf("combination must have exactly %d symbols, got %d", CombinationLength, len(symbols))
	}
	for i, s := range symbols {
		if s < SymbolMin || s > SymbolMax {
			return c, fmt.Errorf("symbol at position %d out of range [%d,%d]: %d", i, SymbolMin, SymbolMax, s)
		}
		c[i] = s
	}
	return c, nil
}

// GenerateCombination produces a cryptographically random combination
func GenerateCombination() (Combination, error) {
	var c Combination
	max := big.NewInt(SymbolMax - SymbolMin + 1)
	for i := range c {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return c, fmt.Errorf("failed to generate combination symbol: %w", err)
		}
		c[i] = SymbolMin + int(n.Int64())
	}
	return c, nil
}

// Slice returns the combination as a plain int slice
func (c Combination) Slice() []int {
	out := make([]int, CombinationLength)
	copy(out, c[:])
	return out
}

// SymbolSet returns the distinct symbols of the combination.
// Duplicates within a combination count once for match purposes.
func (c Combination) SymbolSet() map[int]bool {
	set := make(map[int]bool, CombinationLength)
	for _, s := range c {
		set[s] = true
	}
	return set
}

// MatchCount returns the size of the set intersection with other
func (c Combination) MatchCount(other Combination) int {
	mine := c.SymbolSet()
	count := 0
	for s := range other.SymbolSet() {
		if mine[s] {
			count++
		}
	}
	return count
}
