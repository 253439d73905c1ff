// Package moderation masks forbidden words in chat messages before they
// are persisted.
package moderation

import (
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
)

// Censor matches a configured word list against message bodies using an
// Aho-Corasick automaton and masks every hit with the replacement rune.
// Matching is case-insensitive and skips punctuation and whitespace, so
// "b a d-word" is still caught; the original spacing of the message is
// preserved in the output.
type Censor struct {
	machine *goahocorasick.Machine
	mask    rune
}

// charMap tracks, for every rune kept in the normalized text, its index
// in the original message.
type charMap struct {
	normalized []rune
	origIdx    []int
}

func NewCensor(words []string, mask rune) (*Censor, error) {
	if len(words) == 0 {
		// No dictionary, nothing to mask.
		return &Censor{mask: mask}, nil
	}

	patterns := make([][]rune, len(words))
	for i, word := range words {
		patterns[i] = normalize([]rune(word))
	}

	machine := new(goahocorasick.Machine)
	if err := machine.Build(patterns); err != nil {
		return nil, err
	}
	return &Censor{machine: machine, mask: mask}, nil
}

// Apply returns the message with every forbidden word masked. Messages
// without a match are returned unchanged.
func (c *Censor) Apply(message string) string {
	if c.machine == nil {
		return message
	}

	mapping := c.mapRunes(message)
	if len(mapping.normalized) == 0 {
		return message
	}

	hits := c.machine.MultiPatternSearch(mapping.normalized, false)
	if len(hits) == 0 {
		return message
	}

	runes := []rune(message)
	for _, hit := range hits {
		start := hit.Pos
		end := start + len(hit.Word)
		if start < 0 || end > len(mapping.origIdx) {
			continue
		}

		first := mapping.origIdx[start]
		last := mapping.origIdx[end-1]
		for i := first; i <= last; i++ {
			runes[i] = c.mask
		}
	}
	return string(runes)
}

func (c *Censor) mapRunes(message string) charMap {
	runes := []rune(message)
	mapping := charMap{
		normalized: make([]rune, 0, len(runes)),
		origIdx:    make([]int, 0, len(runes)),
	}
	for i, r := range runes {
		if isNoise(r) {
			continue
		}
		mapping.normalized = append(mapping.normalized, unicode.ToLower(r))
		mapping.origIdx = append(mapping.origIdx, i)
	}
	return mapping
}

func normalize(input []rune) []rune {
	out := make([]rune, 0, len(input))
	for _, r := range input {
		if isNoise(r) {
			continue
		}
		out = append(out, unicode.ToLower(r))
	}
	return out
}

func isNoise(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r)
}
