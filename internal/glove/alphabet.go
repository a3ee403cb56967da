package glove

import (
	"fmt"
	"strings"
)

// DefaultLetters are the static gestures the bundled model recognizes.
// Letters needing motion, like J and Z, are not in the set.
const DefaultLetters = "ABCDEFIKLMOUVWY"

// Alphabet is the set of letters the recognizer supports.
type Alphabet struct {
	letters map[rune]bool
	ordered string
}

// NewAlphabet builds an alphabet from a string of letters. Case and
// duplicates are ignored, an empty input falls back to DefaultLetters.
func NewAlphabet(letters string) Alphabet {
	if letters == "" {
		letters = DefaultLetters
	}
	res := Alphabet{letters: map[rune]bool{}}
	sb := strings.Builder{}
	for _, r := range strings.ToUpper(letters) {
		if r < 'A' || r > 'Z' || res.letters[r] {
			continue
		}
		res.letters[r] = true
		sb.WriteRune(r)
	}
	res.ordered = sb.String()
	return res
}

// Contains reports whether the letter is recognizable.
func (a Alphabet) Contains(r rune) bool {
	return a.letters[r]
}

// Filter uppercases the word and splits it into supported letters and the
// distinct unsupported ones in input order.
func (a Alphabet) Filter(word string) ([]rune, []rune) {
	var ok, bad []rune
	seen := map[rune]bool{}
	for _, r := range strings.ToUpper(strings.TrimSpace(word)) {
		if a.letters[r] {
			ok = append(ok, r)
			continue
		}
		if r == ' ' {
			continue
		}
		if !seen[r] {
			seen[r] = true
			bad = append(bad, r)
		}
	}
	return ok, bad
}

// Validate checks that the word has at least one supported letter.
func (a Alphabet) Validate(word string) ([]rune, error) {
	ok, bad := a.Filter(word)
	if len(ok) == 0 {
		return nil, fmt.Errorf("no supported letters in %q, unsupported: %s", word, string(bad))
	}
	return ok, nil
}

func (a Alphabet) String() string {
	return a.ordered
}
