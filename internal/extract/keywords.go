package extract

import (
	"context"
	"sort"
	"strings"
	"unicode"
)

// MaxKeywords caps the keyword set stored on a résumé.
const MaxKeywords = 200

// Tokenize splits text into the sorted, de-duplicated set of lower-case
// terms. Terms keep letters, digits and the '+', '#' and '.' runes so that
// skills like "c++", "c#" and "node.js" survive. Single-rune terms are dropped.
func Tokenize(text string) []string {
	seen := make(map[string]struct{})
	var cur strings.Builder
	flush := func() {
		term := strings.Trim(cur.String(), ".")
		cur.Reset()
		if len([]rune(term)) < 2 {
			return
		}
		seen[term] = struct{}{}
	}
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '+' || r == '#' || r == '.' {
			cur.WriteRune(r)
			continue
		}
		flush()
	}
	flush()

	out := make([]string, 0, len(seen))
	for term := range seen {
		out = append(out, term)
	}
	sort.Strings(out)
	if len(out) > MaxKeywords {
		out = out[:MaxKeywords]
	}
	return out
}

// Keywords extracts the keyword set of a résumé file with skill spellings
// normalized, ex: "ReactJS" and "React.js" both yield "react".
func Keywords(ctx context.Context, data []byte, fileType string) ([]string, error) {
	text, err := ExtractTextFromBytes(ctx, data, fileType)
	if err != nil {
		return nil, err
	}
	return NormalizeTerms(Tokenize(NormalizeText(text))), nil
}
