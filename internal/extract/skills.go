package extract

import (
	"regexp"
	"sort"
	"strings"
)

// skillAliases maps common spellings to one canonical skill name. Keys and
// values are lower-case; values may span several words.
var skillAliases = map[string]string{
	"reactjs":  "react",
	"react.js": "react",
	"js":       "javascript",
	"es6":      "javascript",
	"ts":       "typescript",
	"node.js":  "nodejs",
	"node":     "nodejs",
	"golang":   "go",
	"py":       "python",
	"python3":  "python",
	"cpp":      "c++",
	"cc++":     "c++",
	"html5":    "html",
	"css3":     "css",
	"postgres": "postgresql",
	"psql":     "postgresql",
	"mongo":    "mongodb",
	"k8s":      "kubernetes",
	"ml":       "machine learning",
	"ai":       "artificial intelligence",
	"nlp":      "natural language processing",
	"dsa":      "data structures",
	"vue.js":   "vue",
	"vuejs":    "vue",
	"next.js":  "nextjs",

	"amazon web services": "aws",
}

// phraseAliases rewrites multi-word spellings in free text before it is
// split into terms.
var phraseAliases = []struct {
	re   *regexp.Regexp
	with string
}{
	{regexp.MustCompile(`\breact\s+js\b`), "react"},
	{regexp.MustCompile(`\bnode\s+js\b`), "nodejs"},
	{regexp.MustCompile(`\bjava\s+script\b`), "javascript"},
	{regexp.MustCompile(`\bamazon\s+web\s+services\b`), "aws"},
	{regexp.MustCompile(`\bdata\s+structures\s+(?:and\s+|&\s*)?algorithms\b`), "data structures"},
}

// NormalizeSkill returns the canonical lower-case form of one skill name,
// ex: "ReactJS" -> "react", "ML" -> "machine learning".
func NormalizeSkill(skill string) string {
	s := strings.Join(strings.Fields(strings.ToLower(skill)), " ")
	s = strings.TrimRight(s, ",;:")
	if canon, ok := skillAliases[s]; ok {
		return canon
	}
	return s
}

// NormalizeTerms canonicalizes each term and splits multi-word skills into
// their words. The result is sorted, de-duplicated and capped at MaxKeywords.
func NormalizeTerms(terms []string) []string {
	seen := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		for _, word := range strings.Fields(NormalizeSkill(t)) {
			seen[word] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for w := range seen {
		out = append(out, w)
	}
	sort.Strings(out)
	if len(out) > MaxKeywords {
		out = out[:MaxKeywords]
	}
	return out
}

// SkillTerms returns the canonical terms a job skill requires a résumé to
// contain.
func SkillTerms(skill string) []string {
	return NormalizeTerms(Tokenize(NormalizeSkill(skill)))
}

// NormalizeText lower-cases text and rewrites multi-word skill spellings.
func NormalizeText(text string) string {
	out := strings.ToLower(text)
	for _, p := range phraseAliases {
		out = p.re.ReplaceAllString(out, p.with)
	}
	return out
}

// KeywordSet normalizes terms into a lookup set.
func KeywordSet(terms []string) map[string]struct{} {
	normalized := NormalizeTerms(terms)
	set := make(map[string]struct{}, len(normalized))
	for _, t := range normalized {
		set[t] = struct{}{}
	}
	return set
}

// Covers reports whether every term of skill appears in keywords.
func Covers(keywords map[string]struct{}, skill string) bool {
	terms := SkillTerms(skill)
	if len(terms) == 0 {
		return false
	}
	for _, t := range terms {
		if _, ok := keywords[t]; !ok {
			return false
		}
	}
	return true
}
