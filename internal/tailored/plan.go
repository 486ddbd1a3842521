package tailored

import (
	"fmt"
	"strings"
	"unicode"

	"jobassist-backend/internal/extract"
	"jobassist-backend/internal/jobs"
	"jobassist-backend/internal/resumes"
	"jobassist-backend/internal/tailored/render"
)

// MaxEmphasis caps how many matched skills are set in bold.
const MaxEmphasis = 3

// maxHeadingLen is the longest all-caps line still treated as a section heading.
const maxHeadingLen = 50

// Plan is the deterministic layout of one tailored résumé.
type Plan struct {
	Matched  []string
	Missing  []string
	Emphasis []string
	Source   Source
	Document render.Document
}

// BuildPlan lays out a résumé for job from the snapshot and, when available,
// the text of the original file. The same inputs always yield the same plan.
func BuildPlan(snapshot resumes.Resume, job jobs.Job, text string) Plan {
	keywords := extract.KeywordSet(snapshot.Keywords)
	if strings.TrimSpace(text) != "" {
		for k := range extract.KeywordSet(extract.Tokenize(extract.NormalizeText(text))) {
			keywords[k] = struct{}{}
		}
	}

	p := Plan{Matched: []string{}, Missing: []string{}, Source: SourceKeywords}
	for _, skill := range job.Skills {
		if extract.Covers(keywords, skill) {
			p.Matched = append(p.Matched, skill)
		} else {
			p.Missing = append(p.Missing, skill)
		}
	}
	p.Emphasis = p.Matched[:min(len(p.Matched), MaxEmphasis)]

	paras := []render.Paragraph{
		render.Text(render.StyleTitle, fmt.Sprintf("Résumé for %s, %s", job.Title, job.Company)),
		render.Text(render.StyleHeading, "PROFILE"),
		render.Text(render.StyleNormal, summary(job, p.Emphasis)),
	}
	if len(p.Matched) > 0 {
		paras = append(paras, render.Text(render.StyleHeading, "KEY SKILLS"), skillLine(p.Matched))
	}

	body := bodyParagraphs(text)
	if len(body) > 0 {
		p.Source = SourceFile
		paras = append(paras, body...)
	} else if len(snapshot.Keywords) > 0 {
		paras = append(paras,
			render.Text(render.StyleHeading, "EXPERIENCE KEYWORDS"),
			render.Text(render.StyleNormal, strings.Join(snapshot.Keywords, ", ")),
		)
	}
	p.Document = render.Document{Paragraphs: paras}
	return p
}

func summary(job jobs.Job, emphasis []string) string {
	s := fmt.Sprintf("Applying for the %s role at %s", job.Title, job.Company)
	if len(emphasis) == 0 {
		return s + "."
	}
	return s + ", bringing hands-on experience with " + joinList(emphasis) + "."
}

// joinList renders "A", "A and B" or "A, B and C".
func joinList(items []string) string {
	if len(items) == 1 {
		return items[0]
	}
	return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
}

func skillLine(matched []string) render.Paragraph {
	runs := make([]render.Run, 0, 2*len(matched))
	for i, skill := range matched {
		if i > 0 {
			runs = append(runs, render.Run{Text: " | "})
		}
		runs = append(runs, render.Run{Text: skill, Bold: i < MaxEmphasis})
	}
	return render.Paragraph{Runs: runs}
}

// bodyParagraphs turns extracted résumé text back into styled paragraphs.
// Short upper-case lines become headings and dash or star lines become bullets.
func bodyParagraphs(text string) []render.Paragraph {
	var out []render.Paragraph
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "-"), strings.HasPrefix(line, "•"), strings.HasPrefix(line, "*"):
			item := strings.TrimSpace(strings.TrimLeft(line, "-•* "))
			if item != "" {
				out = append(out, render.Text(render.StyleBullet, item))
			}
		case isHeading(line):
			out = append(out, render.Text(render.StyleHeading, line))
		default:
			out = append(out, render.Text(render.StyleNormal, line))
		}
	}
	return out
}

func isHeading(line string) bool {
	if len([]rune(line)) >= maxHeadingLen {
		return false
	}
	hasLetter := false
	for _, r := range line {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}
