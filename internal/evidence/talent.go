package evidence

import "strings"

// JobPosting is a single job listing as classified by the hiring collector.
type JobPosting struct {
	Title  string   `json:"title" yaml:"title"`
	Skills []string `json:"skills,omitempty" yaml:"skills,omitempty"`
	IsAI   bool     `json:"is_ai" yaml:"is_ai"`
}

// TalentSignals is the hiring and leadership evidence used for talent concentration.
// The zero value means no signal.
type TalentSignals struct {
	Postings         []JobPosting `json:"postings,omitempty" yaml:"postings,omitempty"`
	AIHeadcount      int          `json:"ai_headcount,omitempty" yaml:"ai_headcount,omitempty"`
	NamedIndividuals int          `json:"named_individuals,omitempty" yaml:"named_individuals,omitempty"`
}

var seniorTitleKeywords = []string{
	"senior", "sr.", "principal", "staff", "lead", "head of", "director",
	"vp", "vice president", "chief", "executive",
}

// IsSenior reports whether the posting title denotes a senior or executive role.
func (p JobPosting) IsSenior() bool {
	title := strings.ToLower(p.Title)
	for _, kw := range seniorTitleKeywords {
		if containsWord(title, kw) {
			return true
		}
	}
	return false
}

// AIPostings returns only the postings classified as AI roles.
func (t TalentSignals) AIPostings() []JobPosting {
	var out []JobPosting
	for _, p := range t.Postings {
		if p.IsAI {
			out = append(out, p)
		}
	}
	return out
}

// containsWord matches kw only at word boundaries, so "lead" does not match "misleading".
func containsWord(s, kw string) bool {
	for start := 0; start <= len(s)-len(kw); {
		idx := strings.Index(s[start:], kw)
		if idx < 0 {
			return false
		}
		i := start + idx
		j := i + len(kw)
		before := i == 0 || !isWordByte(s[i-1])
		after := j == len(s) || !isWordByte(s[j])
		if before && after {
			return true
		}
		start = i + 1
	}
	return false
}

func isWordByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9')
}
