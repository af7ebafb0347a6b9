package research

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

type Category string

const (
	CategoryNone          Category = ""
	CategoryChiefMinister Category = "chief_minister"
	CategoryPresident     Category = "president"
	CategoryPrimeMinister Category = "prime_minister"
	CategoryCurrentLeader Category = "current_leader"
)

// OverrideRule forces research for questions about a time-sensitive role.
// Anchors mark where the place name starts ("president of <remainder>").
type OverrideRule struct {
	Category Category
	Role     string
	Keywords []string
	Anchors  []string
}

// DefaultOverrideRules is evaluated in order; the first rule with a keyword hit wins.
var DefaultOverrideRules = []OverrideRule{
	{
		Category: CategoryChiefMinister,
		Role:     "chief minister",
		Keywords: []string{"chief minister", "cm"},
		Anchors:  []string{"chief minister of", "cm of"},
	},
	{
		Category: CategoryPresident,
		Role:     "president",
		Keywords: []string{"president"},
		Anchors:  []string{"president of"},
	},
	{
		Category: CategoryPrimeMinister,
		Role:     "prime minister",
		Keywords: []string{"prime minister"},
		Anchors:  []string{"prime minister of"},
	},
	{
		Category: CategoryCurrentLeader,
		Role:     "leader",
		Keywords: []string{"governor", "current leader", "latest leader", "who is"},
		Anchors:  []string{"current leader of", "latest leader of"},
	},
}

// leading filler stripped when no anchor phrase is present
var leadingFillers = []string{
	"who is", "who's", "what is", "tell me", "the", "current", "latest", "present", "of",
}

type Override struct {
	Forced   bool     `json:"forced"`
	Category Category `json:"category,omitempty"`
	Keyword  string   `json:"keyword,omitempty"`
	Query    string   `json:"query,omitempty"`
}

type compiledRule struct {
	OverrideRule
	keywords []*regexp.Regexp
	anchors  []*regexp.Regexp
	strip    []string
}

type Overrider struct {
	rules []compiledRule
}

func NewOverrider(rules []OverrideRule) *Overrider {
	o := &Overrider{rules: make([]compiledRule, 0, len(rules))}
	for _, r := range rules {
		c := compiledRule{OverrideRule: r}
		for _, kw := range r.Keywords {
			c.keywords = append(c.keywords, phrasePattern(kw))
		}
		for _, a := range r.Anchors {
			c.anchors = append(c.anchors, phrasePattern(a))
		}
		c.strip = append(append([]string{}, leadingFillers...), r.Keywords...)
		o.rules = append(o.rules, c)
	}
	return o
}

func phrasePattern(phrase string) *regexp.Regexp {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(strings.ToLower(phrase)) + `\b`)
}

// Detect scans the lower-cased question against the rule table.
func (o *Overrider) Detect(question string) Override {
	lower := strings.ToLower(question)
	for _, r := range o.rules {
		for i, kw := range r.keywords {
			if !keywordHit(kw, lower) {
				continue
			}
			query := strings.TrimSpace(question) + " current"
			if rest := r.remainder(lower); rest != "" {
				query = "current " + r.Role + " of " + rest
			}
			return Override{
				Forced:   true,
				Category: r.Category,
				Keyword:  r.Keywords[i],
				Query:    query,
			}
		}
	}
	return Override{}
}

// keywordHit ignores hits that directly follow a number, so "5 cm" reads as a
// measurement and not as the abbreviation.
func keywordHit(kw *regexp.Regexp, lower string) bool {
	for _, loc := range kw.FindAllStringIndex(lower, -1) {
		before := strings.TrimRight(lower[:loc[0]], " ")
		last, _ := utf8.DecodeLastRuneInString(before)
		if before == "" || !unicode.IsDigit(last) {
			return true
		}
	}
	return false
}

func (r compiledRule) remainder(lower string) string {
	for _, a := range r.anchors {
		if loc := a.FindStringIndex(lower); loc != nil {
			return cleanRemainder(lower[loc[1]:])
		}
	}
	return cleanRemainder(stripLeading(lower, r.strip))
}

func stripLeading(s string, phrases []string) string {
	words := strings.Fields(s)
	for len(words) > 0 {
		n := leadingPhraseLen(words, phrases)
		if n == 0 {
			break
		}
		words = words[n:]
	}
	return strings.Join(words, " ")
}

// leadingPhraseLen returns how many words of the first matching phrase start words.
func leadingPhraseLen(words, phrases []string) int {
	for _, p := range phrases {
		pw := strings.Fields(p)
		if len(pw) > len(words) {
			continue
		}
		matched := true
		for i, w := range pw {
			if strings.TrimRight(words[i], "?!.,;:") != w {
				matched = false
				break
			}
		}
		if matched {
			return len(pw)
		}
	}
	return 0
}

// cleanRemainder collapses whitespace and rejects remainders with no letters or digits.
func cleanRemainder(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return s
		}
	}
	return ""
}
