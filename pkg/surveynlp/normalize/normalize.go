// Package normalize turns raw Spanish survey answers into the token strings
// the topic engines consume.
package normalize

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/lexicon"
	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/stoplist"
	"github.com/afbeltranr/surveyNLP-policylab/pkg/surveynlp/survey"
)

// maxPasses bounds the fixed-point loop in Normalize.
const maxPasses = 4

// DefaultBoilerplate lists the filler phrases respondents append to answers.
func DefaultBoilerplate() []string {
	return []string{"según mi experiencia", "en mi comunidad", "personalmente hablando"}
}

// Options configures a Normalizer. A nil Stoplist means the Spanish default;
// a nil Boilerplate means DefaultBoilerplate.
type Options struct {
	Stoplist    *stoplist.Manager
	Boilerplate []string
	Lexicon     *lexicon.Lexicon
	FoldAccents bool
}

// Normalizer is immutable after construction and safe for concurrent use.
type Normalizer struct {
	stops       *stoplist.Manager
	boilerplate []*regexp.Regexp
	lexicon     *lexicon.Lexicon
	fold        bool
}

// New builds a normalizer. When accent folding is on, the stop list,
// boilerplate phrases and lexicon are folded too so that "según" and
// "segun" are treated alike.
func New(opts Options) (*Normalizer, error) {
	stops := opts.Stoplist
	if stops == nil {
		stops = stoplist.Default()
	}
	phrases := opts.Boilerplate
	if phrases == nil {
		phrases = DefaultBoilerplate()
	}

	n := &Normalizer{fold: opts.FoldAccents}
	canon := func(s string) string {
		s = lower(strings.TrimSpace(s))
		if n.fold {
			s = Fold(s)
		}
		return s
	}

	n.stops = stops.Map(canon)
	if opts.Lexicon != nil {
		n.lexicon = opts.Lexicon.Map(canon)
	}
	for _, p := range phrases {
		words := strings.Fields(canon(p))
		if len(words) == 0 {
			continue
		}
		for i, w := range words {
			words[i] = regexp.QuoteMeta(w)
		}
		pattern := `(^|[^\p{L}\p{N}\p{M}])` + strings.Join(words, `\s+`) + `($|[^\p{L}\p{N}\p{M}])`
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("compile boilerplate %q: %w", p, err)
		}
		n.boilerplate = append(n.boilerplate, re)
	}
	return n, nil
}

// Default returns the normalizer with the Spanish stop list, the default
// boilerplate phrases, accent folding and no lexicon.
func Default() *Normalizer {
	n, err := New(Options{FoldAccents: true})
	if err != nil {
		panic(err)
	}
	return n
}

// Normalize cleans one answer. The result is a fixed point:
// Normalize(Normalize(x)) == Normalize(x).
func (n *Normalizer) Normalize(raw string) string {
	out := n.pass(raw)
	for i := 1; i < maxPasses; i++ {
		next := n.pass(out)
		if next == out {
			break
		}
		out = next
	}
	return out
}

// Tokens returns the tokens of the normalized answer.
func (n *Normalizer) Tokens(raw string) []string {
	return strings.Fields(n.Normalize(raw))
}

// CleanAll normalizes every record, keeping input order.
func (n *Normalizer) CleanAll(records []survey.Record) []survey.CleanedRecord {
	out := make([]survey.CleanedRecord, len(records))
	for i, r := range records {
		out[i] = survey.CleanedRecord{Record: r, ResponseClean: n.Normalize(r.Response)}
	}
	return out
}

func (n *Normalizer) pass(text string) string {
	text = StripMarkup(text)
	text = lower(text)
	if n.fold {
		text = Fold(text)
	}
	for _, re := range n.boilerplate {
		text = re.ReplaceAllString(text, "${1} ${2}")
	}
	text = stripPunctuation(text)

	tokens := strings.Fields(text)
	kept := tokens[:0]
	for _, tok := range tokens {
		if n.stops.IsStop(tok) {
			continue
		}
		if n.lexicon != nil {
			tok = n.lexicon.Normalize(tok)
		}
		kept = append(kept, tok)
	}
	return strings.Join(kept, " ")
}

func lower(s string) string {
	return cases.Lower(language.Spanish).String(s)
}

// Fold removes diacritics except the tilde, so "atención" becomes "atencion"
// while "año" keeps its ñ.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.Predicate(isFoldable)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func isFoldable(r rune) bool {
	return unicode.Is(unicode.Mn, r) && r != '\u0303'
}

// stripPunctuation replaces every rune that is not part of a word with a space.
func stripPunctuation(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r) {
			return r
		}
		return ' '
	}, s)
}

// StripMarkup returns the text content of s when it looks like HTML.
func StripMarkup(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}
	z := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(z.Text())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			b.WriteByte(' ')
		}
	}
}
