// Package normalize turns raw review bodies into cleaned, deduplicated
// passages ready for chunking and indexing.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
	"github.com/rotisserie/eris"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Config controls the normalization pipeline.
type Config struct {
	// MinTokens drops passages with fewer tokens than this. Default: 3.
	MinTokens int
	// SplitSentences splits each cleaned body into sentence passages.
	SplitSentences bool
	// Dedup removes exact-duplicate passages across the whole corpus.
	Dedup bool
}

// Normalizer applies a deterministic, idempotent cleanup pipeline to review
// text: markup stripping, character filtering, stopword removal and
// lemmatization.
type Normalizer struct {
	cfg Config
	lem *golem.Lemmatizer
}

var (
	tagRe      = regexp.MustCompile(`<[^>]+>`)
	readMoreRe = regexp.MustCompile(`(?i)read more`)
	// Allow-list: alphanumerics, whitespace and basic punctuation.
	disallowedRe = regexp.MustCompile(`[^a-zA-Z0-9\s.,!?]`)
	sentenceRe   = regexp.MustCompile(`[^.!?]+[.!?]?`)

	foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// New creates a Normalizer backed by the English lemma dictionary.
func New(cfg Config) (*Normalizer, error) {
	if cfg.MinTokens <= 0 {
		cfg.MinTokens = 3
	}
	lem, err := golem.New(en.New())
	if err != nil {
		return nil, eris.Wrap(err, "normalize: load lemma dictionary")
	}
	return &Normalizer{cfg: cfg, lem: lem}, nil
}

// Normalize runs the full pipeline over the given review bodies and returns
// the ordered passage list. Running it on its own output changes nothing.
func (n *Normalizer) Normalize(bodies []string) []string {
	var passages []string
	seen := make(map[string]struct{})

	for _, body := range bodies {
		cleaned := CleanText(body)
		if cleaned == "" {
			continue
		}

		filtered := n.lemmatize(removeStopwords(cleaned))
		// A lemma can land on a stopword ("are" -> "be"); filter again so the
		// pipeline is a fixpoint.
		filtered = removeStopwords(filtered)

		for _, p := range n.split(filtered) {
			if tokenCount(p) < n.cfg.MinTokens {
				continue
			}
			if n.cfg.Dedup {
				if _, dup := seen[p]; dup {
					continue
				}
				seen[p] = struct{}{}
			}
			passages = append(passages, p)
		}
	}

	return passages
}

// CleanText strips markup, the "read more" boilerplate marker and any
// character outside the allow-list, then collapses whitespace.
func CleanText(text string) string {
	text = tagRe.ReplaceAllString(text, "")
	text = readMoreRe.ReplaceAllString(text, "")
	if folded, _, err := transform.String(foldTransformer, text); err == nil {
		text = folded
	}
	text = disallowedRe.ReplaceAllString(text, "")
	return strings.Join(strings.Fields(text), " ")
}

func (n *Normalizer) split(text string) []string {
	if !n.cfg.SplitSentences {
		if text == "" {
			return nil
		}
		return []string{text}
	}

	var out []string
	for _, s := range sentenceRe.FindAllString(text, -1) {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// removeStopwords drops tokens whose lowercase form is an English stopword.
// Tokens with attached punctuation are kept, matching how the surrounding
// punctuation survives the allow-list.
func removeStopwords(text string) string {
	fields := strings.Fields(text)
	kept := fields[:0]
	for _, tok := range fields {
		if _, stop := stopwords[strings.ToLower(tok)]; !stop {
			kept = append(kept, tok)
		}
	}
	return strings.Join(kept, " ")
}

// lemmatize maps each token to its dictionary form, lowercased. Trailing
// punctuation is preserved on the token.
func (n *Normalizer) lemmatize(text string) string {
	fields := strings.Fields(text)
	for i, tok := range fields {
		core, suffix := splitTrailingPunct(tok)
		if core == "" {
			continue
		}
		fields[i] = n.lem.Lemma(strings.ToLower(core)) + suffix
	}
	return strings.Join(fields, " ")
}

func splitTrailingPunct(tok string) (core, suffix string) {
	end := len(tok)
	for end > 0 {
		switch tok[end-1] {
		case '.', ',', '!', '?':
			end--
		default:
			return tok[:end], tok[end:]
		}
	}
	return "", tok
}

func tokenCount(s string) int {
	return len(strings.Fields(s))
}
