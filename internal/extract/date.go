package extract

import (
	"strings"
	"time"
)

// canonicalDate is the DD/MM/YYYY layout every parsed review date is
// rewritten into.
const canonicalDate = "02/01/2006"

// NormalizeDate canonicalizes a site-formatted review date. The profile's
// formats are tried in order; a date no format accepts is returned as the
// trimmed raw string so the record keeps whatever the site showed.
func (p Profile) NormalizeDate(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return s
	}
	if p.DateSplit != "" {
		if _, after, ok := strings.Cut(s, p.DateSplit); ok {
			s = strings.TrimSpace(after)
		}
	}
	for _, layout := range p.DateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(canonicalDate)
		}
	}
	return s
}
