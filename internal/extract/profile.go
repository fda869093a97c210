// Package extract parses review listing markup into structured records.
// Site-specific selectors live in an embedded profile file so that markup
// drift is a data change, not a code change.
package extract

import (
	_ "embed"
	"fmt"
	"net/url"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

//go:embed profiles.yaml
var profilesYAML []byte

// Fields maps logical review fields to CSS selectors. An absent or empty
// selector means the site never exposes that field.
type Fields struct {
	Reviewer  string `yaml:"reviewer"`
	Rating    string `yaml:"rating"`
	Title     string `yaml:"title"`
	Body      string `yaml:"body"`
	Date      string `yaml:"date"`
	Certified string `yaml:"certified"`
	Helpful   string `yaml:"helpful"`
}

// Profile is the scraping fingerprint for one site family.
type Profile struct {
	Name            string   `yaml:"name"`
	Hosts           []string `yaml:"hosts"`
	Rendered        bool     `yaml:"rendered"`
	ReviewPathFrom  string   `yaml:"review_path_from"`
	ReviewPathTo    string   `yaml:"review_path_to"`
	PageParam       string   `yaml:"page_param"`
	ReviewBlock     string   `yaml:"review_block"`
	Fields          Fields   `yaml:"fields"`
	DateExclude     string   `yaml:"date_exclude"`
	RatingSplit     string   `yaml:"rating_split"`
	DateSplit       string   `yaml:"date_split"`
	CertifiedMarker string   `yaml:"certified_marker"`
	DateFormats     []string `yaml:"date_formats"`
	Price           string   `yaml:"price"`
	Image           string   `yaml:"image"`
}

type profileFile struct {
	Profiles []Profile `yaml:"profiles"`
}

var profiles []Profile

func init() {
	var pf profileFile
	if err := yaml.Unmarshal(profilesYAML, &pf); err != nil {
		panic(fmt.Sprintf("extract: bad embedded profiles: %v", err))
	}
	profiles = pf.Profiles
}

// Profiles returns every known site profile.
func Profiles() []Profile {
	out := make([]Profile, len(profiles))
	copy(out, profiles)
	return out
}

// ProfileFor matches a product URL to a site profile by host suffix.
func ProfileFor(rawURL string) (Profile, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Profile{}, eris.Wrapf(err, "parse url %q", rawURL)
	}
	host := strings.ToLower(u.Hostname())
	for _, p := range profiles {
		for _, h := range p.Hosts {
			if host == h || strings.HasSuffix(host, "."+h) {
				return p, nil
			}
		}
	}
	return Profile{}, eris.Errorf("no site profile for host %q", host)
}

// ReviewURL rewrites a product page URL into its review listing URL.
// URLs already pointing at the listing pass through unchanged.
func (p Profile) ReviewURL(productURL string) string {
	if p.ReviewPathFrom == "" || strings.Contains(productURL, p.ReviewPathTo) {
		return productURL
	}
	return strings.Replace(productURL, p.ReviewPathFrom, p.ReviewPathTo, 1)
}

// PageURL appends the site's pagination parameter. Page 1 is the bare
// listing URL on both supported sites.
func (p Profile) PageURL(listingURL string, page int) string {
	if page <= 1 {
		return listingURL
	}
	sep := "?"
	if strings.Contains(listingURL, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%s%s=%d", listingURL, sep, p.PageParam, page)
}
