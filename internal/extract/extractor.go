package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"

	"github.com/eapenjoshymuttom/Review-consolidator/internal/model"
)

// Extractor pulls structured reviews out of a listing page using one
// site profile.
type Extractor struct {
	profile Profile
}

func New(profile Profile) *Extractor {
	return &Extractor{profile: profile}
}

func (e *Extractor) Profile() Profile { return e.profile }

// Reviews parses every review block on a listing page. A page with no
// review blocks returns an empty slice, which pagination treats as the
// end of the listing.
func (e *Extractor) Reviews(html string) ([]model.Review, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, eris.Wrap(err, "parse listing html")
	}
	var reviews []model.Review
	doc.Find(e.profile.ReviewBlock).Each(func(_ int, sel *goquery.Selection) {
		r := e.review(sel)
		if isEmptyReview(r) {
			return
		}
		reviews = append(reviews, r)
	})
	return reviews, nil
}

func (e *Extractor) review(sel *goquery.Selection) model.Review {
	f := e.profile.Fields
	r := model.Review{
		Reviewer:     fieldText(sel, f.Reviewer),
		Rating:       e.rating(sel),
		Title:        fieldText(sel, f.Title),
		Date:         e.date(sel),
		Body:         fieldText(sel, f.Body),
		HelpfulVotes: fieldText(sel, f.Helpful),
	}
	if f.Certified != "" && e.profile.CertifiedMarker != "" {
		badge := sel.Find(f.Certified).First().Text()
		r.CertifiedBuyer = strings.Contains(badge, e.profile.CertifiedMarker)
	}
	if r.HelpfulVotes == model.Sentinel {
		r.HelpfulVotes = "0"
	}
	return r
}

func (e *Extractor) rating(sel *goquery.Selection) string {
	text := fieldText(sel, e.profile.Fields.Rating)
	if text == model.Sentinel {
		return text
	}
	if e.profile.RatingSplit != "" {
		text, _, _ = strings.Cut(text, e.profile.RatingSplit)
		text = strings.TrimSpace(text)
	}
	return text
}

func (e *Extractor) date(sel *goquery.Selection) string {
	selector := e.profile.Fields.Date
	if selector == "" {
		return model.Sentinel
	}
	found := sel.Find(selector)
	if e.profile.DateExclude != "" {
		found = found.Not(e.profile.DateExclude)
	}
	raw := strings.TrimSpace(found.First().Text())
	if raw == "" {
		return model.Sentinel
	}
	return e.profile.NormalizeDate(raw)
}

// Price reads the product price off a product page, sentinel when the
// element is missing.
func (e *Extractor) Price(html string) string {
	return e.docText(html, e.profile.Price)
}

// ImageURL reads the main product image source off a product page.
func (e *Extractor) ImageURL(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil || e.profile.Image == "" {
		return model.Sentinel
	}
	src, ok := doc.Find(e.profile.Image).First().Attr("src")
	if !ok || strings.TrimSpace(src) == "" {
		return model.Sentinel
	}
	return strings.TrimSpace(src)
}

func (e *Extractor) docText(html, selector string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil || selector == "" {
		return model.Sentinel
	}
	text := strings.TrimSpace(doc.Find(selector).First().Text())
	if text == "" {
		return model.Sentinel
	}
	return text
}

func fieldText(sel *goquery.Selection, selector string) string {
	if selector == "" {
		return model.Sentinel
	}
	text := strings.TrimSpace(sel.Find(selector).First().Text())
	if text == "" {
		return model.Sentinel
	}
	return text
}

func isEmptyReview(r model.Review) bool {
	return r.Reviewer == model.Sentinel &&
		r.Rating == model.Sentinel &&
		r.Title == model.Sentinel &&
		r.Body == model.Sentinel
}
