package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eapenjoshymuttom/Review-consolidator/internal/model"
)

func profileByName(t *testing.T, name string) Profile {
	t.Helper()
	for _, p := range Profiles() {
		if p.Name == name {
			return p
		}
	}
	t.Fatalf("profile %s not found", name)
	return Profile{}
}

const flipkartPage = `
<html><body>
<div class="cPHDOP">
  <div class="XQDdHH Ga3i8K">5</div>
  <p class="z9E0IG">Terrific purchase</p>
  <div class="ZmyHeo"><div>Battery easily lasts two days. Camera is sharp.</div></div>
  <p class="_2NsDsF AwS1CA">Ravi Kumar</p>
  <p class="MztJPv">Certified Buyer, Chennai</p>
  <p class="_2NsDsF">5 Mar, 2023</p>
  <span class="tl9VpF">41</span>
</div>
<div class="cPHDOP">
  <div class="XQDdHH Ga3i8K">2</div>
  <p class="z9E0IG">Not worth it</p>
  <div class="ZmyHeo"><div>Started lagging within a week.</div></div>
  <p class="_2NsDsF AwS1CA">Anita</p>
  <p class="_2NsDsF">Jan, 2023</p>
</div>
<div class="cPHDOP"></div>
</body></html>`

func TestExtractor_FlipkartReviews(t *testing.T) {
	e := New(profileByName(t, "flipkart"))

	reviews, err := e.Reviews(flipkartPage)
	require.NoError(t, err)
	require.Len(t, reviews, 2)

	first := reviews[0]
	assert.Equal(t, "Ravi Kumar", first.Reviewer)
	assert.Equal(t, "5", first.Rating)
	assert.Equal(t, "Terrific purchase", first.Title)
	assert.Equal(t, "Battery easily lasts two days. Camera is sharp.", first.Body)
	assert.Equal(t, "05/03/2023", first.Date)
	assert.True(t, first.CertifiedBuyer)
	assert.Equal(t, "41", first.HelpfulVotes)

	second := reviews[1]
	assert.Equal(t, "Anita", second.Reviewer)
	assert.Equal(t, "01/01/2023", second.Date)
	assert.False(t, second.CertifiedBuyer)
	assert.Equal(t, "0", second.HelpfulVotes)
}

func TestExtractor_SentinelOnMissingFields(t *testing.T) {
	e := New(profileByName(t, "flipkart"))

	page := `<div class="cPHDOP"><div class="ZmyHeo"><div>Only a body here.</div></div></div>`
	reviews, err := e.Reviews(page)
	require.NoError(t, err)
	require.Len(t, reviews, 1)

	r := reviews[0]
	assert.Equal(t, model.Sentinel, r.Reviewer)
	assert.Equal(t, model.Sentinel, r.Rating)
	assert.Equal(t, model.Sentinel, r.Title)
	assert.Equal(t, model.Sentinel, r.Date)
	assert.Equal(t, "Only a body here.", r.Body)
}

func TestExtractor_EmptyPage(t *testing.T) {
	e := New(profileByName(t, "flipkart"))
	reviews, err := e.Reviews(`<html><body><p>no reviews</p></body></html>`)
	require.NoError(t, err)
	assert.Empty(t, reviews)
}

const amazonPage = `
<html><body>
<div data-hook="review">
  <span class="a-profile-name">J. Doe</span>
  <i data-hook="review-star-rating"><span>4.0 out of 5 stars</span></i>
  <a data-hook="review-title"><span>Solid value</span></a>
  <span data-hook="review-date">Reviewed in India on March 5, 2023</span>
  <span data-hook="review-body"><span>Does everything I need.</span></span>
  <span data-hook="avp-badge">Verified Purchase</span>
  <span data-hook="helpful-vote-statement">12 people found this helpful</span>
</div>
</body></html>`

func TestExtractor_AmazonReviews(t *testing.T) {
	e := New(profileByName(t, "amazon"))

	reviews, err := e.Reviews(amazonPage)
	require.NoError(t, err)
	require.Len(t, reviews, 1)

	r := reviews[0]
	assert.Equal(t, "J. Doe", r.Reviewer)
	assert.Equal(t, "4.0", r.Rating)
	assert.Equal(t, "Solid value", r.Title)
	assert.Equal(t, "05/03/2023", r.Date)
	assert.Equal(t, "Does everything I need.", r.Body)
	assert.True(t, r.CertifiedBuyer)
	assert.Equal(t, "12 people found this helpful", r.HelpfulVotes)
}

func TestExtractor_ProductDetails(t *testing.T) {
	e := New(profileByName(t, "flipkart"))

	page := `<html><body>
	  <div class="Nx9bqj">₹24,999</div>
	  <img class="DByuf4 IZexXJ jLEJ7H" src="https://img.example/widget.jpg"/>
	</body></html>`
	assert.Equal(t, "₹24,999", e.Price(page))
	assert.Equal(t, "https://img.example/widget.jpg", e.ImageURL(page))

	assert.Equal(t, model.Sentinel, e.Price("<html></html>"))
	assert.Equal(t, model.Sentinel, e.ImageURL("<html></html>"))
}
