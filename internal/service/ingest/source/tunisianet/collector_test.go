package tunisianet

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listPageHTML = `
<html>
<body>
<h1 class="h1 category-title">Ordinateur Portable</h1>
<div id="products">
  <article class="product-miniature">
    <div class="product-thumbnail">
      <img src="https://www.tunisianet.com.tn/img/small/prod-001.jpg"
           data-full-size-image-url="https://www.tunisianet.com.tn/img/large/prod-001.jpg" />
    </div>
    <img class="manufacturer-logo" alt="ASUS" src="/img/asus.png" />
    <h2 class="product-title">
      <a href="https://www.tunisianet.com.tn/pc-portable/prod-001.html">PC Portable ASUS VivoBook 15</a>
    </h2>
    <span class="product-reference">[PF0001]</span>
    <div class="product-description-short">Ecran 15.6" FHD, i5-1235U, 8 Go</div>
    <span class="price">2 199,000 DT</span>
    <div class="product-availability">En stock</div>
  </article>
  <article class="product-miniature">
    <h2 class="product-title">
      <a href="https://www.tunisianet.com.tn/pc-portable/prod-002.html">PC Portable Lenovo IdeaPad 3</a>
    </h2>
    <span class="product-reference">  [82H803TMFG]  </span>
    <span class="price">1 549,000 DT</span>
    <div class="product-availability">Rupture de stock</div>
  </article>
</div>
<nav class="pagination">
  <a class="next js-search-link" href="?page=2">Suivant</a>
</nav>
</body>
</html>`

// ========================================
// parseListPage 테스트
// ========================================

func TestParseListPage(t *testing.T) {
	t.Parallel()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(listPageHTML))
	require.NoError(t, err)

	items, category := parseListPage(doc)

	assert.Equal(t, "Ordinateur Portable", category)
	require.Len(t, items, 2)

	first := items[0]
	assert.Equal(t, "PF0001", first.Ref)
	assert.Equal(t, "PC Portable ASUS VivoBook 15", first.Designation)
	assert.Equal(t, `Ecran 15.6" FHD, i5-1235U, 8 Go`, first.Description)
	assert.Equal(t, "2 199,000 DT", first.Price)
	assert.Equal(t, "ASUS", first.Brand)
	assert.Equal(t, "En stock", first.Stock)
	assert.Equal(t, "https://www.tunisianet.com.tn/pc-portable/prod-001.html", first.URL)

	// 원본 크기 이미지 URL이 썸네일보다 우선합니다.
	assert.Equal(t, "https://www.tunisianet.com.tn/img/large/prod-001.jpg", first.ImageURL)

	second := items[1]
	assert.Equal(t, "82H803TMFG", second.Ref)
	assert.Equal(t, "Rupture de stock", second.Stock)
	assert.Empty(t, second.Brand)
	assert.Empty(t, second.ImageURL)
}

func TestParseListPage_Empty(t *testing.T) {
	t.Parallel()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<html><body><div id="products"></div></body></html>`))
	require.NoError(t, err)

	items, category := parseListPage(doc)

	assert.Empty(t, items)
	assert.Empty(t, category)
}

// ========================================
// 페이지네이션 테스트
// ========================================

func TestHasNextPage(t *testing.T) {
	t.Parallel()

	withNext, err := goquery.NewDocumentFromReader(strings.NewReader(listPageHTML))
	require.NoError(t, err)
	assert.True(t, hasNextPage(withNext))

	lastPage, err := goquery.NewDocumentFromReader(strings.NewReader(`<html><body><nav class="pagination"></nav></body></html>`))
	require.NoError(t, err)
	assert.False(t, hasNextPage(lastPage))
}

// ========================================
// parseReference 테스트
// ========================================

func TestParseReference(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		raw      string
		expected string
	}{
		{"[PF0001]", "PF0001"},
		{"  [PF0001]  ", "PF0001"},
		{"PF0001", "PF0001"},
		{"", ""},
		{"[]", ""},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, parseReference(tc.raw), "raw=%q", tc.raw)
	}
}
