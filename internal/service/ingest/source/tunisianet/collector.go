// Package tunisianet tunisianet.com.tn 상품 목록 페이지 수집기를 제공합니다.
package tunisianet

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/darkkaiser/catalog-server/internal/config"
	apperrors "github.com/darkkaiser/catalog-server/internal/pkg/errors"
	"github.com/darkkaiser/catalog-server/internal/service/catalog"
	"github.com/darkkaiser/catalog-server/internal/service/ingest/scraper"
	"github.com/darkkaiser/catalog-server/internal/service/ingest/source"
	applog "github.com/darkkaiser/catalog-server/pkg/log"
)

func init() {
	source.MustRegister(&collector{})
}

// collector PrestaShop 기반 tunisianet 상품 목록 페이지를 파싱하는 수집기
type collector struct{}

func (c *collector) ID() string { return "tunisianet" }

func (c *collector) Company() string { return "tunisianet" }

// Collect 기준 URL부터 페이지를 순회하며 상품 목록을 추출합니다.
// 다음 페이지 링크가 없거나 설정된 페이지 제한에 도달하면 순회를 멈춥니다.
func (c *collector) Collect(ctx context.Context, s *scraper.Scraper, cfg config.SourceConfig) ([]catalog.RawItem, error) {
	logger := applog.WithComponentAndFields("tunisianet", applog.Fields{"base_url": cfg.BaseURL})

	var items []catalog.RawItem

	for page := 1; cfg.PageLimit == 0 || page <= cfg.PageLimit; page++ {
		if err := ctx.Err(); err != nil {
			return items, err
		}

		pageURL := cfg.BaseURL
		if page > 1 {
			pageURL = fmt.Sprintf("%s?page=%d", cfg.BaseURL, page)
		}

		doc, err := s.FetchHTML(ctx, pageURL)
		if err != nil {
			// 첫 페이지 실패는 수집 전체의 실패이며, 이후 페이지 실패는 수집된 범위까지만 반환합니다.
			if page == 1 {
				return nil, apperrors.Wrapf(err, apperrors.ExecutionFailed, "상품 목록 페이지 요청에 실패하였습니다(url=%s)", pageURL)
			}

			logger.WithField("page", page).Warnf("상품 목록 페이지 요청에 실패하여 수집을 중단합니다: %v", err)
			return items, nil
		}

		pageItems, category := parseListPage(doc)
		for i := range pageItems {
			pageItems[i].Category = category
		}
		items = append(items, pageItems...)

		logger.WithFields(applog.Fields{
			"page":  page,
			"items": len(pageItems),
		}).Debug("상품 목록 페이지를 수집하였습니다")

		if len(pageItems) == 0 || !hasNextPage(doc) {
			break
		}
	}

	return items, nil
}

// parseListPage 상품 목록 페이지에서 상품들과 페이지 공통 카테고리를 추출합니다.
func parseListPage(doc *goquery.Document) ([]catalog.RawItem, string) {
	category := strings.TrimSpace(doc.Find("h1.h1.category-title, h1#js-product-list-header").First().Text())

	var items []catalog.RawItem

	doc.Find("article.product-miniature").Each(func(_ int, sel *goquery.Selection) {
		titleLink := sel.Find("h2.product-title a").First()

		item := catalog.RawItem{
			Ref:         parseReference(sel.Find("span.product-reference").First().Text()),
			Designation: strings.TrimSpace(titleLink.Text()),
			Description: strings.TrimSpace(sel.Find("div.product-description-short, p.product-desc").First().Text()),
			Price:       strings.TrimSpace(sel.Find("span.price").First().Text()),
			Brand:       strings.TrimSpace(sel.Find("img.manufacturer-logo").First().AttrOr("alt", "")),
			Stock:       strings.TrimSpace(sel.Find("div.product-availability, span.stock-availability, #stock_availability span").First().Text()),
			URL:         strings.TrimSpace(titleLink.AttrOr("href", "")),
		}

		thumbnail := sel.Find("div.product-thumbnail img, a.thumbnail img").First()
		item.ImageURL = strings.TrimSpace(thumbnail.AttrOr("data-full-size-image-url", thumbnail.AttrOr("src", "")))

		items = append(items, item)
	})

	return items, category
}

// parseReference 상품 참조 코드에서 대괄호 표기를 제거합니다. 예: "[PROD-001]" -> "PROD-001"
func parseReference(raw string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(raw), "[]"))
}

// hasNextPage 다음 페이지 링크의 존재 여부를 반환합니다.
func hasNextPage(doc *goquery.Document) bool {
	return doc.Find("a.next.js-search-link").Length() > 0
}
