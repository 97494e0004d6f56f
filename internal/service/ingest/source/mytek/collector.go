// Package mytek mytek.tn 상품 목록 페이지 수집기를 제공합니다.
//
// mytek은 상품 목록 페이지에 JSON-LD(schema.org ItemList) 구조화 데이터를 포함하므로,
// HTML 셀렉터 대신 JSON-LD를 파싱하여 상품 정보를 추출합니다.
package mytek

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"

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

// availabilityNames schema.org 재고 상태값을 사람이 읽는 표기로 변환하는 테이블
var availabilityNames = map[string]string{
	"InStock":    "In stock",
	"OutOfStock": "Out of stock",
	"SoldOut":    "Sold out",
	"PreOrder":   "On order",
	"BackOrder":  "Backorder",
}

// collector Magento 기반 mytek 상품 목록 페이지를 파싱하는 수집기
type collector struct{}

func (c *collector) ID() string { return "mytek" }

func (c *collector) Company() string { return "mytek" }

// Collect 기준 URL부터 페이지를 순회하며 JSON-LD 상품 목록을 추출합니다.
// 상품이 없는 페이지에 도달하거나 설정된 페이지 제한에 도달하면 순회를 멈춥니다.
func (c *collector) Collect(ctx context.Context, s *scraper.Scraper, cfg config.SourceConfig) ([]catalog.RawItem, error) {
	logger := applog.WithComponentAndFields("mytek", applog.Fields{"base_url": cfg.BaseURL})

	var items []catalog.RawItem

	for page := 1; cfg.PageLimit == 0 || page <= cfg.PageLimit; page++ {
		if err := ctx.Err(); err != nil {
			return items, err
		}

		pageURL := cfg.BaseURL
		if page > 1 {
			pageURL = fmt.Sprintf("%s?p=%d", cfg.BaseURL, page)
		}

		doc, err := s.FetchHTML(ctx, pageURL)
		if err != nil {
			if page == 1 {
				return nil, apperrors.Wrapf(err, apperrors.ExecutionFailed, "상품 목록 페이지 요청에 실패하였습니다(url=%s)", pageURL)
			}

			logger.WithField("page", page).Warnf("상품 목록 페이지 요청에 실패하여 수집을 중단합니다: %v", err)
			return items, nil
		}

		pageItems := parseListPage(doc)
		items = append(items, pageItems...)

		logger.WithFields(applog.Fields{
			"page":  page,
			"items": len(pageItems),
		}).Debug("상품 목록 페이지를 수집하였습니다")

		if len(pageItems) == 0 {
			break
		}
	}

	return items, nil
}

// parseListPage 페이지에 포함된 JSON-LD 스크립트에서 상품 목록을 추출합니다.
// 여러 JSON-LD 블록 중 ItemList 타입만 파싱 대상입니다.
func parseListPage(doc *goquery.Document) []catalog.RawItem {
	var items []catalog.RawItem

	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, sel *goquery.Selection) {
		data := sel.Text()
		if gjson.Get(data, "@type").String() != "ItemList" {
			return
		}

		gjson.Get(data, "itemListElement").ForEach(func(_, element gjson.Result) bool {
			product := element.Get("item")
			if !product.Exists() {
				product = element
			}

			items = append(items, catalog.RawItem{
				Ref:         product.Get("sku").String(),
				Designation: product.Get("name").String(),
				Description: product.Get("description").String(),
				Price:       product.Get("offers.price").String(),
				Brand:       product.Get("brand.name").String(),
				Category:    product.Get("category").String(),
				Stock:       availabilityName(product.Get("offers.availability").String()),
				URL:         product.Get("url").String(),
				ImageURL:    product.Get("image").String(),
			})
			return true
		})
	})

	return items
}

// availabilityName schema.org 재고 상태 URL을 사람이 읽는 표기로 변환합니다.
// 예: "https://schema.org/InStock" -> "In stock"
func availabilityName(availability string) string {
	availability = strings.TrimSpace(availability)
	if availability == "" {
		return ""
	}

	key := availability
	if idx := strings.LastIndex(key, "/"); idx != -1 {
		key = key[idx+1:]
	}

	if name, exists := availabilityNames[key]; exists {
		return name
	}
	return availability
}
