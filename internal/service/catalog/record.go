// Package catalog 상품 카탈로그의 핵심 도메인 로직을 제공합니다.
//
// 수집된 원시 상품 데이터를 정규화(Normalizer)하고, 표준 상품 레코드로 조립(Builder)한 뒤,
// 저장소의 기존 레코드와 대사(Reconcile)하여 가격/재고 변동 이력을 축적합니다.
package catalog

import "time"

// 재고 상태 표준값
const (
	// StockInStock 구매 가능한 상태
	StockInStock = "In Stock"

	// StockOutOfStock 품절 상태
	StockOutOfStock = "Out of Stock"

	// StockOnOrder 주문 후 입고되는 상태
	StockOnOrder = "On Order"

	// StockUnknown 재고 정보를 확인할 수 없는 상태
	StockUnknown = "Unknown"
)

// DefaultBrand 브랜드 정보를 확인할 수 없을 때 사용하는 기본값
const DefaultBrand = "Unknown"

// DefaultCategory 카테고리 정보를 확인할 수 없을 때 사용하는 기본값
const DefaultCategory = "Uncategorized"

// ProductRecord 저장소에 보관되는 표준 상품 레코드입니다.
//
// Ref는 상품의 자연키(Natural Key)로, 저장소 전체에서 유일하며 최초 할당 이후 변경되지 않습니다.
// DateAdded는 최초 등록 시점에 단 한 번 기록되며 이후의 갱신에서 절대 수정되지 않습니다.
// History는 가격/재고 변동이 감지될 때마다 시간순으로 추가되는 Append-Only 이력입니다.
type ProductRecord struct {
	Ref         string              `bson:"ref" json:"ref"`
	Designation string              `bson:"designation" json:"designation"`
	Description string              `bson:"description,omitempty" json:"description,omitempty"`
	Price       float64             `bson:"price" json:"price"`
	Brand       string              `bson:"brand" json:"brand"`
	Company     string              `bson:"company" json:"company"`
	Category    string              `bson:"category" json:"category"`
	Subcategory string              `bson:"subcategory,omitempty" json:"subcategory,omitempty"`
	Stock       string              `bson:"stock" json:"stock"`
	URL         string              `bson:"url,omitempty" json:"url,omitempty"`
	ImageURL    string              `bson:"image_url,omitempty" json:"image_url,omitempty"`
	DateAdded   time.Time           `bson:"date_added" json:"date_added"`
	History     []ModificationEntry `bson:"history" json:"history"`
}

// LastModified 마지막 변동 이력의 시각을 반환합니다.
// 변동 이력이 없는 경우 두 번째 반환값이 false입니다.
func (r *ProductRecord) LastModified() (time.Time, bool) {
	if len(r.History) == 0 {
		return time.Time{}, false
	}
	return r.History[len(r.History)-1].Timestamp, true
}

// ModificationEntry 가격 또는 재고 변동 1건을 기록하는 불변 이력 항목입니다.
//
// 가격과 재고 중 하나만 변동된 경우에도 두 필드의 이전/이후 값을 모두 기록합니다.
// (변동되지 않은 필드는 이전 값과 이후 값이 동일)
type ModificationEntry struct {
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
	OldPrice  float64   `bson:"old_price" json:"old_price"`
	NewPrice  float64   `bson:"new_price" json:"new_price"`
	OldStock  string    `bson:"old_stock" json:"old_stock"`
	NewStock  string    `bson:"new_stock" json:"new_stock"`
}
