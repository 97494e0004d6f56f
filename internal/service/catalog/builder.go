package catalog

import (
	"strings"

	apperrors "github.com/darkkaiser/catalog-server/internal/pkg/errors"
	"github.com/darkkaiser/catalog-server/pkg/strutil"
)

// ErrNotIngestable 자연키(Ref)가 없어 수집 대상에서 제외된 상품임을 나타내는 에러입니다.
// 예외 상황이 아닌 정상적인 건너뛰기 결과이며, 호출자는 해당 상품만 건너뛰고 수집을 계속합니다.
var ErrNotIngestable = apperrors.New(apperrors.InvalidInput, "상품 참조 코드(Ref)가 없어 수집할 수 없는 상품입니다")

// BuildRecord 원시 상품 데이터와 출처(판매사) 이름으로부터 표준 상품 레코드 후보를 조립합니다.
//
// 반환된 레코드에는 DateAdded와 History가 포함되지 않습니다. 두 필드는
// 대사(Reconcile) 단계에서 저장소의 기존 상태에 따라 결정됩니다.
//
// Ref가 비어있는 상품은 저장소의 유일성 제약과 충돌을 일으키므로
// ErrNotIngestable을 반환하여 대사 단계로의 진입을 차단합니다.
func BuildRecord(item RawItem, company string) (*ProductRecord, error) {
	ref := strings.TrimSpace(item.Ref)
	if ref == "" {
		return nil, ErrNotIngestable
	}

	category, subcategory := NormalizeCategory(item.Category, item.Subcategory)

	brand := strutil.NormalizeSpaces(item.Brand)
	if brand == "" {
		brand = DefaultBrand
	}

	return &ProductRecord{
		Ref:         ref,
		Designation: strutil.NormalizeSpaces(item.Designation),
		Description: strings.TrimSpace(item.Description),
		Price:       NormalizePrice(item.Price),
		Brand:       brand,
		Company:     strings.TrimSpace(company),
		Category:    category,
		Subcategory: subcategory,
		Stock:       NormalizeStock(item.Stock),
		URL:         strings.TrimSpace(item.URL),
		ImageURL:    strings.TrimSpace(item.ImageURL),
	}, nil
}
