package catalog

// RawItem 수집기가 상품 목록 페이지에서 추출한 가공 전 상품 데이터입니다.
//
// 모든 필드는 원문 그대로의 문자열이며, 사이트별 수집기는 추출에 실패한 필드를
// 빈 문자열로 남겨둡니다. 타입 변환과 기본값 처리는 빌더와 정규화 단계에서 수행합니다.
type RawItem struct {
	Ref         string // 상품 참조 코드 (자연키 후보)
	Designation string // 상품명
	Description string // 상품 설명 (생략 가능)
	Price       string // 가격 원문 (예: "1 234,50 DT")
	Brand       string // 브랜드명 (생략 가능)
	Category    string // 카테고리 원문 (예: "Informatique > Ordinateurs Portables")
	Subcategory string // 명시적 하위 카테고리 (생략 가능)
	Stock       string // 재고 상태 원문 (예: "En stock", "Rupture de stock")
	URL         string // 상품 상세 페이지 URL
	ImageURL    string // 상품 이미지 URL
}
