package constants

// 헬스체크 상태값 상수입니다.
const (
	// HealthStatusHealthy 정상 상태
	HealthStatusHealthy = "healthy"

	// HealthStatusUnhealthy 비정상 상태
	HealthStatusUnhealthy = "unhealthy"

	// DependencyDocumentStore 문서 저장소 의존성 이름
	DependencyDocumentStore = "document_store"
)
