package system

// HealthResponse 서버 헬스체크 응답
type HealthResponse struct {
	// Status 전체 서버 상태 (healthy, unhealthy)
	Status string `json:"status"`

	// Uptime 서버 가동 시간(초)
	Uptime int64 `json:"uptime"`

	// Dependencies 외부 의존성별 상태
	Dependencies map[string]DependencyStatus `json:"dependencies"`
}

// DependencyStatus 개별 의존성의 상태
type DependencyStatus struct {
	// Status 의존성 상태 (healthy, unhealthy)
	Status string `json:"status"`

	// Message 상태에 대한 부가 설명
	Message string `json:"message"`
}
