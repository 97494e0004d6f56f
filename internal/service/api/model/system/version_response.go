package system

// VersionResponse 서버 버전 정보 응답
type VersionResponse struct {
	// Version 애플리케이션 버전 (예: v1.0.1-15-gf25b8bf)
	Version string `json:"version"`

	// Commit Git 커밋 해시
	Commit string `json:"commit"`

	// BuildDate 빌드 시간
	BuildDate string `json:"build_date"`

	// GoVersion 컴파일러 버전
	GoVersion string `json:"go_version"`
}
