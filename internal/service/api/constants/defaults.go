package constants

import "time"

// 서버 설정 기본값 상수입니다.
const (
	// DefaultRequestTimeout HTTP 요청 처리의 기본 타임아웃 시간
	// 요청 처리가 이 시간을 초과하면 자동으로 취소되어 서버 리소스를 보호합니다.
	DefaultRequestTimeout = 60 * time.Second

	// DefaultReadTimeout 요청 본문 읽기 최대 대기 시간
	DefaultReadTimeout = 30 * time.Second

	// DefaultReadHeaderTimeout HTTP 헤더 읽기 최대 대기 시간
	// 헤더를 매우 느리게 전송하는 악의적인 클라이언트(Slowloris)의
	// 연결 고갈 공격을 방지합니다.
	DefaultReadHeaderTimeout = 10 * time.Second

	// DefaultWriteTimeout 응답 쓰기 최대 대기 시간
	DefaultWriteTimeout = 60 * time.Second

	// DefaultIdleTimeout Keep-Alive 연결의 유휴 상태 최대 유지 시간
	DefaultIdleTimeout = 120 * time.Second

	// DefaultMaxBodySize 요청 본문의 최대 크기
	// 조회 전용 API이므로 본문이 큰 요청은 허용하지 않습니다.
	DefaultMaxBodySize = "128K"

	// DefaultRateLimitPerSecond IP별 초당 허용 요청 수
	DefaultRateLimitPerSecond = 20

	// DefaultRateLimitBurst IP별 버스트 허용량
	DefaultRateLimitBurst = 40
)

// 페이지네이션 기본값 상수입니다.
const (
	// DefaultPage 기본 페이지 번호
	DefaultPage = 1

	// DefaultPageSize 페이지당 기본 레코드 수
	DefaultPageSize = 10

	// MaxPageSize 페이지당 최대 레코드 수
	MaxPageSize = 100
)

// 기간 조회 기본값 상수입니다.
const (
	// DefaultNewProductWindow 신규 상품으로 간주하는 기본 기간
	DefaultNewProductWindow = 24 * time.Hour

	// DefaultModifiedProductWindow 최근 변동 상품으로 간주하는 기본 기간
	DefaultModifiedProductWindow = 48 * time.Hour

	// DefaultStatsWindowDays 일자별 통계 조회 기본 기간(일)
	DefaultStatsWindowDays = 30

	// DefaultTopModifiedLimit 변동 상위 상품 조회 기본 개수
	DefaultTopModifiedLimit = 10
)
