package cronx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestStandardParser_Spec은 StandardParser가 지원하는 Cron 표현식 스펙을 검증합니다.
//
// 검증 항목:
//   - 확장 6필드 (초 단위 포함) 지원 확인
//   - 표준 5필드 미지원 확인 (의도된 설계)
//   - 특수 Descriptor (@daily, @every) 지원 확인
//   - 잘못된 형식 및 범위 검증
func TestStandardParser_Spec(t *testing.T) {
	t.Parallel()

	parser := StandardParser()

	tests := []struct {
		name      string
		spec      string
		wantErr   bool
		errSubstr string // 에러 메시지에 포함되어야 할 문구
	}{
		// =================================================================
		// Success Cases (Valid Specs)
		// =================================================================
		{
			name: "Extended Cron (6 fields) - Seconds",
			spec: "30 * * * * *", // 매분 30초마다
		},
		{
			name: "Extended Cron (6 fields) - Step",
			spec: "0 */5 * * * *", // 5분마다 0초에
		},
		{
			name: "Descriptor - @daily",
			spec: "@daily", // 매일 자정 (0 0 0 * * *)
		},
		{
			name: "Descriptor - @every",
			spec: "@every 1h30m", // 1시간 30분 간격
		},

		// =================================================================
		// Failure Cases (Invalid Specs / Unsupported)
		// =================================================================
		{
			name:      "Standard Cron (5 fields) - Not Supported",
			spec:      "* * * * *", // 분 시 일 월 요일 (초 필드 누락)
			wantErr:   true,
			errSubstr: "expected exactly 6 fields",
		},
		{
			name:      "Invalid Seconds (Range 0-59)",
			spec:      "60 * * * * *",
			wantErr:   true,
			errSubstr: "above maximum",
		},
		{
			name:      "Empty String",
			spec:      "",
			wantErr:   true,
			errSubstr: "empty",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			schedule, err := parser.Parse(tt.spec)
			if tt.wantErr {
				assert.Error(t, err)
				if tt.errSubstr != "" {
					assert.Contains(t, err.Error(), tt.errSubstr)
				}
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, schedule)
			}
		})
	}
}

// TestStandardParser_NextExecution은 파싱된 스케줄의 다음 실행 시간을 검증합니다.
func TestStandardParser_NextExecution(t *testing.T) {
	t.Parallel()

	parser := StandardParser()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		spec     string
		expected time.Time
	}{
		{
			name:     "Every 30 seconds",
			spec:     "*/30 * * * * *",
			expected: now.Add(30 * time.Second),
		},
		{
			name:     "Descriptor @daily",
			spec:     "@daily",
			expected: now.Add(24 * time.Hour),
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			schedule, err := parser.Parse(tt.spec)
			require.NoError(t, err)

			next := schedule.Next(now)
			assert.Equal(t, tt.expected, next, "다음 실행 시간이 예상과 일치해야 합니다")
		})
	}
}

// TestValidate는 Cron 표현식 유효성 검사 헬퍼를 검증합니다.
func TestValidate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Validate("0 30 * * * *"))
	assert.NoError(t, Validate("@hourly"))

	err := Validate("* * * * *")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Cron 표현식 파싱 실패")
}
