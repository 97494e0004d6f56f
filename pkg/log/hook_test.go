package log

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestHook 테스트용 Hook과 레벨별 버퍼를 생성하는 헬퍼 함수입니다.
func newTestHook() (*hook, *bytes.Buffer, *bytes.Buffer, *bytes.Buffer, *bytes.Buffer) {
	mainBuf := &bytes.Buffer{}
	criticalBuf := &bytes.Buffer{}
	verboseBuf := &bytes.Buffer{}
	consoleBuf := &bytes.Buffer{}

	h := &hook{
		mainWriter:     mainBuf,
		criticalWriter: criticalBuf,
		verboseWriter:  verboseBuf,
		consoleWriter:  consoleBuf,
		formatter:      &logrus.TextFormatter{DisableTimestamp: true},
	}

	return h, mainBuf, criticalBuf, verboseBuf, consoleBuf
}

// newTestEntry 지정된 레벨의 로그 Entry를 생성하는 헬퍼 함수입니다.
func newTestEntry(level Level, msg string) *Entry {
	entry := logrus.NewEntry(logrus.New())
	entry.Level = level
	entry.Message = msg
	return entry
}

// TestHook_LevelRouting은 로그 레벨에 따른 Writer 라우팅 정책을 검증합니다.
//
// 검증 항목:
//   - Error 이상: Critical + Main + Console
//   - Info/Warn: Main + Console
//   - Debug/Trace: Verbose + Console (Main 미기록)
func TestHook_LevelRouting(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		level        Level
		wantMain     bool
		wantCritical bool
		wantVerbose  bool
	}{
		{
			name:         "Error Level",
			level:        ErrorLevel,
			wantMain:     true,
			wantCritical: true,
			wantVerbose:  false,
		},
		{
			name:         "Warn Level",
			level:        WarnLevel,
			wantMain:     true,
			wantCritical: false,
			wantVerbose:  false,
		},
		{
			name:         "Info Level",
			level:        InfoLevel,
			wantMain:     true,
			wantCritical: false,
			wantVerbose:  false,
		},
		{
			name:         "Debug Level",
			level:        DebugLevel,
			wantMain:     false,
			wantCritical: false,
			wantVerbose:  true,
		},
		{
			name:         "Trace Level",
			level:        TraceLevel,
			wantMain:     false,
			wantCritical: false,
			wantVerbose:  true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h, mainBuf, criticalBuf, verboseBuf, consoleBuf := newTestHook()

			err := h.Fire(newTestEntry(tt.level, "test message"))
			require.NoError(t, err)

			assert.Equal(t, tt.wantMain, mainBuf.Len() > 0, "Main Writer 기록 여부 불일치")
			assert.Equal(t, tt.wantCritical, criticalBuf.Len() > 0, "Critical Writer 기록 여부 불일치")
			assert.Equal(t, tt.wantVerbose, verboseBuf.Len() > 0, "Verbose Writer 기록 여부 불일치")
			assert.Positive(t, consoleBuf.Len(), "Console Writer는 모든 레벨을 기록해야 합니다")
		})
	}
}

// TestHook_Closed는 Close() 이후 로그 기록이 차단되는지 검증합니다.
func TestHook_Closed(t *testing.T) {
	t.Parallel()

	h, mainBuf, _, _, _ := newTestHook()

	require.NoError(t, h.Close())

	err := h.Fire(newTestEntry(InfoLevel, "after close"))
	assert.NoError(t, err)
	assert.Zero(t, mainBuf.Len(), "Close 이후에는 로그가 기록되지 않아야 합니다")
}
