package log

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestOptions_Validate는 로그 설정 검증 로직을 확인합니다.
func TestOptions_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		opts      Options
		wantErr   bool
		errSubstr string
	}{
		{
			name: "Valid Options",
			opts: Options{Name: "catalog-server"},
		},
		{
			name:      "Missing Name",
			opts:      Options{},
			wantErr:   true,
			errSubstr: "Name",
		},
		{
			name:      "Negative MaxAge",
			opts:      Options{Name: "catalog-server", MaxAge: -1},
			wantErr:   true,
			errSubstr: "MaxAge",
		},
		{
			name:      "Negative MaxSizeMB",
			opts:      Options{Name: "catalog-server", MaxSizeMB: -1},
			wantErr:   true,
			errSubstr: "MaxSizeMB",
		},
		{
			name:      "Negative MaxBackups",
			opts:      Options{Name: "catalog-server", MaxBackups: -1},
			wantErr:   true,
			errSubstr: "MaxBackups",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.opts.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errSubstr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// TestOptions_Validate_DirIsFile은 로그 디렉토리 경로가 파일인 경우를 검증합니다.
func TestOptions_Validate_DirIsFile(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	filePath := filepath.Join(tmpDir, "not-a-dir")
	require.NoError(t, writeTestFile(filePath))

	opts := Options{Name: "catalog-server", Dir: filePath}
	err := opts.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "이미 파일로 존재합니다")
}

// TestProfiles는 환경별 기본 프로파일의 설정값을 검증합니다.
func TestProfiles(t *testing.T) {
	t.Parallel()

	t.Run("Production", func(t *testing.T) {
		t.Parallel()

		opts := NewProductionOptions("catalog-server")
		assert.NoError(t, opts.Validate())
		assert.Equal(t, InfoLevel, opts.Level)
		assert.True(t, opts.EnableCriticalLog)
		assert.True(t, opts.EnableVerboseLog)
		assert.False(t, opts.EnableConsoleLog)
	})

	t.Run("Development", func(t *testing.T) {
		t.Parallel()

		opts := NewDevelopmentOptions("catalog-server")
		assert.NoError(t, opts.Validate())
		assert.Equal(t, TraceLevel, opts.Level)
		assert.False(t, opts.EnableCriticalLog)
		assert.True(t, opts.EnableConsoleLog)
	})
}
