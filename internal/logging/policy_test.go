package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	logerrors "github.com/Aman-CERP/amanlog/internal/errors"
)

func TestDefaultRotationPolicy(t *testing.T) {
	p := DefaultRotationPolicy("archive/file.{}.log")

	assert.Equal(t, int64(5_000_000), p.MaxSizeBytes)
	assert.Equal(t, 1, p.StartIndex)
	assert.Equal(t, 50, p.MaxArchiveCount)
	assert.Equal(t, 50, p.LastIndex())
	require.NoError(t, p.Validate())
}

func TestRotationPolicy_ArchivePath(t *testing.T) {
	tests := []struct {
		pattern string
		index   int
		want    string
	}{
		{"archive/file.{}.log", 1, "archive/file.1.log"},
		{"archive/file.{}.log", 50, "archive/file.50.log"},
		{"archive/file.{index}.log", 7, "archive/file.7.log"},
		{"{}-old.log", 3, "3-old.log"},
	}

	for _, tc := range tests {
		t.Run(tc.want, func(t *testing.T) {
			p := DefaultRotationPolicy(tc.pattern)
			assert.Equal(t, tc.want, p.ArchivePath(tc.index))
		})
	}
}

func TestRotationPolicy_Validate_Pattern(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		wantErr bool
	}{
		{"empty braces", "archive/file.{}.log", false},
		{"named index", "archive/file.{index}.log", false},
		{"no placeholder", "archive/file.log", true},
		{"empty pattern", "", true},
		{"two placeholders", "archive/{}/file.{}.log", true},
		{"mixed placeholders", "archive/{index}/file.{}.log", true},
		{"unknown name", "archive/file.{n}.log", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := DefaultRotationPolicy(tc.pattern).Validate()
			if !tc.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, logerrors.ErrCodeInvalidArchivePattern, logerrors.GetCode(err))
		})
	}
}

func TestRotationPolicy_Validate_Limits(t *testing.T) {
	base := DefaultRotationPolicy("a.{}.log")

	tests := []struct {
		name   string
		mutate func(*RotationPolicy)
	}{
		{"zero size", func(p *RotationPolicy) { p.MaxSizeBytes = 0 }},
		{"negative size", func(p *RotationPolicy) { p.MaxSizeBytes = -1 }},
		{"zero count", func(p *RotationPolicy) { p.MaxArchiveCount = 0 }},
		{"negative start", func(p *RotationPolicy) { p.StartIndex = -1 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := base
			tc.mutate(&p)
			err := p.Validate()
			require.Error(t, err)
			assert.Equal(t, logerrors.ErrCodeInvalidPolicy, logerrors.GetCode(err))
		})
	}
}

func TestRotationPolicy_Validate_ZeroStartIndex(t *testing.T) {
	p := DefaultRotationPolicy("a.{}.log")
	p.StartIndex = 0

	require.NoError(t, p.Validate())
	assert.Equal(t, "a.0.log", p.ArchivePath(p.StartIndex))
	assert.Equal(t, 49, p.LastIndex())
}

func TestRotationPolicy_LastIndex_CustomStart(t *testing.T) {
	p := RotationPolicy{MaxSizeBytes: 10, StartIndex: 0, MaxArchiveCount: 3, ArchivePattern: "a.{}"}
	assert.Equal(t, 2, p.LastIndex())
}
