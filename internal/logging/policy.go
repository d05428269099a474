package logging

import (
	"fmt"
	"strconv"
	"strings"

	logerrors "github.com/Aman-CERP/amanlog/internal/errors"
)

// Fixed rotation limits applied by Initialize.
const (
	DefaultMaxSizeBytes    int64 = 5_000_000
	DefaultStartIndex            = 1
	DefaultMaxArchiveCount       = 50
)

// Accepted spellings of the archive index placeholder.
var indexPlaceholders = []string{"{index}", "{}"}

// RotationPolicy is a size trigger plus a fixed-window roller.
// StartIndex may be 0; only negative bases are rejected.
//
// When the active file grows past MaxSizeBytes it becomes archive
// StartIndex, older archives shift up by one, and the archive that would
// land past LastIndex is deleted.
type RotationPolicy struct {
	MaxSizeBytes    int64
	StartIndex      int
	MaxArchiveCount int
	// ArchivePattern names archives; it holds exactly one "{}" or "{index}".
	ArchivePattern string
}

// DefaultRotationPolicy returns the 5 MB / 50 archive policy for pattern.
func DefaultRotationPolicy(pattern string) RotationPolicy {
	return RotationPolicy{
		MaxSizeBytes:    DefaultMaxSizeBytes,
		StartIndex:      DefaultStartIndex,
		MaxArchiveCount: DefaultMaxArchiveCount,
		ArchivePattern:  pattern,
	}
}

// Validate reports a typed error for an unusable policy.
func (p RotationPolicy) Validate() error {
	if p.MaxSizeBytes <= 0 {
		return logerrors.New(logerrors.ErrCodeInvalidPolicy,
			fmt.Sprintf("max size must be positive, got %d", p.MaxSizeBytes), nil)
	}
	if p.StartIndex < 0 {
		return logerrors.New(logerrors.ErrCodeInvalidPolicy,
			fmt.Sprintf("start index must not be negative, got %d", p.StartIndex), nil)
	}
	if p.MaxArchiveCount <= 0 {
		return logerrors.New(logerrors.ErrCodeInvalidPolicy,
			fmt.Sprintf("archive count must be positive, got %d", p.MaxArchiveCount), nil)
	}

	n := countPlaceholders(p.ArchivePattern)
	switch {
	case n == 0:
		return logerrors.New(logerrors.ErrCodeInvalidArchivePattern,
			fmt.Sprintf("archive pattern %q has no index placeholder", p.ArchivePattern), nil).
			WithSuggestion("use a pattern such as archive/file.{}.log")
	case n > 1:
		return logerrors.New(logerrors.ErrCodeInvalidArchivePattern,
			fmt.Sprintf("archive pattern %q has %d index placeholders, want 1", p.ArchivePattern, n), nil)
	}
	return nil
}

// LastIndex is the highest archive index kept.
func (p RotationPolicy) LastIndex() int {
	return p.StartIndex + p.MaxArchiveCount - 1
}

// ArchivePath renders the archive file name for index.
func (p RotationPolicy) ArchivePath(index int) string {
	for _, ph := range indexPlaceholders {
		if strings.Contains(p.ArchivePattern, ph) {
			return strings.Replace(p.ArchivePattern, ph, strconv.Itoa(index), 1)
		}
	}
	return p.ArchivePattern
}

func countPlaceholders(pattern string) int {
	// "{index}" does not contain "{}", so the two counts never overlap.
	n := 0
	for _, ph := range indexPlaceholders {
		n += strings.Count(pattern, ph)
	}
	return n
}
