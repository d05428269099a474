package errors

import (
	"fmt"
	"slices"
	"strings"
)

// FormatForCLI renders err for stderr: the message, any context added by
// callers wrapping it, its details in key order, the cause, a hint and the
// code. Plain errors are shown as ERR_501_INTERNAL.
func FormatForCLI(err error) string {
	if err == nil {
		return ""
	}

	le, ok := As(err)
	if !ok {
		le = Wrap(ErrCodeInternal, err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Error: %s\n", le.Message)

	// "failed to initialize logging: [ERR_...] ..." keeps its prefix.
	if ok {
		if prefix, _, found := strings.Cut(err.Error(), le.Error()); found && prefix != "" {
			fmt.Fprintf(&sb, "  While: %s\n", strings.TrimSuffix(prefix, ": "))
		}
	}

	keys := make([]string, 0, len(le.Details))
	for k := range le.Details {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		fmt.Fprintf(&sb, "  %s: %s\n", k, le.Details[k])
	}

	if le.Cause != nil && le.Cause.Error() != le.Message {
		fmt.Fprintf(&sb, "  Cause: %v\n", le.Cause)
	}
	if le.Suggestion != "" {
		fmt.Fprintf(&sb, "  Hint: %s\n", le.Suggestion)
	}
	fmt.Fprintf(&sb, "  Code: %s\n", le.Code)

	return sb.String()
}
