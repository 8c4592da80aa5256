package payments

import (
	"fmt"
	"strings"
)

// FileFormatError reports a payments file whose header lacks required columns.
type FileFormatError struct {
	Path    string
	Missing []string
	Reason  string
}

func (e *FileFormatError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("file format error in %s: missing columns %s", e.Path, strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("file format error in %s: %s", e.Path, e.Reason)
}
