package picker

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ncruces/zenity"
)

// ErrCancelled is returned when the operator closes the dialog without a choice.
var ErrCancelled = errors.New("no file selected")

// Source yields the path of the payments file to process.
type Source interface {
	Pick(ctx context.Context) (string, error)
}

// Func adapts a function to Source.
type Func func(ctx context.Context) (string, error)

// Pick calls f.
func (f Func) Pick(ctx context.Context) (string, error) { return f(ctx) }

// Static always returns Path. An empty Path behaves like a cancelled dialog.
type Static struct {
	Path string
}

// Pick returns the configured path.
func (s Static) Pick(context.Context) (string, error) {
	if strings.TrimSpace(s.Path) == "" {
		return "", ErrCancelled
	}
	return s.Path, nil
}

// Dialog opens the native "open file" dialog restricted to one extension.
type Dialog struct {
	Title     string
	Extension string // e.g. ".xlsx"
}

// Pick blocks until the operator chooses a file or cancels.
func (d Dialog) Pick(ctx context.Context) (string, error) {
	ext := d.Extension
	if ext == "" {
		ext = ".xlsx"
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	title := d.Title
	if title == "" {
		title = "Select payments file"
	}

	path, err := zenity.SelectFile(
		zenity.Context(ctx),
		zenity.Title(title),
		zenity.FileFilters{
			{Name: filterName(ext), Patterns: []string{"*" + ext}},
		},
	)
	if errors.Is(err, zenity.ErrCanceled) {
		return "", ErrCancelled
	}
	if err != nil {
		return "", fmt.Errorf("failed to open file dialog: %w", err)
	}
	if path == "" {
		return "", ErrCancelled
	}
	return filepath.Clean(path), nil
}

func filterName(ext string) string {
	switch strings.ToLower(ext) {
	case ".xlsx":
		return "Excel files"
	case ".csv":
		return "CSV files"
	}
	return strings.ToUpper(strings.TrimPrefix(ext, ".")) + " files"
}
