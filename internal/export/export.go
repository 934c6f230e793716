// Package export serializes history items to CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/borgar90/ClipVault/internal/store"
)

var header = []string{"id", "created_at", "title", "category", "content"}

// WriteCSV writes items to w with a header row. Timestamps are RFC3339 UTC.
func WriteCSV(w io.Writer, items []store.ClipItem) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, it := range items {
		record := []string{
			strconv.FormatInt(it.ID, 10),
			it.CapturedAt.UTC().Format(time.RFC3339),
			it.Title,
			it.Category,
			it.Text,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write item %d: %w", it.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// File writes items as CSV to path, creating or truncating it.
func File(path string, items []store.ClipItem) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteCSV(f, items); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
