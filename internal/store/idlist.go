package store

import (
	"errors"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
)

// The ignored/favourite/messaged id sets live next to the database as
// newline-delimited sorted files so a human can diff or hand-edit them.

// ReadIDList loads one id list. A missing file is remade empty rather
// than treated as an error.
func ReadIDList(path string) ([]string, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Printf("[store] remaking %s", path)
		if werr := WriteIDList(path, nil); werr != nil {
			return nil, werr
		}
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read id list %s: %w", path, err)
	}

	var ids []string
	for _, line := range strings.Split(string(b), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			ids = append(ids, line)
		}
	}
	return ids, nil
}

// WriteIDList persists one id list, sorted, one id per line.
func WriteIDList(path string, ids []string) error {
	sorted := make([]string, len(ids))
	copy(sorted, ids)
	sort.Strings(sorted)

	var sb strings.Builder
	for _, id := range sorted {
		sb.WriteString(id)
		sb.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("write id list %s: %w", path, err)
	}
	return nil
}
