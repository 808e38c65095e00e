package cleaner

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoSpreadsheet is returned when the working directory holds no
// spreadsheet. It wraps fs.ErrNotExist.
var ErrNoSpreadsheet = fmt.Errorf("no spreadsheet found: %w", fs.ErrNotExist)

// Extensions accepted as cleaner input.
var Extensions = []string{".xlsx", ".xlsm", ".xls", ".csv"}

func supported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Locate returns the most recently modified spreadsheet in dir. Output
// files from earlier runs are never picked up as input.
func Locate(dir string) (string, error) {
	if dir == "" {
		dir = "."
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w in %s", ErrNoSpreadsheet, dir)
		}
		return "", fmt.Errorf("list %s: %w", dir, err)
	}

	var (
		best    string
		bestMod int64
	)
	for _, e := range entries {
		if e.IsDir() || !supported(e.Name()) || e.Name() == OutputCSV {
			continue
		}
		// Office lock files
		if strings.HasPrefix(e.Name(), "~$") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return "", fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		mod := info.ModTime().UnixNano()
		if best == "" || mod > bestMod || (mod == bestMod && e.Name() > filepath.Base(best)) {
			best = filepath.Join(dir, e.Name())
			bestMod = mod
		}
	}
	if best == "" {
		return "", fmt.Errorf("%w in %s", ErrNoSpreadsheet, dir)
	}
	return best, nil
}
