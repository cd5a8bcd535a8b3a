// Package romarchive loads a cartridge or boot ROM image that ships
// inside a 7-Zip archive, so a ROM collection doesn't need to be
// pre-extracted before it can be handed to the core.
package romarchive

import (
	"fmt"
	"io"
	"os"

	"github.com/bodgit/sevenzip"
)

// Load opens the .7z archive at path and returns the bytes of its first
// entry. Multi-file archives beyond the ROM itself aren't a case the
// emulator needs to support, so only the first entry is read.
func Load(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("romarchive: %w", err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("romarchive: %w", err)
	}

	r, err := sevenzip.NewReader(f, fi.Size())
	if err != nil {
		return nil, fmt.Errorf("romarchive: %w", err)
	}
	if len(r.File) == 0 {
		return nil, fmt.Errorf("romarchive: archive is empty")
	}

	entry, err := r.File[0].Open()
	if err != nil {
		return nil, fmt.Errorf("romarchive: %w", err)
	}
	defer entry.Close()

	data, err := io.ReadAll(entry)
	if err != nil {
		return nil, fmt.Errorf("romarchive: %w", err)
	}
	return data, nil
}

// IsArchive reports whether path names a .7z archive by extension.
func IsArchive(path string) bool {
	return len(path) > 3 && path[len(path)-3:] == ".7z"
}
