package utils

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"

	"github.com/sqweek/dialog"
)

// AskForFile opens a native file picker rooted at startingDir.
func AskForFile(title, startingDir string) (string, error) {
	return dialog.File().SetStartDir(startingDir).Title(title).Load()
}

// IsSize reports whether filename has exactly the given size, without
// reading its contents.
func IsSize(filename string, size int64) bool {
	fi, err := os.Stat(filename)
	if err != nil {
		return false
	}
	return fi.Size() == size
}

// LoadFile reads filename, transparently decompressing a .gz or .zip
// wrapper. .7z archives are handled by pkg/romarchive instead, since that
// format needs its own reader rather than a plain io.Reader wrapper.
func LoadFile(filename string) ([]byte, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	switch filepath.Ext(filename) {
	case ".gb", ".gbc", ".bin":
		return data, nil
	case ".gz":
		r, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		return io.ReadAll(r)
	case ".zip":
		zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return nil, err
		}
		zf, err := zr.File[0].Open()
		if err != nil {
			return nil, err
		}
		return io.ReadAll(zf)
	default:
		return data, nil
	}
}
