//go:build !unix

package scanner

import (
	"io"
	"os"
)

// mapFile reads the whole file on platforms without mmap support.
func mapFile(file *os.File, size int64) ([]byte, func(), error) {
	data := make([]byte, size)
	if _, err := io.ReadFull(file, data); err != nil {
		return nil, nil, err
	}
	return data, func() {}, nil
}
