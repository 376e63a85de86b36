package repo

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/miradorstack/mirador-logscan/internal/utils"
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// LogFileRepo reads whole log files into memory. Gzip and zstd compressed files
// are detected by their magic bytes and decompressed transparently.
type LogFileRepo struct{}

// NewLogFileRepo constructs a file-backed log source.
func NewLogFileRepo() *LogFileRepo {
	return &LogFileRepo{}
}

// ReadLines returns every line of path without line terminators. Open and read
// failures are reported as utils.ErrInputUnavailable naming the file.
func (r *LogFileRepo) ReadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, utils.InputUnavailable("open log file", path, err)
	}
	defer f.Close()

	lines, err := ReadLinesFrom(f)
	if err != nil {
		return nil, utils.InputUnavailable("read log file", path, err)
	}
	return lines, nil
}

// ReadLinesFrom splits r into lines, decompressing it first when needed.
func ReadLinesFrom(r io.Reader) ([]string, error) {
	br := bufio.NewReader(r)
	src, closeFn, err := decompress(br)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	lr := bufio.NewReader(src)
	lines := make([]string, 0, 1024)
	for {
		line, err := lr.ReadString('\n')
		if len(line) > 0 {
			line = strings.TrimSuffix(line, "\n")
			lines = append(lines, strings.TrimSuffix(line, "\r"))
		}
		if errors.Is(err, io.EOF) {
			return lines, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

func decompress(br *bufio.Reader) (io.Reader, func(), error) {
	head, _ := br.Peek(len(zstdMagic))
	switch {
	case bytes.HasPrefix(head, gzipMagic):
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, nil, fmt.Errorf("gzip: %w", err)
		}
		return zr, func() { zr.Close() }, nil
	case bytes.HasPrefix(head, zstdMagic):
		dec, err := zstd.NewReader(br)
		if err != nil {
			return nil, nil, fmt.Errorf("zstd: %w", err)
		}
		return dec, dec.Close, nil
	default:
		return br, func() {}, nil
	}
}
