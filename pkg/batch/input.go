package batch

import (
	"bufio"
	"bytes"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// zstdMagic starts every zstd frame.
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// maxLine bounds the length of a single filter.
const maxLine = 1 << 20

// ReadFilters reads one filter per line. Blank lines are skipped. Input
// compressed with zstd is decompressed transparently.
func ReadFilters(r io.Reader) ([]string, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(zstdMagic))
	if err != nil && err != io.EOF {
		return nil, err
	}

	var src io.Reader = br
	if bytes.Equal(head, zstdMagic) {
		dec, err := zstd.NewReader(br)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		src = dec
	}

	var filters []string
	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLine)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		filters = append(filters, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return filters, nil
}
