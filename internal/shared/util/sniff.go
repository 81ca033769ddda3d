package util

import (
	"bytes"
	"fmt"
	"io"
)

const sniffLen = 512

// Sniff reads up to 512 bytes for content detection and returns a reader
// that replays them ahead of the rest of r.
func Sniff(r io.Reader) ([]byte, io.Reader, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, nil, fmt.Errorf("read sniff: %w", err)
	}
	head = head[:n]
	return head, io.MultiReader(bytes.NewReader(head), r), nil
}
