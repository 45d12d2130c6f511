// Package encoding provides text decoding for asset metadata files.
package encoding

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrUnknownEncoding is returned for encoding names this package does not know.
var ErrUnknownEncoding = errors.New("unknown text encoding")

// Supported encoding names.
const (
	UTF8  = "utf-8"
	EUCKR = "euc-kr"
)

// Lookup returns the decoder for a named encoding. The empty name means UTF-8.
// UTF-8 decoding strips a leading byte order mark.
func Lookup(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", UTF8, "utf8":
		return unicode.UTF8BOM, nil
	case EUCKR, "euckr", "cp949":
		return korean.EUCKR, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
	}
}

// Decode converts data in the named encoding to a UTF-8 string.
func Decode(data []byte, name string) (string, error) {
	enc, err := Lookup(name)
	if err != nil {
		return "", err
	}
	out, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return "", fmt.Errorf("decoding %s: %w", name, err)
	}
	return string(out), nil
}
