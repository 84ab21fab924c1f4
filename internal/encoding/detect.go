// Package encoding normalizes bank CSV exports to UTF-8. Brazilian banks ship
// statements in a mix of UTF-8 (with or without BOM) and Latin-1 variants.
package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const peekSize = 4096

var bomUTF8 = []byte{0xEF, 0xBB, 0xBF}

// charsets maps chardet results onto decoders. Latin-1 family statements are
// all decoded as Windows-1252, its superset.
var charsets = map[string]encoding.Encoding{
	"ISO-8859-1":   charmap.Windows1252,
	"ISO-8859-9":   charmap.ISO8859_9,
	"ISO-8859-15":  charmap.ISO8859_15,
	"windows-1252": charmap.Windows1252,
}

// NewUTF8Reader wraps r so its content reads as UTF-8 regardless of the
// source encoding. BOMs win, then valid UTF-8 passes through untouched, then
// chardet decides; anything unrecognized is treated as Windows-1252.
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)

	head, err := br.Peek(peekSize)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	if decoded, ok := fromBOM(br, head); ok {
		return decoded, nil
	}

	if utf8.Valid(head) {
		return br, nil
	}

	if result, err := chardet.NewTextDetector().DetectBest(head); err == nil {
		if result.Charset == "UTF-8" {
			return br, nil
		}

		if enc, ok := charsets[result.Charset]; ok {
			return transform.NewReader(br, enc.NewDecoder()), nil
		}
	}

	return transform.NewReader(br, charmap.Windows1252.NewDecoder()), nil
}

// fromBOM resolves the encoding from a byte order mark, if one is present.
// The UTF-8 BOM is stripped; UTF-16 BOMs select the matching decoder.
func fromBOM(br *bufio.Reader, head []byte) (io.Reader, bool) {
	if bytes.HasPrefix(head, bomUTF8) {
		_, _ = br.Discard(len(bomUTF8))
		return br, true
	}

	if len(head) >= 2 && head[0] == 0xFF && head[1] == 0xFE {
		return transform.NewReader(br, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()), true
	}

	if len(head) >= 2 && head[0] == 0xFE && head[1] == 0xFF {
		return transform.NewReader(br, unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()), true
	}

	return nil, false
}
