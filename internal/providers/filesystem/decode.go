package filesystem

import (
	"bytes"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/saintfish/chardet"
	"golang.org/x/net/html/charset"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// minCharsetConfidence is the chardet score below which a guess is ignored
const minCharsetConfidence = 20

// TextDecoder turns file bytes into UTF-8 text
type TextDecoder struct {
	maxBytes int64
}

// NewTextDecoder creates a decoder; maxBytes <= 0 disables the size cap
func NewTextDecoder(maxBytes int64) *TextDecoder {
	return &TextDecoder{maxBytes: maxBytes}
}

// IsText reports whether a detected MIME type carries text
func IsText(mtype *mimetype.MIME) bool {
	s := mtype.String()
	if strings.HasPrefix(s, "text/") ||
		mtype.Is("application/json") ||
		mtype.Is("application/xml") ||
		mtype.Is("application/javascript") {
		return true
	}
	for m := mtype.Parent(); m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}

// Decode returns data as UTF-8. It reports false for binary content and for
// text in a charset that cannot be identified.
func (d *TextDecoder) Decode(data []byte) (string, bool) {
	if len(data) == 0 {
		return "", true
	}
	if !IsText(mimetype.Detect(data)) {
		return "", false
	}

	if utf8.Valid(data) {
		return string(bytes.TrimPrefix(data, utf8BOM)), true
	}

	result, err := chardet.NewTextDetector().DetectBest(data)
	if err != nil || result == nil || result.Confidence < minCharsetConfidence {
		return "", false
	}

	enc, _ := charset.Lookup(result.Charset)
	if enc == nil {
		return "", false
	}

	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil || !utf8.Valid(decoded) {
		return "", false
	}
	return strings.TrimPrefix(string(decoded), "\uFEFF"), true
}

// DecodeLossy is Decode that never gives up; invalid sequences become U+FFFD
func (d *TextDecoder) DecodeLossy(data []byte) string {
	if text, ok := d.Decode(data); ok {
		return text
	}
	return strings.ToValidUTF8(string(data), "\uFFFD")
}

// ReadFile loads and decodes a file for content matching. Files over the
// size cap and undecodable files report false without an error.
func (d *TextDecoder) ReadFile(path string) (string, bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", false, err
	}
	if !info.Mode().IsRegular() {
		return "", false, nil
	}
	if d.maxBytes > 0 && info.Size() > d.maxBytes {
		return "", false, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", false, err
	}
	text, ok := d.Decode(data)
	return text, ok, nil
}
