package python

import (
	"strings"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// encodingSampleSize bounds how many raw bytes feed the statistical detector.
const encodingSampleSize = 10 * 1024

// detectEncoding runs charset detection over the first 10 KB of raw content
// and falls back to UTF-8 when detection is inconclusive.
func detectEncoding(raw []byte) string {
	sample := raw
	if len(sample) > encodingSampleSize {
		sample = sample[:encodingSampleSize]
	}

	result, err := chardet.NewTextDetector().DetectBest(sample)
	if err != nil || result == nil || result.Charset == "" {
		return "utf-8"
	}
	return strings.ToLower(result.Charset)
}

// decode converts raw bytes to a string using the named charset. Unknown
// charsets and UTF-8 variants pass the bytes through unchanged.
func decode(raw []byte, charset string) string {
	switch charset {
	case "", "utf-8", "ascii", "us-ascii":
		return string(raw)
	}

	enc, err := htmlindex.Get(charset)
	if err != nil || enc == nil || enc == unicode.UTF8 {
		return string(raw)
	}

	decoded, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return string(raw)
	}
	return string(decoded)
}
