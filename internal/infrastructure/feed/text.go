package feed

import (
	"fmt"
	"html"
	"io"
	"regexp"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Package-level compiled regex patterns for performance
var (
	htmlTagRegex    = regexp.MustCompile(`<[^>]+>`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
)

// CleanText normalizes free text coming out of the feed: descriptions are
// frequently double-encoded HTML inside CDATA blocks.
// Order matters: CDATA markers first, then entity decoding (which may reveal
// tags), then tag stripping, then whitespace collapse.
func CleanText(text string) string {
	if text == "" {
		return ""
	}
	text = strings.ReplaceAll(text, "<![CDATA[", "")
	text = strings.ReplaceAll(text, "]]>", "")
	text = html.UnescapeString(text)
	text = htmlTagRegex.ReplaceAllString(text, " ")
	text = whitespaceRegex.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// charsetReader lets encoding/xml handle the encodings Bitrix exports
// actually declare. UTF-8 feeds pass through untouched.
func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	var enc *encoding.Decoder
	switch strings.ToLower(charset) {
	case "", "utf-8", "utf8":
		return input, nil
	case "windows-1251", "cp1251":
		enc = charmap.Windows1251.NewDecoder()
	case "koi8-r":
		enc = charmap.KOI8R.NewDecoder()
	case "iso-8859-1", "latin1":
		enc = charmap.ISO8859_1.NewDecoder()
	default:
		return nil, fmt.Errorf("unsupported feed charset %q", charset)
	}
	return transform.NewReader(input, enc), nil
}
