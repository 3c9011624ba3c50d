// Package source extracts candidate utility tokens from input files. Markup
// files are tokenized and only class attributes are looked at, everything
// else is split on delimiters which never appear in utility tokens outside of
// brackets.
package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// ErrBinary is returned for inputs recognized as binary files.
var ErrBinary = errors.New("binary input")

// Kind tells how tokens are extracted from a file.
type Kind int

const (
	// Text files are split on delimiters, most of resulting candidates are
	// not utilities at all.
	Text Kind = iota
	// Markup files contribute class attribute values only, every candidate
	// is expected to be a utility.
	Markup
)

func (k Kind) String() string {
	if k == Markup {
		return "markup"
	}
	return "text"
}

var markupExtensions = map[string]bool{
	".html":   true,
	".htm":    true,
	".xhtml":  true,
	".vue":    true,
	".svelte": true,
	".templ":  true,
}

// KindOf returns extraction kind by file name.
func KindOf(name string) Kind {
	if markupExtensions[strings.ToLower(filepath.Ext(name))] {
		return Markup
	}
	return Text
}

// Extract returns candidate tokens found in data in document order.
// Duplicates are kept.
func Extract(name string, data []byte) ([]string, error) {
	if kind, err := filetype.Match(data); err == nil && kind != filetype.Unknown {
		return nil, fmt.Errorf("%s (%s): %w", name, kind.MIME.Value, ErrBinary)
	}
	if bytes.IndexByte(data, 0) >= 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrBinary)
	}

	if KindOf(name) == Markup {
		tokens, err := fromMarkup(data)
		if err != nil {
			return nil, fmt.Errorf("unable to tokenize %s: %w", name, err)
		}
		return tokens, nil
	}
	return Split(string(data)), nil
}

func fromMarkup(data []byte) ([]string, error) {
	r, err := charset.NewReader(bytes.NewReader(data), "text/html")
	if err != nil {
		return nil, err
	}

	var tokens []string
	z := html.NewTokenizer(r)
	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return tokens, err
			}
			return tokens, nil
		case html.StartTagToken, html.SelfClosingTagToken:
			_, hasAttr := z.TagName()
			for hasAttr {
				var key, val []byte
				key, val, hasAttr = z.TagAttr()
				// attribute names are lower-cased by tokenizer
				if k := string(key); k == "class" || k == "classname" {
					tokens = append(tokens, strings.Fields(string(val))...)
				}
			}
		}
	}
}

// Split breaks text into candidate tokens on whitespace, quotes, backticks
// and <>{}=,; characters. Delimiters inside square brackets do not split, so
// arbitrary values survive.
func Split(text string) []string {
	var (
		tokens []string
		depth  int
		start  = -1
	)
	flush := func(end int) {
		if start >= 0 && end > start {
			tokens = append(tokens, text[start:end])
		}
		start = -1
	}
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c == '[':
			depth++
		case c == ']':
			if depth > 0 {
				depth--
			}
		case depth > 0 && !isSpace(c):
			// inside brackets only whitespace delimits
		case isDelimiter(c):
			flush(i)
			depth = 0
			continue
		}
		if start < 0 {
			start = i
		}
	}
	flush(len(text))
	return tokens
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

func isDelimiter(c byte) bool {
	return isSpace(c) || strings.IndexByte("\"'`<>{}=,;", c) >= 0
}
