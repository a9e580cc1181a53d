package greeting

import (
	"errors"
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var (
	ErrMalformedMarkup  = errors.New("malformed HTML")
	ErrUnsupportedTag   = errors.New("unsupported HTML tag")
	ErrUnbalancedMarkup = errors.New("unclosed or mismatched HTML tag")
)

// allowedTags are the tags the Bot API accepts in HTML parse mode.
var allowedTags = map[string]struct{}{
	"b": {}, "strong": {}, "i": {}, "em": {}, "u": {}, "ins": {},
	"s": {}, "strike": {}, "del": {}, "span": {}, "tg-spoiler": {},
	"a": {}, "code": {}, "pre": {}, "blockquote": {}, "tg-emoji": {},
}

// entity matches the character references the Bot API understands.
var entity = regexp.MustCompile(`^&(lt|gt|amp|quot|#[0-9]+|#x[0-9a-fA-F]+);`)

// ValidateMarkup checks that tpl is HTML the Bot API will parse: only supported tags,
// properly nested and closed, with < > & in text written as entities.
func ValidateMarkup(tpl string) error {
	z := html.NewTokenizer(strings.NewReader(tpl))
	var open []string
	offset := 0
	for {
		tt := z.Next()
		raw := z.Raw()
		switch tt {
		case html.ErrorToken:
			// a tag cut off by the end of input also ends in io.EOF
			if !errors.Is(z.Err(), io.EOF) || offset != len(tpl) {
				return &TemplateError{Kind: ErrMalformedMarkup, Offset: offset}
			}
			if len(open) > 0 {
				return &TemplateError{Kind: ErrUnbalancedMarkup, Tag: open[len(open)-1], Offset: -1}
			}
			return nil
		case html.TextToken:
			if i := bareSymbol(raw); i >= 0 {
				return &TemplateError{Kind: ErrMalformedMarkup, Offset: offset + i}
			}
		case html.StartTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if _, ok := allowedTags[tag]; !ok {
				return &TemplateError{Kind: ErrUnsupportedTag, Tag: tag, Offset: offset}
			}
			open = append(open, tag)
		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if len(open) == 0 || open[len(open)-1] != tag {
				return &TemplateError{Kind: ErrUnbalancedMarkup, Tag: tag, Offset: offset}
			}
			open = open[:len(open)-1]
		default:
			// comments, doctypes and self-closing tags
			return &TemplateError{Kind: ErrMalformedMarkup, Offset: offset}
		}
		offset += len(raw)
	}
}

// bareSymbol returns the index of the first < or > or unrecognised & in text, or -1.
func bareSymbol(text []byte) int {
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '<', '>':
			return i
		case '&':
			if !entity.Match(text[i:]) {
				return i
			}
		}
	}
	return -1
}
