// Package greeting renders the admin-editable start message.
//
// Placeholders are written as {name}. Only the names in Placeholders are accepted; braces
// cannot be nested and every { must be closed by a }.
package greeting

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/valyala/fasttemplate"
)

const (
	startTag = "{"
	endTag   = "}"
)

// Placeholder names.
const (
	FirstName   = "first_name"
	SubInfo     = "sub_info"
	CardNumber  = "card_number"
	PhoneNumber = "phone_number"
	Amount      = "amount"
)

// Placeholders is the whitelist of substitutable names.
var Placeholders = []string{FirstName, SubInfo, CardNumber, PhoneNumber, Amount}

var (
	ErrMalformedTemplate  = errors.New("malformed template")
	ErrUnknownPlaceholder = errors.New("unknown placeholder")
)

// TemplateError describes why a template was refused.
type TemplateError struct {
	Kind        error
	Placeholder string
	Tag         string
	// Offset is the byte offset of the offending brace, or -1.
	Offset int
}

func (e *TemplateError) Error() string {
	if e.Placeholder != "" {
		return fmt.Sprintf("%v: {%s}", e.Kind, e.Placeholder)
	}
	if e.Tag != "" {
		return fmt.Sprintf("%v: <%s>", e.Kind, e.Tag)
	}
	return fmt.Sprintf("%v at offset %d", e.Kind, e.Offset)
}

func (e *TemplateError) Unwrap() error {
	return e.Kind
}

// Values maps placeholder names to their substitutions.
type Values map[string]string

// Validate checks delimiters and that every placeholder is whitelisted.
func Validate(tpl string) error {
	open := -1
	for i, r := range tpl {
		switch r {
		case '{':
			if open >= 0 {
				return &TemplateError{Kind: ErrMalformedTemplate, Offset: i}
			}
			open = i
		case '}':
			if open < 0 {
				return &TemplateError{Kind: ErrMalformedTemplate, Offset: i}
			}
			name := tpl[open+1 : i]
			if !known(name) {
				return &TemplateError{Kind: ErrUnknownPlaceholder, Placeholder: name, Offset: open}
			}
			open = -1
		}
	}
	if open >= 0 {
		return &TemplateError{Kind: ErrMalformedTemplate, Offset: open}
	}
	return nil
}

// Render substitutes values into tpl. Missing values render as empty strings.
func Render(tpl string, values Values) (string, error) {
	if err := Validate(tpl); err != nil {
		return "", err
	}
	t, err := fasttemplate.NewTemplate(tpl, startTag, endTag)
	if err != nil {
		return "", &TemplateError{Kind: ErrMalformedTemplate, Offset: -1}
	}
	return t.ExecuteFuncStringWithErr(func(w io.Writer, tag string) (int, error) {
		if !known(tag) {
			return 0, &TemplateError{Kind: ErrUnknownPlaceholder, Placeholder: tag, Offset: -1}
		}
		return w.Write([]byte(values[tag]))
	})
}

// Compose renders tpl and falls back to the raw template when it does not render.
func Compose(tpl string, values Values) (string, error) {
	out, err := Render(tpl, values)
	if err != nil {
		return tpl, err
	}
	return out, nil
}

func known(name string) bool {
	for _, p := range Placeholders {
		if p == name {
			return true
		}
	}
	return false
}

// Help lists the placeholders for the admin edit screen.
func Help() string {
	var b strings.Builder
	for i, p := range Placeholders {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(startTag + p + endTag)
	}
	return b.String()
}
