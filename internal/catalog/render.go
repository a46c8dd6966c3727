// File path: internal/catalog/render.go
package catalog

import (
	"regexp"
	"strings"
)

var placeholderPattern = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_]+)\s*\}\}`)

// Render substitutes `{{ field }}` placeholders in the template body with the
// values from the rendering context. Placeholders without a matching field are
// left untouched; they are the template author's responsibility, not a
// rendering failure.
func Render(body string, context map[string]string) string {
	if len(context) == 0 {
		return body
	}
	return placeholderPattern.ReplaceAllStringFunc(body, func(match string) string {
		name := placeholderPattern.FindStringSubmatch(match)[1]
		if value, ok := context[name]; ok {
			return value
		}
		return match
	})
}

// Render populates the definition's body with the given context.
func (d Definition) Render(context map[string]string) string {
	return strings.TrimSpace(Render(d.Content, context))
}
