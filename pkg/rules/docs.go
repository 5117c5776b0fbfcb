package rules

import (
	"embed"
	"strings"
)

//go:embed docs/*.md
var docsFS embed.FS

// Doc returns the markdown documentation of a built-in rule
func Doc(id string) (string, bool) {
	name := "docs/" + strings.ReplaceAll(id, "/", "_") + ".md"
	data, err := docsFS.ReadFile(name)
	if err != nil {
		return "", false
	}
	return string(data), true
}
