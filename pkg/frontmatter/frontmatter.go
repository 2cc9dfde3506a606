// Package frontmatter splits and parses the options block at the start of the
// content of a directive:
//
//	---
//	class: tip
//	---
//	Body.
package frontmatter

import (
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/elves/mdtree/pkg/diag"
)

func isFence(line string) bool {
	line = strings.TrimRight(line, " \t")
	return len(line) >= 3 && strings.Trim(line, "-") == ""
}

// Split splits content into an options block and a body. The options block is
// delimited by two fence lines consisting of three or more "-". If content
// does not start with a fence line, or the fence is never closed, found is
// false and body is the whole content.
func Split(content string) (options, body string, found bool) {
	lines := strings.SplitAfter(content, "\n")
	if len(lines) == 0 || !isFence(strings.TrimSuffix(lines[0], "\n")) {
		return "", content, false
	}
	for i := 1; i < len(lines); i++ {
		if isFence(strings.TrimSuffix(lines[i], "\n")) {
			return strings.Join(lines[1:i], ""), strings.Join(lines[i+1:], ""), true
		}
	}
	return "", content, false
}

// Parse parses an options block as a YAML mapping. An empty block yields an
// empty map. Errors are of kind diag.MalformedInput.
func Parse(options string) (map[string]any, error) {
	var node yaml.Node
	if err := yaml.Unmarshal([]byte(options), &node); err != nil {
		return nil, diag.Errorf(diag.MalformedInput, "invalid options block: %v", err)
	}
	m := map[string]any{}
	if len(node.Content) == 0 {
		return m, nil
	}
	doc := node.Content[0]
	if doc.Kind != yaml.MappingNode {
		return nil, diag.Errorf(diag.MalformedInput,
			"options block must be a mapping, got %s", kindName(doc.Kind))
	}
	if err := doc.Decode(&m); err != nil {
		return nil, diag.Errorf(diag.MalformedInput, "invalid options block: %v", err)
	}
	return m, nil
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.SequenceNode:
		return "a sequence"
	case yaml.ScalarNode:
		return "a scalar"
	case yaml.AliasNode:
		return "an alias"
	default:
		return "a document"
	}
}
