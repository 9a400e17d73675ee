// Package markdown turns markdown documents into the plain text that is sent
// for translation, so formatting syntax does not reach the backends.
package markdown

import (
	"regexp"
	"strings"

	"github.com/gomarkdown/markdown/ast"
	"github.com/gomarkdown/markdown/parser"
)

var blankRuns = regexp.MustCompile(`\n{3,}`)

// IsMarkdownFile reports whether path has a markdown extension.
func IsMarkdownFile(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasSuffix(lower, ".md") || strings.HasSuffix(lower, ".markdown")
}

// ToPlainText keeps text, inline code and code blocks; raw HTML is dropped.
// Block elements are separated by a blank line.
func ToPlainText(md []byte) string {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	doc := p.Parse(md)

	var sb strings.Builder
	ast.WalkFunc(doc, func(node ast.Node, entering bool) ast.WalkStatus {
		switch n := node.(type) {
		case *ast.Text:
			if entering {
				sb.Write(n.Literal)
			}
		case *ast.Code:
			if entering {
				sb.Write(n.Literal)
			}
		case *ast.CodeBlock:
			if entering {
				sb.Write(n.Literal)
				sb.WriteString("\n\n")
			}
		case *ast.Softbreak:
			sb.WriteByte('\n')
		case *ast.Hardbreak:
			sb.WriteByte('\n')
		case *ast.Paragraph, *ast.Heading, *ast.ListItem, *ast.TableRow:
			if !entering {
				sb.WriteString("\n\n")
			}
		case *ast.TableCell:
			if !entering {
				sb.WriteByte('\t')
			}
		}
		return ast.GoToNext
	})

	return strings.TrimSpace(blankRuns.ReplaceAllString(sb.String(), "\n\n"))
}
