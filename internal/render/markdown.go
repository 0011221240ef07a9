package render

import (
	"html/template"
	"strings"

	"github.com/russross/blackfriday/v2"
)

const markdownExtensions = blackfriday.CommonExtensions

// PlainText strips markdown from a proposal, keeping one line per block.
func PlainText(markdown string) string {
	root := blackfriday.New(blackfriday.WithExtensions(markdownExtensions)).Parse([]byte(markdown))

	var b strings.Builder
	root.Walk(func(node *blackfriday.Node, entering bool) blackfriday.WalkStatus {
		switch node.Type {
		case blackfriday.Text, blackfriday.Code, blackfriday.CodeBlock:
			if entering {
				b.Write(node.Literal)
			}
		case blackfriday.Softbreak, blackfriday.Hardbreak:
			b.WriteByte('\n')
		case blackfriday.Paragraph, blackfriday.Heading, blackfriday.Item:
			if !entering {
				b.WriteByte('\n')
			}
		}
		return blackfriday.GoToNext
	})

	var lines []string
	for _, line := range strings.Split(b.String(), "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// HTML renders proposal markdown for the web form. Raw HTML in the proposal is
// dropped.
func HTML(markdown string) template.HTML {
	renderer := blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
		Flags: blackfriday.SkipHTML | blackfriday.Safelink,
	})
	output := blackfriday.Run([]byte(markdown),
		blackfriday.WithExtensions(markdownExtensions),
		blackfriday.WithRenderer(renderer))
	return template.HTML(output)
}
