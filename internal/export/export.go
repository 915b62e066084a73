// Package export writes the document in human-readable formats: the plain
// text listing, a Markdown outline, and an HTML page rendered from that
// outline.
package export

import (
	"bufio"
	"bytes"
	"fmt"
	"html/template"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/yuin/goldmark"

	"github.com/Iron-Ham/screencoord/internal/errors"
	"github.com/Iron-Ham/screencoord/internal/item"
)

// Supported formats.
const (
	FormatText     = "txt"
	FormatMarkdown = "md"
	FormatHTML     = "html"
)

// Title heads every export.
const Title = "Screen Coordinate Tool Export"

// now is replaced in tests.
var now = time.Now

// Write writes items to w in format.
func Write(w io.Writer, format string, items []*item.Item) error {
	switch format {
	case FormatText:
		return Text(w, items)
	case FormatMarkdown:
		return Markdown(w, items)
	case FormatHTML:
		return HTML(w, items)
	default:
		return errors.NewValidationError("unknown export format").WithField("format").WithValue(format)
	}
}

// FormatForPath picks the format from path's extension, falling back to def.
func FormatForPath(path, def string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		return FormatText
	case ".md", ".markdown":
		return FormatMarkdown
	case ".html", ".htm":
		return FormatHTML
	default:
		return def
	}
}

// DefaultFileName returns "coordinates" with the format's extension.
func DefaultFileName(format string) string {
	return "coordinates." + format
}

// Text writes the plain listing: a header, then one "label - detail" line per
// item with two spaces of indent per nesting level.
func Text(w io.Writer, items []*item.Item) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s\n%s\n\n", Title, strings.Repeat("=", 27))
	item.Walk(items, func(it, _ *item.Item, depth int) bool {
		fmt.Fprintf(bw, "%s%s - %s\n", strings.Repeat("  ", depth), it.Label(), it.Detail())
		return true
	})
	return bw.Flush()
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`",
	"[", `\[`, "]", `\]`, "<", `\<`, ">", `\>`, "#", `\#`,
)

// Markdown writes a nested bullet outline.
func Markdown(w io.Writer, items []*item.Item) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# %s\n\n", Title)
	if len(items) == 0 {
		bw.WriteString("_No items._\n")
		return bw.Flush()
	}
	item.Walk(items, func(it, _ *item.Item, depth int) bool {
		fmt.Fprintf(bw, "%s- %s **%s** %s\n",
			strings.Repeat("  ", depth), it.Prefix(), markdownEscaper.Replace(it.Name), markdownEscaper.Replace(it.Detail()))
		return true
	})
	return bw.Flush()
}

var page = template.Must(template.New("export").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; max-width: 48rem; margin: 2rem auto; }
li { margin: 0.2rem 0; }
footer { color: #666; font-size: 0.85rem; margin-top: 2rem; }
</style>
</head>
<body>
{{.Body}}
<footer>{{.Count}} items, exported {{.Generated}}</footer>
</body>
</html>
`))

// HTML writes a standalone page rendered from the Markdown outline.
func HTML(w io.Writer, items []*item.Item) error {
	var md bytes.Buffer
	if err := Markdown(&md, items); err != nil {
		return err
	}
	var body bytes.Buffer
	if err := goldmark.Convert(md.Bytes(), &body); err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}
	return page.Execute(w, struct {
		Title     string
		Body      template.HTML
		Count     int
		Generated string
	}{
		Title:     Title,
		Body:      template.HTML(body.String()),
		Count:     item.Count(items),
		Generated: now().Format("2006-01-02 15:04"),
	})
}
