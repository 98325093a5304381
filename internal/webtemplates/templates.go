// Package webtemplates holds the paste service's page shell: an upload
// form and a result page embedding the core's already-escaped diff table.
package webtemplates

import (
	"embed"
	"html"
	"html/template"
	"maps"
	"net/url"
	"strconv"
	"strings"
)

var (
	//go:embed *.tmpl
	templateFS embed.FS

	Templates = template.Must(
		template.New("").ParseFS(templateFS, "*.tmpl"),
	)
)

// FileTemplateData is the view model for file.tmpl. Table is the core's
// Execute output: the page shell never re-escapes or re-parses it, since
// the core is already responsible for producing well-formed, escaped HTML.
type FileTemplateData struct {
	ID      string
	Red     string
	Green   string
	Table   template.HTML
	Context int
	Query   url.Values
}

func (f *FileTemplateData) WithQueryValue(key, value string) string {
	uvCopy := make(url.Values)
	maps.Copy(uvCopy, f.Query)
	if value == "" {
		uvCopy.Del(key)
	} else {
		uvCopy.Set(key, value)
	}
	if len(uvCopy) == 0 {
		return ""
	}
	return "?" + uvCopy.Encode()
}

// ContextLinks renders a small picker of the seven consecutive context line
// counts around f.Context (e.g. "0 | 1 | 2 | 3 | 4 | 5 | 6" for 3), shifted
// to stay within 0..1000, linking to the same page with ?c= set accordingly.
func (f *FileTemplateData) ContextLinks() template.HTML {
	const (
		minVal = 0
		maxVal = 1000
	)
	smallest := f.Context - 3
	greatest := f.Context + 3
	if smallest < minVal {
		greatest += minVal - smallest
		smallest = minVal
	}
	if greatest > maxVal {
		smallest -= greatest - maxVal
		greatest = maxVal
	}
	var bld strings.Builder

	for i := smallest; i <= greatest; i++ {
		if bld.Len() != 0 {
			bld.WriteString(" | ")
		}
		if i == f.Context {
			bld.WriteString("<b>" + strconv.Itoa(i) + "</b>")
			continue
		}
		intString := strconv.Itoa(i)
		if intString == strconv.Itoa(defaultContext) {
			intString = ""
		}
		uri := "/" + f.ID + f.WithQueryValue("c", intString)
		bld.WriteString(
			`<a href="` + html.EscapeString(uri) + `">` + strconv.Itoa(i) + `</a>`,
		)
	}
	return template.HTML(bld.String())
}

const defaultContext = 3
