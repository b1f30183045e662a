package sink

import (
	"bytes"
	"html/template"
)

// Mount is one chart placed in the host document under its mount id.
type Mount struct {
	ID    string
	Title string
	SVG   []byte
	Err   string
}

var hostTemplate = template.Must(template.New("host").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>{{.Title}}</title>
  <style>
    body { font-family: sans-serif; margin: 2rem; background: #f5f5f5; }
    section { margin-bottom: 2rem; }
    .chart-error { color: #b00020; }
  </style>
</head>
<body>
  <h1>{{.Title}}</h1>
{{- range .Mounts}}
  <section>
    <h2>{{.Title}}</h2>
    <div id="{{.ID}}">{{if .Err}}<p class="chart-error">{{.Err}}</p>{{else}}{{.SVG}}{{end}}</div>
  </section>
{{- end}}
</body>
</html>
`))

type hostMount struct {
	ID    string
	Title string
	SVG   template.HTML
	Err   string
}

// RenderHTML builds a page with one div per mount, each holding its chart
// inline. A mount with Err set shows the error in place of its chart, so one
// failed chart leaves the others intact.
func RenderHTML(title string, mounts []Mount) ([]byte, error) {
	data := struct {
		Title  string
		Mounts []hostMount
	}{Title: title}

	for _, m := range mounts {
		data.Mounts = append(data.Mounts, hostMount{
			ID:    m.ID,
			Title: m.Title,
			SVG:   template.HTML(stripXMLDecl(m.SVG)),
			Err:   m.Err,
		})
	}

	var buf bytes.Buffer
	if err := hostTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func stripXMLDecl(svg []byte) []byte {
	if bytes.HasPrefix(svg, []byte("<?xml")) {
		if i := bytes.Index(svg, []byte("?>")); i >= 0 {
			return bytes.TrimLeft(svg[i+2:], "\r\n")
		}
	}
	return svg
}
