package figure

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
)

// WriteJSON encodes the figure in plotly's {data, layout} form.
func (f *Figure) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(f)
}

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<script src="https://cdn.plot.ly/plotly-2.35.2.min.js"></script>
</head>
<body>
<div id="figure"></div>
<script>
const fig = {{.Figure}};
Plotly.newPlot("figure", fig.data, fig.layout);
</script>
</body>
</html>
`))

// WriteHTML writes a standalone page that renders the figure with plotly.js.
func (f *Figure) WriteHTML(w io.Writer) error {
	raw, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("encode figure: %w", err)
	}
	return pageTmpl.Execute(w, struct {
		Title  string
		Figure template.JS
	}{
		Title:  f.Layout.Title,
		Figure: template.JS(raw),
	})
}
