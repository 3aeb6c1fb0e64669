package gateway

import (
	"html/template"
	"io"
)

// Page is everything one render needs.
type Page struct {
	Outcome Outcome
	Host    string // reported as "Served by Pod"
}

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Multi-Tier App</title>
    <style>
        body { font-family: sans-serif; padding: 20px; }
        #data-container { margin-top: 20px; border: 1px solid #ccc; padding: 15px; min-height: 50px; background-color: #f9f9f9; }
        #error-container { color: red; margin-top: 10px; font-weight: bold; }
        ul { list-style-type: none; padding: 0; }
        li { margin-bottom: 5px; }
        .served-by { font-size: 0.8em; color: #666; margin-top: 15px; }
    </style>
</head>
<body>
    <h1>Welcome to the Multi-Tier App!</h1>

    <h2>Data from Database via API:</h2>
    <div id="data-container">
        {{template "data" .Outcome}}
    </div>
    <p class="served-by">Served by Pod: {{.Host}}</p>
</body>
</html>
{{define "data"}}
{{- if .Failed}}<div id="error-container">{{.Message}}</div>
{{- else if .Rows}}<ul>{{range .Rows}}<li>ID: {{.ID}}, Name: {{.Name}}</li>{{end}}</ul>
{{- else}}No data found in the database.
{{- end}}
{{- end}}`))

// Render writes the full HTML page. All outcome text is escaped by html/template.
func Render(w io.Writer, p Page) error {
	return pageTmpl.Execute(w, p)
}
