// Package report renders merge summaries with text/template and the sprig
// function library.
package report

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/jakoblorz/slnchain/internal/filesystem"
	"github.com/jakoblorz/slnchain/internal/merge"
)

// DefaultTemplate is used when no custom summary template is given.
const DefaultTemplate = `{{- if .DryRun }}Dry run: {{ end -}}
{{ .Root }} -> {{ .Target }}{{ if .Created }} (created){{ end }}
Chain: {{ .Chain | join " > " }}
Added {{ len .Added }} project(s){{ if .Added }}: {{ .Added | join ", " }}{{ end }}
{{- if .Skipped }}
Already present: {{ .Skipped | join ", " }}
{{- end }}
Build configs added: {{ .ConfigsAdded }} ({{ .SourceConfig | default "synthesized" }} => {{ .TargetConfig }})
{{- if .Backup }}
Backup: {{ .Backup }}
{{- end }}
`

// Data is the value templates are executed against.
type Data struct {
	Root         string
	Source       string
	Target       string
	Chain        []string
	Added        []string
	Skipped      []string
	ConfigsAdded int
	SourceConfig string
	TargetConfig string
	Backup       string
	Created      bool
	DryRun       bool
}

// NewData flattens a merge result into template data.
func NewData(result *merge.Result) Data {
	data := Data{
		Source:       result.SourcePath,
		Target:       result.TargetPath,
		ConfigsAdded: result.ConfigsAdded,
		TargetConfig: result.TargetConfig,
		Backup:       result.BackupPath,
		Created:      result.TargetCreated,
		DryRun:       result.DryRun,
		Chain:        []string{},
		Added:        []string{},
		Skipped:      []string{},
	}
	if !result.BareProjectRun {
		data.SourceConfig = result.SourceConfig
	}
	if result.Root != nil {
		data.Root = result.Root.Name()
	}
	for _, p := range result.Chain {
		data.Chain = append(data.Chain, p.Name())
	}
	for _, p := range result.Added {
		data.Added = append(data.Added, p.Name())
	}
	for _, p := range result.Skipped {
		data.Skipped = append(data.Skipped, p.Name())
	}
	return data
}

// Renderer executes summary templates.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses text as a summary template.
func NewRenderer(text string) (*Renderer, error) {
	tmpl, err := template.New("summary").Funcs(sprig.TxtFuncMap()).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse summary template: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// NewDefaultRenderer uses DefaultTemplate.
func NewDefaultRenderer() *Renderer {
	r, err := NewRenderer(DefaultTemplate)
	if err != nil {
		panic(err)
	}
	return r
}

// LoadRenderer reads a template file through fs.
func LoadRenderer(fs filesystem.FileSystem, path string) (*Renderer, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read summary template: %w", err)
	}
	return NewRenderer(string(data))
}

// Render executes the template for result.
func (r *Renderer) Render(result *merge.Result) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, NewData(result)); err != nil {
		return "", fmt.Errorf("failed to render summary: %w", err)
	}
	return buf.String(), nil
}
