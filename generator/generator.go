package generator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/ridoystarlord/sprocmap/schema"
)

// Diagram formats.
const (
	FormatPlantUML = "plantuml"
	FormatMermaid  = "mermaid"
	FormatAll      = "all"
)

const plantUMLTemplate = `@startuml "{{.Name}}"

class {{.ID}} <<domain service>> {
{{- range .Procs}}
  + {{id .}}() <<api>>
{{- end}}
}

package "{{.ID}}_PROCS" {
{{- range .Procs}}
  class {{id .}} <<proc>> {
  }
{{- end}}
}

package "{{.ID}}_READS" {
{{- range .ReadTables}}
  class {{id .}} <<table>> {
  }
{{- end}}
}

package "{{.ID}}_WRITES" {
{{- range .WriteTables}}
  class {{id .}} <<table>> {
  }
{{- end}}
}

{{.ID}} --> "{{.ID}}_PROCS" : calls
"{{.ID}}_PROCS" --> "{{.ID}}_READS" : reads
"{{.ID}}_PROCS" --> "{{.ID}}_WRITES" : writes

@enduml
`

const mermaidTemplate = `---
title: {{.Name}}
---
classDiagram
  class {{.ID}} {
    <<domain service>>
{{- range .Procs}}
    +{{id .}}()
{{- end}}
  }
{{- range .Procs}}
  class proc_{{id .}}["{{.}}"] {
    <<proc>>
  }
  {{$.ID}} --> proc_{{id .}} : calls
{{- end}}
{{- range .ReadTables}}
  class read_{{id .}}["{{.}}"] {
    <<table>>
  }
  {{$.ID}} ..> read_{{id .}} : reads
{{- end}}
{{- range .WriteTables}}
  class write_{{id .}}["{{.}}"] {
    <<table>>
  }
  {{$.ID}} ..> write_{{id .}} : writes
{{- end}}
`

var (
	funcs    = template.FuncMap{"id": identifier}
	plantUML = template.Must(template.New("plantuml").Funcs(funcs).Parse(plantUMLTemplate))
	mermaid  = template.Must(template.New("mermaid").Funcs(funcs).Parse(mermaidTemplate))

	nonIdentifier = regexp.MustCompile(`[^A-Za-z0-9_]+`)
	unsafeFile    = regexp.MustCompile(`[/\\:*?"<>|]+`)
)

type diagramData struct {
	Name        string
	ID          string
	Procs       []string
	ReadTables  []string
	WriteTables []string
}

// identifier turns a name into something both diagram languages accept
// unquoted. "Service With No Name" becomes Service_With_No_Name.
func identifier(name string) string {
	id := nonIdentifier.ReplaceAllString(name, "_")
	if id == "" {
		return "_"
	}
	return id
}

func render(tmpl *template.Template, def schema.ServiceDefinition) (string, error) {
	data := diagramData{
		Name:        def.ServiceName,
		ID:          identifier(def.ServiceName),
		Procs:       def.Procs,
		ReadTables:  def.ReadTables,
		WriteTables: def.WriteTables,
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering %s diagram for %s: %v", tmpl.Name(), def.ServiceName, err)
	}
	return buf.String(), nil
}

// PlantUML describes one service as a PlantUML class diagram: the service,
// and packages of its procedures, read tables and write tables.
func PlantUML(def schema.ServiceDefinition) (string, error) {
	return render(plantUML, def)
}

// Mermaid describes one service as a Mermaid class diagram.
func Mermaid(def schema.ServiceDefinition) (string, error) {
	return render(mermaid, def)
}

// WriteDiagrams writes one diagram description per service into dir and
// returns the paths written. Services sharing a name get numbered files.
// Nothing is rendered to an image.
func WriteDiagrams(dir string, defs []schema.ServiceDefinition, format string) ([]string, error) {
	type output struct {
		ext    string
		render func(schema.ServiceDefinition) (string, error)
	}
	var outputs []output
	switch format {
	case FormatPlantUML:
		outputs = []output{{".puml", PlantUML}}
	case FormatMermaid:
		outputs = []output{{".mmd", Mermaid}}
	case FormatAll:
		outputs = []output{{".puml", PlantUML}, {".mmd", Mermaid}}
	default:
		return nil, fmt.Errorf("unsupported diagram format %q (plantuml, mermaid, all)", format)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating diagram folder: %v", err)
	}

	var paths []string
	used := map[string]int{}
	for _, def := range defs {
		base := fileName(def.ServiceName)
		used[base]++
		if n := used[base]; n > 1 {
			base = fmt.Sprintf("%s_%d", base, n)
		}

		for _, out := range outputs {
			content, err := out.render(def)
			if err != nil {
				return paths, err
			}
			path := filepath.Join(dir, base+out.ext)
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				return paths, fmt.Errorf("writing diagram file: %v", err)
			}
			paths = append(paths, path)
		}
	}
	return paths, nil
}

func fileName(serviceName string) string {
	name := strings.TrimSpace(unsafeFile.ReplaceAllString(serviceName, "_"))
	if name == "" || name == "." || name == ".." {
		return "service"
	}
	return name
}

// WriteJSON writes the service definitions as an indented JSON array.
func WriteJSON(w io.Writer, defs []schema.ServiceDefinition) error {
	if defs == nil {
		defs = []schema.ServiceDefinition{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(defs)
}

// WriteYAML writes the service definitions as a YAML list.
func WriteYAML(w io.Writer, defs []schema.ServiceDefinition) error {
	if defs == nil {
		defs = []schema.ServiceDefinition{}
	}
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(defs); err != nil {
		return err
	}
	return encoder.Close()
}
