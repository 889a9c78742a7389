package formatter

import (
	"fmt"
	"io"
	"text/template"

	"github.com/funkwit/pokemon-go-manager/internal/types"
)

var planTemplate = template.Must(template.New("plan").Funcs(template.FuncMap{
	"category": func(item int) string {
		return types.ItemID(item).Category().String()
	},
	"species": func(r ActionRow) string {
		return fmt.Sprintf("%s (#%d)", r.Name, r.Species)
	},
}).Parse(planMarkdown))

func writePlanMarkdown(w io.Writer, v *PlanView) error {
	return planTemplate.Execute(w, v)
}

const planMarkdown = `# Inventory plan
{{- if .Evolve }}

## Evolve

| ID | Species | CP |
|----|---------|----|
{{- range .Evolve }}
| {{ .ID }} | {{ species . }} | {{ .CP }} |
{{- end }}
{{- end }}
{{- if .Favorites }}

## Favorites

| ID | Species | CP | Change |
|----|---------|----|--------|
{{- range .Favorites }}
| {{ .ID }} | {{ species . }} | {{ .CP }} | {{ .Action }} |
{{- end }}
{{- end }}
{{- if .Release }}

## Release

| ID | Species | CP |
|----|---------|----|
{{- range .Release }}
| {{ .ID }} | {{ species . }} | {{ .CP }} |
{{- end }}
{{- end }}
{{- if .Discard }}

## Discard ({{ .ToDiscard }} over the cap)

| Item | Category | Count |
|------|----------|-------|
{{- range .Discard }}
| {{ .Item }} | {{ category .Item }} | {{ .Count }} |
{{- end }}
{{- end }}
{{- if not (or .Evolve .Favorites .Release .Discard) }}

Nothing to do.
{{- end }}
`
