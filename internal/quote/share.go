package quote

import (
	"strconv"
	"strings"
	"text/template"

	"cotizadorapp/internal/domain"
)

// shareTmpl renders the plain-text rendition of a quote used for
// copy-to-share actions. Output is deterministic for identical inputs.
var shareTmpl = template.Must(template.New("share").Funcs(template.FuncMap{
	"money": FormatARS,
}).Parse(`{{.Title}}
{{.Subtitle}}
{{range .Lines}}- {{.Label}}{{if .Code}} [{{.Code}}]{{end}}: {{money .Cost}}
{{end}}TOTAL: {{.Total}}
`))

type shareLine struct {
	Label string
	Code  string
	Cost  float64
}

type shareView struct {
	Title    string
	Subtitle string
	Lines    []shareLine
	Total    string
}

func shareText(v *domain.Vehicle, q domain.Quote) string {
	view := shareView{
		Title:    vehicleTitle(v),
		Subtitle: "Servicio: " + serviceLabel(q.Service) + " | Tarifa: " + domain.TierLabel(q.Tier),
	}

	for _, item := range q.Items {
		if item.IncludedInTotal && item.Cost > 0 {
			view.Lines = append(view.Lines, shareLine{Label: item.Label, Code: item.SelectedCode, Cost: item.Cost})
		}
	}
	if q.Combo != nil && q.Combo.Cost > 0 {
		view.Lines = append(view.Lines, shareLine{Label: q.Combo.Label, Code: q.Combo.SelectedCode, Cost: q.Combo.Cost})
	}
	if q.Labor.Cost > 0 {
		view.Lines = append(view.Lines, shareLine{Label: q.Labor.Label, Cost: q.Labor.Cost})
	}

	if q.HasMissingData {
		view.Total = "Faltan Códigos"
	} else {
		view.Total = FormatARS(q.Total)
	}

	var sb strings.Builder
	if err := shareTmpl.Execute(&sb, view); err != nil {
		return ""
	}
	return sb.String()
}

func vehicleTitle(v *domain.Vehicle) string {
	parts := []string{v.Make, v.Model}
	if v.Trim != "" {
		parts = append(parts, v.Trim)
	}
	if v.Year > 0 {
		parts = append(parts, strconv.Itoa(v.Year))
	}
	return strings.Join(parts, " ")
}

func serviceLabel(svc domain.ServiceType) string {
	if svc == domain.ServiceBelt {
		return "Cambio de Correa"
	}
	return "Cambio de Aceite"
}

// FormatARS renders a price the way the shop writes them: peso sign,
// dot thousands separator, no decimals.
func FormatARS(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	n := strconv.FormatFloat(v, 'f', 0, 64)

	var sb strings.Builder
	for i, r := range n {
		if i > 0 && (len(n)-i)%3 == 0 {
			sb.WriteByte('.')
		}
		sb.WriteRune(r)
	}
	out := "$ " + sb.String()
	if neg {
		out = "-" + out
	}
	return out
}
