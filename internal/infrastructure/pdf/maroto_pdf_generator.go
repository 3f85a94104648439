// Package pdf genera la ficha imprimible de una solicitud de servicio.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Uranus Group        │  Demande de Service          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Titre / Service / Client / Statut / Priorité /       │
//	│         Dates / Assigné à                                    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DESCRIPTION                                                 │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: fecha de generación                                 │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/uranusgroup/uranus-web/internal/application/backoffice"
	"github.com/uranusgroup/uranus-web/internal/domain/entity"
)

// ── Paleta de colores (marca) ─────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0x0A, Green: 0x1A, Blue: 0x2F} // #0A1A2F
	colorAccent  = &props.Color{Red: 0x0D, Green: 0xE1, Blue: 0xE7} // #0DE1E7
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorLight   = &props.Color{Red: 240, Green: 244, Blue: 248}
)

const dateLayout = "02/01/2006 15:04"

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa backoffice.RequestPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	company string
	now     func() time.Time
}

var _ backoffice.RequestPDFGenerator = (*MarotoPDFGenerator)(nil)

// NewMarotoPDFGenerator construye el generador. company aparece en la cabecera.
func NewMarotoPDFGenerator(company string) *MarotoPDFGenerator {
	if company == "" {
		company = "Uranus Group"
	}
	return &MarotoPDFGenerator{company: company, now: time.Now}
}

// GenerateRequestPDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateRequestPDF(_ context.Context, req *entity.ServiceRequest) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(15).WithRightMargin(15).
		WithTopMargin(15).WithBottomMargin(15).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 10}).
		WithTitle("Demande de Service", true).
		WithAuthor(g.company, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.company, req))
	m.AddRows(line.NewRow(2, props.Line{Color: colorAccent, Thickness: 1}))
	m.AddRows(row.New(4))
	for _, r := range detailRows(req) {
		m.AddRows(r)
	}
	m.AddRows(row.New(4))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	for _, r := range descriptionRows(req.Description) {
		m.AddRows(r)
	}
	m.AddRows(row.New(6))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.2}))
	m.AddRows(footerRow(g.now()))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: empresa (izq) y tipo de documento + referencia (der).
func headerRow(company string, req *entity.ServiceRequest) core.Row {
	return row.New(20).Add(
		col.New(6).Add(
			text.New(company, props.Text{
				Style: fontstyle.Bold, Size: 18, Color: colorPrimary, Top: 2,
			}),
		),
		col.New(6).Add(
			text.New("Demande de Service", props.Text{
				Style: fontstyle.Bold, Size: 13, Align: align.Right, Color: colorPrimary, Top: 2,
			}),
			text.New("Réf. "+shortID(req.ID), props.Text{
				Size: 8, Align: align.Right, Color: colorGray, Top: 11,
			}),
		),
	)
}

// Field fila etiqueta/valor de la ficha.
type Field struct {
	Label string
	Value string
}

// Fields devuelve las filas de la ficha en el orden en que se imprimen.
func Fields(req *entity.ServiceRequest) []Field {
	return []Field{
		{"Titre", req.Title},
		{"Service", req.ServiceName},
		{"Client", req.ClientUsername},
		{"Statut", req.Status.Label()},
		{"Priorité", req.Priority.Label()},
		{"Date de création", req.CreatedAt.Format(dateLayout)},
		{"Date limite", formatOptional(req.Deadline)},
		{"Date de complétion", formatOptional(req.CompletedAt)},
		{"Assigné à", nonEmpty(req.AssigneeUsername, "Non assigné")},
	}
}

// detailRows: tabla de dos columnas con fondo alterno.
func detailRows(req *entity.ServiceRequest) []core.Row {
	fields := Fields(req)
	rows := make([]core.Row, 0, len(fields))
	for i, f := range fields {
		r := row.New(8).Add(
			col.New(4).Add(text.New(f.Label, props.Text{
				Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 2, Left: 2,
			})),
			col.New(8).Add(text.New(nonEmpty(f.Value, "—"), props.Text{
				Size: 9, Top: 2, Left: 2,
			})),
		)
		if i%2 == 0 {
			r = r.WithStyle(&props.Cell{BackgroundColor: colorLight})
		}
		rows = append(rows, r)
	}
	return rows
}

// descriptionRows: título y un bloque por párrafo.
func descriptionRows(description string) []core.Row {
	rows := []core.Row{
		row.New(10).Add(col.New(12).Add(
			text.New("Description", props.Text{
				Style: fontstyle.Bold, Size: 11, Color: colorPrimary, Top: 3,
			}),
		)),
	}
	for _, p := range strings.Split(strings.TrimSpace(description), "\n") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		// Altura aproximada: una línea cada ~95 caracteres.
		height := 6.0 * float64(1+len(p)/95)
		rows = append(rows, row.New(height).Add(col.New(12).Add(
			text.New(p, props.Text{Size: 9, Top: 1}),
		)))
	}
	return rows
}

// footerRow: fecha de generación.
func footerRow(now time.Time) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New("Document généré le "+now.Format(dateLayout), props.Text{
			Size: 7, Align: align.Right, Color: colorGray, Top: 2,
		}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func formatOptional(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}

func shortID(id string) string {
	if len(id) > 8 {
		return strings.ToUpper(id[:8])
	}
	return strings.ToUpper(id)
}
