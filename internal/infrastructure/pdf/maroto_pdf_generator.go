// Package pdf genera la hoja de resumen de un documento: metadatos,
// estado de revisión y tareas de workflow asociadas.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título del documento  │  Estado + Fecha de subida  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  METADATOS: Tipo / Categoría / Subido por                   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Paso | Asignado | Estado                            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: leyenda de generación                              │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

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

	"github.com/jhoicas/docuflow-api/internal/application/usecase"
	"github.com/jhoicas/docuflow-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa usecase.SummaryPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateSummaryPDF genera la hoja de resumen y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateSummaryPDF(
	_ context.Context,
	doc *entity.Document,
	uploader *entity.User,
	workflows []usecase.WorkflowForPDF,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Resumen de documento", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(metadataRow(doc, uploader))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	if len(workflows) == 0 {
		m.AddRows(row.New(7).Add(col.New(12).Add(
			text.New("Sin tareas de workflow asignadas", props.Text{
				Size: 8, Align: align.Center, Top: 1, Color: colorGray,
			}),
		)))
	}
	for _, r := range tableWorkflowRows(workflows) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(doc))

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título (izq) y estado + fecha de subida (der).
func headerRow(doc *entity.Document) core.Row {
	fecha := doc.UploadedAt.Format("02/01/2006 15:04")

	return row.New(18).Add(
		col.New(7).Add(
			text.New(doc.Title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("ID: "+doc.ID, props.Text{
				Size: 7, Top: 10, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("RESUMEN DE DOCUMENTO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(doc.Status, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Subido: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// metadataRow: tipo, categoría y usuario que subió el documento.
func metadataRow(doc *entity.Document, uploader *entity.User) core.Row {
	uploadedBy := doc.UploadedBy
	if uploader != nil {
		uploadedBy = uploader.Username
	}
	return row.New(12).Add(
		col.New(12).Add(
			text.New("METADATOS", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Tipo: %s   |   Categoría: %s   |   Subido por: %s",
				doc.DocumentType,
				nonEmpty(doc.Category, "—"),
				uploadedBy,
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de workflows.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Paso", 6, align.Left),
		h("Asignado a", 3, align.Left),
		h("Estado", 3, align.Right),
	)
}

// tableWorkflowRows: una fila por tarea de workflow.
func tableWorkflowRows(workflows []usecase.WorkflowForPDF) []core.Row {
	result := make([]core.Row, 0, len(workflows))
	for _, wf := range workflows {
		result = append(result, row.New(7).Add(
			col.New(6).Add(text.New(
				wf.CurrentStep,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(3).Add(text.New(
				wf.Assignee,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(3).Add(text.New(
				wf.Status,
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// footerRow: leyenda de generación.
func footerRow(doc *entity.Document) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(
			"Hoja de resumen generada automáticamente. Archivo original: "+doc.FilePath,
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
