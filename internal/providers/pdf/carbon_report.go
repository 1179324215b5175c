package pdf

import (
	"context"
	"fmt"
	"strings"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/page"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const dateLayout = "02/01/2006"

var accent = &props.Color{Red: 22, Green: 101, Blue: 52}

type marotoRenderer struct {
	printer *message.Printer
}

func New() Renderer {
	return &marotoRenderer{printer: message.NewPrinter(language.English)}
}

func (r *marotoRenderer) RenderCarbonReport(ctx context.Context, data CarbonReportData) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithTitle(data.TypeLabel, true).
		WithAuthor(data.ProductName, true).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    8,
		}).
		Build()

	m := maroto.New(cfg)
	for _, blocks := range planPages(data) {
		pg := page.New()
		for _, b := range blocks {
			pg.Add(r.rows(b, data)...)
		}
		m.AddPages(pg)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("render carbon report: %w", err)
	}
	out := doc.GetBytes()
	if len(out) == 0 {
		return nil, fmt.Errorf("render carbon report: empty document")
	}
	return out, nil
}

func (r *marotoRenderer) rows(b block, data CarbonReportData) []core.Row {
	switch b.kind {
	case blockMasthead:
		return []core.Row{
			row.New(12).Add(
				text.NewCol(6, data.ProductName, props.Text{Size: 20, Style: fontstyle.Bold, Color: accent}),
				text.NewCol(6, data.TypeLabel, props.Text{Size: 14, Style: fontstyle.Bold, Align: align.Right}),
			),
			row.New(8).Add(
				text.NewCol(6, "Période : "+data.PeriodLabel, props.Text{Size: 9}),
				text.NewCol(6, "Généré le "+data.GeneratedAt.UTC().Format("02/01/2006 15:04")+" UTC", props.Text{Size: 9, Align: align.Right}),
			),
			row.New(6).Add(
				text.NewCol(12, "Référence "+data.Reference, props.Text{Size: 8}),
			),
			line.NewRow(4),
		}
	case blockCompany:
		details := make([]string, 0, 2)
		if data.Company.SIRET != "" {
			details = append(details, "SIRET "+data.Company.SIRET)
		}
		if data.Company.Sector != "" {
			details = append(details, data.Company.Sector)
		}
		return []core.Row{
			row.New(8).Add(text.NewCol(12, "Entreprise", props.Text{Size: 10, Style: fontstyle.Bold, Color: accent})),
			row.New(8).Add(text.NewCol(12, data.Company.Name, props.Text{Size: 12, Style: fontstyle.Bold})),
			row.New(8).Add(text.NewCol(12, strings.Join(details, " · "), props.Text{Size: 9})),
		}
	case blockSummary:
		return []core.Row{
			row.New(8).Add(text.NewCol(12, "Synthèse des émissions", props.Text{Size: 10, Style: fontstyle.Bold, Color: accent})),
			row.New(10).Add(
				text.NewCol(6, "Total", props.Text{Size: 12, Style: fontstyle.Bold}),
				text.NewCol(6, r.kg(data.Total), props.Text{Size: 12, Style: fontstyle.Bold, Align: align.Right}),
			),
			r.scopeRow(8, "Scope 1 (émissions directes)", r.kg(data.ByScope.Scope1)),
			r.scopeRow(8, "Scope 2 (énergie achetée)", r.kg(data.ByScope.Scope2)),
			r.scopeRow(8, "Scope 3 (autres émissions indirectes)", r.kg(data.ByScope.Scope3)),
		}
	case blockPercentages:
		shares, _ := scopeShares(data.ByScope.Scope1, data.ByScope.Scope2, data.ByScope.Scope3)
		return []core.Row{
			row.New(8).Add(text.NewCol(12, "Répartition par scope", props.Text{Size: 10, Style: fontstyle.Bold, Color: accent})),
			row.New(14).Add(
				text.NewCol(4, "Scope 1 : "+r.percent(shares[0]), props.Text{Size: 10, Align: align.Center}),
				text.NewCol(4, "Scope 2 : "+r.percent(shares[1]), props.Text{Size: 10, Align: align.Center}),
				text.NewCol(4, "Scope 3 : "+r.percent(shares[2]), props.Text{Size: 10, Align: align.Center}),
			),
		}
	case blockTableHeader:
		hdr := props.Text{Size: 9, Style: fontstyle.Bold}
		return []core.Row{
			row.New(10).Add(
				text.NewCol(2, "Date", hdr),
				text.NewCol(6, "Description", hdr),
				text.NewCol(2, "Scope", hdr),
				text.NewCol(2, "kg CO2e", props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}),
			),
		}
	case blockItem:
		rec := data.Records[b.item]
		cell := props.Text{Size: 8}
		return []core.Row{
			row.New(itemHeight).Add(
				text.NewCol(2, rec.Date.UTC().Format(dateLayout), cell),
				text.NewCol(6, rec.Description, cell),
				text.NewCol(2, scopeLabel(rec.Scope), cell),
				text.NewCol(2, r.printer.Sprintf("%.2f", rec.CO2e), props.Text{Size: 8, Align: align.Right}),
			),
		}
	default:
		return []core.Row{row.New(b.height).Add(col.New(12))}
	}
}

func (r *marotoRenderer) scopeRow(height float64, label, value string) core.Row {
	return row.New(height).Add(
		text.NewCol(6, label, props.Text{Size: 10}),
		text.NewCol(6, value, props.Text{Size: 10, Align: align.Right}),
	)
}

// kg rounds for display only.
func (r *marotoRenderer) kg(v float64) string {
	return r.printer.Sprintf("%.1f kg CO2e", v)
}

func (r *marotoRenderer) percent(v float64) string {
	return r.printer.Sprintf("%.1f %%", v)
}

func scopeLabel(raw string) string {
	switch raw {
	case "SCOPE_1":
		return "Scope 1"
	case "SCOPE_2":
		return "Scope 2"
	case "SCOPE_3":
		return "Scope 3"
	default:
		return raw
	}
}
