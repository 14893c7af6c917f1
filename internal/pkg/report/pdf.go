package report

import (
	"fmt"
	"time"

	"github.com/johnfercher/maroto/pkg/color"
	"github.com/johnfercher/maroto/pkg/consts"
	"github.com/johnfercher/maroto/pkg/pdf"
	"github.com/johnfercher/maroto/pkg/props"

	"github.com/clocko-app/clocko/app/models"
	"github.com/clocko-app/clocko/internal/pkg/timetrack"
)

// GeneratePDF renders the time report as a PDF document. The totals row uses
// the same aggregation as the dashboard and CSV export.
func GeneratePDF(entries []models.TimeEntry, generatedAt time.Time) ([]byte, error) {
	m := pdf.NewMaroto(consts.Portrait, consts.A4)
	m.SetPageMargins(20, 10, 20)

	m.RegisterHeader(func() {
		m.Row(10, func() {
			m.Col(12, func() {
				m.Text("clocko - Time Report", props.Text{
					Top:   3,
					Style: consts.Bold,
					Align: consts.Center,
					Size:  16,
				})
			})
		})
		m.Row(8, func() {
			m.Col(12, func() {
				m.Text(fmt.Sprintf("Generated: %s", generatedAt.Format("2006-01-02 15:04")), props.Text{
					Top:   2,
					Align: consts.Center,
					Size:  10,
				})
			})
		})
	})

	headers := []string{"Project", "Date", "Start", "End", "Hours", "Rate", "Amount"}
	contents := make([][]string, 0, len(entries)+1)
	for _, entry := range entries {
		contents = append(contents, entryRow(entry))
	}

	summary := timetrack.Summarize(entries)
	contents = append(contents, []string{
		"Total", "", "", "",
		fmt.Sprintf("%.2f", summary.TotalHours),
		"",
		fmt.Sprintf("$%.2f", summary.TotalRevenue),
	})

	grid := []uint{3, 2, 2, 2, 1, 1, 1}
	m.TableList(headers, contents, props.TableList{
		HeaderProp: props.TableListContent{
			Size:      9,
			Style:     consts.Bold,
			GridSizes: grid,
		},
		ContentProp: props.TableListContent{
			Size:      8,
			GridSizes: grid,
		},
		Align: consts.Left,
		AlternatedBackground: &color.Color{
			Red:   243,
			Green: 244,
			Blue:  246,
		},
		HeaderContentSpace: 1,
	})

	buf, err := m.Output()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
