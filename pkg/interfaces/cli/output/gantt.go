package output

import (
	"fmt"
	"html"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/vsinha/rawmat/pkg/application/dto"
	"github.com/vsinha/rawmat/pkg/domain/entities"
)

// GanttChart draws purchase lead times: one row per material, one bar per
// recommendation from order date to delivery date
type GanttChart struct {
	Width        int
	Height       int
	MarginLeft   int
	MarginTop    int
	MarginRight  int
	MarginBottom int
	RowHeight    int
	StartTime    time.Time
	EndTime      time.Time
}

// GanttBar represents a single bar in the Gantt chart
type GanttBar struct {
	MaterialID   entities.MaterialID
	SupplierID   entities.SupplierID
	Quantity     float64
	Unit         string
	OrderDate    time.Time
	DeliveryDate time.Time
	RiskLevel    entities.RiskLevel
	X            int
	Width        int
	Color        string
}

// NewGanttChart sizes a chart for the result's recommendations
func NewGanttChart(result *dto.PlanningResult) *GanttChart {
	if len(result.Recommendations) == 0 {
		return &GanttChart{
			Width:        800,
			Height:       200,
			MarginLeft:   150,
			MarginTop:    50,
			MarginRight:  50,
			MarginBottom: 50,
			RowHeight:    25,
		}
	}

	startTime := result.Recommendations[0].OrderDate
	endTime := result.Recommendations[0].DeliveryDate
	materials := make(map[entities.MaterialID]bool)

	for _, rec := range result.Recommendations {
		if rec.OrderDate.Before(startTime) {
			startTime = rec.OrderDate
		}
		if rec.DeliveryDate.After(endTime) {
			endTime = rec.DeliveryDate
		}
		materials[rec.MaterialID] = true
	}

	// a day of padding either side keeps same-day deliveries visible
	startTime = startTime.AddDate(0, 0, -1)
	endTime = endTime.AddDate(0, 0, 1)

	rowHeight := 30
	return &GanttChart{
		Width:        1200,
		Height:       len(materials)*rowHeight + 160,
		MarginLeft:   200,
		MarginTop:    60,
		MarginRight:  100,
		MarginBottom: 80,
		RowHeight:    rowHeight,
		StartTime:    startTime,
		EndTime:      endTime,
	}
}

// GenerateSVG creates an SVG representation of the Gantt chart
func (gc *GanttChart) GenerateSVG(result *dto.PlanningResult) string {
	if len(result.Recommendations) == 0 {
		return gc.generateEmptyChart()
	}

	var svg strings.Builder

	svg.WriteString(fmt.Sprintf(`<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">`, gc.Width, gc.Height))
	svg.WriteString(`<defs>`)
	svg.WriteString(`<style>`)
	svg.WriteString(`.material-label { font-family: Arial, sans-serif; font-size: 12px; fill: #333; }`)
	svg.WriteString(`.time-label { font-family: Arial, sans-serif; font-size: 10px; fill: #666; }`)
	svg.WriteString(`.title { font-family: Arial, sans-serif; font-size: 16px; font-weight: bold; fill: #333; }`)
	svg.WriteString(`.grid-line { stroke: #e0e0e0; stroke-width: 1; }`)
	svg.WriteString(`.order-bar { stroke: #333; stroke-width: 1; }`)
	svg.WriteString(`.order-text { font-family: Arial, sans-serif; font-size: 9px; fill: white; }`)
	svg.WriteString(`</style>`)
	svg.WriteString(`</defs>`)

	svg.WriteString(fmt.Sprintf(`<rect width="%d" height="%d" fill="white"/>`, gc.Width, gc.Height))
	svg.WriteString(fmt.Sprintf(`<text x="%d" y="30" class="title" text-anchor="middle">Purchase Lead Times - %s</text>`,
		gc.Width/2, result.PlanningDate.Format(dateLayout)))

	rows := gc.organizeBars(gc.createBars(result.Recommendations))

	gc.drawTimeAxis(&svg)
	gc.drawTimeGrid(&svg, len(rows))
	gc.drawMaterialRows(&svg, rows)
	gc.drawLegend(&svg)

	svg.WriteString(`</svg>`)
	return svg.String()
}

// createBars converts recommendations to Gantt bars
func (gc *GanttChart) createBars(recommendations []*entities.Recommendation) []GanttBar {
	bars := make([]GanttBar, 0, len(recommendations))
	chartWidth := gc.Width - gc.MarginLeft - gc.MarginRight
	totalDuration := gc.EndTime.Sub(gc.StartTime)

	for _, rec := range recommendations {
		startOffset := rec.OrderDate.Sub(gc.StartTime)
		duration := rec.DeliveryDate.Sub(rec.OrderDate)

		x := gc.MarginLeft + int(float64(startOffset)/float64(totalDuration)*float64(chartWidth))
		width := int(float64(duration) / float64(totalDuration) * float64(chartWidth))
		if width < 2 {
			width = 2
		}

		bars = append(bars, GanttBar{
			MaterialID:   rec.MaterialID,
			SupplierID:   rec.SupplierID,
			Quantity:     rec.OrderQty,
			Unit:         rec.Unit,
			OrderDate:    rec.OrderDate,
			DeliveryDate: rec.DeliveryDate,
			RiskLevel:    rec.RiskLevel,
			X:            x,
			Width:        width,
			Color:        riskColor(rec.RiskLevel),
		})
	}

	return bars
}

type materialRow struct {
	materialID entities.MaterialID
	bars       []GanttBar
}

// organizeBars groups bars per material; rows are ordered by material id, bars by delivery date
func (gc *GanttChart) organizeBars(bars []GanttBar) []materialRow {
	byMaterial := make(map[entities.MaterialID][]GanttBar)
	for _, bar := range bars {
		byMaterial[bar.MaterialID] = append(byMaterial[bar.MaterialID], bar)
	}

	rows := make([]materialRow, 0, len(byMaterial))
	for id, materialBars := range byMaterial {
		sort.SliceStable(materialBars, func(i, j int) bool {
			return materialBars[i].DeliveryDate.Before(materialBars[j].DeliveryDate)
		})
		rows = append(rows, materialRow{materialID: id, bars: materialBars})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].materialID < rows[j].materialID })

	return rows
}

// timeInterval picks daily, weekly or monthly ticks for the chart span
func (gc *GanttChart) timeInterval() (time.Duration, string) {
	days := int(math.Ceil(gc.EndTime.Sub(gc.StartTime).Hours() / 24))
	switch {
	case days <= 30:
		return 24 * time.Hour, "Jan 2"
	case days <= 180:
		return 7 * 24 * time.Hour, "Jan 2"
	default:
		return 30 * 24 * time.Hour, "Jan 2006"
	}
}

func (gc *GanttChart) xFor(t time.Time) int {
	chartWidth := gc.Width - gc.MarginLeft - gc.MarginRight
	offset := t.Sub(gc.StartTime)
	return gc.MarginLeft + int(float64(offset)/float64(gc.EndTime.Sub(gc.StartTime))*float64(chartWidth))
}

func (gc *GanttChart) drawTimeAxis(svg *strings.Builder) {
	interval, labelFormat := gc.timeInterval()

	for t := gc.StartTime.Truncate(interval); t.Before(gc.EndTime); t = t.Add(interval) {
		x := gc.xFor(t)
		if x >= gc.MarginLeft && x <= gc.Width-gc.MarginRight {
			svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" class="time-label" text-anchor="middle">%s</text>`,
				x, gc.Height-gc.MarginBottom+15, t.Format(labelFormat)))
		}
	}

	svg.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" class="grid-line"/>`,
		gc.MarginLeft, gc.Height-gc.MarginBottom, gc.Width-gc.MarginRight, gc.Height-gc.MarginBottom))
}

// rowHeightFor shrinks rows so they stay above the time axis
func (gc *GanttChart) rowHeightFor(numRows int) int {
	available := gc.Height - gc.MarginBottom - 30 - gc.MarginTop
	height := available / numRows
	if height > gc.RowHeight {
		height = gc.RowHeight
	}
	return height
}

func (gc *GanttChart) drawTimeGrid(svg *strings.Builder, numRows int) {
	interval, _ := gc.timeInterval()
	gridBottom := gc.MarginTop + numRows*gc.rowHeightFor(numRows)

	for t := gc.StartTime.Truncate(interval); t.Before(gc.EndTime); t = t.Add(interval) {
		x := gc.xFor(t)
		if x >= gc.MarginLeft && x <= gc.Width-gc.MarginRight {
			svg.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" class="grid-line"/>`,
				x, gc.MarginTop, x, gridBottom))
		}
	}
}

func (gc *GanttChart) drawMaterialRows(svg *strings.Builder, rows []materialRow) {
	rowHeight := gc.rowHeightFor(len(rows))

	for i, row := range rows {
		y := gc.MarginTop + i*rowHeight

		svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" class="material-label" text-anchor="end">%s</text>`,
			gc.MarginLeft-15, y+rowHeight/2+4, html.EscapeString(string(row.materialID))))
		svg.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" class="grid-line"/>`,
			gc.MarginLeft, y+rowHeight, gc.Width-gc.MarginRight, y+rowHeight))

		for _, bar := range row.bars {
			gc.drawBar(svg, bar, y, rowHeight)
		}
	}
}

func (gc *GanttChart) drawBar(svg *strings.Builder, bar GanttBar, rowY int, rowHeight int) {
	barHeight := rowHeight - 4
	barY := rowY + 2

	svg.WriteString(fmt.Sprintf(`<g><rect x="%d" y="%d" width="%d" height="%d" fill="%s" class="order-bar"/>`,
		bar.X, barY, bar.Width, barHeight, bar.Color))

	if bar.Width > 60 {
		svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" class="order-text" text-anchor="middle">%s</text>`,
			bar.X+bar.Width/2, barY+barHeight/2+3, html.EscapeString(string(bar.SupplierID))))
	}

	tooltip := fmt.Sprintf("%s from %s: %.2f %s, ordered %s, delivered %s, risk %s",
		bar.MaterialID, bar.SupplierID, bar.Quantity, bar.Unit,
		bar.OrderDate.Format(dateLayout),
		bar.DeliveryDate.Format(dateLayout),
		bar.RiskLevel)
	svg.WriteString(fmt.Sprintf(`<title>%s</title></g>`, html.EscapeString(tooltip)))
}

func (gc *GanttChart) drawLegend(svg *strings.Builder) {
	legendX := gc.Width - gc.MarginRight - 200
	legendY := 40

	svg.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="180" height="72" fill="white" stroke="#ccc" stroke-width="1"/>`,
		legendX, legendY))
	svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" class="material-label" font-weight="bold">Supplier risk</text>`,
		legendX+10, legendY+15))

	for i, level := range []entities.RiskLevel{entities.RiskNone, entities.RiskLow, entities.RiskMedium, entities.RiskHigh} {
		itemY := legendY + 25 + i*12
		svg.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="12" height="8" fill="%s"/>`,
			legendX+10, itemY, riskColor(level)))
		svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" class="time-label">%s</text>`,
			legendX+30, itemY+7, level))
	}
}

func riskColor(level entities.RiskLevel) string {
	switch level {
	case entities.RiskNone:
		return "#4CAF50"
	case entities.RiskLow:
		return "#2196F3"
	case entities.RiskMedium:
		return "#FF9800"
	case entities.RiskHigh:
		return "#F44336"
	default:
		return "#9E9E9E"
	}
}

func (gc *GanttChart) generateEmptyChart() string {
	return fmt.Sprintf(`<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">
		<rect width="%d" height="%d" fill="white"/>
		<text x="%d" y="%d" class="title" text-anchor="middle">No Purchase Recommendations</text>
		<style>
			.title { font-family: Arial, sans-serif; font-size: 16px; fill: #666; }
		</style>
	</svg>`, gc.Width, gc.Height, gc.Width, gc.Height, gc.Width/2, gc.Height/2)
}
