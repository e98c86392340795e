package results

import (
	"bytes"
	"fmt"
	"time"

	"github.com/Yumax-panda/Mario-Kart/models"
	"github.com/Yumax-panda/Mario-Kart/utils"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	ChartFileName = "results.png"
	chartWidth    = 800
	chartHeight   = 400
)

// CumulativeDiff 날짜순 누적 점수 차이입니다
func CumulativeDiff(results []models.Result) ([]time.Time, []float64) {
	xs := make([]time.Time, 0, len(results))
	ys := make([]float64, 0, len(results))
	total := 0
	for _, r := range results {
		date, err := utils.ParseDateTime(r.Date)
		if err != nil {
			utils.Debug("Skipping result with bad date %q", r.Date)
			continue
		}
		total += r.Diff()
		xs = append(xs, date)
		ys = append(ys, float64(total))
	}
	return xs, ys
}

// RenderChart 누적 점수 차이를 PNG 선 그래프로 그립니다
func RenderChart(results []models.Result) ([]byte, error) {
	if len(results) == 0 {
		return nil, ErrEmptyResult
	}
	xs, ys := CumulativeDiff(results)
	if len(xs) == 0 {
		return nil, ErrEmptyResult
	}
	// 날짜가 모두 같으면 축 범위가 0이 되므로 전날에 시작점을 하나 더 둔다
	if xs[0].Equal(xs[len(xs)-1]) {
		xs = append([]time.Time{xs[0].Add(-24 * time.Hour)}, xs...)
		ys = append([]float64{0}, ys...)
	}

	lo, hi := 0.0, 0.0
	for _, y := range ys {
		if y < lo {
			lo = y
		}
		if y > hi {
			hi = y
		}
	}
	if lo == hi {
		lo, hi = lo-1, hi+1
	}

	graph := chart.Chart{
		Width:  chartWidth,
		Height: chartHeight,
		XAxis: chart.XAxis{
			Name:           "Date",
			ValueFormatter: chart.TimeValueFormatterWithFormat("2006-01-02"),
		},
		YAxis: chart.YAxis{
			Name:  "Total diff",
			Range: &chart.ContinuousRange{Min: lo, Max: hi},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "diff",
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: drawing.ColorBlue,
					StrokeWidth: 2,
					DotWidth:    3,
					DotColor:    drawing.ColorBlue,
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render result chart: %w", err)
	}
	return buf.Bytes(), nil
}
