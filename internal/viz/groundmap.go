package viz

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/roadline/internal/camera"
	"github.com/banshee-data/roadline/internal/roadgeom"
)

var lineHex = [roadgeom.NumLines]string{"#e6550d", "#31a354", "#3182bd"}

// RenderGroundMap writes an HTML scatter of projected control points, one
// series per road line, across all frames in maps. Clamped points are
// drawn as triangles.
func RenderGroundMap(w io.Writer, title string, maps []camera.GroundMap) error {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("frames=%d", len(maps))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "lateral (mm)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "forward (mm)", NameLocation: "middle", NameGap: 40}),
	)

	for _, l := range roadgeom.Lines {
		data := make([]opts.ScatterData, 0, len(maps)*roadgeom.DefaultPointCount)
		for frame, m := range maps {
			for i, gp := range m.Line(l) {
				symbol := "circle"
				if gp.Clamped {
					symbol = "triangle"
				}
				data = append(data, opts.ScatterData{
					Name:   fmt.Sprintf("frame %d point %d", frame, i),
					Value:  []interface{}{gp.Lateral, gp.Forward},
					Symbol: symbol,
				})
			}
		}
		scatter.AddSeries(l.String(), data,
			charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 6}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: lineHex[l]}),
		)
	}

	if err := scatter.Render(w); err != nil {
		return fmt.Errorf("failed to render ground map: %w", err)
	}
	return nil
}
