package web

import (
	"bytes"
	"html/template"
	"image/color"
	"math"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgsvg"

	"questionnaire-app/internal/domain/responses"
)

// Tamaños del lienzo en puntos.
var (
	chartWidth  = vg.Points(640)
	chartHeight = vg.Points(360)
	pieSize     = vg.Points(420)
)

var (
	histColor    = color.RGBA{R: 76, G: 114, B: 176, A: 255}
	densityColor = color.RGBA{R: 33, G: 57, B: 110, A: 255}
)

// Paleta "pastel" para sectores.
var pastel = []color.Color{
	color.RGBA{R: 161, G: 201, B: 244, A: 255},
	color.RGBA{R: 255, G: 180, B: 130, A: 255},
	color.RGBA{R: 141, G: 229, B: 161, A: 255},
	color.RGBA{R: 255, G: 159, B: 155, A: 255},
	color.RGBA{R: 208, G: 187, B: 255, A: 255},
	color.RGBA{R: 222, G: 187, B: 155, A: 255},
	color.RGBA{R: 250, G: 176, B: 228, A: 255},
	color.RGBA{R: 207, G: 207, B: 207, A: 255},
}

var barColors = []color.Color{
	color.RGBA{R: 79, G: 70, B: 229, A: 255},
	color.RGBA{R: 16, G: 185, B: 129, A: 255},
	color.RGBA{R: 245, G: 158, B: 11, A: 255},
	color.RGBA{R: 239, G: 68, B: 68, A: 255},
	color.RGBA{R: 139, G: 92, B: 246, A: 255},
}

// histogramSVG: barras por bin y la curva KDE encima.
func histogramSVG(h responses.AgeHistogram) (template.HTML, error) {
	p := plot.New()
	p.Title.Text = "Histogramme de la Répartition des Âges"
	p.X.Label.Text = "Âge"
	p.Y.Label.Text = "Nombre de Réponses"

	p.Add(histogramBars(h))

	line, err := densityLine(h)
	if err != nil {
		return "", err
	}
	if line != nil {
		p.Add(line)
	}
	p.Y.Min = 0

	return renderSVG(p, chartWidth, chartHeight)
}

func histogramBars(h responses.AgeHistogram) *plotter.Histogram {
	bars := &plotter.Histogram{
		Bins:      make([]plotter.HistogramBin, 0, len(h.Bins)),
		Width:     h.BinWidth,
		FillColor: histColor,
		LineStyle: plotter.DefaultLineStyle,
	}
	bars.LineStyle.Color = color.White
	for _, b := range h.Bins {
		bars.Bins = append(bars.Bins, plotter.HistogramBin{Min: b.Lower, Max: b.Upper, Weight: float64(b.Count)})
	}
	return bars
}

// densityLine devuelve nil si no hay curva.
func densityLine(h responses.AgeHistogram) (*plotter.Line, error) {
	if len(h.Density) == 0 {
		return nil, nil
	}

	xys := make(plotter.XYs, len(h.Density))
	for i, d := range h.Density {
		xys[i].X, xys[i].Y = d.X, d.Y
	}
	line, err := plotter.NewLine(xys)
	if err != nil {
		return nil, errors.Wrap(err, "density line")
	}
	line.Color = densityColor
	line.Width = vg.Points(2)
	return line, nil
}

// pieSVG empieza a 90° y avanza en sentido antihorario.
func pieSVG(shares []responses.PetShare) (template.HTML, error) {
	p := plot.New()
	p.Title.Text = "Répartition des Préférences d'Animaux"
	p.HideAxes()

	label := p.Title.TextStyle
	label.YAlign = draw.YCenter
	p.Add(pieSlices{shares: shares, label: label})

	return renderSVG(p, pieSize, pieSize)
}

// pieSlices implementa plot.Plotter; gonum/plot no trae gráfico circular.
type pieSlices struct {
	shares []responses.PetShare
	label  draw.TextStyle
}

func (s pieSlices) Plot(c draw.Canvas, _ *plot.Plot) {
	center := c.Center()
	r := min(c.Max.X-c.Min.X, c.Max.Y-c.Min.Y) * 0.36

	start := math.Pi / 2
	for i, sh := range s.shares {
		sweep := 2 * math.Pi * sh.Percent / 100

		var path vg.Path
		if sh.Percent < 100 {
			path.Move(center)
		}
		path.Arc(center, r, start, sweep)
		path.Close()
		c.SetColor(pastel[i%len(pastel)])
		c.Fill(path)

		mid := start + sweep/2
		c.FillText(s.label, polar(center, r*0.6, mid), sh.PercentText())
		c.FillText(s.label, polar(center, r*1.18, mid), sh.Label)

		start += sweep
	}
}

func polar(center vg.Point, r vg.Length, theta float64) vg.Point {
	sin, cos := math.Sincos(theta)
	return vg.Point{X: center.X + r*vg.Length(cos), Y: center.Y + r*vg.Length(sin)}
}

// barSVG dibuja una barra por categoría, cada una con su color.
func barSVG(counts []responses.CategoryCount) (template.HTML, error) {
	p := plot.New()
	p.Y.Label.Text = "Nombre de Réponses"

	labels := make([]string, 0, len(counts))
	for i, cc := range counts {
		bar, err := plotter.NewBarChart(plotter.Values{float64(cc.Count)}, vg.Points(48))
		if err != nil {
			return "", errors.Wrapf(err, "bar %s", cc.Key)
		}
		bar.XMin = float64(i)
		bar.Color = barColors[i%len(barColors)]
		bar.LineStyle.Width = 0
		p.Add(bar)
		labels = append(labels, cc.Label)
	}
	p.NominalX(labels...)
	p.Y.Min = 0

	return renderSVG(p, chartWidth, chartHeight)
}

// renderSVG devuelve solo el elemento <svg>, sin la cabecera XML, para incrustarlo en la página.
func renderSVG(p *plot.Plot, w, h vg.Length) (template.HTML, error) {
	canvas := vgsvg.New(w, h)
	p.Draw(draw.New(canvas))

	var buf bytes.Buffer
	if _, err := canvas.WriteTo(&buf); err != nil {
		return "", errors.Wrap(err, "write svg")
	}

	out := buf.String()
	if i := strings.Index(out, "<svg"); i >= 0 {
		out = out[i:]
	}
	return template.HTML(out), nil
}
