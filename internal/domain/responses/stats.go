package responses

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	HistogramBins = 20
	densityPoints = 200
)

type HistogramBin struct {
	Lower float64
	Upper float64
	Count int
}

type DensityPoint struct {
	X float64
	Y float64
}

// AgeHistogram reparte las edades en bins de igual ancho entre min y max.
// Density es la curva KDE escalada a conteos; vacía si no hay al menos dos edades distintas.
type AgeHistogram struct {
	Bins     []HistogramBin
	BinWidth float64
	Density  []DensityPoint
	Total    int
	MaxCount int
}

func NewAgeHistogram(ages []int, bins int) AgeHistogram {
	if len(ages) == 0 {
		return AgeHistogram{}
	}
	if bins <= 0 {
		bins = HistogramBins
	}

	x := toFloats(ages)
	sort.Float64s(x)

	lo, hi := x[0], x[len(x)-1]
	if lo == hi {
		lo -= 0.5
		hi += 0.5
	}

	dividers := floats.Span(make([]float64, bins+1), lo, hi)
	// stat.Histogram es semiabierto; el último bin debe incluir el máximo.
	upper := dividers[bins]
	dividers[bins] = math.Nextafter(hi, math.Inf(1))
	counts := stat.Histogram(nil, dividers, x, nil)
	dividers[bins] = upper

	h := AgeHistogram{
		Bins:     make([]HistogramBin, bins),
		BinWidth: (hi - lo) / float64(bins),
		Total:    len(ages),
	}
	for i := range h.Bins {
		h.Bins[i] = HistogramBin{Lower: dividers[i], Upper: dividers[i+1], Count: int(counts[i])}
		if h.Bins[i].Count > h.MaxCount {
			h.MaxCount = h.Bins[i].Count
		}
	}

	h.Density = kernelDensity(x, lo, hi, h.BinWidth)
	return h
}

// kernelDensity: KDE gaussiano con ancho de banda de Scott (σ·n^(-1/5)),
// escalado a conteos por bin.
func kernelDensity(x []float64, lo, hi, binWidth float64) []DensityPoint {
	n := float64(len(x))
	if n < 2 {
		return nil
	}

	sd := stat.StdDev(x, nil)
	if sd == 0 {
		return nil
	}
	bw := sd * math.Pow(n, -1.0/5.0)

	kernels := make([]distuv.Normal, len(x))
	for i, v := range x {
		kernels[i] = distuv.Normal{Mu: v, Sigma: bw}
	}

	grid := floats.Span(make([]float64, densityPoints), lo, hi)
	out := make([]DensityPoint, len(grid))
	for i, g := range grid {
		var sum float64
		for _, k := range kernels {
			sum += k.Prob(g)
		}
		out[i] = DensityPoint{X: g, Y: sum * binWidth}
	}
	return out
}

func meanAge(ages []int) float64 {
	if len(ages) == 0 {
		return 0
	}
	return stat.Mean(toFloats(ages), nil)
}

func toFloats(ages []int) []float64 {
	out := make([]float64, len(ages))
	for i, a := range ages {
		out[i] = float64(a)
	}
	return out
}

// CategoryCount es una fila de un conteo por categoría.
type CategoryCount struct {
	Key   string
	Label string
	Count int
}

// PetShare agrega el porcentaje con un decimal, como en el gráfico circular.
type PetShare struct {
	CategoryCount
	Percent float64
}

func (p PetShare) PercentText() string {
	return fmt.Sprintf("%.1f%%", p.Percent)
}

func NewPetShares(items []Response) []PetShare {
	counts := valueCounts(items, func(r Response) (string, string) {
		return string(r.PetPreference), r.PetPreference.Label()
	})

	out := make([]PetShare, 0, len(counts))
	for _, c := range counts {
		out = append(out, PetShare{
			CategoryCount: c,
			Percent:       100 * float64(c.Count) / float64(len(items)),
		})
	}
	return out
}

type GeneralStats struct {
	Count        int
	MeanAge      float64
	GenderCounts []CategoryCount
}

func (g GeneralStats) MeanAgeText() string {
	return fmt.Sprintf("%.2f", g.MeanAge)
}

func NewGeneralStats(items []Response) GeneralStats {
	ages := make([]int, 0, len(items))
	for _, r := range items {
		ages = append(ages, r.Age)
	}

	return GeneralStats{
		Count:   len(items),
		MeanAge: meanAge(ages),
		GenderCounts: valueCounts(items, func(r Response) (string, string) {
			return string(r.Gender), r.Gender.Label()
		}),
	}
}

// valueCounts cuenta por clave; orden por conteo desc y, en empate, por primera aparición.
func valueCounts(items []Response, key func(Response) (string, string)) []CategoryCount {
	idx := make(map[string]int)
	out := make([]CategoryCount, 0)

	for _, r := range items {
		k, label := key(r)
		if i, ok := idx[k]; ok {
			out[i].Count++
			continue
		}
		idx[k] = len(out)
		out = append(out, CategoryCount{Key: k, Label: label, Count: 1})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}
