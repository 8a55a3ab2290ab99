package responses

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAgeHistogram_BinsCoverRange(t *testing.T) {
	h := NewAgeHistogram([]int{10, 20, 30, 40, 50, 50}, HistogramBins)

	require.Len(t, h.Bins, HistogramBins)
	assert.Equal(t, 6, h.Total)
	assert.InDelta(t, 2.0, h.BinWidth, 1e-9)
	assert.InDelta(t, 10.0, h.Bins[0].Lower, 1e-9)
	assert.InDelta(t, 50.0, h.Bins[HistogramBins-1].Upper, 1e-9)

	total := 0
	for _, b := range h.Bins {
		total += b.Count
	}
	assert.Equal(t, 6, total)
	// max cae en el último bin (cerrado a la derecha)
	assert.Equal(t, 2, h.Bins[HistogramBins-1].Count)
	assert.Equal(t, 2, h.MaxCount)
	assert.Len(t, h.Density, densityPoints)
}

func TestNewAgeHistogram_EdgeGoesToUpperBin(t *testing.T) {
	// ancho 2: 12 es el borde inferior del segundo bin
	h := NewAgeHistogram([]int{12, 10, 50}, HistogramBins)

	assert.Equal(t, 1, h.Bins[0].Count)
	assert.Equal(t, 1, h.Bins[1].Count)
	assert.Equal(t, 1, h.Bins[HistogramBins-1].Count)
	assert.InDelta(t, 50.0, h.Bins[HistogramBins-1].Upper, 1e-9)
}

func TestNewAgeHistogram_SingleValue(t *testing.T) {
	h := NewAgeHistogram([]int{42, 42}, HistogramBins)

	assert.InDelta(t, 41.5, h.Bins[0].Lower, 1e-9)
	assert.InDelta(t, 42.5, h.Bins[HistogramBins-1].Upper, 1e-9)
	assert.Equal(t, 2, h.MaxCount)
	assert.Empty(t, h.Density, "no KDE without spread")
}

func TestKernelDensity_PeaksNearMode(t *testing.T) {
	ages := []int{20, 25, 30, 30, 35, 60}
	h := NewAgeHistogram(ages, HistogramBins)

	// curva no negativa con pico cerca de la moda
	var peak DensityPoint
	for _, p := range h.Density {
		assert.GreaterOrEqual(t, p.Y, 0.0)
		if p.Y > peak.Y {
			peak = p
		}
	}
	assert.InDelta(t, 30, peak.X, 5)
}

func TestNewPetShares_OrderAndPercent(t *testing.T) {
	items := []Response{
		{PetPreference: PetCat},
		{PetPreference: PetDog},
		{PetPreference: PetDog},
		{PetPreference: PetFish},
	}

	shares := NewPetShares(items)
	require.Len(t, shares, 3)

	assert.Equal(t, "Dog", shares[0].Key)
	assert.Equal(t, "Chien", shares[0].Label)
	assert.Equal(t, "50.0%", shares[0].PercentText())
	// empate: primera aparición gana
	assert.Equal(t, "Cat", shares[1].Key)
	assert.Equal(t, "Fish", shares[2].Key)
	assert.Equal(t, "25.0%", shares[2].PercentText())
}

func TestNewPetShares_OneDecimal(t *testing.T) {
	shares := NewPetShares([]Response{{PetPreference: PetDog}, {PetPreference: PetCat}, {PetPreference: PetCat}})
	assert.Equal(t, "66.7%", shares[0].PercentText())
	assert.Equal(t, "33.3%", shares[1].PercentText())
}

func TestNewGeneralStats(t *testing.T) {
	stats := NewGeneralStats([]Response{
		{Age: 30, Gender: GenderFemale},
		{Age: 45, Gender: GenderMale},
		{Age: 20, Gender: GenderMale},
	})

	assert.Equal(t, 3, stats.Count)
	assert.Equal(t, "31.67", stats.MeanAgeText())
	require.Len(t, stats.GenderCounts, 2)
	assert.Equal(t, CategoryCount{Key: "Male", Label: "Homme", Count: 2}, stats.GenderCounts[0])
	assert.Equal(t, CategoryCount{Key: "Female", Label: "Femme", Count: 1}, stats.GenderCounts[1])
}

func TestParseGender(t *testing.T) {
	g, ok := ParseGender("Other")
	assert.True(t, ok)
	assert.Equal(t, GenderOther, g)

	_, ok = ParseGender("other")
	assert.False(t, ok)

	p, ok := ParsePet(" Fish ")
	assert.True(t, ok)
	assert.Equal(t, PetFish, p)
}
