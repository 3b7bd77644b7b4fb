package stock_health

import (
	"math"
	"sort"

	"github.com/andresuchdata/doi-dashboard/backend-go/internal/domain"
)

// binDivisors are tried in order to shrink the step while staying within maxBins.
var binDivisors = []float64{5, 2}

// niceBins picks a step of the form 1, 2 or 5 times a power of ten so that
// [lo, hi] is covered by at most maxBins bins with round edges.
func niceBins(lo, hi float64, maxBins int) (start, step float64, count int) {
	span := hi - lo
	if span == 0 {
		span = math.Abs(lo)
		if span == 0 {
			span = 1
		}
	}

	logb := math.Log(10)
	level := math.Ceil(math.Log(float64(maxBins)) / logb)
	step = math.Pow(10, math.Round(math.Log(span)/logb)-level)

	for math.Ceil(span/step) > float64(maxBins) {
		step *= 10
	}
	for _, d := range binDivisors {
		if v := step / d; span/v <= float64(maxBins) {
			step = v
		}
	}

	start = math.Floor(lo/step) * step
	stop := math.Ceil(hi/step) * step
	count = int(math.Round((stop - start) / step))
	if count < 1 {
		count = 1
	}
	return start, step, count
}

// DOIHistogram bins the DOI column into at most maxBins equal-width bins.
// An empty table yields no bins.
func DOIHistogram(t *domain.Table, maxBins int) []domain.HistogramBin {
	bins := make([]domain.HistogramBin, 0)
	if t.Empty() {
		return bins
	}
	if maxBins <= 0 {
		maxBins = DefaultConfig().HistogramMaxBins
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	t.Each(func(_ int, p domain.Product) {
		lo = math.Min(lo, p.DOI)
		hi = math.Max(hi, p.DOI)
	})

	start, step, count := niceBins(lo, hi, maxBins)
	for i := 0; i < count; i++ {
		bins = append(bins, domain.HistogramBin{
			Start: roundFloat(start+float64(i)*step, 10),
			End:   roundFloat(start+float64(i+1)*step, 10),
		})
	}

	t.Each(func(_ int, p domain.Product) {
		idx := int(math.Floor((p.DOI - start) / step))
		if idx < 0 {
			idx = 0
		}
		if idx >= count {
			idx = count - 1
		}
		bins[idx].Count++
	})
	return bins
}

// CountByDate counts rows per expiry date, earliest date first.
func CountByDate(t *domain.Table) []domain.DateCount {
	counts := make(map[string]int)
	t.Each(func(_ int, p domain.Product) {
		counts[p.ExpiryDate.Format(domain.DateLayout)]++
	})

	out := make([]domain.DateCount, 0, len(counts))
	for date, n := range counts {
		out = append(out, domain.DateCount{Date: date, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
