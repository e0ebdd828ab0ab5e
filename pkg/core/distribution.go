package core

import "sort"

// Distribution1D is a piecewise-constant distribution over n buckets,
// used for picking lights proportionally to their power.
type Distribution1D struct {
	Func    []float64
	CDF     []float64
	FuncInt float64
}

// NewDistribution1D builds the distribution from non-negative weights.
// If every weight is zero the CDF becomes uniform and FuncInt stays zero.
func NewDistribution1D(f []float64) *Distribution1D {
	n := len(f)
	d := &Distribution1D{
		Func: append([]float64(nil), f...),
		CDF:  make([]float64, n+1),
	}
	for i := 1; i <= n; i++ {
		d.CDF[i] = d.CDF[i-1] + d.Func[i-1]/float64(n)
	}
	d.FuncInt = d.CDF[n]
	for i := 1; i <= n; i++ {
		if d.FuncInt == 0 {
			d.CDF[i] = float64(i) / float64(n)
		} else {
			d.CDF[i] /= d.FuncInt
		}
	}
	return d
}

// Count returns the number of buckets
func (d *Distribution1D) Count() int {
	return len(d.Func)
}

// SampleDiscrete picks a bucket for u in [0,1) and returns it with its probability
func (d *Distribution1D) SampleDiscrete(u float64) (int, float64) {
	n := d.Count()
	if n == 0 {
		return -1, 0
	}
	// Largest index with CDF[index] <= u
	offset := sort.Search(len(d.CDF), func(i int) bool { return d.CDF[i] > u }) - 1
	offset = max(0, min(n-1, offset))
	return offset, d.DiscretePDF(offset)
}

// DiscretePDF returns the probability of picking bucket i
func (d *Distribution1D) DiscretePDF(i int) float64 {
	if i < 0 || i >= d.Count() || d.FuncInt == 0 {
		return 0
	}
	return d.Func[i] / (d.FuncInt * float64(d.Count()))
}
