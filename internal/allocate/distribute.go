package allocate

import (
	"github.com/hylla/tidrapport/internal/domain"
)

// Distribute splits total across len(weights) slots proportionally to the
// weights, with every slot pinned to 0.1h and the rounding residual absorbed
// by the heaviest slot so the result sums to exactly Round1(total). All-zero
// weights degrade to an equal split. Reused by the conflict resolver and the
// edit reconciler.
//
// Reapplying Distribute to its own output is the identity: when the weights
// already sum to the total, every slot rounds back to itself and the residual
// is zero. Edit idempotence rests on this.
func Distribute(total float64, weights []float64) []float64 {
	n := len(weights)
	if n == 0 {
		return nil
	}

	var sum float64
	for _, w := range weights {
		if w > 0 {
			sum += w
		}
	}
	if sum <= 0 {
		weights = make([]float64, n)
		for i := range weights {
			weights[i] = 1
		}
		sum = float64(n)
	}

	totalTenths := domain.Tenths(total)
	out := make([]float64, n)
	allocated := 0
	largest := 0
	for i, w := range weights {
		if w < 0 {
			w = 0
		}
		t := domain.Tenths(total * w / sum)
		out[i] = domain.FromTenths(t)
		allocated += t
		if weights[i] > weights[largest] {
			largest = i
		}
	}

	if residual := totalTenths - allocated; residual != 0 {
		out[largest] = domain.FromTenths(domain.Tenths(out[largest]) + residual)
	}
	return out
}
