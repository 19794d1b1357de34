package channel

import (
	"sync"
	"time"

	"golang.org/x/exp/rand"

	"Linksim/pkg/modem"
)

// AWGN adds white Gaussian noise of standard deviation Sigma to every sample.
type AWGN struct {
	Sigma float64
	Seed  uint64

	mu  sync.Mutex
	rng *rand.Rand
}

func (n *AWGN) Active() bool {
	return n != nil && n.Sigma > 0
}

// Apply returns a noisy copy of the signal sharing its time axis.
func (n *AWGN) Apply(s modem.Signal) modem.Signal {
	if !n.Active() {
		return s
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.rng == nil {
		seed := n.Seed
		if seed == 0 {
			seed = uint64(time.Now().UnixNano())
		}
		n.rng = rand.New(rand.NewSource(seed))
	}
	noise := make([]float64, s.Len())
	for i := range noise {
		noise[i] = n.Sigma * n.rng.NormFloat64()
	}
	return modem.Signal{Samples: add(s.Samples, noise), Time: s.Time}
}
