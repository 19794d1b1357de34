package channel

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/exp/rand"
)

var ErrInjection = errors.New("invalid error injection")

type Mode int

const (
	None Mode = iota
	Random
	SingleBit
)

// DefaultProbability is the per bit flip probability of Random, 0.01%.
const DefaultProbability = 0.0001

func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none", "nenhum":
		return None, nil
	case "random", "aleatorio", "aleatório":
		return Random, nil
	case "single", "single-bit", "single_bit", "bit":
		return SingleBit, nil
	}
	return 0, fmt.Errorf("%w: unknown mode %q", ErrInjection, name)
}

func (m Mode) String() string {
	switch m {
	case None:
		return "none"
	case Random:
		return "random"
	case SingleBit:
		return "single-bit"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Injector flips bits of a frame stream.
//
// Random flips every bit with Probability, SingleBit flips the bit at Index
// or a random one when Index is negative. MaxFlips bounds the number of
// flips, 0 means no bound. A zero Seed seeds from the clock.
type Injector struct {
	Mode        Mode
	Probability float64
	Index       int
	MaxFlips    int
	Seed        uint64

	mu  sync.Mutex
	rng *rand.Rand
}

func (inj *Injector) Validate() error {
	if inj == nil {
		return nil
	}
	switch inj.Mode {
	case None, SingleBit:
	case Random:
		if inj.Probability < 0 || inj.Probability > 1 {
			return fmt.Errorf("%w: probability %v outside [0, 1]", ErrInjection, inj.Probability)
		}
	default:
		return fmt.Errorf("%w: unknown mode %d", ErrInjection, int(inj.Mode))
	}
	if inj.MaxFlips < 0 {
		return fmt.Errorf("%w: negative max flips %d", ErrInjection, inj.MaxFlips)
	}
	return nil
}

func (inj *Injector) Active() bool {
	return inj != nil && inj.Mode != None
}

func (inj *Injector) source() *rand.Rand {
	if inj.rng == nil {
		seed := inj.Seed
		if seed == 0 {
			seed = uint64(time.Now().UnixNano())
		}
		inj.rng = rand.New(rand.NewSource(seed))
	}
	return inj.rng
}

// Apply returns a corrupted copy of bits and the flipped positions in
// ascending order. The input is never modified.
func (inj *Injector) Apply(bits []bool) ([]bool, []int) {
	corrupted := make([]bool, len(bits))
	copy(corrupted, bits)
	if !inj.Active() || len(bits) == 0 {
		return corrupted, nil
	}

	inj.mu.Lock()
	defer inj.mu.Unlock()
	rng := inj.source()

	var flipped []int
	switch inj.Mode {
	case Random:
		for i := range corrupted {
			if inj.MaxFlips > 0 && len(flipped) >= inj.MaxFlips {
				break
			}
			if rng.Float64() < inj.Probability {
				corrupted[i] = !corrupted[i]
				flipped = append(flipped, i)
			}
		}
	case SingleBit:
		i := inj.Index
		if i < 0 {
			i = rng.Intn(len(bits))
		}
		if i < len(bits) {
			corrupted[i] = !corrupted[i]
			flipped = append(flipped, i)
		} else {
			debugLog("[Channel] bit %d outside of a %d bit stream", i, len(bits))
		}
	}
	if len(flipped) > 0 {
		debugLog("[Channel] flipped %d of %d bits at %v", len(flipped), len(bits), flipped)
	}
	return corrupted, flipped
}
