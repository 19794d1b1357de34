package layers

import "context"

// Layer is a stage driven by channels. The downward loop turns what the user
// sends into what goes on the medium, the upward loop the other way round.
type Layer[T any, U any] interface {
	UpwardLoop(ctx context.Context, in <-chan U, out chan<- T) error
	DownwardLoop(ctx context.Context, in <-chan T, out chan<- U) error
}

// Message is one text message. Only the upward loop sets the other fields,
// Transmission being the one the message was received from.
type Message struct {
	Text         string
	Transmission *Transmission
	Result       Result
	Err          error
}

var _ Layer[Message, *Transmission] = (*Pipeline)(nil)

// loop feeds every value of in to f until in is closed or ctx is done.
func loop[T any, U any](ctx context.Context, in <-chan T, out chan<- U, f func(T) (U, bool)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case v, ok := <-in:
			if !ok {
				return nil
			}
			u, keep := f(v)
			if !keep {
				continue
			}
			select {
			case out <- u:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

// DownwardLoop transmits every message. A message that cannot be sent is
// logged and dropped.
func (p *Pipeline) DownwardLoop(ctx context.Context, in <-chan Message, out chan<- *Transmission) error {
	return loop(ctx, in, out, func(m Message) (*Transmission, bool) {
		tx, err := p.Transmit(m.Text)
		if err != nil {
			debugLog("[Pipeline] dropped %q: %v", m.Text, err)
			return nil, false
		}
		return tx, true
	})
}

// UpwardLoop receives the channel side of every transmission.
func (p *Pipeline) UpwardLoop(ctx context.Context, in <-chan *Transmission, out chan<- Message) error {
	return loop(ctx, in, out, func(tx *Transmission) (Message, bool) {
		result, err := p.ReceiveSignals(tx.CorruptedSignals)
		return Message{Text: result.Text, Transmission: tx, Result: result, Err: err}, true
	})
}
