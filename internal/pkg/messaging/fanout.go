package messaging

import (
	"context"
	"errors"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/event"
)

var _ event.Publisher = Fanout(nil)

// Fanout publishes to every publisher in order. All publishers are attempted;
// their errors are joined.
type Fanout []event.Publisher

func (f Fanout) Publish(ctx context.Context, channel string, payload any) error {
	var errs []error
	for _, p := range f {
		if err := p.Publish(ctx, channel, payload); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
