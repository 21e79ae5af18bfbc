package media

import (
	"context"

	"github.com/fhuszti/medias-lifecycle-go/internal/port"
	"github.com/fhuszti/medias-lifecycle-go/internal/uuid"
)

type fixationRequesterSrv struct {
	pub port.IntentPublisher
}

// compile-time check: *fixationRequesterSrv must satisfy port.FixationRequester
var _ port.FixationRequester = (*fixationRequesterSrv)(nil)

func NewFixationRequester(pub port.IntentPublisher) port.FixationRequester {
	return &fixationRequesterSrv{pub: pub}
}

// RequestFixation publishes a fixation intent. Unknown ids are left to the
// processor, which treats them as a no-op.
func (s *fixationRequesterSrv) RequestFixation(ctx context.Context, id uuid.UUID) error {
	return s.pub.PublishFixate(ctx, id)
}
