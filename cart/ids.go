package cart

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDSource mints ids for lines that must never merge with another line.
type IDSource interface {
	Next(prefix string) string
}

// UUIDSource mints "{prefix}-{uuid}" ids.
type UUIDSource struct{}

func (UUIDSource) Next(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

// SequenceSource mints "{prefix}-{n}" ids from a monotonic counter.
// Tests use it to get predictable ids.
type SequenceSource struct {
	n atomic.Uint64
}

func (s *SequenceSource) Next(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, s.n.Add(1))
}
