package drafts

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog"

	"github.com/debemdeboas/notice-composer/internal/composer"
	"github.com/debemdeboas/notice-composer/internal/model"
)

var repoLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	repoLogger = l
}

// MemoryRepository holds at most size drafts. A draft untouched for ttl is
// dropped, as is the least recently used one when the store is full.
type MemoryRepository struct {
	drafts  *expirable.LRU[model.NoticeID, *composer.Composer]
	factory Factory
}

type Option func(*options)

type options struct {
	onEvict func(id model.NoticeID)
}

// WithEvictNotifier sets a function called whenever a draft leaves the store.
// It must not call back into the repository.
func WithEvictNotifier(fn func(id model.NoticeID)) Option {
	return func(o *options) {
		o.onEvict = fn
	}
}

func NewMemoryRepository(size int, ttl time.Duration, factory Factory, opts ...Option) *MemoryRepository {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	onEvict := func(id model.NoticeID, _ *composer.Composer) {
		repoLogger.Debug().Str("notice_id", string(id)).Msg("Draft released")
		if o.onEvict != nil {
			o.onEvict(id)
		}
	}

	return &MemoryRepository{
		drafts:  expirable.NewLRU[model.NoticeID, *composer.Composer](size, onEvict, ttl),
		factory: factory,
	}
}

func (m *MemoryRepository) CreateDraft() (*composer.Composer, error) {
	id := model.NoticeID(uuid.New().String())
	c := m.factory(id)
	if c == nil {
		return nil, fmt.Errorf("composer factory returned nil for %s", id)
	}
	m.drafts.Add(id, c)
	return c, nil
}

// GetDraft returns the draft and restarts its ttl. A draft expiring between
// Get and Add is released and then stored again; the active-drafts gauge
// reads Len, so it stays correct.
func (m *MemoryRepository) GetDraft(id model.NoticeID) (*composer.Composer, error) {
	c, ok := m.drafts.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDraftNotFound, id)
	}
	m.drafts.Add(id, c)
	return c, nil
}

func (m *MemoryRepository) Len() int {
	return m.drafts.Len()
}
