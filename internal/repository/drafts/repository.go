// Package drafts keeps the composers of live page loads in memory.
package drafts

import (
	"errors"

	"github.com/debemdeboas/notice-composer/internal/composer"
	"github.com/debemdeboas/notice-composer/internal/model"
)

var ErrDraftNotFound = errors.New("draft not found")

type Repository interface {
	CreateDraft() (*composer.Composer, error)
	GetDraft(id model.NoticeID) (*composer.Composer, error)
	Len() int
}

// Factory builds the composer for a freshly allocated id.
type Factory func(id model.NoticeID) *composer.Composer
