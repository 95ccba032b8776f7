// Package composer holds the state of one notice being composed and drives its submission.
package composer

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/debemdeboas/notice-composer/internal/config"
	"github.com/debemdeboas/notice-composer/internal/model"
)

var composerLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	composerLogger = l
}

var ErrSubmitInFlight = errors.New("a submission is already in flight")

// Sender delivers a draft to the remote endpoint.
type Sender interface {
	Send(ctx context.Context, d *model.Draft) error
}

// Phase of the submit lifecycle: Idle → Sending → Succeeded|Failed.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSending
	PhaseSucceeded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseSending:
		return "sending"
	case PhaseSucceeded:
		return "succeeded"
	case PhaseFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Outcome observes settled submissions. It runs after the lock is released.
type Outcome func(id model.NoticeID, phase Phase, elapsed time.Duration)

// View is a consistent snapshot of a composer for rendering.
type View struct {
	ID      model.NoticeID
	Draft   *model.Draft
	Loading bool
	Error   string
	Success string
}

func (v View) Phase() Phase {
	switch {
	case v.Loading:
		return PhaseSending
	case v.Error != "":
		return PhaseFailed
	case v.Success != "":
		return PhaseSucceeded
	default:
		return PhaseIdle
	}
}

type Composer struct {
	id     model.NoticeID
	sender Sender

	mu      sync.Mutex
	draft   *model.Draft
	loading bool
	errMsg  string
	success string

	onSettled Outcome
}

func New(id model.NoticeID, sender Sender) *Composer {
	return &Composer{
		id:     id,
		sender: sender,
		draft:  model.NewDraft(),
	}
}

func (c *Composer) ID() model.NoticeID {
	return c.id
}

// SetSettledNotifier sets a function called every time a submission settles.
func (c *Composer) SetSettledNotifier(fn Outcome) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onSettled = fn
}

func (c *Composer) SetCaption(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft.SetCaption(text)
}

func (c *Composer) SelectImage(img *model.Image) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft.SelectImage(img)
}

func (c *Composer) UpdateButtonField(index int, field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft.UpdateButtonField(index, field, value)
}

func (c *Composer) AddButtonRow() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft.AddButtonRow()
}

func (c *Composer) RemoveButtonRow(index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft.RemoveButtonRow(index)
}

// ReplyMarkup is the keyboard the next submission would carry.
func (c *Composer) ReplyMarkup() model.ReplyMarkup {
	c.mu.Lock()
	defer c.mu.Unlock()
	return model.BuildReplyMarkup(c.draft.Buttons)
}

func (c *Composer) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return View{
		ID:      c.id,
		Draft:   c.draft.Clone(),
		Loading: c.loading,
		Error:   c.errMsg,
		Success: c.success,
	}
}

// Submit sends the current draft and blocks until the endpoint answers.
// The returned error is the send failure; the same failure is kept as the
// operator-facing message.
func (c *Composer) Submit(ctx context.Context) error {
	snapshot, err := c.begin()
	if err != nil {
		return err
	}
	return c.run(ctx, snapshot)
}

// Dispatch moves the composer to Sending and sends on a new goroutine. The
// request is not tied to ctx cancellation.
func (c *Composer) Dispatch(ctx context.Context) error {
	snapshot, err := c.begin()
	if err != nil {
		return err
	}
	go c.run(context.WithoutCancel(ctx), snapshot)
	return nil
}

func (c *Composer) begin() (*model.Draft, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loading {
		return nil, ErrSubmitInFlight
	}
	c.loading = true
	c.errMsg = ""
	c.success = ""
	return c.draft.Clone(), nil
}

func (c *Composer) run(ctx context.Context, snapshot *model.Draft) error {
	start := time.Now()
	sendErr := c.sender.Send(ctx, snapshot)
	elapsed := time.Since(start)

	c.mu.Lock()
	phase := PhaseSucceeded
	if sendErr != nil {
		phase = PhaseFailed
		c.errMsg = config.MsgSubmitFailedPrefix + sendErr.Error()
	} else {
		c.success = config.MsgSubmitSucceeded
	}
	c.loading = false
	notify := c.onSettled
	c.mu.Unlock()

	composerLogger.Info().
		Str("notice_id", string(c.id)).
		Str("phase", phase.String()).
		Dur("elapsed", elapsed).
		AnErr("error", sendErr).
		Msg("Submission settled")

	if notify != nil {
		notify(c.id, phase, elapsed)
	}
	return sendErr
}
