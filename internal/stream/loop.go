// Package stream pushes live headline batches to a single connected client.
package stream

import (
	"context"
	"time"

	"github.com/dom/newsly/internal/domain"
)

const (
	EventHeadlines = "headlines"
	EventError     = "error"

	DefaultInterval = 60 * time.Second
)

type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type HeadlinesPayload struct {
	TS       int64            `json:"ts"`
	Articles []domain.Article `json:"articles"`
}

type ErrorPayload struct {
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

// Emitter delivers one event to the client. An error means the connection is
// unusable and the loop should stop.
type Emitter interface {
	Emit(Event) error
}

type FetchFunc func(ctx context.Context) ([]domain.Article, error)

// Loop is a periodic task scoped to one connection.
type Loop struct {
	Interval time.Duration
	Fetch    FetchFunc
	Now      func() time.Time
	// OnEvent, when set, observes every event that was written.
	OnEvent func(Event)
}

// Run pushes one batch immediately and then one per Interval until ctx is
// cancelled or the emitter fails. Nothing is written after ctx is done.
func (l *Loop) Run(ctx context.Context, em Emitter) error {
	interval := l.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	if err := l.push(ctx, em); err != nil {
		return err
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := l.push(ctx, em); err != nil {
				return err
			}
		}
	}
}

func (l *Loop) push(ctx context.Context, em Emitter) error {
	articles, err := l.Fetch(ctx)
	if ctx.Err() != nil {
		return nil
	}

	var ev Event
	if err != nil {
		ev = Event{Type: EventError, Data: ErrorPayload{Message: "Live headlines unavailable", Detail: err.Error()}}
	} else {
		if articles == nil {
			articles = []domain.Article{}
		}
		ev = Event{Type: EventHeadlines, Data: HeadlinesPayload{TS: l.now().UnixMilli(), Articles: articles}}
	}

	if err := em.Emit(ev); err != nil {
		return err
	}
	if l.OnEvent != nil {
		l.OnEvent(ev)
	}
	return nil
}

func (l *Loop) now() time.Time {
	if l.Now != nil {
		return l.Now()
	}
	return time.Now()
}
