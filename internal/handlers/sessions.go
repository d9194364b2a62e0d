package handlers

import (
	"context"
	"time"

	"github.com/BugSlayer555/ZyeroLead/internal/domain/admin"
	"github.com/BugSlayer555/ZyeroLead/internal/domain/booking"
	"github.com/BugSlayer555/ZyeroLead/internal/infra/session"
)

const (
	bookingCookie = "zyerolead_booking"

	bookingPrefix = "booking:"
	adminPrefix   = "admin:"

	// flowLockTTL outlives the backend timeout so a send in flight keeps
	// the lock until it returns.
	flowLockTTL = time.Minute
)

// notice is a one-shot toast shown on the next page render.
type notice struct {
	Title        string `json:"title"`
	Text         string `json:"text,omitempty"`
	Error        bool   `json:"error,omitempty"`
	CalendarLink string `json:"calendar_link,omitempty"`
}

func errorNotice(err error) *notice {
	title, text := describe(err)
	return &notice{Title: title, Text: text, Error: true}
}

type bookingSession struct {
	Selection booking.Selection `json:"selection"`
	Notice    *notice           `json:"notice,omitempty"`
}

type adminSession struct {
	Console admin.Console `json:"console"`
	Notice  *notice       `json:"notice,omitempty"`
}

// sessions wraps the store with the key layout used by the handlers.
type sessions struct {
	store session.Store
}

func (s sessions) loadBooking(ctx context.Context, id string) (*bookingSession, bool, error) {
	if !session.ValidID(id) {
		return nil, false, nil
	}
	var bs bookingSession
	ok, err := s.store.Load(ctx, bookingPrefix+id, &bs)
	if err != nil || !ok {
		return nil, false, err
	}
	return &bs, true, nil
}

// lockBooking serialises transitions of one visitor's flow. A second
// confirm arriving while the first is still sending finds the lock held.
func (s sessions) lockBooking(ctx context.Context, id string) (func(), bool, error) {
	return s.store.Lock(ctx, bookingPrefix+id, flowLockTTL)
}

func (s sessions) saveBooking(ctx context.Context, id string, bs *bookingSession) error {
	return s.store.Save(ctx, bookingPrefix+id, bs)
}

func (s sessions) loadAdmin(ctx context.Context, id string) (*adminSession, bool, error) {
	var as adminSession
	ok, err := s.store.Load(ctx, adminPrefix+id, &as)
	if err != nil || !ok {
		return nil, false, err
	}
	return &as, true, nil
}

func (s sessions) saveAdmin(ctx context.Context, id string, as *adminSession) error {
	return s.store.Save(ctx, adminPrefix+id, as)
}

func (s sessions) deleteAdmin(ctx context.Context, id string) error {
	return s.store.Delete(ctx, adminPrefix+id)
}
