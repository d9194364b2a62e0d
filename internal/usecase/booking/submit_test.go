package booking

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BugSlayer555/ZyeroLead/internal/domain/booking"
	"github.com/BugSlayer555/ZyeroLead/internal/httperr"
)

type fakeBackend struct {
	mu      sync.Mutex
	created []domain.Record
	err     error
}

func (f *fakeBackend) CreateBooking(_ context.Context, rec domain.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, rec)
	return f.err
}

func (f *fakeBackend) ListBookings(context.Context) ([]domain.AdminBooking, error) {
	return nil, nil
}

func (f *fakeBackend) CancelBooking(context.Context, domain.CancelRequest) error {
	return nil
}

var ist = time.FixedZone("IST", 5*3600+1800)

func newUseCase(b domain.Backend, mode domain.FormMode) *SubmitBooking {
	uc := NewSubmitBooking(b, nil, nil, nil, Settings{
		Location:        ist,
		FormMode:        mode,
		MeetingTitle:    "ZyeroLead Strategy Call",
		MeetingLocation: "Google Meet",
		InviteeEmail:    "tej@zyerolead.com",
	})
	uc.now = func() time.Time { return time.Date(2026, 10, 17, 15, 30, 0, 0, ist) }
	return uc
}

func TestExecuteEndToEnd(t *testing.T) {
	backend := &fakeBackend{}
	uc := newUseCase(backend, domain.FormModal)
	tomorrow := uc.Now().AddDate(0, 0, 1).Format("2006-01-02")

	res, err := uc.Execute(context.Background(), SubmitInput{
		Date:    tomorrow,
		Time:    "11:00 AM",
		Contact: domain.ContactDetails{Name: "A", Phone: "1", Email: "a@b.com"},
	})
	require.NoError(t, err)

	require.Len(t, backend.created, 1)
	assert.Equal(t, "11:00 AM", backend.created[0].Time)
	assert.Equal(t, "2026-10-18", backend.created[0].Date)

	assert.Equal(t, domain.StateSubmitted, res.Selection.State)
	assert.Empty(t, res.Selection.Time)
	assert.Equal(t, domain.ContactDetails{}, res.Selection.Contact)
	assert.Equal(t, "Requested for October 18th, 2026 at 11:00 AM. We'll confirm shortly.", res.Message)

	u, err := url.Parse(res.CalendarLink)
	require.NoError(t, err)
	assert.Equal(t, "20261018T053000Z/20261018T054500Z", u.Query().Get("dates"))
}

func TestExecuteWithoutDateOrTimeSendsNothing(t *testing.T) {
	backend := &fakeBackend{}
	uc := newUseCase(backend, domain.FormModal)
	contact := domain.ContactDetails{Name: "A", Phone: "1", Email: "a@b.com"}

	_, err := uc.Execute(context.Background(), SubmitInput{Date: "2026-10-18", Contact: contact})
	assert.True(t, httperr.IsBusiness(err, domain.CodeSelectDateAndTime))

	_, err = uc.Execute(context.Background(), SubmitInput{Time: "11:00 AM", Contact: contact})
	assert.True(t, httperr.IsBusiness(err, domain.CodeSelectDateAndTime))

	assert.Empty(t, backend.created)
}

func TestExecuteRejectsPastDateAndBadInput(t *testing.T) {
	backend := &fakeBackend{}
	uc := newUseCase(backend, domain.FormModal)
	contact := domain.ContactDetails{Name: "A", Phone: "1", Email: "a@b.com"}

	_, err := uc.Execute(context.Background(), SubmitInput{Date: "2026-10-16", Time: "11:00 AM", Contact: contact})
	assert.True(t, httperr.IsBusiness(err, domain.CodeDateUnavailable))

	_, err = uc.Execute(context.Background(), SubmitInput{Date: "18/10/2026", Time: "11:00 AM", Contact: contact})
	assert.True(t, httperr.IsBusiness(err, domain.CodeInvalidDate))

	_, err = uc.Execute(context.Background(), SubmitInput{Date: "2026-10-18", Time: "11:30 AM", Contact: contact})
	assert.True(t, httperr.IsBusiness(err, domain.CodeInvalidTimeSlot))

	_, err = uc.Execute(context.Background(), SubmitInput{Date: "2026-10-18", Time: "11:00 AM", Contact: domain.ContactDetails{Name: "A"}})
	assert.True(t, httperr.IsBusiness(err, domain.CodeContactRequired))

	assert.Empty(t, backend.created)
}

func TestSendTransportFailureKeepsSelection(t *testing.T) {
	backend := &fakeBackend{err: errors.New("dial tcp: connection refused")}
	uc := newUseCase(backend, domain.FormModal)

	sel := domain.NewSelection(uc.Now(), domain.FormModal)
	require.NoError(t, sel.SelectTime("02:00 PM"))

	_, err := uc.Send(context.Background(), &sel, domain.ContactDetails{Name: "A", Phone: "1", Email: "a@b.com"})

	assert.True(t, httperr.IsBusiness(err, domain.CodeSubmissionError))
	assert.Len(t, backend.created, 1)
	assert.Equal(t, domain.StateFailed, sel.State)
	assert.Equal(t, "02:00 PM", sel.Time)
}

func TestSendInlineModeKeepsContact(t *testing.T) {
	backend := &fakeBackend{}
	uc := newUseCase(backend, domain.FormInline)

	sel := domain.NewSelection(uc.Now(), domain.FormInline)
	require.NoError(t, sel.SelectTime("10:00 AM"))
	contact := domain.ContactDetails{Name: "A", Phone: "1", Email: "a@b.com", Company: "Acme"}

	res, err := uc.Send(context.Background(), &sel, contact)
	require.NoError(t, err)

	assert.Equal(t, "Acme", backend.created[0].Company)
	assert.Equal(t, contact, sel.Contact)
	assert.Empty(t, sel.Time)
	assert.Contains(t, res.CalendarLink, "calendar.google.com")
}
