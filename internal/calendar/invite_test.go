package calendar

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLink(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)

	link := Link(Invite{
		Title:       "ZyeroLead Strategy Call",
		Start:       time.Date(2026, 10, 18, 11, 0, 0, 0, ist),
		Description: "Call with A (a@b.com)",
		Location:    "Google Meet",
		Invitee:     "tej@zyerolead.com",
	})

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "calendar.google.com", u.Host)

	q := u.Query()
	assert.Equal(t, "TEMPLATE", q.Get("action"))
	assert.Equal(t, "ZyeroLead Strategy Call", q.Get("text"))
	assert.Equal(t, "20261018T053000Z/20261018T054500Z", q.Get("dates"))
	assert.Equal(t, "Call with A (a@b.com)", q.Get("details"))
	assert.Equal(t, "Google Meet", q.Get("location"))
	assert.Equal(t, "tej@zyerolead.com", q.Get("add"))
}

func TestLinkOmitsEmptyFields(t *testing.T) {
	u, err := url.Parse(Link(Invite{Title: "Call", Start: time.Date(2026, 1, 2, 3, 4, 0, 0, time.UTC)}))
	require.NoError(t, err)

	q := u.Query()
	assert.Equal(t, "20260102T030400Z/20260102T031900Z", q.Get("dates"))
	assert.False(t, q.Has("details"))
	assert.False(t, q.Has("add"))
}
