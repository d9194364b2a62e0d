// Package calendar builds "add to calendar" links for requested calls.
package calendar

import (
	"net/url"
	"time"
)

const (
	templateURL = "https://calendar.google.com/calendar/render"
	basicLayout = "20060102T150405Z"

	// CallDuration is the length of every strategy call.
	CallDuration = 15 * time.Minute
)

type Invite struct {
	Title       string
	Start       time.Time
	Description string
	Location    string
	Invitee     string
}

// Link renders the invite as a Google Calendar template URL. No request is
// made; the visitor's browser opens it.
func Link(inv Invite) string {
	start := inv.Start.UTC()
	end := start.Add(CallDuration)

	q := url.Values{}
	q.Set("action", "TEMPLATE")
	q.Set("text", inv.Title)
	q.Set("dates", start.Format(basicLayout)+"/"+end.Format(basicLayout))
	if inv.Description != "" {
		q.Set("details", inv.Description)
	}
	if inv.Location != "" {
		q.Set("location", inv.Location)
	}
	if inv.Invitee != "" {
		q.Set("add", inv.Invitee)
	}

	return templateURL + "?" + q.Encode()
}
