package scriptbackend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BugSlayer555/ZyeroLead/internal/domain/booking"
)

func TestCreateBookingPostsPlainTextJSON(t *testing.T) {
	var got booking.Record
	var contentType string
	calls := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, http.MethodPost, r.Method)
		contentType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer ts.Close()

	c := NewClient(ts.URL, time.Second, nil)
	rec := booking.Record{Name: "A", Email: "a@b.com", Phone: "1", Date: "2026-10-18", Time: "11:00 AM", CreatedAt: "2026-10-17T10:00:00.000Z"}

	require.NoError(t, c.CreateBooking(context.Background(), rec))
	assert.Equal(t, 1, calls)
	assert.Equal(t, "text/plain", contentType)
	assert.Equal(t, rec, got)
}

func TestOpaquePostIgnoresServerErrors(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"sheet locked"}`, http.StatusInternalServerError)
	}))
	defer ts.Close()

	c := NewClient(ts.URL, time.Second, nil)

	assert.NoError(t, c.CreateBooking(context.Background(), booking.Record{}))
	assert.NoError(t, c.CancelBooking(context.Background(), booking.CancelRequest{Action: "cancel"}))
}

func TestOpaquePostReportsTransportFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := ts.URL
	ts.Close()

	c := NewClient(url, time.Second, nil)

	err := c.CreateBooking(context.Background(), booking.Record{})
	assert.True(t, errors.Is(err, booking.ErrUnavailable))
}

func TestCancelBookingPayload(t *testing.T) {
	var got map[string]string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
	}))
	defer ts.Close()

	c := NewClient(ts.URL, time.Second, nil)
	req := booking.NewCancelRequest(booking.AdminBooking{Date: "2026-10-18", Time: "11:00 AM", Email: "a@b.com"})

	require.NoError(t, c.CancelBooking(context.Background(), req))
	assert.Equal(t, map[string]string{"action": "cancel", "date": "2026-10-18", "time": "11:00 AM", "email": "a@b.com"}, got)
}

func TestListBookings(t *testing.T) {
	var action string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		action = r.URL.Query().Get("action")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"bookings": []map[string]any{
				{"date": "2026-10-18", "time": "11:00 AM", "name": "A", "email": "a@b.com", "phone": 919876543210, "company": "", "details": ""},
				{"date": "2026-10-19", "time": "10:00 AM", "name": "B", "email": "b@b.com", "phone": "2"},
			},
		})
	}))
	defer ts.Close()

	c := NewClient(ts.URL+"?v=1", time.Second, nil)

	list, err := c.ListBookings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "getAll", action)
	require.Len(t, list, 2)
	assert.Equal(t, "919876543210", list[0].Phone)
	assert.Equal(t, "2026-10-19|10:00 AM", list[1].Key())
}

func TestListBookingsNonObjectRows(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"bookings":[1,{"name":"A"},"x"]}`))
	}))
	defer ts.Close()

	list, err := NewClient(ts.URL, time.Second, nil).ListBookings(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, booking.AdminBooking{}, list[0])
	assert.Equal(t, "A", list[1].Name)
	assert.Equal(t, booking.AdminBooking{}, list[2])
}

func TestListBookingsErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "backend error message",
			status: http.StatusOK,
			body:   `{"error":"X"}`,
			check: func(t *testing.T, err error) {
				var be booking.BackendError
				require.True(t, errors.As(err, &be))
				assert.Equal(t, "X", be.Message)
			},
		},
		{
			name:   "unexpected shape",
			status: http.StatusOK,
			body:   `{"rows":[]}`,
			check: func(t *testing.T, err error) {
				assert.True(t, errors.Is(err, booking.ErrUnexpectedResponse))
			},
		},
		{
			name:   "non 2xx",
			status: http.StatusForbidden,
			body:   `denied`,
			check: func(t *testing.T, err error) {
				assert.True(t, errors.Is(err, booking.ErrUnavailable))
			},
		},
		{
			name:   "not json",
			status: http.StatusOK,
			body:   `<html>login</html>`,
			check: func(t *testing.T, err error) {
				assert.True(t, errors.Is(err, booking.ErrUnavailable))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			_, err := NewClient(ts.URL, time.Second, nil).ListBookings(context.Background())
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}
