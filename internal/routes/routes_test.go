package routes

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BugSlayer555/ZyeroLead/internal/config"
	"github.com/BugSlayer555/ZyeroLead/internal/domain/booking"
	"github.com/BugSlayer555/ZyeroLead/internal/export"
	"github.com/BugSlayer555/ZyeroLead/internal/infra/session"
	"github.com/BugSlayer555/ZyeroLead/internal/timezone"
	"github.com/BugSlayer555/ZyeroLead/internal/web"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeBackend struct {
	mu        sync.Mutex
	created   []booking.Record
	createErr error
	delay     time.Duration
	listing   []booking.AdminBooking
	listCalls int
	cancelled []booking.CancelRequest
}

func (f *fakeBackend) CreateBooking(_ context.Context, rec booking.Record) error {
	time.Sleep(f.delay)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, rec)
	return f.createErr
}

func (f *fakeBackend) ListBookings(context.Context) ([]booking.AdminBooking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	return append([]booking.AdminBooking(nil), f.listing...), nil
}

func (f *fakeBackend) CancelBooking(_ context.Context, req booking.CancelRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelled = append(f.cancelled, req)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		AdminPassword:      "admin123",
		JWTSecret:          "test-secret",
		AdminTokenTTL:      time.Hour,
		SessionTTL:         time.Hour,
		RateLimitPerMinute: 1000,
		Timezone:           "Asia/Kolkata",
		FormMode:           config.FormModeModal,
		MeetingTitle:       "ZyeroLead Strategy Call",
		MeetingLocation:    "Google Meet",
		InviteeEmail:       "tej@zyerolead.com",
		ContactPhone:       "+919876543210",
		WhatsAppURL:        "https://wa.me/919876543210",
	}
}

func newRouter(t *testing.T, backend booking.Backend) *gin.Engine {
	t.Helper()
	r := gin.New()
	r.SetHTMLTemplate(web.Templates())
	RegisterRoutes(r, Infra{
		Backend:  backend,
		Sessions: session.NewMemoryStore(time.Hour),
		Logger:   zap.NewNop(),
	}, testConfig())
	return r
}

// browser replays cookies between requests.
type browser struct {
	r       *gin.Engine
	cookies map[string]*http.Cookie
}

func newBrowser(r *gin.Engine) *browser {
	return &browser{r: r, cookies: map[string]*http.Cookie{}}
}

func (b *browser) do(req *http.Request) *httptest.ResponseRecorder {
	for _, c := range b.cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	b.r.ServeHTTP(w, req)
	for _, c := range w.Result().Cookies() {
		if c.MaxAge < 0 {
			delete(b.cookies, c.Name)
			continue
		}
		b.cookies[c.Name] = c
	}
	return w
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	return b.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (b *browser) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

func (b *browser) postJSON(path string, body any, token string) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(string(raw)))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return b.do(req)
}

func tomorrow() string {
	return time.Now().In(timezone.Location("Asia/Kolkata")).AddDate(0, 0, 1).Format(booking.DateLayout)
}

// ======================================================
// PUBLIC API
// ======================================================

func TestCreateBookingAPI(t *testing.T) {
	backend := &fakeBackend{}
	b := newBrowser(newRouter(t, backend))

	w := b.postJSON("/api/bookings", map[string]string{
		"date":  tomorrow(),
		"time":  "11:00 AM",
		"name":  "A",
		"phone": "1",
		"email": "a@b.com",
	}, "")

	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	require.Len(t, backend.created, 1)
	assert.Equal(t, tomorrow(), backend.created[0].Date)
	assert.Equal(t, "11:00 AM", backend.created[0].Time)

	var body struct {
		Title        string `json:"title"`
		Message      string `json:"message"`
		CalendarLink string `json:"calendar_link"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Booking Request Received!", body.Title)
	assert.Contains(t, body.Message, "at 11:00 AM. We'll confirm shortly.")
	assert.Contains(t, body.CalendarLink, "action=TEMPLATE")
}

func TestCreateBookingWithoutTimeIsRejected(t *testing.T) {
	backend := &fakeBackend{}
	b := newBrowser(newRouter(t, backend))

	w := b.postJSON("/api/bookings", map[string]string{
		"date":  tomorrow(),
		"name":  "A",
		"phone": "1",
		"email": "a@b.com",
	}, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"error_code":"select_date_and_time"`)
	assert.Contains(t, w.Body.String(), "Please select a date and time")
	assert.Empty(t, backend.created)
}

func TestCreateBookingMalformedEmail(t *testing.T) {
	backend := &fakeBackend{}
	b := newBrowser(newRouter(t, backend))

	w := b.postJSON("/api/bookings", map[string]string{
		"date":  tomorrow(),
		"time":  "11:00 AM",
		"name":  "A",
		"phone": "1",
		"email": "not-an-email",
	}, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"error_code":"invalid_email"`)
	assert.Empty(t, backend.created)
}

func TestCreateBookingTransportError(t *testing.T) {
	backend := &fakeBackend{createErr: errors.New("dial tcp: i/o timeout")}
	b := newBrowser(newRouter(t, backend))

	w := b.postJSON("/api/bookings", map[string]string{
		"date":  tomorrow(),
		"time":  "02:00 PM",
		"name":  "A",
		"phone": "1",
		"email": "a@b.com",
	}, "")

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "Submission Error")
}

func TestSlots(t *testing.T) {
	b := newBrowser(newRouter(t, &fakeBackend{}))

	w := b.get("/api/booking/slots?date=2000-01-01")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Disabled  bool     `json:"disabled"`
		TimeSlots []string `json:"time_slots"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Disabled)
	assert.Equal(t, booking.TimeSlots(), body.TimeSlots)

	w = b.get("/api/booking/slots?date=" + tomorrow())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Disabled)

	w = b.get("/api/booking/slots?date=tomorrow")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// ======================================================
// BOOKING PAGE
// ======================================================

func TestBookingPageFlow(t *testing.T) {
	backend := &fakeBackend{}
	b := newBrowser(newRouter(t, backend))

	w := b.get("/book")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Strategy Call")
	assert.Contains(t, b.cookies, "zyerolead_booking")

	// today is pre-selected but no time yet
	w = b.postForm("/book/submit", nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Contains(t, b.get("/book").Body.String(), "Please select a date and time")
	assert.Empty(t, backend.created)

	b.postForm("/book/date", url.Values{"date": {tomorrow()}})
	b.postForm("/book/time", url.Values{"time": {"11:00 AM"}})
	b.postForm("/book/submit", nil)

	page := b.get("/book").Body.String()
	assert.Contains(t, page, "Almost there")
	assert.Contains(t, page, "at 11:00 AM")

	w = b.postForm("/book/confirm", url.Values{
		"name":  {"A"},
		"phone": {"1"},
		"email": {"a@b.com"},
	})
	assert.Equal(t, http.StatusSeeOther, w.Code)

	require.Len(t, backend.created, 1)
	assert.Equal(t, tomorrow(), backend.created[0].Date)

	page = b.get("/book").Body.String()
	assert.Contains(t, page, "Booking Request Received!")
	assert.NotContains(t, page, "Almost there")
}

func TestBookingPageDoubleConfirmSendsOnce(t *testing.T) {
	backend := &fakeBackend{delay: 200 * time.Millisecond}
	r := newRouter(t, backend)
	b := newBrowser(r)

	b.get("/book")
	b.postForm("/book/date", url.Values{"date": {tomorrow()}})
	b.postForm("/book/time", url.Values{"time": {"11:00 AM"}})
	b.postForm("/book/submit", nil)
	cookie := b.cookies["zyerolead_booking"]
	require.NotNil(t, cookie)

	form := url.Values{"name": {"A"}, "phone": {"1"}, "email": {"a@b.com"}}.Encode()

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPost, "/book/confirm", strings.NewReader(form))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			req.AddCookie(cookie)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, http.StatusSeeOther, w.Code)
		}()
	}
	wg.Wait()

	backend.mu.Lock()
	defer backend.mu.Unlock()
	assert.Len(t, backend.created, 1)
}

// ======================================================
// ADMIN
// ======================================================

func TestAdminLoginGate(t *testing.T) {
	backend := &fakeBackend{listing: []booking.AdminBooking{{Date: "2026-10-18", Time: "10:00 AM", Name: "Ann"}}}
	b := newBrowser(newRouter(t, backend))

	w := b.postJSON("/api/admin/login", map[string]string{"password": "wrong"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_password")
	assert.Zero(t, backend.listCalls)

	w = b.postJSON("/api/admin/login", map[string]string{"password": "admin123"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, backend.listCalls)
	assert.Contains(t, w.Body.String(), `"name":"Ann"`)
}

func TestAdminAPICancelAndExport(t *testing.T) {
	backend := &fakeBackend{listing: []booking.AdminBooking{
		{Date: "2026-10-18", Time: "10:00 AM", Name: "Ann", Email: "ann@x.com"},
		{Date: "2026-10-18", Time: "11:00 AM", Name: "Bob", Email: "bob@x.com"},
	}}
	b := newBrowser(newRouter(t, backend))

	w := b.postJSON("/api/admin/login", map[string]string{"password": "admin123"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	require.NotEmpty(t, login.Token)

	w = b.postJSON("/api/admin/bookings/cancel", map[string]any{"date": "2026-10-18", "time": "10:00 AM"}, login.Token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "confirmation_required")

	w = b.postJSON("/api/admin/bookings/cancel", map[string]any{"date": "2026-10-18", "time": "10:00 AM", "confirm": true}, login.Token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Len(t, backend.cancelled, 1)
	assert.Equal(t, "ann@x.com", backend.cancelled[0].Email)

	var cancelled struct {
		Cancelled booking.AdminBooking `json:"cancelled"`
		Console   struct {
			Bookings []booking.AdminBooking `json:"bookings"`
		} `json:"console"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cancelled))
	assert.Equal(t, "Ann", cancelled.Cancelled.Name)
	require.Len(t, cancelled.Console.Bookings, 1)
	assert.Equal(t, "Bob", cancelled.Console.Bookings[0].Name)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/bookings/export", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	w = b.do(req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, export.ContentType, w.Header().Get("Content-Type"))

	req = httptest.NewRequest(http.MethodGet, "/api/admin/audit-logs", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	w = b.do(req)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "audit_disabled")

	req = httptest.NewRequest(http.MethodGet, "/api/admin/bookings", nil)
	w = newBrowser(b.r).do(req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminConsolePage(t *testing.T) {
	backend := &fakeBackend{listing: []booking.AdminBooking{
		{Date: "2026-10-18", Time: "10:00 AM", Name: "Ann", Email: "ann@x.com"},
	}}
	b := newBrowser(newRouter(t, backend))

	assert.Contains(t, b.get("/admin").Body.String(), "Admin Access")

	w := b.postForm("/admin/login", url.Values{"password": {"nope"}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid Password")
	assert.Zero(t, backend.listCalls)

	w = b.postForm("/admin/login", url.Values{"password": {"admin123"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, 1, backend.listCalls)
	assert.Contains(t, b.get("/admin").Body.String(), "Ann")

	b.postForm("/admin/cancel", url.Values{"date": {"2026-10-18"}, "time": {"10:00 AM"}, "confirm": {"true"}})
	page := b.get("/admin").Body.String()
	assert.Contains(t, page, "Booking Cancelled")
	assert.Contains(t, page, "No bookings found.")

	b.postForm("/admin/logout", nil)
	assert.Contains(t, b.get("/admin").Body.String(), "Admin Access")
}
