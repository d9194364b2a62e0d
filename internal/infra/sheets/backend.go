// Package sheets stores bookings directly in a Google spreadsheet, as an
// alternative to going through the web-app endpoint.
package sheets

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"github.com/BugSlayer555/ZyeroLead/internal/domain/booking"
	"github.com/BugSlayer555/ZyeroLead/internal/metrics"
)

// Column order: date, time, name, email, phone, company, details, created_at.
const columns = 8

type Backend struct {
	service       *gsheets.Service
	spreadsheetID string
	sheetName     string
	firstRow      int
	readRange     string
	logger        *zap.Logger
	metrics       *metrics.BookingMetrics
}

// NewFromCredentials builds a backend authenticated with a service account
// JSON key file.
func NewFromCredentials(
	ctx context.Context,
	credentialsFile string,
	spreadsheetID string,
	readRange string,
	logger *zap.Logger,
	m *metrics.BookingMetrics,
) (*Backend, error) {
	credentialsJSON, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read credentials file: %w", err)
	}

	cfg, err := google.JWTConfigFromJSON(credentialsJSON, gsheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}

	srv, err := gsheets.NewService(ctx, option.WithHTTPClient(cfg.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return New(srv, spreadsheetID, readRange, logger, m), nil
}

func New(
	srv *gsheets.Service,
	spreadsheetID string,
	readRange string,
	logger *zap.Logger,
	m *metrics.BookingMetrics,
) *Backend {
	if logger == nil {
		logger = zap.NewNop()
	}
	sheet, first := parseRange(readRange)
	return &Backend{
		service:       srv,
		spreadsheetID: spreadsheetID,
		sheetName:     sheet,
		firstRow:      first,
		readRange:     readRange,
		logger:        logger,
		metrics:       m,
	}
}

var _ booking.Backend = (*Backend)(nil)

func (b *Backend) CreateBooking(ctx context.Context, rec booking.Record) error {
	row := []interface{}{rec.Date, rec.Time, rec.Name, rec.Email, rec.Phone, rec.Company, rec.Details, rec.CreatedAt}

	start := time.Now()
	_, err := b.service.Spreadsheets.Values.
		Append(b.spreadsheetID, b.sheetName+"!A:H", &gsheets.ValueRange{Values: [][]interface{}{row}}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	b.metrics.ObserveBackend("create", err, time.Since(start).Seconds())
	if err != nil {
		b.logger.Error("append booking row failed", zap.Error(err))
		return fmt.Errorf("%w: append row: %v", booking.ErrUnavailable, err)
	}
	return nil
}

func (b *Backend) ListBookings(ctx context.Context) ([]booking.AdminBooking, error) {
	rows, err := b.readRows(ctx, "list")
	if err != nil {
		return nil, err
	}

	out := make([]booking.AdminBooking, 0, len(rows))
	for _, r := range rows {
		if bk, ok := rowToBooking(r); ok {
			out = append(out, bk)
		}
	}
	return out, nil
}

// CancelBooking clears the first row matching date and time. A row with a
// different email is left alone when the request carries one.
func (b *Backend) CancelBooking(ctx context.Context, req booking.CancelRequest) error {
	rows, err := b.readRows(ctx, "cancel_lookup")
	if err != nil {
		return err
	}

	for i, r := range rows {
		bk, ok := rowToBooking(r)
		if !ok || bk.Date != req.Date || bk.Time != req.Time {
			continue
		}
		if req.Email != "" && bk.Email != "" && !strings.EqualFold(bk.Email, req.Email) {
			continue
		}

		n := b.firstRow + i
		rng := fmt.Sprintf("%s!A%d:H%d", b.sheetName, n, n)

		start := time.Now()
		_, err := b.service.Spreadsheets.Values.
			Clear(b.spreadsheetID, rng, &gsheets.ClearValuesRequest{}).
			Context(ctx).
			Do()
		b.metrics.ObserveBackend("cancel", err, time.Since(start).Seconds())
		if err != nil {
			b.logger.Error("clear booking row failed", zap.String("range", rng), zap.Error(err))
			return fmt.Errorf("%w: clear row: %v", booking.ErrUnavailable, err)
		}
		return nil
	}

	b.logger.Warn("cancel requested for unknown booking", zap.String("key", booking.Key(req.Date, req.Time)))
	return nil
}

func (b *Backend) readRows(ctx context.Context, op string) ([][]interface{}, error) {
	start := time.Now()
	resp, err := b.service.Spreadsheets.Values.Get(b.spreadsheetID, b.readRange).Context(ctx).Do()
	b.metrics.ObserveBackend(op, err, time.Since(start).Seconds())
	if err != nil {
		b.logger.Error("read booking rows failed", zap.Error(err))
		return nil, fmt.Errorf("%w: read rows: %v", booking.ErrUnavailable, err)
	}
	return resp.Values, nil
}

func rowToBooking(row []interface{}) (booking.AdminBooking, bool) {
	cells := make([]string, columns)
	for i := 0; i < columns && i < len(row); i++ {
		cells[i] = strings.TrimSpace(fmt.Sprint(row[i]))
	}
	if cells[0] == "" && cells[1] == "" {
		return booking.AdminBooking{}, false
	}
	return booking.AdminBooking{
		Date:    cells[0],
		Time:    cells[1],
		Name:    cells[2],
		Email:   cells[3],
		Phone:   cells[4],
		Company: cells[5],
		Details: cells[6],
	}, true
}

// parseRange splits "Bookings!A2:H" into the sheet name and first row.
func parseRange(rng string) (string, int) {
	sheet, cells, ok := strings.Cut(rng, "!")
	if !ok {
		return rng, 1
	}
	start, _, _ := strings.Cut(cells, ":")
	digits := strings.TrimLeft(start, "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz")
	n, err := strconv.Atoi(digits)
	if err != nil || n < 1 {
		return sheet, 1
	}
	return sheet, n
}
