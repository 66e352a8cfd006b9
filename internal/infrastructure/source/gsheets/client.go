// Package gsheets implements the spreadsheet source adapter on top of the
// Google Sheets API. Each of the four logical tables lives in its own
// spreadsheet, authenticated with a service-account credential; every read
// goes back to the live sheet - there is no caching here.
package gsheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/edupulse/student-risk-hub/internal/domain/record"
	"github.com/edupulse/student-risk-hub/internal/domain/shared"
	"github.com/edupulse/student-risk-hub/pkg/retry"
)

// readRange covers every populated column of the first worksheet.
const readRange = "A1:ZZ"

// Config contains configuration for the sheets client.
type Config struct {
	// CredentialsJSON is the service-account key, injected via config
	// (never a file path literal).
	CredentialsJSON []byte

	// SpreadsheetIDs maps each logical table to its spreadsheet ID.
	SpreadsheetIDs map[record.Table]string

	// RequestTimeout bounds a single Sheets API call.
	RequestTimeout time.Duration

	// MaxRetries is the number of attempts for transient failures.
	MaxRetries int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		RequestTimeout: 30 * time.Second,
		MaxRetries:     3,
	}
}

// Validate checks that every synchronized table has a spreadsheet ID.
func (c Config) Validate() error {
	if len(c.CredentialsJSON) == 0 {
		return errors.New("gsheets: credentials JSON is required")
	}
	for _, t := range record.Tables {
		if c.SpreadsheetIDs[t] == "" {
			return fmt.Errorf("gsheets: no spreadsheet ID configured for table %q", t)
		}
	}
	return nil
}

// Client reads the source tables from Google Sheets.
type Client struct {
	config  Config
	service *sheets.Service
	retrier *retry.Retrier
}

// NewClient creates a sheets client with the given configuration.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	svc, err := sheets.NewService(ctx,
		option.WithCredentialsJSON(cfg.CredentialsJSON),
		option.WithScopes(sheets.SpreadsheetsReadonlyScope),
	)
	if err != nil {
		return nil, shared.WrapError("source", "NewClient", shared.ErrSourceUnavailable,
			"cannot build sheets service", err)
	}

	return &Client{
		config:  cfg,
		service: svc,
		retrier: retry.New(
			retry.WithMaxAttempts(cfg.MaxRetries),
			retry.WithInitialDelay(500*time.Millisecond),
		),
	}, nil
}

// ReadTable reads every row of the named table in sheet order. It returns
// a schema mismatch error when a required header column is absent, and a
// source-unavailable error when the sheet cannot be opened or read.
func (c *Client) ReadTable(ctx context.Context, table record.Table) ([]record.Row, error) {
	spreadsheetID, ok := c.config.SpreadsheetIDs[table]
	if !ok || spreadsheetID == "" {
		return nil, shared.WrapError("source", "ReadTable", shared.ErrSourceUnavailable,
			fmt.Sprintf("no spreadsheet configured for table %q", table), nil)
	}

	var values [][]interface{}
	err := c.retrier.Do(ctx, func(ctx context.Context) error {
		callCtx, cancel := context.WithTimeout(ctx, c.config.RequestTimeout)
		defer cancel()

		resp, err := c.service.Spreadsheets.Values.Get(spreadsheetID, readRange).
			Context(callCtx).Do()
		if err != nil {
			if isTransient(err) {
				return retry.Retryable(err)
			}
			return retry.Permanent(err)
		}
		values = resp.Values
		return nil
	})
	if err != nil {
		return nil, shared.WrapError("source", "ReadTable", shared.ErrSourceExhausted,
			fmt.Sprintf("table %q", table), err)
	}

	return mapRows(table, values)
}

// isTransient reports whether a Sheets API error is worth retrying.
func isTransient(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
		return false
	}
	// Network-level failures (timeouts, resets) arrive as plain errors.
	return true
}
