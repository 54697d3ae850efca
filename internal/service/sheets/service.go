package sheets

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/dexamp-push/telegram-dataset-submission-bot/internal/config"
)

// ErrUnavailable is returned by AppendRow when the startup connection failed.
// The backend stays unavailable for the life of the process; there is no lazy
// reconnect.
var ErrUnavailable = errors.New("sheets backend unavailable")

// Service appends dataset rows to one worksheet of a Google spreadsheet.
// A Service whose connection failed is still usable: Available reports false
// and every AppendRow returns ErrUnavailable.
type Service struct {
	api           *sheets.Service
	spreadsheetID string
	worksheet     string
	logger        zerolog.Logger
}

// Connect authenticates with the service-account credentials file and verifies
// the spreadsheet is reachable. It never returns nil: on any failure the error
// is logged and the returned Service is permanently unavailable, degrading the
// submission feature to "cannot save".
func Connect(ctx context.Context, cfg config.SheetsConfig, logger zerolog.Logger, opts ...option.ClientOption) *Service {
	unavailable := &Service{
		spreadsheetID: cfg.SpreadsheetID,
		worksheet:     cfg.WorksheetName,
		logger:        logger,
	}

	if !cfg.Enabled() {
		logger.Warn().Msg("GOOGLE_SHEET_ID not set, sheet submissions disabled")
		return unavailable
	}

	api, err := connect(ctx, cfg, opts...)
	if err != nil {
		logger.Error().Err(err).Str("spreadsheet_id", cfg.SpreadsheetID).Msg("error connecting to Google Sheets")
		return unavailable
	}

	logger.Info().Str("spreadsheet_id", cfg.SpreadsheetID).Str("worksheet", cfg.WorksheetName).
		Msg("successfully connected to Google Sheets")

	return &Service{
		api:           api,
		spreadsheetID: cfg.SpreadsheetID,
		worksheet:     cfg.WorksheetName,
		logger:        logger,
	}
}

func connect(ctx context.Context, cfg config.SheetsConfig, opts ...option.ClientOption) (*sheets.Service, error) {
	data, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read credentials file: %w", err)
	}

	jwt, err := google.JWTConfigFromJSON(data, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse service account credentials: %w", err)
	}

	clientOpts := append([]option.ClientOption{option.WithHTTPClient(jwt.Client(ctx))}, opts...)
	api, err := sheets.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets client: %w", err)
	}

	// Probe the spreadsheet so a bad ID or revoked grant surfaces at startup
	// rather than on the first user submission.
	if _, err := api.Spreadsheets.Get(cfg.SpreadsheetID).Fields("spreadsheetId").Context(ctx).Do(); err != nil {
		return nil, fmt.Errorf("open spreadsheet %s: %w", cfg.SpreadsheetID, err)
	}

	return api, nil
}

// Available reports whether the startup connection succeeded.
func (s *Service) Available() bool {
	return s != nil && s.api != nil
}

// AppendRow commits one dataset row to the worksheet as a single atomic append.
func (s *Service) AppendRow(ctx context.Context, row []string) error {
	if !s.Available() {
		return ErrUnavailable
	}

	values := make([]interface{}, len(row))
	for i, cell := range row {
		values[i] = cell
	}

	_, err := s.api.Spreadsheets.Values.
		Append(s.spreadsheetID, s.worksheet+"!A1", &sheets.ValueRange{Values: [][]interface{}{values}}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append row to %s: %w", s.worksheet, err)
	}

	s.logger.Info().
		Str("submission_id", uuid.NewString()).
		Int("columns", len(row)).
		Str("worksheet", s.worksheet).
		Msg("row appended to dataset")

	return nil
}
