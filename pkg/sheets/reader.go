package sheets

import (
	"context"
	"errors"
	"fmt"

	"github.com/spendwell/spendwell/internal/config"
	log "github.com/sirupsen/logrus"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// ErrNotConfigured is returned when no service account credentials are
// configured; imports are simply unavailable then.
var ErrNotConfigured = errors.New("google sheets import is not configured")

// RowReader reads a rectangular cell range from a spreadsheet.
type RowReader interface {
	ReadRows(ctx context.Context, spreadsheetId string, readRange string) ([][]any, error)
}

type SheetsReader struct {
	credentialsFile string
}

func NewSheetsReader(cfg config.Sheets) *SheetsReader {
	return &SheetsReader{credentialsFile: cfg.CredentialsFile}
}

func (r *SheetsReader) ReadRows(ctx context.Context, spreadsheetId string, readRange string) ([][]any, error) {
	if r.credentialsFile == "" {
		return nil, ErrNotConfigured
	}

	service, err := sheets.NewService(ctx,
		option.WithCredentialsFile(r.credentialsFile),
		option.WithScopes(sheets.SpreadsheetsReadonlyScope),
	)
	if err != nil {
		err := fmt.Errorf("unable to create Google Sheets service: %w", err)
		log.Error(err)
		return nil, err
	}

	resp, err := service.Spreadsheets.Values.Get(spreadsheetId, readRange).Context(ctx).Do()
	if err != nil {
		err := fmt.Errorf("unable to read range %s from spreadsheet %s: %w", readRange, spreadsheetId, err)
		log.Error(err)
		return nil, err
	}
	return resp.Values, nil
}
