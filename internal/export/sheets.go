package export

import (
	"context"
	"fmt"
	"os"

	"github.com/Panz66/febw/internal/bracket"
	"google.golang.org/api/option"
	sheetsv4 "google.golang.org/api/sheets/v4"
)

// Publisher pushes the bracket rows somewhere the crew can read them.
type Publisher interface {
	Publish(ctx context.Context, b bracket.Bracket) (string, error)
}

type SheetsPublisher struct {
	srv           *sheetsv4.Service
	spreadsheetID string
}

// NewSheetsPublisher authenticates with a service account key file.
func NewSheetsPublisher(ctx context.Context, serviceAccountJSONPath, spreadsheetID string) (*SheetsPublisher, error) {
	if _, err := os.Stat(serviceAccountJSONPath); err != nil {
		return nil, fmt.Errorf("service account json: %w", err)
	}
	return NewSheetsPublisherWithOptions(ctx, spreadsheetID,
		option.WithCredentialsFile(serviceAccountJSONPath),
		option.WithScopes(sheetsv4.SpreadsheetsScope),
	)
}

func NewSheetsPublisherWithOptions(ctx context.Context, spreadsheetID string, opts ...option.ClientOption) (*SheetsPublisher, error) {
	srv, err := sheetsv4.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &SheetsPublisher{srv: srv, spreadsheetID: spreadsheetID}, nil
}

func SheetTitle(b bracket.Bracket) string {
	return fmt.Sprintf("Lomba %d", b.Competition.ID)
}

// Publish replaces the content of the competition's sheet with the bracket
// rows and returns the written range.
func (p *SheetsPublisher) Publish(ctx context.Context, b bracket.Bracket) (string, error) {
	title := SheetTitle(b)
	if err := p.ensureSheet(ctx, title); err != nil {
		return "", err
	}

	target := title + "!A:Z"
	if _, err := p.srv.Spreadsheets.Values.Clear(p.spreadsheetID, target, &sheetsv4.ClearValuesRequest{}).
		Context(ctx).
		Do(); err != nil {
		return "", fmt.Errorf("clear %s: %w", target, err)
	}

	rows := Rows(b)
	values := make([][]interface{}, len(rows))
	for i, row := range rows {
		values[i] = make([]interface{}, len(row))
		for j, cell := range row {
			values[i][j] = cell
		}
	}
	vr := &sheetsv4.ValueRange{Values: values}
	resp, err := p.srv.Spreadsheets.Values.Update(p.spreadsheetID, title+"!A1", vr).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("update %s: %w", title, err)
	}
	return resp.UpdatedRange, nil
}

func (p *SheetsPublisher) ensureSheet(ctx context.Context, title string) error {
	ss, err := p.srv.Spreadsheets.Get(p.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("get spreadsheet: %w", err)
	}
	for _, sh := range ss.Sheets {
		if sh.Properties != nil && sh.Properties.Title == title {
			return nil
		}
	}
	req := &sheetsv4.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsv4.Request{{
			AddSheet: &sheetsv4.AddSheetRequest{
				Properties: &sheetsv4.SheetProperties{Title: title},
			},
		}},
	}
	if _, err := p.srv.Spreadsheets.BatchUpdate(p.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("add sheet %s: %w", title, err)
	}
	return nil
}
