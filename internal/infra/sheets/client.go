package sheets

import (
	"context"
	"fmt"

	"attendance_ledger_bot/internal/domain/store"

	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

// Client implements the store.Store port on top of the Google Sheets
// API. One Client serves one spreadsheet. No metadata is cached: every
// operation resolves sheet ids against the live spreadsheet, so sheets
// created or renamed by other actors are picked up immediately.
type Client struct {
	svc           *gsheets.Service
	spreadsheetID string
}

var _ store.Store = (*Client)(nil)

// NewClient builds a Sheets API client from a service-account key file
// and verifies the spreadsheet is reachable.
func NewClient(ctx context.Context, credentialsFile, spreadsheetID string) (*Client, error) {
	svc, err := gsheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(gsheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	c := &Client{svc: svc, spreadsheetID: spreadsheetID}
	if _, err := c.Sheets(ctx); err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet %s: %w", spreadsheetID, err)
	}
	return c, nil
}

func (c *Client) Sheets(ctx context.Context) ([]string, error) {
	meta, err := c.svc.Spreadsheets.Get(c.spreadsheetID).
		Fields("sheets.properties(sheetId,title)").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("error fetching spreadsheet metadata: %w", err)
	}
	titles := make([]string, 0, len(meta.Sheets))
	for _, s := range meta.Sheets {
		titles = append(titles, s.Properties.Title)
	}
	return titles, nil
}

// sheetID resolves a sheet title to its numeric id, re-reading the
// spreadsheet metadata on every call.
func (c *Client) sheetID(ctx context.Context, title string) (int64, error) {
	meta, err := c.svc.Spreadsheets.Get(c.spreadsheetID).
		Fields("sheets.properties(sheetId,title)").
		Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("error fetching spreadsheet metadata: %w", err)
	}
	for _, s := range meta.Sheets {
		if s.Properties.Title == title {
			return s.Properties.SheetId, nil
		}
	}
	return 0, store.ErrSheetNotFound
}

func (c *Client) Values(ctx context.Context, sheet string) ([][]string, error) {
	if _, err := c.sheetID(ctx, sheet); err != nil {
		return nil, err
	}
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, quoteTitle(sheet)).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("error reading values of sheet %q: %w", sheet, err)
	}
	rows := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = fmt.Sprint(cell)
		}
		rows[i] = cells
	}
	return rows, nil
}

func (c *Client) UpdateCell(ctx context.Context, sheet string, row, col int, value string) error {
	rng := fmt.Sprintf("%s!%s%d", quoteTitle(sheet), columnName(col), row)
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, singleCell(value)).
		ValueInputOption("USER_ENTERED").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("error writing cell %s: %w", rng, err)
	}
	return nil
}

func (c *Client) UpdateRow(ctx context.Context, sheet string, row int, values []string) error {
	rng := fmt.Sprintf("%s!A%d", quoteTitle(sheet), row)
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, rowRange(values)).
		ValueInputOption("USER_ENTERED").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("error writing row %s: %w", rng, err)
	}
	return nil
}

func (c *Client) InsertRow(ctx context.Context, sheet string, row int, values []string) error {
	id, err := c.sheetID(ctx, sheet)
	if err != nil {
		return err
	}
	req := &gsheets.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheets.Request{{
			InsertDimension: &gsheets.InsertDimensionRequest{
				Range: &gsheets.DimensionRange{
					SheetId:    id,
					Dimension:  "ROWS",
					StartIndex: int64(row - 1),
					EndIndex:   int64(row),
				},
				InheritFromBefore: false,
			},
		}},
	}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("error inserting row %d into sheet %q: %w", row, sheet, err)
	}
	return c.UpdateRow(ctx, sheet, row, values)
}

func (c *Client) AppendRow(ctx context.Context, sheet string, values []string) error {
	rng := fmt.Sprintf("%s!A1", quoteTitle(sheet))
	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, rowRange(values)).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("error appending row to sheet %q: %w", sheet, err)
	}
	return nil
}

func (c *Client) DuplicateSheet(ctx context.Context, source, newName string, index int) error {
	id, err := c.sheetID(ctx, source)
	if err != nil {
		return err
	}
	req := &gsheets.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheets.Request{{
			DuplicateSheet: &gsheets.DuplicateSheetRequest{
				SourceSheetId:    id,
				NewSheetName:     newName,
				InsertSheetIndex: int64(index),
			},
		}},
	}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("error duplicating sheet %q as %q: %w", source, newName, err)
	}
	return nil
}

func (c *Client) DeleteSheet(ctx context.Context, sheet string) error {
	id, err := c.sheetID(ctx, sheet)
	if err != nil {
		return err
	}
	req := &gsheets.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheets.Request{{
			DeleteSheet: &gsheets.DeleteSheetRequest{SheetId: id},
		}},
	}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("error deleting sheet %q: %w", sheet, err)
	}
	return nil
}

func (c *Client) DeleteRow(ctx context.Context, sheet string, row int) error {
	id, err := c.sheetID(ctx, sheet)
	if err != nil {
		return err
	}
	req := &gsheets.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheets.Request{{
			DeleteDimension: &gsheets.DeleteDimensionRequest{
				Range: &gsheets.DimensionRange{
					SheetId:    id,
					Dimension:  "ROWS",
					StartIndex: int64(row - 1),
					EndIndex:   int64(row),
				},
			},
		}},
	}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("error deleting row %d from sheet %q: %w", row, sheet, err)
	}
	return nil
}

func singleCell(value string) *gsheets.ValueRange {
	return &gsheets.ValueRange{Values: [][]interface{}{{value}}}
}

func rowRange(values []string) *gsheets.ValueRange {
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	return &gsheets.ValueRange{Values: [][]interface{}{row}}
}

// quoteTitle wraps a sheet title in single quotes for A1 notation, so
// titles with spaces (teacher full names) parse as ranges.
func quoteTitle(title string) string {
	return "'" + title + "'"
}

// columnName converts a 1-based column index to its A1 letter form.
func columnName(col int) string {
	name := ""
	for col > 0 {
		col--
		name = string(rune('A'+col%26)) + name
		col /= 26
	}
	return name
}
