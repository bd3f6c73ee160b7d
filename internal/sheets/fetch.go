package sheets

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// ExportURL returns the Google Sheets CSV export endpoint for one
// worksheet (gid) of a spreadsheet.
func ExportURL(sheetID string, gid int) string {
	return fmt.Sprintf(
		"https://docs.google.com/spreadsheets/d/%s/export?format=csv&gid=%d",
		sheetID, gid,
	)
}

// FetchCSV downloads one CSV document. A nil client uses
// http.DefaultClient. The caller decides whether to parse or cache the
// raw bytes.
func FetchCSV(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status %s", url, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: reading body: %w", url, err)
	}
	return data, nil
}
