package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"erpchat/models"
)

const resultsFileSuffix = "query_results.csv"

// ResultsExporter saves large query results as CSV documents.
type ResultsExporter struct {
	docs   DocumentStore
	folder string
	now    func() time.Time
}

func NewResultsExporter(docs DocumentStore, folder string) *ResultsExporter {
	return &ResultsExporter{docs: docs, folder: folder, now: time.Now}
}

// FileName is the name given to an export created at t.
func FileName(t time.Time) string {
	return t.UTC().Format("2006-01-02") + resultsFileSuffix
}

// BuildCSV renders result with a header line of column names followed by one line
// per row. Null values are written as empty fields.
func BuildCSV(result *models.QueryResult) (string, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(result.Columns); err != nil {
		return "", fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range result.Rows {
		record := make([]string, len(result.Columns))
		for i := range record {
			if i < len(row) && row[i] != nil {
				record[i] = fmt.Sprintf("%v", row[i])
			}
		}
		if err := writer.Write(record); err != nil {
			return "", fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("failed to flush CSV: %w", err)
	}
	return buf.String(), nil
}

// Export stores result as a new CSV document and returns its id.
func (e *ResultsExporter) Export(ctx context.Context, result *models.QueryResult) (string, error) {
	contents, err := BuildCSV(result)
	if err != nil {
		return "", err
	}

	id, err := e.docs.Create(ctx, models.Document{
		Name:     FileName(e.now()),
		Folder:   e.folder,
		FileType: "csv",
		Contents: contents,
	})
	if err != nil {
		return "", fmt.Errorf("failed to save query results: %w", err)
	}
	return id, nil
}
