// Package parquet exports run history to Parquet files using
// github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/opsreport/schema"
	"github.com/parquet-go/parquet-go"
)

// Run represents a single pipeline run.
// This struct maps to the opsreport_runs database table.
type Run struct {
	RunID         int64      `parquet:"run_id,snappy"`
	RunUUID       string     `parquet:"run_uuid,snappy"`
	Pipeline      string     `parquet:"pipeline,snappy,dict"`
	StartTime     time.Time  `parquet:"start_time,snappy"`
	EndTime       *time.Time `parquet:"end_time,optional,snappy"`
	RunDurationMs *int32     `parquet:"run_duration_ms,optional,snappy"`
	Score         *float64   `parquet:"score,optional,snappy"`
	Passed        *bool      `parquet:"passed,optional,snappy"`
	TotalItems    int32      `parquet:"total_items,snappy"`
	FailedItems   int32      `parquet:"failed_items,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// RunItem represents one evaluated item of a run.
// This struct maps to the opsreport_run_items database table.
type RunItem struct {
	RunID    int64   `parquet:"run_id,snappy"`
	ItemSeq  int32   `parquet:"item_seq,snappy"`
	ItemName string  `parquet:"item_name,snappy"`
	Status   string  `parquet:"status,snappy,dict"`
	Detail   *string `parquet:"detail,optional,snappy"`
}

// WriteRunsParquet writes runs to a Parquet file.
func WriteRunsParquet(data []Run, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteRunItemsParquet writes run items to a Parquet file.
func WriteRunItemsParquet(data []RunItem, outputPath string) error {
	return writeParquet(data, outputPath)
}

// writeParquet writes rows using the schema derived from the struct tags of T.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// ConvertRunRecords converts schema.RunRecord to Run for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []Run {
	result := make([]Run, len(records))
	for i, record := range records {
		result[i] = Run{
			RunID:         record.RunID,
			RunUUID:       record.RunUUID,
			Pipeline:      record.Pipeline,
			StartTime:     record.StartTime,
			EndTime:       record.EndTime,
			RunDurationMs: record.RunDurationMs,
			Score:         record.Score,
			Passed:        record.Passed,
			TotalItems:    record.TotalItems,
			FailedItems:   record.FailedItems,
			ConfigParams:  record.ConfigParams,
		}
	}
	return result
}

// ConvertRunItemRecords converts schema.RunItemRecord to RunItem for Parquet export.
func ConvertRunItemRecords(records []schema.RunItemRecord) []RunItem {
	result := make([]RunItem, len(records))
	for i, record := range records {
		result[i] = RunItem{
			RunID:    record.RunID,
			ItemSeq:  record.ItemSeq,
			ItemName: record.ItemName,
			Status:   record.Status,
			Detail:   record.Detail,
		}
	}
	return result
}
