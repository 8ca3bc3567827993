package persistence

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shipsync/backend/internal/domain/shipping"
)

// upsertChunkSize bounds the rows written per INSERT statement.
const upsertChunkSize = 100

// UpsertSpec binds one table to its column set for bulk insert-or-update.
// KeyColumns form the conflict target; on conflict every non-key column is
// overwritten with the incoming value. Columns not declared here are dropped
// from incoming rows.
type UpsertSpec struct {
	Table      string
	KeyColumns []string
	Columns    map[string]shipping.ColumnFormat
}

// BulkUpserter writes normalized rows through GORM's ON CONFLICT clause.
// One instance is shared by every shipping repository.
type BulkUpserter struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewBulkUpserter creates a BulkUpserter. logger may be nil.
func NewBulkUpserter(db *gorm.DB, logger *zap.Logger) *BulkUpserter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BulkUpserter{db: db, logger: logger}
}

// Upsert validates, coerces and writes rows in chunks. Rows missing a key
// column are skipped and reported, keyed by their zero-based input index. A
// failing chunk is reported and skipped; later chunks still run. The call
// never returns an error: partial progress plus the error list is the result.
func (u *BulkUpserter) Upsert(ctx context.Context, spec UpsertSpec, rows []shipping.Row) shipping.UpsertResult {
	result := shipping.UpsertResult{}
	if len(rows) == 0 {
		return result
	}

	valid := make([]map[string]any, 0, len(rows))
	for i, row := range rows {
		clean, missing := coerceRow(spec, row)
		if missing != "" {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: missing %s", i, missing))
			continue
		}
		valid = append(valid, clean)
	}
	result.Processed = len(valid)
	if len(valid) == 0 {
		return result
	}

	conflict := clause.OnConflict{
		Columns:   conflictColumns(spec.KeyColumns),
		DoUpdates: clause.AssignmentColumns(updateColumns(spec)),
	}

	for start := 0; start < len(valid); start += upsertChunkSize {
		end := start + upsertChunkSize
		if end > len(valid) {
			end = len(valid)
		}
		chunk := valid[start:end]
		result.Chunks++

		tx := u.db.WithContext(ctx).Table(spec.Table).Clauses(conflict).Create(&chunk)
		if tx.Error != nil {
			u.logger.Error("bulk upsert chunk failed",
				zap.String("table", spec.Table),
				zap.Int("chunk", result.Chunks),
				zap.Error(tx.Error),
			)
			result.Errors = append(result.Errors,
				fmt.Sprintf("chunk %d (%s): %v", result.Chunks, spec.Table, tx.Error))
			continue
		}
		result.RowsAffected += tx.RowsAffected
	}

	u.logger.Debug("bulk upsert finished",
		zap.String("table", spec.Table),
		zap.Int("processed", result.Processed),
		zap.Int("chunks", result.Chunks),
		zap.Int64("rows_affected", result.RowsAffected),
		zap.Int("errors", len(result.Errors)),
	)
	return result
}

// coerceRow projects a row onto the spec's columns, coercing each value to
// its declared format. It returns the name of the first absent or empty key
// column, if any.
func coerceRow(spec UpsertSpec, row shipping.Row) (map[string]any, string) {
	for _, key := range spec.KeyColumns {
		if isEmptyValue(row[key]) {
			return nil, key
		}
	}

	clean := make(map[string]any, len(spec.Columns))
	for col, format := range spec.Columns {
		v, ok := row[col]
		if !ok || v == nil {
			clean[col] = nil
			continue
		}
		clean[col] = coerceValue(v, format)
	}
	return clean, ""
}

// isEmptyValue mirrors the loose emptiness the mappers guard against: nil,
// blank strings and zero numbers all invalidate a key column.
func isEmptyValue(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case int:
		return t == 0
	case int64:
		return t == 0
	case float64:
		return t == 0
	default:
		return false
	}
}

func coerceValue(v any, format shipping.ColumnFormat) any {
	switch format {
	case shipping.FormatInt:
		return toInt64(v)
	case shipping.FormatFloat:
		return toFloat64(v)
	default:
		return toText(v)
	}
}

func toInt64(v any) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	case bool:
		if t {
			return 1
		}
		return 0
	case string:
		n, _ := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		return n
	default:
		return 0
	}
}

func toFloat64(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int64:
		return float64(t)
	case int:
		return float64(t)
	case string:
		f, _ := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f
	default:
		return 0
	}
}

func toText(v any) any {
	switch t := v.(type) {
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprintf("%v", t)
	}
}

func conflictColumns(names []string) []clause.Column {
	cols := make([]clause.Column, 0, len(names))
	for _, n := range names {
		cols = append(cols, clause.Column{Name: n})
	}
	return cols
}

// updateColumns lists every non-key column in deterministic order.
func updateColumns(spec UpsertSpec) []string {
	keys := make(map[string]bool, len(spec.KeyColumns))
	for _, k := range spec.KeyColumns {
		keys[k] = true
	}
	cols := make([]string, 0, len(spec.Columns))
	for col := range spec.Columns {
		if !keys[col] {
			cols = append(cols, col)
		}
	}
	sort.Strings(cols)
	return cols
}
