package shipping

// Row is a normalized local row: a mapping of column name to typed value.
// Mappers guarantee every declared column is present so downstream code
// never has to probe for absent keys.
type Row map[string]any

// ColumnFormat declares the storage format of an upsert column. Values are
// coerced to the declared format before being persisted; empty values
// normalize to NULL.
type ColumnFormat int

const (
	FormatText ColumnFormat = iota
	FormatInt
	FormatFloat
)

// UpsertResult aggregates the outcome of a bulk insert-or-update run.
// RowsAffected is an activity counter, not an exact applied-row count: a
// conflicting row can count as two depending on backend semantics.
type UpsertResult struct {
	Processed    int      `json:"processed"`
	Chunks       int      `json:"chunks"`
	RowsAffected int64    `json:"rows_affected"`
	Errors       []string `json:"errors"`
}

// Merge folds another result into r. Used when one sync invocation performs
// several upsert passes (e.g. carriers plus their services and packages).
func (r *UpsertResult) Merge(other UpsertResult) {
	r.Processed += other.Processed
	r.Chunks += other.Chunks
	r.RowsAffected += other.RowsAffected
	r.Errors = append(r.Errors, other.Errors...)
}
