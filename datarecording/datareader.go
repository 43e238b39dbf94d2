package datarecording

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"
)

// QueryParams narrows and pages a table query.
type QueryParams struct {
	// Where holds the WHERE clause without the "WHERE" keyword.
	// Example: "Cycle > ? AND Dir = ?"
	Where string

	// Args holds the arguments for the placeholders in Where.
	Args []any

	// Limit is the maximum number of records to return. Set to 0 for no
	// limit.
	Limit int

	// Offset is the number of records to skip.
	Offset int

	// OrderBy specifies sorting, without the "ORDER BY" keywords.
	// Example: "Cycle DESC"
	OrderBy string
}

// DataReader can read back recorded data.
type DataReader interface {
	// MapTable establishes a mapping between a database table and a Go
	// struct type. This mapping is required before querying a table.
	MapTable(tableName string, sampleEntry any)

	// ListTables returns a list of all tables that have been mapped.
	ListTables() []string

	// Query executes a query on a table and returns the results.
	Query(ctx context.Context, tableName string, params QueryParams) (
		results []any,
		totalCount int,
		err error,
	)

	// Close closes the reader.
	Close() error
}

// NewReader creates a DataReader over a SQLite file.
func NewReader(dbFilename string) DataReader {
	db, err := sql.Open("sqlite3", dbFilename)
	if err != nil {
		panic(err)
	}

	return NewReaderWithDB(db)
}

// NewReaderWithDB creates a DataReader on an already-open database.
func NewReaderWithDB(db *sql.DB) DataReader {
	return &sqliteReader{
		db:    db,
		types: make(map[string]reflect.Type),
	}
}

type sqliteReader struct {
	db    *sql.DB
	types map[string]reflect.Type
}

func (r *sqliteReader) MapTable(tableName string, sampleEntry any) {
	r.types[tableName] = reflect.TypeOf(sampleEntry)
}

func (r *sqliteReader) ListTables() []string {
	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}

	return names
}

func (r *sqliteReader) Query(
	ctx context.Context,
	tableName string,
	params QueryParams,
) ([]any, int, error) {
	entryType, ok := r.types[tableName]
	if !ok {
		return nil, 0, fmt.Errorf("no mapping found for table: %s", tableName)
	}

	total, err := r.countMatches(ctx, tableName, params)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx, selectQuery(tableName, params),
		params.Args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	results, err := decodeRows(rows, entryType)
	if err != nil {
		return nil, 0, err
	}

	return results, total, nil
}

func selectQuery(tableName string, params QueryParams) string {
	q := "SELECT * FROM " + tableName

	if params.Where != "" {
		q += " WHERE " + params.Where
	}

	if params.OrderBy != "" {
		q += " ORDER BY " + params.OrderBy
	}

	if params.Limit > 0 {
		q += fmt.Sprintf(" LIMIT %d", params.Limit)
		if params.Offset > 0 {
			q += fmt.Sprintf(" OFFSET %d", params.Offset)
		}
	}

	return q
}

// countMatches counts the rows the WHERE clause selects, ignoring paging.
func (r *sqliteReader) countMatches(
	ctx context.Context,
	tableName string,
	params QueryParams,
) (int, error) {
	q := "SELECT COUNT(*) FROM " + tableName
	if params.Where != "" {
		q += " WHERE " + params.Where
	}

	var count int
	err := r.db.QueryRowContext(ctx, q, params.Args...).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}

// decodeRows scans every row into a freshly allocated struct of the mapped
// type. Columns without a matching struct field are discarded.
func decodeRows(rows *sql.Rows, entryType reflect.Type) ([]any, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	fieldIndex := make(map[string]int, entryType.NumField())
	for i := 0; i < entryType.NumField(); i++ {
		fieldIndex[entryType.Field(i).Name] = i
	}

	var results []any
	for rows.Next() {
		entry := reflect.New(entryType)

		targets := make([]any, len(columns))
		for i, col := range columns {
			if fi, ok := fieldIndex[col]; ok {
				targets[i] = entry.Elem().Field(fi).Addr().Interface()
			} else {
				targets[i] = new(any)
			}
		}

		if err := rows.Scan(targets...); err != nil {
			return nil, err
		}

		results = append(results, entry.Interface())
	}

	return results, rows.Err()
}

func (r *sqliteReader) Close() error {
	return r.db.Close()
}
