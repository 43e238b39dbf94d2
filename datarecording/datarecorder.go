// Package datarecording stores simulation records in SQLite databases.
package datarecording

import (
	"database/sql"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/fatih/structs"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

// DataRecorder is a backend that can record and store data.
type DataRecorder interface {
	// CreateTable creates a new table with the given name, using the
	// fields of the sample entry as columns.
	CreateTable(tableName string, sampleEntry any)

	// InsertData writes a same-type entry into a table that already
	// exists.
	InsertData(tableName string, entry any)

	// ListTables returns a slice containing the names of all tables.
	ListTables() []string

	// Flush flushes all the buffered entries into the database.
	Flush()
}

// How many entries accumulate across all tables before an automatic flush.
const autoFlushThreshold = 100000

// New creates a DataRecorder backed by a SQLite file at the given path. An
// empty path picks a unique name. The file must not already exist.
func New(path string) DataRecorder {
	if path == "" {
		path = "blockdma_data_recording_" + xid.New().String()
	}

	filename := path + ".sqlite3"
	if _, err := os.Stat(filename); err == nil {
		panic(fmt.Errorf("file %s already exists", filename))
	}

	fmt.Fprintf(os.Stderr, "Database created for recording: %s\n", filename)

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		panic(err)
	}

	return NewWithDB(db)
}

// NewWithDB creates a DataRecorder on an already-open database.
func NewWithDB(db *sql.DB) DataRecorder {
	r := &sqliteRecorder{
		db:     db,
		tables: make(map[string]*recorderTable),
	}

	atexit.Register(r.Flush)

	return r
}

type recorderTable struct {
	entryType reflect.Type
	buffered  []any
}

type sqliteRecorder struct {
	db     *sql.DB
	tables map[string]*recorderTable

	// Buffered entries across all tables, to decide when to auto-flush.
	pending int
}

func (r *sqliteRecorder) CreateTable(tableName string, sampleEntry any) {
	columns := columnNames(sampleEntry)

	stmt := "CREATE TABLE " + tableName +
		" (\n\t" + strings.Join(columns, ", \n\t") + "\n);"
	r.mustExec(stmt)

	r.tables[tableName] = &recorderTable{
		entryType: reflect.TypeOf(sampleEntry),
	}
}

// columnNames maps the sample entry's fields to column names, rejecting
// fields that SQLite cannot hold in a single column.
func columnNames(sampleEntry any) []string {
	fields := structs.Fields(sampleEntry)

	names := make([]string, 0, len(fields))
	for _, f := range fields {
		if !scalarKind(reflect.ValueOf(f.Value()).Kind()) {
			panic(fmt.Errorf("field %s cannot be stored in a column",
				f.Name()))
		}

		names = append(names, f.Name())
	}

	return names
}

func scalarKind(kind reflect.Kind) bool {
	switch kind {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16,
		reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16,
		reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

func (r *sqliteRecorder) InsertData(tableName string, entry any) {
	t, ok := r.tables[tableName]
	if !ok {
		panic(fmt.Sprintf("table %s does not exist", tableName))
	}

	t.buffered = append(t.buffered, entry)

	r.pending++
	if r.pending >= autoFlushThreshold {
		r.Flush()
	}
}

func (r *sqliteRecorder) ListTables() []string {
	names := make([]string, 0, len(r.tables))
	for name := range r.tables {
		names = append(names, name)
	}

	return names
}

func (r *sqliteRecorder) Flush() {
	if r.pending == 0 {
		return
	}

	r.mustExec("BEGIN TRANSACTION")
	defer r.mustExec("COMMIT TRANSACTION")

	for name, t := range r.tables {
		r.flushTable(name, t)
	}

	r.pending = 0
}

func (r *sqliteRecorder) flushTable(name string, t *recorderTable) {
	if len(t.buffered) == 0 {
		return
	}

	stmt, err := r.db.Prepare(insertStatement(name, t.entryType.NumField()))
	if err != nil {
		panic(err)
	}
	defer stmt.Close()

	for _, entry := range t.buffered {
		if _, err := stmt.Exec(structs.Values(entry)...); err != nil {
			panic(err)
		}
	}

	t.buffered = nil
}

func insertStatement(table string, numColumns int) string {
	marks := make([]string, numColumns)
	for i := range marks {
		marks[i] = "?"
	}

	return "INSERT INTO " + table +
		" VALUES (" + strings.Join(marks, ", ") + ")"
}

func (r *sqliteRecorder) mustExec(query string) {
	if _, err := r.db.Exec(query); err != nil {
		fmt.Printf("Failed to execute: %s\n", query)
		panic(err)
	}
}
