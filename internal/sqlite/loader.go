// Package sqlite loads a framework catalog from frameworks.jsonl through an
// in-memory SQLite database. JSONL is the source of truth; SQLite is used to
// stage the rows and run the integrity checks as queries.
package sqlite

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/compass/internal/catalog"
	"github.com/mesh-intelligence/compass/pkg/types"
)

//go:embed schema.sql
var schemaSQL string

// FrameworksFile is the catalog file name inside a data directory.
const FrameworksFile = "frameworks.jsonl"

const (
	duplicateIDsSQL = `SELECT framework_id FROM framework_rows
GROUP BY framework_id HAVING COUNT(*) > 1 ORDER BY framework_id`

	danglingSQL = `SELECT r.from_id, r.target_id, r.kind FROM relationships r
LEFT JOIN framework_rows f ON f.framework_id = r.target_id
WHERE f.framework_id IS NULL
ORDER BY r.line, r.seq`

	hydrateSQL = `SELECT record FROM framework_rows ORDER BY line`
)

// LoadCatalog reads dataDir/frameworks.jsonl and returns the validated
// catalog. Duplicate IDs, dangling relationships and malformed lines fail
// the load with a *types.CatalogIntegrityError listing every defect.
// Unknown fields in records are ignored.
func LoadCatalog(dataDir string) (*catalog.Catalog, error) {
	path := filepath.Join(dataDir, FrameworksFile)
	lines, malformed, err := readJSONL(path)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening staging database: %w", err)
	}
	defer db.Close()
	// Each connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schemaSQL); err != nil {
		return nil, fmt.Errorf("creating staging schema: %w", err)
	}

	ierr := &types.CatalogIntegrityError{}
	for _, n := range malformed {
		ierr.Invalid = append(ierr.Invalid, fmt.Sprintf("%s line %d: malformed JSON", FrameworksFile, n))
	}

	if err := stage(db, lines, ierr); err != nil {
		return nil, err
	}
	if err := checkIntegrity(db, ierr); err != nil {
		return nil, err
	}
	if !ierr.Empty() {
		return nil, ierr
	}

	frameworks, err := hydrate(db)
	if err != nil {
		return nil, err
	}
	return catalog.New(frameworks)
}

// stage inserts every decodable record and its relationships in one
// transaction. Records that are valid JSON but not a framework are recorded
// as invalid.
func stage(db *sql.DB, lines []jsonlLine, ierr *types.CatalogIntegrityError) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	insertFramework, err := tx.Prepare(`INSERT INTO framework_rows (line, framework_id, name, category, record) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing framework insert: %w", err)
	}
	defer insertFramework.Close()

	insertEdge, err := tx.Prepare(`INSERT INTO relationships (line, seq, from_id, target_id, kind) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing relationship insert: %w", err)
	}
	defer insertEdge.Close()

	for _, l := range lines {
		var fw types.Framework
		if err := json.Unmarshal(l.raw, &fw); err != nil {
			ierr.Invalid = append(ierr.Invalid, fmt.Sprintf("%s line %d: %v", FrameworksFile, l.n, err))
			continue
		}
		if fw.ID == "" {
			ierr.Invalid = append(ierr.Invalid, fmt.Sprintf("%s line %d: framework has no id", FrameworksFile, l.n))
			continue
		}
		if _, err := insertFramework.Exec(l.n, fw.ID, fw.Name, string(fw.Category), string(l.raw)); err != nil {
			return fmt.Errorf("loading %s line %d: %w", FrameworksFile, l.n, err)
		}
		for seq, e := range fw.Relationships {
			if _, err := insertEdge.Exec(l.n, seq, fw.ID, e.Target, e.Kind); err != nil {
				return fmt.Errorf("loading relationships of %s: %w", fw.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing load transaction: %w", err)
	}
	return nil
}

func checkIntegrity(db *sql.DB, ierr *types.CatalogIntegrityError) error {
	rows, err := db.Query(duplicateIDsSQL)
	if err != nil {
		return fmt.Errorf("querying duplicate ids: %w", err)
	}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("scanning duplicate id: %w", err)
		}
		ierr.DuplicateIDs = append(ierr.DuplicateIDs, id)
	}
	if err := closeRows(rows); err != nil {
		return err
	}

	rows, err = db.Query(danglingSQL)
	if err != nil {
		return fmt.Errorf("querying dangling relationships: %w", err)
	}
	for rows.Next() {
		var d types.DanglingEdge
		if err := rows.Scan(&d.From, &d.Target, &d.Kind); err != nil {
			rows.Close()
			return fmt.Errorf("scanning dangling relationship: %w", err)
		}
		ierr.Dangling = append(ierr.Dangling, d)
	}
	return closeRows(rows)
}

func hydrate(db *sql.DB) ([]types.Framework, error) {
	rows, err := db.Query(hydrateSQL)
	if err != nil {
		return nil, fmt.Errorf("querying frameworks: %w", err)
	}
	var out []types.Framework
	for rows.Next() {
		var record string
		if err := rows.Scan(&record); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning framework: %w", err)
		}
		var fw types.Framework
		if err := json.Unmarshal([]byte(record), &fw); err != nil {
			rows.Close()
			return nil, fmt.Errorf("decoding framework: %w", err)
		}
		out = append(out, fw)
	}
	if err := closeRows(rows); err != nil {
		return nil, err
	}
	return out, nil
}

func closeRows(rows *sql.Rows) error {
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("iterating rows: %w", err)
	}
	return rows.Close()
}

// ExportCatalog writes every framework in c to dataDir/frameworks.jsonl,
// one record per line in ID order. The write is atomic.
func ExportCatalog(c *catalog.Catalog, dataDir string) error {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}
	frameworks := c.Frameworks()
	records := make([]json.RawMessage, 0, len(frameworks))
	for i := range frameworks {
		b, err := json.Marshal(&frameworks[i])
		if err != nil {
			return fmt.Errorf("encoding %s: %w", frameworks[i].ID, err)
		}
		records = append(records, b)
	}
	return writeJSONL(filepath.Join(dataDir, FrameworksFile), records)
}
