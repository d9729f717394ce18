// Package store persists fitted calibration standards in a SQLite database
// so they can be reused across analysis runs. Standards are keyed by analyte
// and acquisition condition (pH and temperature); saving under an existing
// key replaces the previous fit.
package store

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/carbocation/pfx"
	"github.com/jmoiron/sqlx"

	_ "github.com/mattn/go-sqlite3"

	"github.com/kinetechlab/chromquant"
)

const schema = `
CREATE TABLE IF NOT EXISTS standards (
	analyte_id         TEXT NOT NULL,
	ph                 REAL NOT NULL,
	temperature        REAL NOT NULL,
	law                TEXT NOT NULL,
	concentration_unit TEXT NOT NULL,
	r_squared          REAL NOT NULL,
	rmsd               REAL NOT NULL,
	payload            TEXT NOT NULL,
	saved_at           TIMESTAMP NOT NULL,
	PRIMARY KEY (analyte_id, ph, temperature)
);
`

// Record is one row of the standards table. The payload column holds the
// complete standard as JSON, including its samples and rejected fit
// candidates; the remaining columns exist for querying.
type Record struct {
	AnalyteID         string    `db:"analyte_id"`
	PH                float64   `db:"ph"`
	Temperature       float64   `db:"temperature"`
	Law               string    `db:"law"`
	ConcentrationUnit string    `db:"concentration_unit"`
	RSquared          float64   `db:"r_squared"`
	RMSD              float64   `db:"rmsd"`
	Payload           string    `db:"payload"`
	SavedAt           time.Time `db:"saved_at"`
}

// Store is a SQLite-backed standards repository.
type Store struct {
	db *sqlx.DB
}

// Open connects to the SQLite database at path, creating the schema when
// absent. Pass ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	// URI filenames have to begin with 'file:'; see
	// https://www.sqlite.org/c3ref/open.html
	if path != ":memory:" && !strings.HasPrefix(path, "file:") {
		path = "file:" + path
	}

	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, pfx.Err(err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, pfx.Err(err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Save upserts a standard under its analyte and condition key.
func (s *Store) Save(std *chromquant.Standard) error {
	if std.AnalyteID == "" {
		return &chromquant.ValidationError{Field: "analyte_id", Message: "standard has no analyte id"}
	}

	payload, err := json.Marshal(std)
	if err != nil {
		return pfx.Err(err)
	}

	_, err = s.db.NamedExec(`
		INSERT OR REPLACE INTO standards
			(analyte_id, ph, temperature, law, concentration_unit, r_squared, rmsd, payload, saved_at)
		VALUES
			(:analyte_id, :ph, :temperature, :law, :concentration_unit, :r_squared, :rmsd, :payload, :saved_at)`,
		Record{
			AnalyteID:         std.AnalyteID,
			PH:                std.PH,
			Temperature:       std.Temperature,
			Law:               std.Law,
			ConcentrationUnit: string(std.ConcentrationUnit),
			RSquared:          std.RSquared,
			RMSD:              std.RMSD,
			Payload:           string(payload),
			SavedAt:           time.Now().UTC(),
		})
	if err != nil {
		return pfx.Err(err)
	}
	return nil
}

// Load fetches the standard saved for the analyte under the given condition.
func (s *Store) Load(analyteID string, ph, temperature float64) (*chromquant.Standard, error) {
	var rec Record
	err := s.db.Get(&rec, `
		SELECT * FROM standards
		WHERE analyte_id = ? AND ph = ? AND temperature = ?`,
		analyteID, ph, temperature)
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("standard for %s at pH %g, %g°: %w", analyteID, ph, temperature, err))
	}

	var std chromquant.Standard
	if err := json.Unmarshal([]byte(rec.Payload), &std); err != nil {
		return nil, pfx.Err(err)
	}
	return &std, nil
}

// List returns the saved records for one analyte, newest first, without
// decoding their payloads. Pass an empty id to list all analytes.
func (s *Store) List(analyteID string) ([]Record, error) {
	var recs []Record
	var err error
	if analyteID == "" {
		err = s.db.Select(&recs, `SELECT * FROM standards ORDER BY saved_at DESC`)
	} else {
		err = s.db.Select(&recs, `SELECT * FROM standards WHERE analyte_id = ? ORDER BY saved_at DESC`, analyteID)
	}
	if err != nil {
		return nil, pfx.Err(err)
	}
	return recs, nil
}
