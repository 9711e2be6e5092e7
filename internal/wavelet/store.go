package wavelet

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Store is the durable SQLite home of the phase dataset. The server loads it
// into a Dataset once at startup; waveletctl writes it.
type Store struct {
	conn *sql.DB
	Path string
}

// Open opens (or creates) the store file with WAL mode enabled.
func Open(path string) (*Store, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening wavelet store: %w", err)
	}
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}
	return &Store{conn: conn, Path: path}, nil
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Init creates the schema when it does not exist yet.
func (s *Store) Init() error {
	_, err := s.conn.Exec(`
		CREATE TABLE IF NOT EXISTS subjects (
			subject_id INTEGER PRIMARY KEY
		);
		CREATE TABLE IF NOT EXISTS phase_series (
			subject_id INTEGER NOT NULL REFERENCES subjects(subject_id),
			source     INTEGER NOT NULL,
			target     INTEGER NOT NULL,
			timepoints INTEGER NOT NULL,
			scales     INTEGER NOT NULL,
			phases     BLOB    NOT NULL,
			PRIMARY KEY (subject_id, source, target)
		);
	`)
	if err != nil {
		return fmt.Errorf("creating wavelet schema: %w", err)
	}
	return nil
}

// PutSeries stores one pair series, replacing any previous row for the same
// (subject, source, target).
func (s *Store) PutSeries(subjectID int64, source, target int, series *PairSeries) error {
	if _, err := s.conn.Exec(
		"INSERT OR IGNORE INTO subjects (subject_id) VALUES (?)", subjectID,
	); err != nil {
		return fmt.Errorf("registering subject %d: %w", subjectID, err)
	}

	_, err := s.conn.Exec(`
		INSERT OR REPLACE INTO phase_series
			(subject_id, source, target, timepoints, scales, phases)
		VALUES (?, ?, ?, ?, ?, ?)`,
		subjectID, source, target, series.Timepoints, series.Scales, encodeCodes(series.codes),
	)
	if err != nil {
		return fmt.Errorf("storing pair %d->%d for subject %d: %w", source, target, subjectID, err)
	}
	return nil
}

// LoadDataset reads the whole store into memory.
func (s *Store) LoadDataset() (*Dataset, error) {
	rows, err := s.conn.Query(`
		SELECT subject_id, source, target, timepoints, scales, phases
		FROM phase_series ORDER BY subject_id, source, target
	`)
	if err != nil {
		return nil, fmt.Errorf("reading phase series: %w", err)
	}
	defer rows.Close()

	ds := NewDataset()
	for rows.Next() {
		var (
			subjectID          int64
			source, target     int
			timepoints, scales int
			blob               []byte
		)
		if err := rows.Scan(&subjectID, &source, &target, &timepoints, &scales, &blob); err != nil {
			return nil, err
		}
		series, err := NewPairSeries(timepoints, scales, decodeCodes(blob))
		if err != nil {
			return nil, fmt.Errorf("subject %d pair %d->%d: %w", subjectID, source, target, err)
		}
		if err := ds.Add(subjectID, source, target, series); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ds, nil
}

// Summary describes store contents for the inspect command.
type Summary struct {
	Subjects    int
	PairRows    int
	Timepoints  int
	Scales      int
	PhaseCounts map[int8]int64
}

// Summarize scans the store and tallies its shape and phase-code histogram.
func (s *Store) Summarize() (*Summary, error) {
	sum := &Summary{PhaseCounts: make(map[int8]int64)}

	if err := s.conn.QueryRow("SELECT COUNT(*) FROM subjects").Scan(&sum.Subjects); err != nil {
		return nil, err
	}

	rows, err := s.conn.Query("SELECT timepoints, scales, phases FROM phase_series")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var timepoints, scales int
		var blob []byte
		if err := rows.Scan(&timepoints, &scales, &blob); err != nil {
			return nil, err
		}
		sum.PairRows++
		if timepoints > sum.Timepoints {
			sum.Timepoints = timepoints
		}
		if scales > sum.Scales {
			sum.Scales = scales
		}
		for _, b := range blob {
			sum.PhaseCounts[int8(b)]++
		}
	}
	return sum, rows.Err()
}

func encodeCodes(codes []int8) []byte {
	out := make([]byte, len(codes))
	for i, c := range codes {
		out[i] = byte(c)
	}
	return out
}

func decodeCodes(blob []byte) []int8 {
	out := make([]int8, len(blob))
	for i, b := range blob {
		out[i] = int8(b)
	}
	return out
}
