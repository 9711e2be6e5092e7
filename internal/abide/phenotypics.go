package abide

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// LoadPhenotypics reads the phenotypics CSV and returns subject id to
// diagnosis. The header must carry "partnum" and "diagnosis" columns; any
// other columns are ignored.
func LoadPhenotypics(path string) (map[int64]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read phenotypics header: %w", err)
	}
	partCol, diagCol := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "partnum":
			partCol = i
		case "diagnosis":
			diagCol = i
		}
	}
	if partCol < 0 || diagCol < 0 {
		return nil, fmt.Errorf("phenotypics %s: partnum and diagnosis columns required", path)
	}

	out := make(map[int64]string)
	line := 1
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("phenotypics %s line %d: %w", path, line+1, err)
		}
		line++
		id, err := strconv.ParseInt(strings.TrimSpace(rec[partCol]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("phenotypics %s line %d: bad partnum %q", path, line, rec[partCol])
		}
		out[id] = strings.TrimSpace(rec[diagCol])
	}
	return out, nil
}
