// waveletctl manages the precomputed wavelet phase store consumed by the
// connectome-core server.
//
//	waveletctl import -db data/wavelet.db -input phases.csv
//	waveletctl inspect -db data/wavelet.db
//
// The import format is one classified phase code per CSV row:
// subject_id,source,target,timepoint,scale,phase. Phase is either the numeric
// code or its name (NONE, LEAD, LAG, ANTI_PHASE, IN_PHASE).
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/brainviz/connectome-core/internal/wavelet"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	var err error
	switch os.Args[1] {
	case "import":
		err = runImport(os.Args[2:])
	case "inspect":
		err = runInspect(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: waveletctl <import|inspect> [flags]")
}

var phaseNames = map[string]int8{
	"NONE":       wavelet.PhaseNone,
	"LEAD":       wavelet.PhaseLead,
	"LAG":        wavelet.PhaseLag,
	"ANTI":       wavelet.PhaseAnti,
	"ANTI_PHASE": wavelet.PhaseAnti,
	"IN_PHASE":   wavelet.PhaseInPhase,
}

func phaseName(code int8) string {
	switch code {
	case wavelet.PhaseLead:
		return "LEAD"
	case wavelet.PhaseLag:
		return "LAG"
	case wavelet.PhaseAnti:
		return "ANTI_PHASE"
	case wavelet.PhaseInPhase:
		return "IN_PHASE"
	default:
		return "NONE"
	}
}

func parsePhase(s string) (int8, error) {
	if n, err := strconv.ParseInt(s, 10, 8); err == nil {
		switch int8(n) {
		case wavelet.PhaseNone, wavelet.PhaseLead, wavelet.PhaseLag, wavelet.PhaseAnti, wavelet.PhaseInPhase:
			return int8(n), nil
		}
		return 0, fmt.Errorf("unknown phase code %d", n)
	}
	if code, ok := phaseNames[strings.ToUpper(strings.TrimSpace(s))]; ok {
		return code, nil
	}
	return 0, fmt.Errorf("unknown phase %q", s)
}

type pairKey struct {
	subject        int64
	source, target int
}

// pairBuilder accumulates sparse CSV cells for one pair until the full shape
// is known.
type pairBuilder struct {
	maxT, maxS int
	cells      map[[2]int]int8
}

func runImport(args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	db := fs.String("db", "data/wavelet.db", "wavelet store path")
	input := fs.String("input", "", "CSV file: subject_id,source,target,timepoint,scale,phase")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *input == "" {
		return fmt.Errorf("-input is required")
	}

	f, err := os.Open(*input)
	if err != nil {
		return err
	}
	defer f.Close()

	pairs := make(map[pairKey]*pairBuilder)
	r := csv.NewReader(f)
	r.FieldsPerRecord = 6
	line := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		line++
		// Tolerate a header row.
		if line == 1 {
			if _, err := strconv.ParseInt(strings.TrimSpace(record[0]), 10, 64); err != nil {
				continue
			}
		}
		subject, err := strconv.ParseInt(strings.TrimSpace(record[0]), 10, 64)
		if err != nil {
			return fmt.Errorf("line %d: subject_id: %w", line, err)
		}
		source, err := strconv.Atoi(strings.TrimSpace(record[1]))
		if err != nil {
			return fmt.Errorf("line %d: source: %w", line, err)
		}
		target, err := strconv.Atoi(strings.TrimSpace(record[2]))
		if err != nil {
			return fmt.Errorf("line %d: target: %w", line, err)
		}
		t, err := strconv.Atoi(strings.TrimSpace(record[3]))
		if err != nil {
			return fmt.Errorf("line %d: timepoint: %w", line, err)
		}
		scale, err := strconv.Atoi(strings.TrimSpace(record[4]))
		if err != nil {
			return fmt.Errorf("line %d: scale: %w", line, err)
		}
		phase, err := parsePhase(record[5])
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		if source < 0 || target < 0 || t < 0 || scale < 0 {
			return fmt.Errorf("line %d: negative index", line)
		}

		key := pairKey{subject: subject, source: source, target: target}
		b := pairs[key]
		if b == nil {
			b = &pairBuilder{cells: make(map[[2]int]int8)}
			pairs[key] = b
		}
		if t+1 > b.maxT {
			b.maxT = t + 1
		}
		if scale+1 > b.maxS {
			b.maxS = scale + 1
		}
		b.cells[[2]int{t, scale}] = phase
	}
	if len(pairs) == 0 {
		return fmt.Errorf("%s: no data rows", *input)
	}

	store, err := wavelet.Open(*db)
	if err != nil {
		return err
	}
	defer store.Close()
	if err := store.Init(); err != nil {
		return err
	}

	subjects := make(map[int64]struct{})
	for key, b := range pairs {
		codes := make([]int8, b.maxT*b.maxS)
		for cell, phase := range b.cells {
			codes[cell[0]*b.maxS+cell[1]] = phase
		}
		series, err := wavelet.NewPairSeries(b.maxT, b.maxS, codes)
		if err != nil {
			return fmt.Errorf("subject %d pair %d->%d: %w", key.subject, key.source, key.target, err)
		}
		if err := store.PutSeries(key.subject, key.source, key.target, series); err != nil {
			return err
		}
		subjects[key.subject] = struct{}{}
	}

	fmt.Printf("imported %d pair series for %d subjects into %s\n", len(pairs), len(subjects), *db)
	return nil
}

func runInspect(args []string) error {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	db := fs.String("db", "data/wavelet.db", "wavelet store path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, err := wavelet.Open(*db)
	if err != nil {
		return err
	}
	defer store.Close()

	sum, err := store.Summarize()
	if err != nil {
		return err
	}

	fmt.Printf("store:      %s\n", *db)
	fmt.Printf("subjects:   %d\n", sum.Subjects)
	fmt.Printf("pair rows:  %d\n", sum.PairRows)
	fmt.Printf("timepoints: %d\n", sum.Timepoints)
	fmt.Printf("scales:     %d\n", sum.Scales)

	codes := make([]int8, 0, len(sum.PhaseCounts))
	for code := range sum.PhaseCounts {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	fmt.Println("phases:")
	for _, code := range codes {
		fmt.Printf("  %-10s %d\n", phaseName(code), sum.PhaseCounts[code])
	}
	return nil
}
