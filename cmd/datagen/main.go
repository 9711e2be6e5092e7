// datagen writes a synthetic ABIDE dual-regression tree for local
// development and demos: 32-component time series with correlated
// resting-state-network pairs, a phenotypics file, and optionally a seeded
// wavelet phase store.
//
//	datagen -out data/ABIDE -subjects 4 -timepoints 200 -wavelet-db data/wavelet.db
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/brainviz/connectome-core/internal/rsn"
	"github.com/brainviz/connectome-core/internal/wavelet"
)

const subjectBase = 50000

var sites = []struct {
	version string
	site    string
}{
	{"ABIDE_I", "NYU"},
	{"ABIDE_I", "UCLA"},
	{"ABIDE_II", "Stanford"},
}

func main() {
	var (
		out        = flag.String("out", "data/ABIDE", "output directory for the dual-regression tree")
		subjects   = flag.Int("subjects", 4, "number of subjects")
		timepoints = flag.Int("timepoints", 200, "timepoints per subject")
		seed       = flag.Int64("seed", 42, "random seed")
		waveletDB  = flag.String("wavelet-db", "", "also seed a wavelet phase store at this path")
		scales     = flag.Int("scales", 5, "frequency scales per wavelet pair series")
	)
	flag.Parse()

	if *subjects < 1 || *timepoints < 2 {
		fmt.Fprintln(os.Stderr, "error: need at least 1 subject and 2 timepoints")
		os.Exit(2)
	}

	if err := run(*out, *subjects, *timepoints, *seed, *waveletDB, *scales); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(out string, subjects, timepoints int, seed int64, waveletDB string, scales int) error {
	ids := make([]int64, subjects)
	for i := range ids {
		ids[i] = subjectBase + int64(i) + 1
	}

	for i, id := range ids {
		loc := sites[i%len(sites)]
		dir := filepath.Join(out, loc.version, loc.site)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
		path := filepath.Join(dir, fmt.Sprintf("dr_stage1_subject%07d.txt", id))
		if err := writeTimeseries(path, timepoints, seed+id); err != nil {
			return err
		}
		fmt.Println("wrote", path)
	}

	if err := writePhenotypics(filepath.Join(out, "phenotypics.csv"), ids); err != nil {
		return err
	}
	fmt.Println("wrote", filepath.Join(out, "phenotypics.csv"))

	if waveletDB != "" {
		if err := seedWaveletStore(waveletDB, ids, timepoints, scales, seed); err != nil {
			return err
		}
		fmt.Printf("seeded %s with %d subjects\n", waveletDB, len(ids))
	}
	return nil
}

// writeTimeseries emits a [timepoints x 32] matrix of standard normals with
// shared latent signals mixed into known network pairs: default mode
// (components 1 and 6), visual (2, 13, 27) and frontoparietal (9, 12), then
// scaled to BOLD-like values.
func writeTimeseries(path string, timepoints int, seed int64) error {
	rng := rand.New(rand.NewSource(seed))

	const components = 32
	data := make([][]float64, timepoints)
	for t := range data {
		row := make([]float64, components)
		for c := range row {
			row[c] = rng.NormFloat64()
		}
		data[t] = row
	}

	mix := func(weight float64, cols ...int) {
		for t := 0; t < timepoints; t++ {
			signal := rng.NormFloat64()
			for _, c := range cols {
				data[t][c] += weight * signal
			}
		}
	}
	mix(0.6, 0, 5)      // aDMN + pDMN
	mix(0.5, 1, 12, 26) // V1 + latVIS + occVIS
	mix(0.4, 8, 11)     // lFPN + rFPN

	var sb strings.Builder
	for _, row := range data {
		for c, v := range row {
			if c > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%.8f", v*50+100)
		}
		sb.WriteByte('\n')
	}
	return os.WriteFile(path, []byte(sb.String()), 0o644)
}

func writePhenotypics(path string, ids []int64) error {
	var sb strings.Builder
	sb.WriteString("partnum,diagnosis\n")
	for i, id := range ids {
		diagnosis := "HC"
		if i%2 == 0 {
			diagnosis = "ASD"
		}
		fmt.Fprintf(&sb, "%d,%s\n", id, diagnosis)
	}
	return os.WriteFile(path, []byte(sb.String()), 0o644)
}

// seedWaveletStore writes one pair series per network pair per subject with a
// random lead/lag bias, so the leadership method has data to chew on.
func seedWaveletStore(path string, ids []int64, timepoints, scales int, seed int64) error {
	store, err := wavelet.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()
	if err := store.Init(); err != nil {
		return err
	}

	for _, id := range ids {
		rng := rand.New(rand.NewSource(seed ^ id))
		for i := 0; i < rsn.Count; i++ {
			for j := i + 1; j < rsn.Count; j++ {
				bias := (rng.Float64() - 0.5) * 0.4
				codes := make([]int8, timepoints*scales)
				for k := range codes {
					r := rng.Float64()
					switch {
					case r < 0.3+bias:
						codes[k] = wavelet.PhaseLead
					case r < 0.6:
						codes[k] = wavelet.PhaseLag
					case r < 0.72:
						codes[k] = wavelet.PhaseInPhase
					case r < 0.82:
						codes[k] = wavelet.PhaseAnti
					default:
						codes[k] = wavelet.PhaseNone
					}
				}
				series, err := wavelet.NewPairSeries(timepoints, scales, codes)
				if err != nil {
					return err
				}
				if err := store.PutSeries(id, i, j, series); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
