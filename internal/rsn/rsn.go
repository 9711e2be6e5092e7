// Package rsn defines the catalog of resting-state networks used across the
// service. The 14 networks are a fixed subset of a 32-component group ICA
// decomposition; their order here is the display order, and every matrix,
// frame and store row indexes channels by position in this order.
package rsn

// Network describes one resting-state network.
type Network struct {
	// Index is the 1-based ICA component index in the 32-component
	// dual-regression output.
	Index int
	// Name is the full network name.
	Name string
	// Short is the abbreviated label used as node id.
	Short string
	// Nicknames are alternative short labels seen in upstream datasets.
	Nicknames []string
}

// Networks lists the 14 analyzed networks in display order (positions 0-13).
var Networks = []Network{
	{Index: 1, Name: "Anterior Default Mode Network", Short: "aDMN"},
	{Index: 2, Name: "Primary Visual Network", Short: "V1"},
	{Index: 5, Name: "Salience Network", Short: "SAL"},
	{Index: 6, Name: "Posterior Default Mode Network", Short: "pDMN"},
	{Index: 7, Name: "Auditory Network", Short: "AUD", Nicknames: []string{"AUDI"}},
	{Index: 9, Name: "Left Frontoparietal Network", Short: "lFPN", Nicknames: []string{"FPL"}},
	{Index: 12, Name: "Right Frontoparietal Network", Short: "rFPN", Nicknames: []string{"FPR"}},
	{Index: 13, Name: "Lateral Visual Network", Short: "latVIS"},
	{Index: 14, Name: "Lateral Sensorimotor Network", Short: "latSM"},
	{Index: 15, Name: "Cerebellum Network", Short: "CER", Nicknames: []string{"Cereb", "CEREB"}},
	{Index: 18, Name: "Primary Sensorimotor Network", Short: "SM1", Nicknames: []string{"SMN"}},
	{Index: 19, Name: "Dorsal Attention Network", Short: "DAN"},
	{Index: 21, Name: "Language Network", Short: "LANG"},
	{Index: 27, Name: "Occipital Visual Network", Short: "occVIS"},
}

// Count is the number of analyzed networks, i.e. the channel dimension of
// every signal and correlation matrix in the pipeline.
const Count = 14

var positionByName = buildPositionIndex()

func buildPositionIndex() map[string]int {
	m := make(map[string]int, len(Networks)*2)
	for pos, n := range Networks {
		m[n.Short] = pos
		for _, nick := range n.Nicknames {
			m[nick] = pos
		}
	}
	return m
}

// ComponentIndices returns the 1-based ICA component index of each network in
// display order.
func ComponentIndices() []int {
	out := make([]int, len(Networks))
	for i, n := range Networks {
		out[i] = n.Index
	}
	return out
}

// Labels returns the ordered short labels.
func Labels() []string {
	out := make([]string, len(Networks))
	for i, n := range Networks {
		out[i] = n.Short
	}
	return out
}

// FullNames returns the ordered full network names.
func FullNames() []string {
	out := make([]string, len(Networks))
	for i, n := range Networks {
		out[i] = n.Name
	}
	return out
}

// Position resolves a short label or nickname to its display position. The
// second return is false when the name is unknown.
func Position(name string) (int, bool) {
	pos, ok := positionByName[name]
	return pos, ok
}
