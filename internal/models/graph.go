package models

// Node is one network in a rendered graph frame.
type Node struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	FullName string `json:"full_name,omitempty"`
	Degree   int    `json:"degree"`
	Group    int    `json:"group"`
}

// Edge is one weighted connection between two networks.
type Edge struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Weight float64 `json:"weight"`
}

// GraphFrame is the display-ready graph at one timestamp.
type GraphFrame struct {
	Timestamp int               `json:"timestamp"`
	Nodes     []Node            `json:"nodes"`
	Edges     []Edge            `json:"edges"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// GraphMeta summarizes a whole frame sequence. Weight bounds are the global
// min/max over every edge in every frame; renderers must scale from these
// rather than assuming a fixed range.
type GraphMeta struct {
	FrameCount     int      `json:"frame_count"`
	NodeAttributes []string `json:"node_attributes"`
	EdgeAttributes []string `json:"edge_attributes"`
	EdgeWeightMin  float64  `json:"edge_weight_min"`
	EdgeWeightMax  float64  `json:"edge_weight_max"`
	EdgeWeightMean float64  `json:"edge_weight_mean"`
	EdgeWeightStd  float64  `json:"edge_weight_stddev"`
	Description    string   `json:"description,omitempty"`
}

// GraphResponse is the body returned by the graph endpoint.
type GraphResponse struct {
	Frames    []GraphFrame `json:"frames"`
	Meta      GraphMeta    `json:"meta"`
	Symmetric bool         `json:"symmetric"`
}

// SubjectFile describes one dual-regression file in the data directory.
type SubjectFile struct {
	Path      string `json:"path"`
	SubjectID string `json:"subject_id"`
	Site      string `json:"site"`
	Version   string `json:"version"`
	Diagnosis string `json:"diagnosis,omitempty"`
}

// ChannelStats carries descriptive statistics for one network's raw signal.
type ChannelStats struct {
	Channel string  `json:"channel"`
	Mean    float64 `json:"mean"`
	StdDev  float64 `json:"stddev"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Median  float64 `json:"median"`
}

// SignalSummary is the per-subject signal statistics response.
type SignalSummary struct {
	SubjectID  string         `json:"subject_id"`
	Path       string         `json:"path"`
	Timepoints int            `json:"timepoints"`
	Channels   []ChannelStats `json:"channels"`
}

// ParamInfo documents one tunable parameter of a method.
type ParamInfo struct {
	Name    string  `json:"name"`
	Type    string  `json:"type"`
	Default float64 `json:"default"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
}

// MethodInfo documents one correlation method for the catalog endpoint.
type MethodInfo struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Symmetric   bool        `json:"symmetric"`
	Params      []ParamInfo `json:"params"`
}

// OptionInfo documents one interpolation or smoothing algorithm.
type OptionInfo struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Params      []ParamInfo `json:"params,omitempty"`
}
