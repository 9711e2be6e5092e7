package pipeline

import "fmt"

// Method selects the matrix-producing algorithm for a pipeline run. The set
// is closed; every dispatch site switches over it and rejects anything else.
type Method string

const (
	MethodPearson  Method = "pearson"
	MethodSpearman Method = "spearman"
	MethodWavelet  Method = "wavelet"
)

// ParseMethod validates a wire-level method string.
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case MethodPearson, MethodSpearman, MethodWavelet:
		return Method(s), nil
	}
	return "", fmt.Errorf("invalid method: %s", s)
}

// Symmetric reports whether the method produces symmetric matrices. The
// leadership method is directional; the plain correlations always satisfy
// M[i][j] == M[j][i].
func (m Method) Symmetric() bool {
	return m != MethodWavelet
}
