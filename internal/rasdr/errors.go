package rasdr

import "fmt"

// ParameterError reports a requested setting that falls outside the
// hardware-supported range. The request is rejected before any state is
// mutated, so the receiver keeps its previous configuration.
type ParameterError struct {
	Param     string
	Requested float64
	Min       float64
	Max       float64
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("%s %g out of range [%g, %g]", e.Param, e.Requested, e.Min, e.Max)
}

func paramErr(param string, requested, min, max float64) *ParameterError {
	return &ParameterError{Param: param, Requested: requested, Min: min, Max: max}
}
