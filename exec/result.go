package exec

import (
	"github.com/jonwraymond/codecompare/code"
	"github.com/jonwraymond/codecompare/compare"
)

// RunReport is the outcome of running both buffers.
type RunReport struct {
	// Language is the language both buffers were run as.
	Language string `json:"language"`

	Standard  code.Result    `json:"standard"`
	Candidate code.Result    `json:"candidate"`
	Report    compare.Report `json:"report"`
}

// OK reports whether both runs succeeded with identical output.
func (r RunReport) OK() bool {
	return r.Report.Matched()
}
