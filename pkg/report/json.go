package report

import (
	"encoding/json"
	"io"

	"github.com/arthur-debert/presubmit/pkg/types"
)

// JSON renders the verdict, digest included, for machine consumption
type JSON struct {
	encoder *json.Encoder
}

// NewJSON creates a JSON renderer
func NewJSON(output io.Writer) *JSON {
	encoder := json.NewEncoder(output)
	encoder.SetIndent("", "  ")
	return &JSON{encoder: encoder}
}

// Render writes v
func (r *JSON) Render(v *types.Verdict) error {
	return r.encoder.Encode(v)
}
