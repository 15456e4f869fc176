package settings

import (
	"context"
	"errors"
	"fmt"
)

// Status classifies the persisted state of one setting.
type Status string

const (
	StatusOK      Status = "ok"
	StatusMissing Status = "missing"
	StatusInvalid Status = "invalid"
	StatusError   Status = "error"
)

// Finding is the audit result for one setting. Value is set whenever a value
// was read, zero included.
type Finding struct {
	Key    string `json:"key"`
	Status Status `json:"status"`
	Value  *int   `json:"value,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// Audit inspects what p holds for each definition without writing anything
// or applying values. Load repairs every non-ok finding except read errors.
func Audit(ctx context.Context, p Persistence, defs []Definition) []Finding {
	findings := make([]Finding, 0, len(defs))
	for i := range defs {
		def := &defs[i]
		f := Finding{Key: def.Key}

		v, ok, err := p.Read(ctx, def.Key)
		switch {
		case errors.Is(err, ErrCorruptValue):
			f.Status = StatusInvalid
			f.Detail = err.Error()
		case err != nil:
			f.Status = StatusError
			f.Detail = err.Error()
		case !ok:
			f.Status = StatusMissing
			f.Detail = fmt.Sprintf("default %d will be written on load", def.DefaultValue())
		case !def.Legal(v):
			f.Status = StatusInvalid
			f.Value = &v
			f.Detail = fmt.Sprintf("value %d outside %s", v, def.Domain())
		default:
			f.Status = StatusOK
			f.Value = &v
		}
		findings = append(findings, f)
	}
	return findings
}
