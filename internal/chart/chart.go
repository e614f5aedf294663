// Package chart renders an account's spending breakdown as a pie image.
// Rendering is an optional capability: the factory hands call sites either a
// real renderer or the disabled one, so availability is decided once at
// startup instead of checked at every call site.
package chart

import (
	"errors"

	"tracker/internal/core"
)

var (
	// ErrDisabled means chart rendering was not enabled for this process.
	ErrDisabled = errors.New("chart rendering disabled")
	// ErrNoData means there was nothing plottable: no category with a
	// positive total and no positive balance.
	ErrNoData = errors.New("nothing to chart")
)

// Renderer produces a spending breakdown image for an account and returns
// the path of the written file.
type Renderer interface {
	Render(expenses map[string][]core.Record, balance core.Money, accountID string) (string, error)
}

// Disabled is the absent-capability renderer.
type Disabled struct{}

func (Disabled) Render(map[string][]core.Record, core.Money, string) (string, error) {
	return "", ErrDisabled
}

// NewRenderer selects the renderer for this process.
func NewRenderer(enabled bool, dir string) Renderer {
	if !enabled {
		return Disabled{}
	}
	return &PieRenderer{Dir: dir}
}
