package adapters

import (
	"context"
	"donwatch/internal/models"
	"errors"
	"fmt"
)

// txAdapter asks each source in order and takes the first non-empty id.
// A source that fails or reports nothing hands over to the next one.
type txAdapter struct {
	variant Variant
	sources []MarkerSource
}

func NewTxAdapter(variant Variant, sources ...MarkerSource) (ChainAdapter, error) {
	if len(sources) == 0 {
		return nil, notConfigured("no providers for %s", variant)
	}
	return &txAdapter{variant: variant, sources: sources}, nil
}

func (a *txAdapter) Variant() Variant { return a.variant }

func (a *txAdapter) CaptureBaseline(ctx context.Context, address string) (*models.Marker, error) {
	return a.FetchMarker(ctx, address)
}

func (a *txAdapter) FetchMarker(ctx context.Context, address string) (*models.Marker, error) {
	var errs []error
	answered := false
	for _, src := range a.sources {
		id, err := src.LatestTx(ctx, address)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", src.Name(), err))
			continue
		}
		answered = true
		if id != "" {
			return models.TxMarker(id), nil
		}
	}
	if answered {
		return nil, nil
	}
	return nil, errors.Join(errs...)
}

func (a *txAdapter) HasChanged(baseline, marker *models.Marker) bool {
	return txChanged(baseline, marker)
}
