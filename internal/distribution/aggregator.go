// Package distribution owns the fan-out search across all registered
// provider adapters and the booking coordination that keeps a local
// system-of-record entry for every upstream reservation.
package distribution

import (
	"context"
	"log"
	"sync"

	"github.com/iberstay/hotel-distribution/internal/provider"
)

// SearchResult is one aggregated search response: the concatenated offers
// of every provider plus a per-origin contribution count.
type SearchResult struct {
	Offers         []provider.Offer `json:"offers"`
	CountsByOrigin map[string]int   `json:"counts_by_origin"`
}

// Aggregator fans a search out to every registered adapter concurrently
// and merges the results.  Adapters are registered once at startup; the
// registration order is the stable concatenation order of the merged
// offer list, so identical requests stay deterministic regardless of
// which provider answers first.
type Aggregator struct {
	adapters []provider.Adapter
}

// NewAggregator returns an Aggregator over the given adapters, in
// registration order.
func NewAggregator(adapters []provider.Adapter) *Aggregator {
	return &Aggregator{adapters: adapters}
}

// Search runs every adapter's search concurrently and waits for all of
// them to settle.  A failing or panicking adapter contributes an empty
// list and its cause is logged; the aggregate search itself never fails.
// Within one provider's contribution the provider's own return order is
// preserved.
func (a *Aggregator) Search(ctx context.Context, q provider.SearchQuery) SearchResult {
	results := make([][]provider.Offer, len(a.adapters))
	var wg sync.WaitGroup
	for i, ad := range a.adapters {
		wg.Add(1)
		go func(i int, ad provider.Adapter) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					log.Printf("search: provider %s panicked: %v", ad.Origin(), r)
				}
			}()
			offers, err := ad.Search(ctx, q)
			if err != nil {
				log.Printf("search: provider %s failed: %v", ad.Origin(), err)
				return
			}
			results[i] = offers
		}(i, ad)
	}
	wg.Wait()

	out := SearchResult{
		Offers:         make([]provider.Offer, 0),
		CountsByOrigin: make(map[string]int, len(a.adapters)),
	}
	for i, ad := range a.adapters {
		out.CountsByOrigin[ad.Origin()] = len(results[i])
		out.Offers = append(out.Offers, results[i]...)
	}
	return out
}
