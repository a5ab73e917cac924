package backend

import (
	"context"

	"github.com/lemmi/blocksite/order"
)

// Orderable adapts s to the order.Store interface. Drafts are included: an
// editor reorders everything in a collection, not just what is published.
// The result also satisfies order.BatchStore when s is a BatchStore.
func Orderable(s Store) order.Store {
	base := orderable{s}
	if bs, ok := s.(BatchStore); ok {
		return batchOrderable{orderable: base, bs: bs}
	}
	return base
}

type orderable struct {
	s Store
}

func (o orderable) List(ctx context.Context, collection string) ([]order.Entry, error) {
	items, err := o.s.Query(ctx, collection, Query{IncludeDrafts: true})
	if err != nil {
		return nil, err
	}
	entries := make([]order.Entry, len(items))
	for i, it := range items {
		entries[i] = order.Entry{
			ID:      it.ID,
			Order:   it.Order,
			Label:   it.Label(),
			Payload: it.Data,
		}
	}
	return entries, nil
}

func (o orderable) SetOrder(ctx context.Context, collection, id string, n int) error {
	return o.s.Update(ctx, collection, id, Patch{Order: &n})
}

type batchOrderable struct {
	orderable
	bs BatchStore
}

func (o batchOrderable) SetOrders(ctx context.Context, collection string, orders map[string]int) error {
	return o.bs.UpdateOrders(ctx, collection, orders)
}
