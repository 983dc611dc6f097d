// Package audit inspects order store files for repeated order identities.
//
// Processing the same order value twice stores two records with one ID, and
// merging store files from several hosts can do the same. FindDuplicates
// reports such IDs. It runs in two passes: a bloom filter flags IDs that may
// have been seen before, then only those candidates are counted exactly.
package audit

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/order-processor/internal/domain/order"
	"github.com/xenking/order-processor/internal/storage/file"
)

const falsePositiveRate = 0.001

// Duplicate describes an order ID stored more than once.
type Duplicate struct {
	ID      string
	Count   int
	Sources []string
}

func (d Duplicate) String() string {
	return fmt.Sprintf("%s x%d in %s", d.ID, d.Count, strings.Join(d.Sources, ", "))
}

// FindDuplicates loads every store file concurrently and returns the IDs that
// occur more than once across all of them, sorted by ID.
func FindDuplicates(ctx context.Context, paths []string) ([]Duplicate, error) {
	stores := make([][]order.Order, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			orders, err := file.Load(path)
			if err != nil {
				return errors.Wrapf(err, "load %s", path)
			}
			stores[i] = orders
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return findDuplicates(paths, stores), nil
}

func findDuplicates(paths []string, stores [][]order.Order) []Duplicate {
	total := 0
	for _, orders := range stores {
		total += len(orders)
	}
	if total == 0 {
		return nil
	}

	// Pass 1: collect IDs the filter claims to have seen already.
	filter := bloom.NewWithEstimates(uint(total), falsePositiveRate)
	candidates := make(map[string]*Duplicate)
	for _, orders := range stores {
		for _, o := range orders {
			if filter.TestAndAddString(o.ID) {
				candidates[o.ID] = &Duplicate{ID: o.ID}
			}
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	// Pass 2: count candidates exactly, dropping false positives.
	for i, orders := range stores {
		for _, o := range orders {
			d, ok := candidates[o.ID]
			if !ok {
				continue
			}
			d.Count++
			if !slices.Contains(d.Sources, paths[i]) {
				d.Sources = append(d.Sources, paths[i])
			}
		}
	}

	var out []Duplicate
	for _, d := range candidates {
		if d.Count > 1 {
			out = append(out, *d)
		}
	}
	slices.SortFunc(out, func(a, b Duplicate) int {
		return strings.Compare(a.ID, b.ID)
	})
	return out
}
