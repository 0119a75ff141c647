// Copyright 2024 likeness Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package similarity computes item-to-item cosine similarity from sparse
// user-item ratings and answers "similar items" queries against the
// aggregated result.
package similarity

import (
	"context"
	"math"
	"runtime"
	"sort"
	"time"

	"github.com/juju/errors"
	"github.com/likeness-io/likeness/base/log"
	"github.com/likeness-io/likeness/common/parallel"
	"github.com/likeness-io/likeness/dataset"
	"github.com/samber/lo"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// Default thresholds. These are policy defaults tuned for MovieLens-sized
// datasets, not invariants: override them in configuration for other data.
const (
	DefaultQualityThreshold = 3.0
	DefaultScoreThreshold   = 0.97
	DefaultSupportThreshold = 50.0
	DefaultTopK             = 10
)

// PairSimilarity is the aggregated similarity of one item pair.
// Invariant: ItemA < ItemB and Support >= 1.
type PairSimilarity struct {
	ItemA   int32
	ItemB   int32
	Score   float64
	Support int64
}

// FitConfig controls the aggregation stage.
type FitConfig struct {
	QualityThreshold float64 // minimum mean rating for an item to qualify
	Jobs             int     // number of workers, <= 0 means GOMAXPROCS
}

func (config *FitConfig) LoadDefaultIfNil() *FitConfig {
	if config == nil {
		return &FitConfig{
			QualityThreshold: DefaultQualityThreshold,
		}
	}
	return config
}

// Table is the materialized similarity of all co-rated item pairs. It is
// built once by Fit and never mutated afterwards, so concurrent searches
// need no locking.
type Table struct {
	pairs []PairSimilarity
	index map[int32][]int32 // item id -> indices into pairs
}

// pairKey packs a canonical item pair into a map key.
type pairKey uint64

func newPairKey(a, b int32) pairKey {
	return pairKey(uint64(uint32(a))<<32 | uint64(uint32(b)))
}

func (k pairKey) items() (int32, int32) {
	return int32(k >> 32), int32(k)
}

// accumulator collects the running sums of one item pair. Ratings are small
// integers, so the sums stay exactly representable and the merge order of
// partial results cannot change the outcome.
type accumulator struct {
	xy    float64 // sum of ratingA * ratingB
	xx    float64 // sum of ratingA^2
	yy    float64 // sum of ratingB^2
	count int64
}

// Fit filters low-quality items, enumerates co-rating observations per user
// and aggregates them into a similarity table. Per-user groups are spread
// across workers with private partial maps; partials are merged by summing,
// so the parallel result equals a sequential evaluation.
func Fit(ctx context.Context, ratings []dataset.Rating, config *FitConfig) (*Table, error) {
	config = config.LoadDefaultIfNil()
	nWorkers := config.Jobs
	if nWorkers <= 0 {
		nWorkers = runtime.GOMAXPROCS(0)
	}
	start := time.Now()

	// quality filter
	qualified := QualifiedItems(ratings, config.QualityThreshold)

	// co-rating aggregation
	groups := groupByUser(ratings, qualified)
	chunks := parallel.Split(groups, nWorkers)
	partials := make([]map[pairKey]*accumulator, len(chunks))
	observations := atomic.NewInt64(0)
	err := parallel.Parallel(ctx, len(chunks), nWorkers, func(_, jobId int) error {
		partial := make(map[pairKey]*accumulator)
		for _, group := range chunks[jobId] {
			userPairs(group, func(o CoRating) {
				key := newPairKey(o.ItemA, o.ItemB)
				acc, ok := partial[key]
				if !ok {
					acc = &accumulator{}
					partial[key] = acc
				}
				acc.xy += float64(o.RatingA) * float64(o.RatingB)
				acc.xx += float64(o.RatingA) * float64(o.RatingA)
				acc.yy += float64(o.RatingB) * float64(o.RatingB)
				acc.count++
				observations.Inc()
			})
		}
		partials[jobId] = partial
		return nil
	})
	if err != nil {
		return nil, errors.Trace(err)
	}

	// merge partials
	merged := make(map[pairKey]*accumulator)
	for _, partial := range partials {
		for key, acc := range partial {
			total, ok := merged[key]
			if !ok {
				merged[key] = acc
				continue
			}
			total.xy += acc.xy
			total.xx += acc.xx
			total.yy += acc.yy
			total.count += acc.count
		}
	}

	// score pairs
	table := &Table{
		pairs: make([]PairSimilarity, 0, len(merged)),
		index: make(map[int32][]int32),
	}
	for key, acc := range merged {
		itemA, itemB := key.items()
		var score float64
		if denominator := math.Sqrt(acc.xx) * math.Sqrt(acc.yy); denominator != 0 {
			score = acc.xy / denominator
		}
		table.pairs = append(table.pairs, PairSimilarity{
			ItemA:   itemA,
			ItemB:   itemB,
			Score:   score,
			Support: acc.count,
		})
	}
	sort.Slice(table.pairs, func(i, j int) bool {
		if table.pairs[i].ItemA != table.pairs[j].ItemA {
			return table.pairs[i].ItemA < table.pairs[j].ItemA
		}
		return table.pairs[i].ItemB < table.pairs[j].ItemB
	})
	for i, pair := range table.pairs {
		table.index[pair.ItemA] = append(table.index[pair.ItemA], int32(i))
		table.index[pair.ItemB] = append(table.index[pair.ItemB], int32(i))
	}

	log.Logger().Info("fitted similarity table",
		zap.Int("n_ratings", len(ratings)),
		zap.Int("n_qualified_items", qualified.Cardinality()),
		zap.Int("n_co_rating_users", len(groups)),
		zap.Int64("n_observations", observations.Load()),
		zap.Int("n_pairs", len(table.pairs)),
		zap.Duration("used_time", time.Since(start)))
	return table, nil
}

// Len returns the number of aggregated pairs.
func (t *Table) Len() int {
	return len(t.pairs)
}

// Pairs returns all aggregated pairs ordered by (ItemA, ItemB). The returned
// slice is shared and must not be modified.
func (t *Table) Pairs() []PairSimilarity {
	return t.pairs
}

// Get looks up the similarity of an unordered item pair.
func (t *Table) Get(a, b int32) (PairSimilarity, bool) {
	if a > b {
		a, b = b, a
	}
	for _, i := range t.index[a] {
		if t.pairs[i].ItemA == a && t.pairs[i].ItemB == b {
			return t.pairs[i], true
		}
	}
	return PairSimilarity{}, false
}

// ItemIDs returns the ids of all items appearing in at least one pair.
func (t *Table) ItemIDs() []int32 {
	return lo.Keys(t.index)
}
