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

package similarity

import (
	"github.com/likeness-io/likeness/common/heap"
)

// Neighbor is one item similar to the queried item.
type Neighbor struct {
	ItemID  int32
	Score   float64
	Support int64
}

// SearchOptions controls a similar-items query.
type SearchOptions struct {
	ScoreThreshold   float64 // keep pairs with score strictly above
	SupportThreshold float64 // keep pairs with support strictly above
	TopK             int     // maximum number of results
}

// NewSearchOptions returns the default query options.
func NewSearchOptions() SearchOptions {
	return SearchOptions{
		ScoreThreshold:   DefaultScoreThreshold,
		SupportThreshold: DefaultSupportThreshold,
		TopK:             DefaultTopK,
	}
}

// Search returns up to TopK neighbors of itemId ordered by descending score.
// An item that was filtered out or never co-rated yields an empty result,
// which is a defined outcome rather than an error. Repeated searches against
// the same table return identical results.
func (t *Table) Search(itemId int32, opts SearchOptions) []Neighbor {
	if opts.TopK <= 0 {
		return nil
	}
	filter := heap.NewTopKFilter[Neighbor, float64](opts.TopK)
	for _, i := range t.index[itemId] {
		pair := t.pairs[i]
		if pair.Score <= opts.ScoreThreshold || float64(pair.Support) <= opts.SupportThreshold {
			continue
		}
		other := pair.ItemA
		if other == itemId {
			other = pair.ItemB
		}
		filter.Push(Neighbor{ItemID: other, Score: pair.Score, Support: pair.Support}, pair.Score)
	}
	neighbors, _ := filter.PopAll()
	return neighbors
}
