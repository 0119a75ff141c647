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
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/likeness-io/likeness/dataset"
)

// QualifiedItems returns the set of items whose arithmetic mean rating is
// greater than or equal to threshold. Items without ratings are absent from
// the input and therefore excluded.
func QualifiedItems(ratings []dataset.Rating, threshold float64) mapset.Set[int32] {
	type itemStat struct {
		sum   int64
		count int64
	}
	stats := make(map[int32]*itemStat)
	for _, r := range ratings {
		stat, ok := stats[r.ItemID]
		if !ok {
			stat = &itemStat{}
			stats[r.ItemID] = stat
		}
		stat.sum += int64(r.Rating)
		stat.count++
	}
	qualified := mapset.NewThreadUnsafeSet[int32]()
	for itemId, stat := range stats {
		if float64(stat.sum) >= threshold*float64(stat.count) {
			qualified.Add(itemId)
		}
	}
	return qualified
}
