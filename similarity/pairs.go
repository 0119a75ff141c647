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
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/likeness-io/likeness/dataset"
)

// CoRating is one observation of two items rated by the same user.
// Invariant: ItemA < ItemB, so each unordered pair appears exactly once per
// co-rating user and self-pairs never appear.
type CoRating struct {
	ItemA   int32
	ItemB   int32
	RatingA int32
	RatingB int32
}

// groupByUser collects each user's ratings of qualified items, sorted by
// item id. Users with fewer than two qualified ratings are dropped since
// they cannot contribute a pair.
func groupByUser(ratings []dataset.Rating, qualified mapset.Set[int32]) [][]dataset.Rating {
	byUser := make(map[int32][]dataset.Rating)
	for _, r := range ratings {
		if qualified.Contains(r.ItemID) {
			byUser[r.UserID] = append(byUser[r.UserID], r)
		}
	}
	groups := make([][]dataset.Rating, 0, len(byUser))
	for _, group := range byUser {
		if len(group) < 2 {
			continue
		}
		sort.Slice(group, func(i, j int) bool {
			return group[i].ItemID < group[j].ItemID
		})
		groups = append(groups, group)
	}
	return groups
}

// userPairs enumerates the unordered item pairs within one user's group.
// The group is sorted by item id, so the lower id always lands on ItemA.
func userPairs(group []dataset.Rating, emit func(CoRating)) {
	for i := 0; i < len(group); i++ {
		for j := i + 1; j < len(group); j++ {
			if group[i].ItemID == group[j].ItemID {
				continue
			}
			emit(CoRating{
				ItemA:   group[i].ItemID,
				ItemB:   group[j].ItemID,
				RatingA: group[i].Rating,
				RatingB: group[j].Rating,
			})
		}
	}
}

// CoRatings materializes all co-rating observations of qualified items. Only
// pairs a user actually rated together are produced, never a cross join of
// the catalog.
func CoRatings(ratings []dataset.Rating, qualified mapset.Set[int32]) []CoRating {
	observations := make([]CoRating, 0)
	for _, group := range groupByUser(ratings, qualified) {
		userPairs(group, func(o CoRating) {
			observations = append(observations, o)
		})
	}
	return observations
}
