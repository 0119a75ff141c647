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
	"testing"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/likeness-io/likeness/dataset"
	"github.com/stretchr/testify/assert"
)

func TestCoRatings(t *testing.T) {
	ratings := []dataset.Rating{
		{UserID: 1, ItemID: 30, Rating: 2},
		{UserID: 1, ItemID: 10, Rating: 5},
		{UserID: 1, ItemID: 20, Rating: 4},
		{UserID: 2, ItemID: 20, Rating: 3},
		{UserID: 2, ItemID: 10, Rating: 1},
		{UserID: 3, ItemID: 10, Rating: 5}, // single rating, no pairs
	}
	qualified := mapset.NewThreadUnsafeSet[int32](10, 20, 30)
	observations := CoRatings(ratings, qualified)
	assert.ElementsMatch(t, []CoRating{
		{ItemA: 10, ItemB: 20, RatingA: 5, RatingB: 4},
		{ItemA: 10, ItemB: 30, RatingA: 5, RatingB: 2},
		{ItemA: 20, ItemB: 30, RatingA: 4, RatingB: 2},
		{ItemA: 10, ItemB: 20, RatingA: 1, RatingB: 3},
	}, observations)
	// canonical ordering: lower id first, no self-pairs
	for _, o := range observations {
		assert.Less(t, o.ItemA, o.ItemB)
	}
}

func TestCoRatingsQualifiedOnly(t *testing.T) {
	ratings := []dataset.Rating{
		{UserID: 1, ItemID: 10, Rating: 5},
		{UserID: 1, ItemID: 20, Rating: 4},
		{UserID: 1, ItemID: 30, Rating: 1},
	}
	// item 30 is filtered out, so only the (10, 20) pair survives
	qualified := mapset.NewThreadUnsafeSet[int32](10, 20)
	observations := CoRatings(ratings, qualified)
	assert.Equal(t, []CoRating{
		{ItemA: 10, ItemB: 20, RatingA: 5, RatingB: 4},
	}, observations)
}

func TestCoRatingsNoCoRaters(t *testing.T) {
	// users share no items and each rates a single qualified item
	ratings := []dataset.Rating{
		{UserID: 1, ItemID: 10, Rating: 5},
		{UserID: 2, ItemID: 20, Rating: 4},
	}
	qualified := mapset.NewThreadUnsafeSet[int32](10, 20)
	assert.Empty(t, CoRatings(ratings, qualified))
}
