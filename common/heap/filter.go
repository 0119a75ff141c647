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

package heap

import (
	"container/heap"

	"golang.org/x/exp/constraints"
)

type elem[T any, W constraints.Ordered] struct {
	value  T
	weight W
}

// topKHeap is a min-heap on weights so the smallest of the kept
// elements sits at the root and is evicted first.
type topKHeap[T any, W constraints.Ordered] struct {
	elems []elem[T, W]
}

func (h *topKHeap[T, W]) Len() int {
	return len(h.elems)
}

func (h *topKHeap[T, W]) Less(i, j int) bool {
	return h.elems[i].weight < h.elems[j].weight
}

func (h *topKHeap[T, W]) Swap(i, j int) {
	h.elems[i], h.elems[j] = h.elems[j], h.elems[i]
}

func (h *topKHeap[T, W]) Push(x any) {
	h.elems = append(h.elems, x.(elem[T, W]))
}

func (h *topKHeap[T, W]) Pop() any {
	old := h.elems
	item := old[len(old)-1]
	h.elems = old[:len(old)-1]
	return item
}

// TopKFilter filters out top k items with maximum weights.
type TopKFilter[T any, W constraints.Ordered] struct {
	topKHeap[T, W]
	k int
}

// NewTopKFilter creates a top k filter.
func NewTopKFilter[T any, W constraints.Ordered](k int) *TopKFilter[T, W] {
	return &TopKFilter[T, W]{k: k}
}

// Push pushes the element x onto the heap.
// The complexity is O(log n) where n = h.Count().
func (filter *TopKFilter[T, W]) Push(item T, weight W) {
	heap.Push(&filter.topKHeap, elem[T, W]{item, weight})
	if filter.Len() > filter.k {
		heap.Pop(&filter.topKHeap)
	}
}

// PopAll pops all items in the filter with decreasing order.
func (filter *TopKFilter[T, W]) PopAll() ([]T, []W) {
	items := make([]T, filter.Len())
	weights := make([]W, filter.Len())
	for i := len(items) - 1; i >= 0; i-- {
		e := heap.Pop(&filter.topKHeap).(elem[T, W])
		items[i], weights[i] = e.value, e.weight
	}
	return items, weights
}
