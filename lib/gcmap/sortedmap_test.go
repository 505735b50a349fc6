package gcmap

import (
	"cmp"
	"errors"
	"slices"
	"testing"

	"github.com/ValentinKolb/gcmap/lib/store"
	"github.com/ValentinKolb/gcmap/lib/store/tstore"
	gocmp "github.com/google/go-cmp/cmp"
)

func newIntSortedMap(t *testing.T, keys ...int) SortedMap[int, string] {
	t.Helper()
	m, err := NewSortedMap[int, string](newTestCollector(t), cmp.Compare[int], tstore.WithDegree(4))
	if err != nil {
		t.Fatalf("NewSortedMap failed: %v", err)
	}
	for _, k := range keys {
		m.Put(k, "v")
	}
	return m
}

func TestSortedOrder(t *testing.T) {
	m := newIntSortedMap(t, 3, 1, 2)

	got := slices.Collect(m.Keys())
	if diff := gocmp.Diff([]int{1, 2, 3}, got); diff != "" {
		t.Errorf("Unexpected key order (-want +got):\n%s", diff)
	}

	var cursorKeys []int
	for c := m.Iter(); c.Next(); {
		cursorKeys = append(cursorKeys, c.Key())
	}
	if diff := gocmp.Diff([]int{1, 2, 3}, cursorKeys); diff != "" {
		t.Errorf("Unexpected cursor order (-want +got):\n%s", diff)
	}
}

func TestSortedMinMax(t *testing.T) {
	m := newIntSortedMap(t)

	if _, _, ok := m.Min(); ok {
		t.Errorf("Expected Min of empty map to report false")
	}
	if _, _, ok := m.Max(); ok {
		t.Errorf("Expected Max of empty map to report false")
	}

	for _, k := range []int{50, 10, 90, 30} {
		m.Put(k, "v")
	}
	if k, _, ok := m.Min(); !ok || k != 10 {
		t.Errorf("Expected Min 10, got %d (ok: %v)", k, ok)
	}
	if k, _, ok := m.Max(); !ok || k != 90 {
		t.Errorf("Expected Max 90, got %d (ok: %v)", k, ok)
	}
}

func TestSortedAscend(t *testing.T) {
	m := newIntSortedMap(t, 1, 2, 3, 4, 5, 6, 7, 8, 9)

	var got []int
	for k := range m.Ascend(3, 7) {
		got = append(got, k)
	}
	if diff := gocmp.Diff([]int{3, 4, 5, 6}, got); diff != "" {
		t.Errorf("Unexpected range (-want +got):\n%s", diff)
	}

	got = got[:0]
	for k := range m.AscendFrom(7) {
		got = append(got, k)
	}
	if diff := gocmp.Diff([]int{7, 8, 9}, got); diff != "" {
		t.Errorf("Unexpected range from 7 (-want +got):\n%s", diff)
	}
}

func TestSortedRemoveRange(t *testing.T) {
	m := newIntSortedMap(t, 1, 2, 3, 4, 5, 6, 7, 8, 9)

	next, ok := m.RemoveRange(3, 6)
	if !ok || next != 6 {
		t.Errorf("Expected next key 6, got %d (ok: %v)", next, ok)
	}
	if diff := gocmp.Diff([]int{1, 2, 6, 7, 8, 9}, slices.Collect(m.Keys())); diff != "" {
		t.Errorf("Unexpected keys after RemoveRange (-want +got):\n%s", diff)
	}

	// empty range removes nothing and returns the first key >= from
	next, ok = m.RemoveRange(7, 7)
	if !ok || next != 7 {
		t.Errorf("Expected next key 7 for empty range, got %d (ok: %v)", next, ok)
	}
	if m.Size() != 6 {
		t.Errorf("Expected size 6 after empty range, got %d", m.Size())
	}

	// removing the tail has no following key
	if _, ok = m.RemoveRange(7, 100); ok {
		t.Errorf("Expected no key after removing the tail")
	}
	if diff := gocmp.Diff([]int{1, 2, 6}, slices.Collect(m.Keys())); diff != "" {
		t.Errorf("Unexpected keys after removing the tail (-want +got):\n%s", diff)
	}
}

func TestSortedMapFrom(t *testing.T) {
	c := newTestCollector(t)

	m, err := NewSortedMapFrom(c, cmp.Compare[string], store.Pairs(
		store.Entry[string, int]{Key: "k1", Value: 1},
		store.Entry[string, int]{Key: "k2", Value: 2},
		store.Entry[string, int]{Key: "k1", Value: 3},
	))
	if err != nil {
		t.Fatalf("NewSortedMapFrom failed: %v", err)
	}
	if m.Size() != 2 {
		t.Errorf("Expected size 2, got %d", m.Size())
	}
	if v := m.Get("k1"); v != 3 {
		t.Errorf("Expected last occurrence k1=3, got %d", v)
	}

	s, err := NewStaticSortedMapFrom(c, cmp.Compare[string], m.All())
	if err != nil {
		t.Fatalf("NewStaticSortedMapFrom failed: %v", err)
	}
	if s.Equals(m.Map) {
		t.Errorf("Expected a map seeded from another map to have its own store")
	}
	s.Put("k3", 4)
	if m.Contains("k3") {
		t.Errorf("Expected seeded copy not to alias its source")
	}
}

func TestSortedMapNilComparator(t *testing.T) {
	c := newTestCollector(t)

	if _, err := NewSortedMap[int, int](c, nil); !errors.Is(err, ErrNilComparator) {
		t.Errorf("Expected ErrNilComparator, got %v", err)
	}
	if _, err := NewStaticSortedMap[int, int](c, nil); !errors.Is(err, ErrNilComparator) {
		t.Errorf("Expected ErrNilComparator, got %v", err)
	}
}

func TestSortedCursorRemove(t *testing.T) {
	m := newIntSortedMap(t, 1, 2, 3, 4, 5)

	var visited []int
	for c := m.Iter(); c.Next(); {
		visited = append(visited, c.Key())
		if c.Key()%2 == 1 {
			c.Remove()
		}
	}
	if diff := gocmp.Diff([]int{1, 2, 3, 4, 5}, visited); diff != "" {
		t.Errorf("Unexpected cursor visit order (-want +got):\n%s", diff)
	}
	if diff := gocmp.Diff([]int{2, 4}, slices.Collect(m.Keys())); diff != "" {
		t.Errorf("Unexpected keys after cursor removal (-want +got):\n%s", diff)
	}
}
