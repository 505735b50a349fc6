package tstore

import (
	"cmp"
	"strings"
	"testing"

	"github.com/ValentinKolb/gcmap/lib/store"
	storetesting "github.com/ValentinKolb/gcmap/lib/store/testing"
	gocmp "github.com/google/go-cmp/cmp"
)

func Test(t *testing.T) {
	storetesting.RunStoreTests(t, "TreeStore", func() store.IStore[string, int] {
		return NewTreeStore[string, int](strings.Compare)
	})
	storetesting.RunStoreTests(t, "TreeStore(degree=2)", func() store.IStore[string, int] {
		return NewTreeStore[string, int](strings.Compare, WithDegree(2))
	})
	storetesting.RunOrderedStoreTests(t, "TreeStore", func() store.IOrderedStore[int, string] {
		return NewTreeStore[int, string](cmp.Compare[int])
	})
}

func TestCustomComparator(t *testing.T) {
	// descending order
	s := NewTreeStore[int, string](func(a, b int) int { return cmp.Compare(b, a) })
	defer s.Destroy()

	for _, k := range []int{1, 3, 2} {
		s.Put(k, "")
	}

	var got []int
	s.Range(func(k int, _ string) bool {
		got = append(got, k)
		return true
	})

	if diff := gocmp.Diff([]int{3, 2, 1}, got); diff != "" {
		t.Errorf("Unexpected order (-want +got):\n%s", diff)
	}
}

func TestCaseInsensitiveKeys(t *testing.T) {
	// keys comparing equal collapse into one entry, the last write wins
	s := NewTreeStore[string, int](func(a, b string) int {
		return strings.Compare(strings.ToLower(a), strings.ToLower(b))
	})
	defer s.Destroy()

	s.Put("Term", 1)
	s.Put("term", 2)

	if s.Len() != 1 {
		t.Errorf("Expected equal keys to collapse, got %d entries", s.Len())
	}
	if v, _ := s.Get("TERM"); v != 2 {
		t.Errorf("Expected last write to win, got %d", v)
	}
}

func TestInfo(t *testing.T) {
	s := NewTreeStore[string, int](strings.Compare, WithDegree(1))
	defer s.Destroy()

	info := s.GetInfo()
	if info.Type != store.ImplTree {
		t.Errorf("Expected implementation %q, got %q", store.ImplTree, info.Type)
	}
	meta, ok := info.Metadata.(*struct {
		Degree int `json:"degree"`
	})
	if !ok || meta.Degree != defaultDegree {
		t.Errorf("Expected invalid degree to fall back to %d, got %+v", defaultDegree, info.Metadata)
	}
}

func Benchmark(b *testing.B) {
	storetesting.RunStoreBenchmarks(b, "TreeStore", func() store.IStore[string, int] {
		return NewTreeStore[string, int](strings.Compare)
	})
}
