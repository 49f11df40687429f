package collectionutils

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAssociate(t *testing.T) {
	type user struct {
		id   int64
		name string
	}

	users := []user{{1, "jake"}, {2, "anne"}}
	got := Associate(users, func(u user) (int64, string) {
		return u.id, u.name
	})

	want := map[int64]string{1: "jake", 2: "anne"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Associate mismatch (-want +got):\n%s", diff)
	}
}


func TestGetOrDefault(t *testing.T) {
	m := map[string]int{"present": 42}

	if got := GetOrDefault(m, "present", 0); got != 42 {
		t.Errorf("GetOrDefault(present) = %d, want 42", got)
	}
	if got := GetOrDefault(m, "absent", 7); got != 7 {
		t.Errorf("GetOrDefault(absent) = %d, want default 7", got)
	}
}

func TestSafeMapConcurrentAccess(t *testing.T) {
	m := New[int, int]()

	var wg sync.WaitGroup
	for i := range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Store(i, i*2)
		}()
	}
	wg.Wait()

	for i := range 100 {
		value, ok := m.Get(i)
		if !ok || value != i*2 {
			t.Fatalf("Get(%d) = %d, %v; want %d, true", i, value, ok, i*2)
		}
	}

	m.Delete(0)
	if _, ok := m.Get(0); ok {
		t.Error("expected key 0 to be deleted")
	}
}
