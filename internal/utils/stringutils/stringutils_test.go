package stringutils

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestToString(t *testing.T) {
	if got := ToString(int64(42)); got != "42" {
		t.Errorf("ToString(42) = %q, want \"42\"", got)
	}
	if got := ToString(3.5); got != "3.5" {
		t.Errorf("ToString(3.5) = %q, want \"3.5\"", got)
	}
}

func TestINClause(t *testing.T) {
	placeholders, args := INClause([]int64{10, 20, 30}, 1)

	if diff := cmp.Diff([]string{"$1", "$2", "$3"}, placeholders); diff != "" {
		t.Errorf("placeholders mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]any{int64(10), int64(20), int64(30)}, args); diff != "" {
		t.Errorf("args mismatch (-want +got):\n%s", diff)
	}
}

func TestINClauseStartIndex(t *testing.T) {
	placeholders, _ := INClause([]int64{1, 2}, 3)

	if diff := cmp.Diff([]string{"$3", "$4"}, placeholders); diff != "" {
		t.Errorf("placeholders mismatch (-want +got):\n%s", diff)
	}
}
