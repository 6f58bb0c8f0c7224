package mapreduce

import (
	"testing"

	"github.com/mlockett/wp-archiver/pkg/analytics"
)

func TestMapReduce(t *testing.T) {
	a := &analytics.Analytics{}

	intermediate := []map[string]int{
		Map("coffee beans roasting coffee", a),
		Map("roasting equipment", a),
		Map("", a),
	}
	final := Reduce(intermediate)

	want := map[string]int{"coffee": 2, "beans": 1, "roasting": 2, "equipment": 1}
	if len(final) != len(want) {
		t.Fatalf("Reduce() = %v, want %v", final, want)
	}
	for w, c := range want {
		if final[w] != c {
			t.Errorf("count[%q] = %d, want %d", w, final[w], c)
		}
	}
}

func TestReduceEmpty(t *testing.T) {
	if got := Reduce(nil); len(got) != 0 {
		t.Errorf("Reduce(nil) = %v, want empty map", got)
	}
}

func TestTopKeywords(t *testing.T) {
	counts := map[string]int{
		"coffee":   5,
		"beans":    3,
		"roast":    3,
		"grinder":  1,
		"espresso": 2,
	}

	t.Run("ranks by count with alphabetical ties", func(t *testing.T) {
		got := TopKeywords(counts, 4)
		want := []Keyword{
			{Word: "coffee", Count: 5},
			{Word: "beans", Count: 3},
			{Word: "roast", Count: 3},
			{Word: "espresso", Count: 2},
		}
		if len(got) != len(want) {
			t.Fatalf("TopKeywords() = %v", got)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("rank %d = %+v, want %+v", i, got[i], want[i])
			}
		}
	})

	t.Run("n larger than vocabulary", func(t *testing.T) {
		if got := TopKeywords(counts, 100); len(got) != len(counts) {
			t.Errorf("len = %d, want %d", len(got), len(counts))
		}
	})

	t.Run("empty counts", func(t *testing.T) {
		if got := TopKeywords(nil, 5); len(got) != 0 {
			t.Errorf("TopKeywords(nil) = %v", got)
		}
	})
}
