package util_test

import (
	"slices"
	"testing"

	"github.com/jub0bs/hostcors/internal/util"
)

func TestSet(t *testing.T) {
	cases := []struct {
		desc   string
		adds   [][]string // NewSet with the first batch, Add for the others
		want   []string
		absent []string
	}{
		{desc: "zero", absent: []string{"", "a"}},
		{
			desc:   "duplicates",
			adds:   [][]string{{"foo", "bar", "foo"}, {"bar", "baz"}},
			want:   []string{"bar", "baz", "foo"},
			absent: []string{"ba", "fooo", "qux"},
		}, {
			desc:   "case-sensitive",
			adds:   [][]string{{"example.com", "Example.com"}},
			want:   []string{"Example.com", "example.com"},
			absent: []string{"EXAMPLE.COM"},
		}, {
			desc:   "longer than longest",
			adds:   [][]string{{"ab"}, {"a"}},
			want:   []string{"a", "ab"},
			absent: []string{"abc"},
		},
	}
	for _, tc := range cases {
		f := func(t *testing.T) {
			var set util.Set
			for i, batch := range tc.adds {
				if i == 0 {
					set = util.NewSet(batch...)
					continue
				}
				for _, e := range batch {
					set.Add(e)
				}
			}
			if got := set.ToSlice(); !slices.Equal(got, tc.want) {
				t.Errorf("got %q; want %q", got, tc.want)
			}
			if set.Size() != len(tc.want) {
				t.Errorf("got size %d; want %d", set.Size(), len(tc.want))
			}
			for _, e := range tc.want {
				if !set.Contains(e) {
					t.Errorf("%q is missing", e)
				}
			}
			for _, e := range tc.absent {
				if set.Contains(e) {
					t.Errorf("unexpected %q", e)
				}
			}
		}
		t.Run(tc.desc, f)
	}
}

func TestSetToSliceReturnsACopy(t *testing.T) {
	set := util.NewSet("a", "b")
	set.ToSlice()[0] = "mutated!"
	if !set.Contains("a") || set.Contains("mutated!") {
		t.Error("mutating the result of ToSlice affected the set")
	}
}
