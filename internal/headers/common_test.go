package headers

import (
	"net/http"
	"slices"
	"testing"
)

// http.Header is indexed directly with these names.
func TestHeaderNamesAreCanonical(t *testing.T) {
	headerNames := []string{
		Origin,
		ACRM,
		ACRH,
		ACAO,
		ACAM,
		ACAH,
		ACMA,
		Vary,
	}
	for _, name := range headerNames {
		if http.CanonicalHeaderKey(name) != name {
			t.Errorf("header name %q is not in canonical format", name)
		}
	}
}

func TestFirst(t *testing.T) {
	cases := []struct {
		h    http.Header
		want string
		ok   bool
	}{
		{h: nil},
		{h: http.Header{Origin: {}}},
		{h: http.Header{Origin: {""}}, ok: true},
		{h: http.Header{Origin: {"https://a.com"}}, want: "https://a.com", ok: true},
		{h: http.Header{Origin: {"https://a.com", "https://b.com"}}, want: "https://a.com", ok: true},
		{h: http.Header{"origin": {"https://a.com"}}},
	}
	for _, tc := range cases {
		if v, ok := First(tc.h, Origin); ok != tc.ok || v != tc.want {
			t.Errorf("%v: got %q, %t; want %q, %t", tc.h, v, ok, tc.want, tc.ok)
		}
	}
}

func TestLines(t *testing.T) {
	cases := []struct {
		desc string
		h    http.Header
		want []string
	}{
		{
			desc: "absent",
			h:    http.Header{},
			want: nil,
		}, {
			desc: "single line",
			h: http.Header{
				ACRH: []string{"content-type,x-foo"},
			},
			want: []string{"content-type,x-foo"},
		}, {
			desc: "split lines",
			h: http.Header{
				ACRH: []string{"content-type", "x-foo"},
			},
			want: []string{"content-type", "x-foo"},
		},
	}
	for _, tc := range cases {
		f := func(t *testing.T) {
			got := Lines(tc.h, ACRH)
			if !slices.Equal(got, tc.want) {
				t.Errorf("got %q; want %q", got, tc.want)
			}
			if len(got) > 0 {
				got[0] = "mutated!"
				if tc.h[ACRH][0] == "mutated!" {
					t.Error("Lines returned a slice that shares memory with the header")
				}
			}
		}
		t.Run(tc.desc, f)
	}
}
