package chat

import (
	"testing"

	"github.com/ashureev/templog/internal/notify"
)

func TestParseIndex(t *testing.T) {
	cases := []struct {
		action string
		prefix string
		want   int
		ok     bool
	}{
		{"page:2", notify.ActionPagePrefix, 2, true},
		{"page:0", notify.ActionPagePrefix, 0, true},
		{"select_index:17", notify.ActionSelectPrefix, 17, true},
		{"select_index:", notify.ActionSelectPrefix, 0, false},
		{"select_index:abc", notify.ActionSelectPrefix, 0, false},
		{"page:1", notify.ActionSelectPrefix, 0, false},
	}

	for _, tc := range cases {
		got, ok := parseIndex(tc.action, tc.prefix)
		if ok != tc.ok || got != tc.want {
			t.Errorf("parseIndex(%q, %q) = %d, %v; want %d, %v",
				tc.action, tc.prefix, got, ok, tc.want, tc.ok)
		}
	}
}
