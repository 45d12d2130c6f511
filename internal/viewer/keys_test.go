package viewer

import "testing"

func TestKeyCommand(t *testing.T) {
	tests := []struct {
		key  string
		want Command
		ok   bool
	}{
		{"n", Next{}, true},
		{"N", Next{}, true},
		{"Right", Next{}, true},
		{"p", Prev{}, true},
		{"Left", Prev{}, true},
		{"r", Refresh{}, true},
		{"q", nil, false},
		{"", nil, false},
	}

	for _, tc := range tests {
		got, ok := KeyCommand(tc.key)
		if ok != tc.ok || got != tc.want {
			t.Errorf("%q: expected %T/%v, got %T/%v", tc.key, tc.want, tc.ok, got, ok)
		}
	}
}
