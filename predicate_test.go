package atom

import "testing"

func TestPredicates(t *testing.T) {
	even := func(s int) bool { return s%2 == 0 }
	positive := func(s int) bool { return s > 0 }

	tests := []struct {
		name string
		pred Predicate[int]
		in   int
		want bool
	}{
		{"always", Always[int](), 0, true},
		{"never", Never[int](), 0, false},
		{"equal match", Equal(3), 3, true},
		{"equal mismatch", Equal(3), 4, false},
		{"not", Not[int](even), 3, true},
		{"and both", And[int](even, positive), 2, true},
		{"and one", And[int](even, positive), -2, false},
		{"and empty", And[int](), 5, true},
		{"or one", Or[int](even, positive), -2, true},
		{"or none", Or[int](even, positive), -3, false},
		{"or empty", Or[int](), 5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pred(tt.in); got != tt.want {
				t.Errorf("pred(%d) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
