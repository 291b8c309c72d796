package vision

import "testing"

func TestScoreLabels(t *testing.T) {
	cases := []struct {
		name   string
		labels []string
		want   int
	}{
		{"empty", nil, 0},
		{"unknown labels", []string{"cat", "tree"}, 0},
		{"single", []string{"pothole"}, 2},
		{"mixed case", []string{"Pothole", "ROAD"}, 3},
		{"sums weights", []string{"traffic light", "lamp", "sidewalk"}, 7},
		{"ignores unknown among known", []string{"pothole", "banana"}, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ScoreLabels(tc.labels); got != tc.want {
				t.Fatalf("ScoreLabels(%v) = %d, want %d", tc.labels, got, tc.want)
			}
		})
	}
}
