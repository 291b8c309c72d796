package vision

import "strings"

// handPickedLabels maps classifier labels worth surfacing in the feed to a
// weight; anything else contributes nothing. The sum over a photo's labels
// becomes its ai_score.
var handPickedLabels = map[string]int{
	"graffiti":         1,
	"hole":             2,
	"pothole":          2,
	"street":           1,
	"traffic light":    3,
	"signaling device": 2,
	"traffic sign":     1,
	"road":             1,
	"road surface":     1,
	"asphalt":          1,
	"lamp":             3,
	"sidewalk":         1,
}

func ScoreLabels(labels []string) int {
	total := 0
	for _, label := range labels {
		total += handPickedLabels[strings.ToLower(label)]
	}
	return total
}
