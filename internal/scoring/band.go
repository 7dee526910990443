// Package scoring holds the one piece of score math the session service owns:
// the IELTS Academic Reading/Listening raw-score to band-score conversion.
// Correctness grading itself belongs to the external backend.
package scoring

type bandStep struct {
	minRaw int
	band   float64
}

// Standard conversion table for a 40-question Academic Reading or Listening
// test. Raw scores below 4 have no published band and map to 0.0.
var bandTable = []bandStep{
	{39, 9.0},
	{37, 8.5},
	{35, 8.0},
	{33, 7.5},
	{30, 7.0},
	{27, 6.5},
	{23, 6.0},
	{19, 5.5},
	{15, 5.0},
	{13, 4.5},
	{10, 4.0},
	{8, 3.5},
	{6, 3.0},
	{4, 2.5},
}

// ToBand converts a raw correct-answer count to the corresponding band score.
func ToBand(correctAnswers int) float64 {
	for _, step := range bandTable {
		if correctAnswers >= step.minRaw {
			return step.band
		}
	}
	return 0.0
}
