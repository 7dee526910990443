package models

// QuestionReview is one graded question as returned by the scoring backend
// after submission.
type QuestionReview struct {
	QuestionUID       string `json:"questionUid"`
	QuestionContent   string `json:"questionContent"`
	UserAnswerContent string `json:"userAnswerContent"`
	CorrectAnswer     string `json:"correctAnswer"`
	IsCorrect         bool   `json:"isCorrect"`
	Explanation       string `json:"explanation,omitempty"`
}

// TestReview is the read-only post-submission report. BandScore is filled in
// locally from the raw score; everything else comes from the backend.
type TestReview struct {
	Score          int              `json:"score"`
	TotalQuestions int              `json:"totalQuestions"`
	BandScore      float64          `json:"bandScore"`
	Questions      []QuestionReview `json:"questions"`
}
