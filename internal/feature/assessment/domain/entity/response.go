package entity

import "time"

// Question is a single assessment question. Its options carry the score
// values that feed the category sub-scores.
type Question struct {
	ID       uint
	Category Category
	Prompt   string
}

// Option is one selectable answer for a question. ScoreValue is in [0,1];
// NotApplicable marks "don't know" / "not applicable" options whose score
// must not count against the category.
type Option struct {
	ID            uint
	QuestionID    uint
	Label         string
	ScoreValue    float64
	NotApplicable bool
}

// Response records a company's answer to one question.
//
// SelectedOptionID is the user's literal choice and is never overwritten.
// EffectiveOptionID is the answer the scoring engine uses; completing an
// assessment-linked task upgrades it to a better option while leaving the
// user's selection auditable.
type Response struct {
	ID                uint
	CompanyID         uint
	QuestionID        uint
	SelectedOptionID  *uint
	EffectiveOptionID *uint
	AnsweredAt        time.Time
}

// EffectiveAnswer is the scoring view of one response: the category and the
// score value of whichever option is currently effective. Answered is false
// for "don't know" / not-applicable selections.
type EffectiveAnswer struct {
	QuestionID uint
	Category   Category
	ScoreValue float64
	Answered   bool
}
