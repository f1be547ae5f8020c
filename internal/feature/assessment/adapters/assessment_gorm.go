package adapters

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/bradfeldman/exit-osx-sub011/internal/feature/assessment/domain/entity"
)

// ErrOptionMismatch is returned when an upgrade names an option that does not
// belong to the question being upgraded.
var ErrOptionMismatch = errors.New("option does not belong to question")

type assessmentGorm struct {
	db *gorm.DB
}

func NewAssessmentRepository(db *gorm.DB) *assessmentGorm {
	return &assessmentGorm{db: db}
}

type QuestionModel struct {
	ID       uint   `gorm:"primaryKey"`
	Category string `gorm:"size:32;not null;index"`
	Prompt   string `gorm:"size:512;not null"`
}

func (QuestionModel) TableName() string {
	return "assessment_questions"
}

type OptionModel struct {
	ID            uint    `gorm:"primaryKey"`
	QuestionID    uint    `gorm:"not null;index"`
	Label         string  `gorm:"size:255;not null"`
	ScoreValue    float64 `gorm:"not null"`
	NotApplicable bool    `gorm:"not null;default:false"`
}

func (OptionModel) TableName() string {
	return "assessment_options"
}

type ResponseModel struct {
	ID                uint `gorm:"primaryKey"`
	CompanyID         uint `gorm:"not null;uniqueIndex:resp_company_question,priority:1"`
	QuestionID        uint `gorm:"not null;uniqueIndex:resp_company_question,priority:2"`
	SelectedOptionID  *uint
	EffectiveOptionID *uint
	AnsweredAt        time.Time `gorm:"not null"`
}

func (ResponseModel) TableName() string {
	return "assessment_responses"
}

// EffectiveAnswers returns the scoring view of a company's responses: for each
// response the category of its question and the score of the currently
// effective option (the upgrade override when present, the user's selection
// otherwise). "Don't know" / not-applicable options come back unanswered.
func (r *assessmentGorm) EffectiveAnswers(ctx context.Context, companyID uint) ([]entity.EffectiveAnswer, error) {
	var responses []ResponseModel
	if err := r.db.WithContext(ctx).Where("company_id = ?", companyID).Find(&responses).Error; err != nil {
		return nil, err
	}
	if len(responses) == 0 {
		return nil, nil
	}

	questionIDs := make([]uint, 0, len(responses))
	optionIDs := make([]uint, 0, len(responses))
	for _, resp := range responses {
		questionIDs = append(questionIDs, resp.QuestionID)
		if id := effectiveOptionID(resp); id != nil {
			optionIDs = append(optionIDs, *id)
		}
	}

	var questions []QuestionModel
	if err := r.db.WithContext(ctx).Where("id IN ?", questionIDs).Find(&questions).Error; err != nil {
		return nil, err
	}
	categoryByQuestion := make(map[uint]entity.Category, len(questions))
	for _, q := range questions {
		categoryByQuestion[q.ID] = entity.Category(q.Category)
	}

	optionByID := make(map[uint]OptionModel)
	if len(optionIDs) > 0 {
		var options []OptionModel
		if err := r.db.WithContext(ctx).Where("id IN ?", optionIDs).Find(&options).Error; err != nil {
			return nil, err
		}
		for _, o := range options {
			optionByID[o.ID] = o
		}
	}

	out := make([]entity.EffectiveAnswer, 0, len(responses))
	for _, resp := range responses {
		answer := entity.EffectiveAnswer{
			QuestionID: resp.QuestionID,
			Category:   categoryByQuestion[resp.QuestionID],
		}
		if id := effectiveOptionID(resp); id != nil {
			if opt, ok := optionByID[*id]; ok && !opt.NotApplicable {
				answer.ScoreValue = opt.ScoreValue
				answer.Answered = true
			}
		}
		out = append(out, answer)
	}
	return out, nil
}

// effectiveOptionID prefers the upgrade override over the user's selection.
func effectiveOptionID(resp ResponseModel) *uint {
	if resp.EffectiveOptionID != nil {
		return resp.EffectiveOptionID
	}
	return resp.SelectedOptionID
}

// UpgradeAnswer sets the effective option for a question without touching the
// user's literal selection, keeping the override auditable and reversible.
// A response row is created when the question was never answered.
func (r *assessmentGorm) UpgradeAnswer(ctx context.Context, companyID, questionID, optionID uint) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&OptionModel{}).
		Where("id = ? AND question_id = ?", optionID, questionID).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("option %d for question %d: %w", optionID, questionID, ErrOptionMismatch)
	}

	var resp ResponseModel
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND question_id = ?", companyID, questionID).
		First(&resp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		resp = ResponseModel{
			CompanyID:         companyID,
			QuestionID:        questionID,
			EffectiveOptionID: &optionID,
			AnsweredAt:        time.Now().UTC(),
		}
		return r.db.WithContext(ctx).Create(&resp).Error
	}
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Model(&resp).Update("effective_option_id", optionID).Error
}
