package models

import (
	"time"
)

// CodeLength is the fixed length of a quiz join code.
const CodeLength = 6

// OptionsPerQuestion is the fixed fan-out of options authored per question.
const OptionsPerQuestion = 4

type Quiz struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	TeacherID   uint   `json:"teacher_id" gorm:"not null;index"`
	Title       string `json:"title" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	Subject     string `json:"subject" gorm:"not null;size:100" validate:"required,min=1,max=100"`
	Description string `json:"description" gorm:"type:text" validate:"omitempty,max=1000"`
	Duration    int    `json:"duration" gorm:"not null" validate:"required,min=1,max=300"` // minutes

	// Join code is assigned once at creation and never changes.
	Code     string `json:"code" gorm:"uniqueIndex;not null;size:6"`
	IsActive bool   `json:"is_active" gorm:"not null;default:true;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Teacher   User       `json:"-" gorm:"foreignKey:TeacherID"`
	Questions []Question `json:"questions,omitempty" gorm:"foreignKey:QuizID"`
}

type Question struct {
	ID     uint   `json:"id" gorm:"primaryKey"`
	QuizID uint   `json:"quiz_id" gorm:"not null;index"`
	Text   string `json:"text" gorm:"not null;type:text" validate:"required,min=1,max=2000"`
	Marks  int    `json:"marks" gorm:"not null" validate:"required,min=1,max=100"`

	CreatedAt time.Time `json:"created_at"`

	// Relations
	Options []Option `json:"options,omitempty" gorm:"foreignKey:QuestionID"`
}

type Option struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	QuestionID uint   `json:"question_id" gorm:"not null;index"`
	Text       string `json:"text" gorm:"not null;size:500" validate:"required,min=1,max=500"`
	IsCorrect  bool   `json:"is_correct" gorm:"not null;default:false"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

func (Question) TableName() string {
	return "questions"
}

func (Option) TableName() string {
	return "options"
}
