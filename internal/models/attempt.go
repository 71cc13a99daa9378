package models

import (
	"time"

	"gorm.io/datatypes"
)

// Attempt is the immutable grading record for one (student, quiz) pair.
// The composite unique index is the arbiter of the at-most-one-attempt
// invariant under concurrent submissions.
type Attempt struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	StudentID uint `json:"student_id" gorm:"not null;uniqueIndex:idx_attempt_student_quiz;index"`
	QuizID    uint `json:"quiz_id" gorm:"not null;uniqueIndex:idx_attempt_student_quiz;index"`

	MarksObtained int `json:"marks_obtained" gorm:"not null"`
	TotalMarks    int `json:"total_marks" gorm:"not null"`

	// Raw submission (question id -> selected option id), kept for audit.
	Answers datatypes.JSON `json:"answers,omitempty" gorm:"type:jsonb"`

	AttemptedAt time.Time `json:"attempted_at" gorm:"not null;index"`
	CreatedAt   time.Time `json:"created_at"`

	// Relations
	Student User `json:"-" gorm:"foreignKey:StudentID"`
	Quiz    Quiz `json:"-" gorm:"foreignKey:QuizID"`
}

func (Attempt) TableName() string {
	return "attempts"
}
