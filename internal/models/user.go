package models

import (
	"time"
)

type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleTeacher UserRole = "teacher"
	RoleAdmin   UserRole = "admin"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID       uint     `json:"id" gorm:"primaryKey"`
	FullName string   `json:"full_name" gorm:"not null;size:100" validate:"required,min=1,max=100"`
	Email    string   `json:"email" gorm:"uniqueIndex;not null;size:255" validate:"required,email"`
	Password string   `json:"-" gorm:"not null;size:255"` // bcrypt hash, never serialized
	Role     UserRole `json:"role" gorm:"not null;default:student;index;size:20"`
	IsActive bool     `json:"is_active" gorm:"not null;default:true"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

type Enrollment struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	StudentID uint `json:"student_id" gorm:"not null;uniqueIndex:idx_enrollment_student_teacher;index"`
	TeacherID uint `json:"teacher_id" gorm:"not null;uniqueIndex:idx_enrollment_student_teacher;index"`

	CreatedAt time.Time `json:"created_at"`

	// Relations
	Student User `json:"-" gorm:"foreignKey:StudentID"`
	Teacher User `json:"-" gorm:"foreignKey:TeacherID"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}
