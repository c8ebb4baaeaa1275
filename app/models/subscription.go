package models

import "time"

// Subscription links a user to a course for update notifications.
// At most one row may exist per (user, course) pair; rows are only ever
// created or deleted by the toggle, never updated in place.
type Subscription struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_user_course;not null" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	CourseID  uint      `gorm:"uniqueIndex:idx_user_course;not null" json:"course_id"`
	Course    *Course   `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
