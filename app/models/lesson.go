package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

type Lesson struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	OwnerID     *uint     `gorm:"index" json:"owner_id"`
	Owner       *User     `gorm:"foreignKey:OwnerID" json:"-"`
	CourseID    uint      `gorm:"index;not null" json:"course_id" validate:"required"`
	Course      *Course   `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"-"`
	Title       string    `gorm:"type:varchar(255)" json:"title" validate:"required,max=255"`
	Description string    `gorm:"type:text" json:"description"`
	PreviewURL  string    `gorm:"type:varchar(255);default:null" json:"preview_url" validate:"omitempty,url,max=255"`
	VideoURL    string    `gorm:"type:varchar(255)" json:"video_url" validate:"omitempty,url,max=255"`
	ViewCount   int64     `gorm:"default:0" json:"view_count"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (l *Lesson) Validate() error {
	v := validator.New()

	return v.Struct(l)
}
