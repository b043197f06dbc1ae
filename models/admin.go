package models

import "time"

// Admin is a staff account allowed into the admin panel.
type Admin struct {
	ID           uint      `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	Email        string    `json:"email" gorm:"column:email;type:varchar(191);not null;uniqueIndex:idx_admins_email"`
	PasswordHash string    `json:"-" gorm:"column:password_hash;type:text;not null"`
	CreatedAt    time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
}

func (Admin) TableName() string { return "admins" }
