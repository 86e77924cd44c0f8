package models

import "time"

// Book is a catalog entry.
type Book struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	IsAvailable bool      `json:"is_available" gorm:"not null;default:true"`
	ImgSrc      string    `json:"imgsrc" gorm:"column:imgsrc"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName returns the database table name for the Book model.
func (Book) TableName() string {
	return "books"
}
