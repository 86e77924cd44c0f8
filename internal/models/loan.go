package models

import "time"

// Loan associates a user with a borrowed book. A loan is active until
// Returned is set.
type Loan struct {
	ID         int64      `json:"id" gorm:"primaryKey"`
	UserID     int64      `json:"userId" gorm:"not null;index;uniqueIndex:idx_borrowed_books_one_active,where:returned = false"`
	BookID     int64      `json:"bookId" gorm:"not null;index"`
	BorrowDate time.Time  `json:"borrowDate" gorm:"not null"`
	DueDate    time.Time  `json:"dueDate" gorm:"not null"`
	Returned   bool       `json:"returned" gorm:"not null;default:false"`
	ReturnedAt *time.Time `json:"returnedAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`

	User *User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT"`
	Book *Book `json:"book,omitempty" gorm:"foreignKey:BookID;constraint:OnDelete:RESTRICT"`
}

// TableName returns the database table name for the Loan model.
func (Loan) TableName() string {
	return "borrowed_books"
}
