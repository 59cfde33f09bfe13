package models

import "time"

// Review is a scored text a user wrote about a title.
type Review struct {
	ID       uint      `json:"id" gorm:"primaryKey"`
	TitleID  uint      `json:"-" gorm:"not null;uniqueIndex:idx_review_title_author"`
	Title    *Title    `json:"-" gorm:"constraint:OnDelete:CASCADE;"`
	AuthorID string    `json:"-" gorm:"type:varchar(36);not null;uniqueIndex:idx_review_title_author"`
	Author   *User     `json:"-" gorm:"constraint:OnDelete:CASCADE;"`
	Text     string    `json:"text" gorm:"type:text;not null"`
	Score    int       `json:"score" gorm:"not null;check:score >= 1 AND score <= 10"`
	PubDate  time.Time `json:"pub_date" gorm:"autoCreateTime"`
}

// Comment is a reply to a review.
type Comment struct {
	ID       uint      `json:"id" gorm:"primaryKey"`
	ReviewID uint      `json:"-" gorm:"not null;index"`
	Review   *Review   `json:"-" gorm:"constraint:OnDelete:CASCADE;"`
	AuthorID string    `json:"-" gorm:"type:varchar(36);not null;index"`
	Author   *User     `json:"-" gorm:"constraint:OnDelete:CASCADE;"`
	Text     string    `json:"text" gorm:"type:text;not null"`
	PubDate  time.Time `json:"pub_date" gorm:"autoCreateTime"`
}

// All returns every model in migration order.
func All() []interface{} {
	return []interface{}{
		&User{}, &Category{}, &Genre{}, &Title{}, &GenreTitle{}, &Review{}, &Comment{},
	}
}
