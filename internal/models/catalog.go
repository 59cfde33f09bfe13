package models

// Category groups titles by kind of work (book, film, music...).
type Category struct {
	ID   uint   `json:"-" gorm:"primaryKey"`
	Name string `json:"name" gorm:"type:varchar(256);not null"`
	Slug string `json:"slug" gorm:"uniqueIndex;type:varchar(50);not null"`
}

// Genre is a taxonomy tag attached to titles through GenreTitle.
type Genre struct {
	ID   uint   `json:"-" gorm:"primaryKey"`
	Name string `json:"name" gorm:"type:varchar(256);not null"`
	Slug string `json:"slug" gorm:"uniqueIndex;type:varchar(50);not null"`
}
