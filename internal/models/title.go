package models

// Title is a catalogued work that users can review.
type Title struct {
	ID          uint         `json:"id" gorm:"primaryKey"`
	Name        string       `json:"name" gorm:"type:varchar(256);not null"`
	Year        int          `json:"year" gorm:"not null;index"`
	Description string       `json:"description" gorm:"type:text"`
	CategoryID  *uint        `json:"-" gorm:"index"`
	Category    *Category    `json:"category" gorm:"constraint:OnDelete:SET NULL;"`
	GenreLinks  []GenreTitle `json:"-" gorm:"foreignKey:TitleID;constraint:OnDelete:SET NULL;"`
	Rating      *float64     `json:"rating" gorm:"-"` // average review score, nil without reviews
}

// Genres returns the genres still linked to the title.
// Links whose genre was deleted are skipped.
func (t *Title) Genres() []Genre {
	genres := make([]Genre, 0, len(t.GenreLinks))
	for _, link := range t.GenreLinks {
		if link.Genre != nil {
			genres = append(genres, *link.Genre)
		}
	}
	return genres
}

// GenreTitle links one title to one genre. Either side is set to NULL
// when the referenced row is deleted; the link itself is kept.
type GenreTitle struct {
	ID      uint   `gorm:"primaryKey"`
	GenreID *uint  `gorm:"index"`
	Genre   *Genre `gorm:"constraint:OnDelete:SET NULL;"`
	TitleID *uint  `gorm:"index"`
}
