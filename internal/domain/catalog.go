package domain

import "time"

type Level struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	LevelName   string `gorm:"not null" json:"levelName"`
	Description string `json:"description"`
	Ordinal     int    `gorm:"index" json:"ordinal"`

	Topics []Topic `gorm:"foreignKey:LevelID;constraint:OnDelete:CASCADE;" json:"-"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

type Topic struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	LevelID   uint   `gorm:"index" json:"levelId"`
	Title     string `gorm:"not null" json:"title"`
	WordCount int    `json:"wordCount"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

type Word struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	TopicID    uint   `gorm:"index" json:"topicId"`
	Spelling   string `gorm:"not null" json:"spelling"`
	Definition string `gorm:"not null" json:"definition"`
	Ipa        string `json:"ipa"`
	ImageURL   string `json:"imageUrl"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
