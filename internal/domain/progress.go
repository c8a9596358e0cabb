package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	// Terminal status of a word learning event. The client reports a word
	// once its local repetition counter reaches the mastery threshold.
	WordStatusFinished = "Finished"

	// Status of a user_topics row. A row exists only for completed topics.
	TopicStatusCompleted = "Completed"
)

// WordLearning is an append-only log of mastery events. A user may have
// several rows for the same word; completion checks only care that at least
// one Finished row exists.
type WordLearning struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;index:idx_word_learnings_user_word" json:"userId"`
	WordID    uint      `gorm:"index:idx_word_learnings_user_word" json:"wordId"`
	Status    string    `gorm:"size:20" json:"status"`
	StudyTime time.Time `json:"studyTime"`
}

// UserTopic marks a topic as completed by a user. The composite primary key
// is the uniqueness constraint that makes the completion insert race-free:
// a duplicate insert is rejected by the store, not filtered by a prior read.
type UserTopic struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"userId"`
	TopicID   uint      `gorm:"primaryKey" json:"topicId"`
	Status    string    `gorm:"size:20" json:"status"`
	CreatedAt time.Time `json:"-"`
}
