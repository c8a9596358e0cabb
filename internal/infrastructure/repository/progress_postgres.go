package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"vocablearn/internal/domain"
)

type ProgressRepository struct {
	db *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// AddWordLearning appends one study event. The log is append-only; repeated
// masteries of the same word simply add rows.
func (r *ProgressRepository) AddWordLearning(ctx context.Context, wl *domain.WordLearning) error {
	return r.db.WithContext(ctx).Create(wl).Error
}

// CountFinishedWordsInTopic counts the distinct words of a topic that carry
// at least one Finished learning event for the user.
func (r *ProgressRepository) CountFinishedWordsInTopic(ctx context.Context, userID uuid.UUID, topicID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.WordLearning{}).
		Joins("JOIN words ON words.id = word_learnings.word_id").
		Where("word_learnings.user_id = ? AND word_learnings.status = ? AND words.topic_id = ?",
			userID, domain.WordStatusFinished, topicID).
		Distinct("word_learnings.word_id").
		Count(&count).Error
	return count, err
}

// LearningsForTopic returns the user's study events for all words of a topic,
// newest first, so callers can pick the latest event per word.
func (r *ProgressRepository) LearningsForTopic(ctx context.Context, userID uuid.UUID, topicID uint) ([]domain.WordLearning, error) {
	var learnings []domain.WordLearning
	err := r.db.WithContext(ctx).
		Joins("JOIN words ON words.id = word_learnings.word_id").
		Where("word_learnings.user_id = ? AND words.topic_id = ?", userID, topicID).
		Order("word_learnings.study_time desc").
		Find(&learnings).Error
	return learnings, err
}

// CreateUserTopic inserts a completion row. The composite primary key rejects
// duplicates at the store, which is what makes concurrent completion checks
// safe; a duplicate insert reports created=false with no error.
func (r *ProgressRepository) CreateUserTopic(ctx context.Context, ut *domain.UserTopic) (bool, error) {
	err := r.db.WithContext(ctx).Create(ut).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *ProgressRepository) HasUserTopic(ctx context.Context, userID uuid.UUID, topicID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.UserTopic{}).
		Where("user_id = ? AND topic_id = ?", userID, topicID).
		Count(&count).Error
	return count > 0, err
}

// CompletedTopicIDsInLevel lists the topics of a level the user has completed.
func (r *ProgressRepository) CompletedTopicIDsInLevel(ctx context.Context, userID uuid.UUID, levelID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&domain.UserTopic{}).
		Joins("JOIN topics ON topics.id = user_topics.topic_id").
		Where("user_topics.user_id = ? AND user_topics.status = ? AND topics.level_id = ?",
			userID, domain.TopicStatusCompleted, levelID).
		Pluck("user_topics.topic_id", &ids).Error
	return ids, err
}

// CompletedTopics returns every topic the user has finished, across levels.
func (r *ProgressRepository) CompletedTopics(ctx context.Context, userID uuid.UUID) ([]domain.Topic, error) {
	var topics []domain.Topic
	err := r.db.WithContext(ctx).Model(&domain.Topic{}).
		Joins("JOIN user_topics ON user_topics.topic_id = topics.id").
		Where("user_topics.user_id = ? AND user_topics.status = ?", userID, domain.TopicStatusCompleted).
		Order("topics.id asc").
		Find(&topics).Error
	return topics, err
}
