package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"vocablearn/internal/domain"
)

// topicListTTL keeps topic lists hot without an invalidation scheme; the
// catalog changes rarely and a stale list self-heals when the key expires.
const topicListTTL = 10 * time.Minute

// CatalogRepository serves the Levels/Topics/Words relational data. Reads on
// the hot topic-list path go through redis first; every cache failure falls
// back to the database.
type CatalogRepository struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewCatalogRepository(db *gorm.DB, rdb *redis.Client) *CatalogRepository {
	return &CatalogRepository{db: db, rdb: rdb}
}

// === Levels ===

func (r *CatalogRepository) ListLevels(ctx context.Context) ([]domain.Level, error) {
	var levels []domain.Level
	err := r.db.WithContext(ctx).Order("ordinal asc, id asc").Find(&levels).Error
	return levels, err
}

func (r *CatalogRepository) GetLevel(ctx context.Context, id uint) (*domain.Level, error) {
	var level domain.Level
	err := r.db.WithContext(ctx).First(&level, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &level, nil
}

func (r *CatalogRepository) CreateLevel(ctx context.Context, level *domain.Level) error {
	return r.db.WithContext(ctx).Create(level).Error
}

func (r *CatalogRepository) UpdateLevel(ctx context.Context, level *domain.Level) error {
	return r.db.WithContext(ctx).Save(level).Error
}

func (r *CatalogRepository) DeleteLevel(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&domain.Level{}, "id = ?", id).Error
}

// === Topics ===

// ListTopics returns all topics, or the topics of one level when levelID is
// non-nil. Per-level lists are cached.
func (r *CatalogRepository) ListTopics(ctx context.Context, levelID *uint) ([]domain.Topic, error) {
	var key string
	if levelID != nil && r.rdb != nil {
		key = fmt.Sprintf("topics:list:%d", *levelID)
		if val, err := r.rdb.Get(ctx, key).Result(); err == nil {
			var topics []domain.Topic
			if json.Unmarshal([]byte(val), &topics) == nil {
				return topics, nil
			}
		}
	}

	var topics []domain.Topic
	query := r.db.WithContext(ctx).Model(&domain.Topic{})
	if levelID != nil {
		query = query.Where("level_id = ?", *levelID)
	}
	if err := query.Order("id asc").Find(&topics).Error; err != nil {
		return nil, err
	}

	if key != "" {
		if data, err := json.Marshal(topics); err == nil {
			r.rdb.Set(ctx, key, data, topicListTTL)
		}
	}
	return topics, nil
}

func (r *CatalogRepository) TopicsByLevel(ctx context.Context, levelID uint) ([]domain.Topic, error) {
	return r.ListTopics(ctx, &levelID)
}

func (r *CatalogRepository) GetTopic(ctx context.Context, id uint) (*domain.Topic, error) {
	var topic domain.Topic
	err := r.db.WithContext(ctx).First(&topic, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &topic, nil
}

func (r *CatalogRepository) CreateTopic(ctx context.Context, topic *domain.Topic) error {
	r.invalidateTopicList(ctx, topic.LevelID)
	return r.db.WithContext(ctx).Create(topic).Error
}

func (r *CatalogRepository) UpdateTopic(ctx context.Context, topic *domain.Topic) error {
	r.invalidateTopicList(ctx, topic.LevelID)
	return r.db.WithContext(ctx).Save(topic).Error
}

func (r *CatalogRepository) DeleteTopic(ctx context.Context, topic *domain.Topic) error {
	r.invalidateTopicList(ctx, topic.LevelID)
	return r.db.WithContext(ctx).Delete(&domain.Topic{}, "id = ?", topic.ID).Error
}

func (r *CatalogRepository) invalidateTopicList(ctx context.Context, levelID uint) {
	if r.rdb != nil {
		r.rdb.Del(ctx, fmt.Sprintf("topics:list:%d", levelID))
	}
}

// === Words ===

func (r *CatalogRepository) ListWords(ctx context.Context) ([]domain.Word, error) {
	var words []domain.Word
	err := r.db.WithContext(ctx).Order("id asc").Find(&words).Error
	return words, err
}

func (r *CatalogRepository) GetWord(ctx context.Context, id uint) (*domain.Word, error) {
	var word domain.Word
	err := r.db.WithContext(ctx).First(&word, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &word, nil
}

func (r *CatalogRepository) WordsByTopic(ctx context.Context, topicID uint) ([]domain.Word, error) {
	var words []domain.Word
	err := r.db.WithContext(ctx).
		Where("topic_id = ?", topicID).
		Order("id asc").
		Find(&words).Error
	return words, err
}

func (r *CatalogRepository) WordsByLevel(ctx context.Context, levelID uint) ([]domain.Word, error) {
	var words []domain.Word
	err := r.db.WithContext(ctx).
		Joins("JOIN topics ON topics.id = words.topic_id").
		Where("topics.level_id = ?", levelID).
		Order("words.id asc").
		Find(&words).Error
	return words, err
}

func (r *CatalogRepository) CreateWord(ctx context.Context, word *domain.Word) error {
	return r.db.WithContext(ctx).Create(word).Error
}

func (r *CatalogRepository) UpdateWord(ctx context.Context, word *domain.Word) error {
	return r.db.WithContext(ctx).Save(word).Error
}

func (r *CatalogRepository) DeleteWord(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&domain.Word{}, "id = ?", id).Error
}
