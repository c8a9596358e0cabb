package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"vocablearn/internal/domain"
	"vocablearn/internal/infrastructure/repository"
	"vocablearn/internal/platform/logger"
)

// ProgressUsecase records study events and derives topic and level completion.
// The client decides when to report a mastered word (its local repetition
// counter) and when to pay for a completion scan; the server only stores the
// terminal event and derives the cascade.
type ProgressUsecase struct {
	catalogRepo  *repository.CatalogRepository
	progressRepo *repository.ProgressRepository
	userRepo     *repository.UserRepository
	log          *logger.Logger
}

func NewProgressUsecase(
	cr *repository.CatalogRepository,
	pr *repository.ProgressRepository,
	ur *repository.UserRepository,
	log *logger.Logger,
) *ProgressUsecase {
	return &ProgressUsecase{
		catalogRepo:  cr,
		progressRepo: pr,
		userRepo:     ur,
		log:          log.With("usecase", "progress"),
	}
}

// MarkWordLearned appends a Finished learning event for the word. No
// completion derivation happens here; the client triggers that explicitly.
func (uc *ProgressUsecase) MarkWordLearned(ctx context.Context, userID uuid.UUID, wordID uint) error {
	if _, err := uc.catalogRepo.GetWord(ctx, wordID); err != nil {
		return err
	}

	return uc.progressRepo.AddWordLearning(ctx, &domain.WordLearning{
		UserID:    userID,
		WordID:    wordID,
		Status:    domain.WordStatusFinished,
		StudyTime: time.Now().UTC(),
	})
}

// CheckTopicCompletion reports whether the user has finished every word of
// the topic and, on first completion, records it. A topic with zero words is
// never completed. The call is idempotent: the completion row is deduplicated
// by its primary key, so repeated checks keep answering true without piling
// up rows.
func (uc *ProgressUsecase) CheckTopicCompletion(ctx context.Context, userID uuid.UUID, topicID uint) (bool, error) {
	topic, err := uc.catalogRepo.GetTopic(ctx, topicID)
	if err != nil {
		return false, err
	}

	words, err := uc.catalogRepo.WordsByTopic(ctx, topic.ID)
	if err != nil {
		return false, err
	}
	if len(words) == 0 {
		return false, nil
	}

	finished, err := uc.progressRepo.CountFinishedWordsInTopic(ctx, userID, topic.ID)
	if err != nil {
		return false, err
	}
	if finished < int64(len(words)) {
		return false, nil
	}

	created, err := uc.progressRepo.CreateUserTopic(ctx, &domain.UserTopic{
		UserID:  userID,
		TopicID: topic.ID,
		Status:  domain.TopicStatusCompleted,
	})
	if err != nil {
		return false, err
	}
	if created {
		uc.log.Info("topic completed", "userId", userID.String(), "topicId", topic.ID)
	}
	return true, nil
}

// CheckLevelCompletion reports whether the user has completed every topic of
// the level and advances the user's current level when the unlock policy
// allows it. A level with zero topics is never complete. A storage failure
// while deriving completion aborts before any level write.
func (uc *ProgressUsecase) CheckLevelCompletion(ctx context.Context, userID uuid.UUID, levelID uint) (bool, error) {
	level, err := uc.catalogRepo.GetLevel(ctx, levelID)
	if err != nil {
		return false, err
	}

	topics, err := uc.catalogRepo.TopicsByLevel(ctx, level.ID)
	if err != nil {
		return false, err
	}
	if len(topics) == 0 {
		return false, nil
	}

	completedIDs, err := uc.progressRepo.CompletedTopicIDsInLevel(ctx, userID, level.ID)
	if err != nil {
		return false, err
	}

	completed := make(map[uint]bool, len(completedIDs))
	for _, id := range completedIDs {
		completed[id] = true
	}
	for _, t := range topics {
		if !completed[t.ID] {
			return false, nil
		}
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	if next, ok := domain.NextLevel(user.CurrentLevel, int(level.ID)); ok {
		if err := uc.userRepo.UpdateLevel(ctx, user.ID, next); err != nil {
			return false, err
		}
		uc.log.Info("level advanced", "userId", userID.String(), "newLevel", next)
	}
	return true, nil
}

// WordWithStatus pairs a word with the user's latest learning event, if any.
type WordWithStatus struct {
	Word           domain.Word          `json:"word"`
	LatestLearning *domain.WordLearning `json:"latestLearning"`
}

// WordsWithStatus lists the words of a topic annotated with the user's most
// recent study event per word.
func (uc *ProgressUsecase) WordsWithStatus(ctx context.Context, userID uuid.UUID, topicID uint) ([]WordWithStatus, error) {
	words, err := uc.catalogRepo.WordsByTopic(ctx, topicID)
	if err != nil {
		return nil, err
	}

	learnings, err := uc.progressRepo.LearningsForTopic(ctx, userID, topicID)
	if err != nil {
		return nil, err
	}

	// Rows arrive newest first, so the first hit per word is the latest.
	latest := make(map[uint]*domain.WordLearning, len(words))
	for i := range learnings {
		wl := learnings[i]
		if _, seen := latest[wl.WordID]; !seen {
			latest[wl.WordID] = &wl
		}
	}

	result := make([]WordWithStatus, 0, len(words))
	for _, w := range words {
		result = append(result, WordWithStatus{Word: w, LatestLearning: latest[w.ID]})
	}
	return result, nil
}

// CompletedTopics lists every topic the user has finished.
func (uc *ProgressUsecase) CompletedTopics(ctx context.Context, userID uuid.UUID) ([]domain.Topic, error) {
	return uc.progressRepo.CompletedTopics(ctx, userID)
}
