package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"vocablearn/internal/application/usecase"
	"vocablearn/internal/domain"
	"vocablearn/internal/infrastructure/repository"
)

type TopicHandler struct {
	catalog  *repository.CatalogRepository
	progress *usecase.ProgressUsecase
}

func NewTopicHandler(catalog *repository.CatalogRepository, progress *usecase.ProgressUsecase) *TopicHandler {
	return &TopicHandler{catalog: catalog, progress: progress}
}

type topicReq struct {
	LevelID   uint   `json:"levelId" binding:"required"`
	Title     string `json:"title" binding:"required"`
	WordCount int    `json:"wordCount"`
}

// GET /topic?levelId=
func (h *TopicHandler) List(c *gin.Context) {
	var levelID *uint
	if raw := c.Query("levelId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid levelId"})
			return
		}
		v := uint(id)
		levelID = &v
	}

	topics, err := h.catalog.ListTopics(c, levelID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, topics)
}

// GET /topic/:id
func (h *TopicHandler) GetOne(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid topic id"})
		return
	}

	topic, err := h.catalog.GetTopic(c, uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, topic)
}

// POST /topic
func (h *TopicHandler) Create(c *gin.Context) {
	var req topicReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.catalog.GetLevel(c, req.LevelID); err != nil {
		respondError(c, err)
		return
	}

	topic := &domain.Topic{LevelID: req.LevelID, Title: req.Title, WordCount: req.WordCount}
	if err := h.catalog.CreateTopic(c, topic); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, topic)
}

// PUT /topic/:id
func (h *TopicHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid topic id"})
		return
	}

	topic, err := h.catalog.GetTopic(c, uint(id))
	if err != nil {
		respondError(c, err)
		return
	}

	var req topicReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	topic.LevelID = req.LevelID
	topic.Title = req.Title
	topic.WordCount = req.WordCount
	if err := h.catalog.UpdateTopic(c, topic); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, topic)
}

// DELETE /topic/:id
func (h *TopicHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid topic id"})
		return
	}

	topic, err := h.catalog.GetTopic(c, uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.catalog.DeleteTopic(c, topic); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /topic/check-complete?userId=&topicId=
func (h *TopicHandler) CheckComplete(c *gin.Context) {
	userID, err := uuid.Parse(c.Query("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid userId"})
		return
	}
	topicID, err := strconv.ParseUint(c.Query("topicId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid topicId"})
		return
	}

	completed, err := h.progress.CheckTopicCompletion(c, userID, uint(topicID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"isCompleted": completed})
}

// GET /topic/CompletedByUser/:userId
func (h *TopicHandler) CompletedByUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid userId"})
		return
	}

	topics, err := h.progress.CompletedTopics(c, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, topics)
}
