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

type WordHandler struct {
	catalog  *repository.CatalogRepository
	progress *usecase.ProgressUsecase
}

func NewWordHandler(catalog *repository.CatalogRepository, progress *usecase.ProgressUsecase) *WordHandler {
	return &WordHandler{catalog: catalog, progress: progress}
}

type wordReq struct {
	TopicID    uint   `json:"topicId" binding:"required"`
	Spelling   string `json:"spelling" binding:"required"`
	Definition string `json:"definition" binding:"required"`
	Ipa        string `json:"ipa"`
	ImageURL   string `json:"imageUrl"`
}

// learnedReq is the historical wire shape of the mobile client and is kept
// as-is: param_1 is the user id, param_2 the word id.
type learnedReq struct {
	UserID uuid.UUID `json:"param_1" binding:"required"`
	WordID uint      `json:"param_2" binding:"required"`
}

// GET /words
func (h *WordHandler) List(c *gin.Context) {
	words, err := h.catalog.ListWords(c)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, words)
}

// GET /words/:id
func (h *WordHandler) GetOne(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid word id"})
		return
	}

	word, err := h.catalog.GetWord(c, uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, word)
}

// GET /words/by-topic/:topicId
func (h *WordHandler) ByTopic(c *gin.Context) {
	topicID, err := strconv.ParseUint(c.Param("topicId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid topicId"})
		return
	}

	words, err := h.catalog.WordsByTopic(c, uint(topicID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, words)
}

// GET /words/by-level/:levelId
func (h *WordHandler) ByLevel(c *gin.Context) {
	levelID, err := strconv.ParseUint(c.Param("levelId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid levelId"})
		return
	}

	words, err := h.catalog.WordsByLevel(c, uint(levelID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, words)
}

// GET /words/by-topic-user?topicId=&userId=
func (h *WordHandler) ByTopicUser(c *gin.Context) {
	topicID, err := strconv.ParseUint(c.Query("topicId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid topicId"})
		return
	}
	userID, err := uuid.Parse(c.Query("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid userId"})
		return
	}

	words, err := h.progress.WordsWithStatus(c, userID, uint(topicID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, words)
}

// POST /words
func (h *WordHandler) Create(c *gin.Context) {
	var req wordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.catalog.GetTopic(c, req.TopicID); err != nil {
		respondError(c, err)
		return
	}

	word := &domain.Word{
		TopicID:    req.TopicID,
		Spelling:   req.Spelling,
		Definition: req.Definition,
		Ipa:        req.Ipa,
		ImageURL:   req.ImageURL,
	}
	if err := h.catalog.CreateWord(c, word); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, word)
}

// PUT /words/:id
func (h *WordHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid word id"})
		return
	}

	word, err := h.catalog.GetWord(c, uint(id))
	if err != nil {
		respondError(c, err)
		return
	}

	var req wordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	word.TopicID = req.TopicID
	word.Spelling = req.Spelling
	word.Definition = req.Definition
	word.Ipa = req.Ipa
	word.ImageURL = req.ImageURL
	if err := h.catalog.UpdateWord(c, word); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, word)
}

// DELETE /words/:id
func (h *WordHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid word id"})
		return
	}

	if _, err := h.catalog.GetWord(c, uint(id)); err != nil {
		respondError(c, err)
		return
	}
	if err := h.catalog.DeleteWord(c, uint(id)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /words/learned
func (h *WordHandler) MarkLearned(c *gin.Context) {
	var req learnedReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.progress.MarkWordLearned(c, req.UserID, req.WordID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Word marked as learned"})
}
