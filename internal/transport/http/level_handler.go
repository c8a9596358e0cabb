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

type LevelHandler struct {
	catalog  *repository.CatalogRepository
	progress *usecase.ProgressUsecase
}

func NewLevelHandler(catalog *repository.CatalogRepository, progress *usecase.ProgressUsecase) *LevelHandler {
	return &LevelHandler{catalog: catalog, progress: progress}
}

type levelReq struct {
	LevelName   string `json:"levelName" binding:"required"`
	Description string `json:"description"`
	Ordinal     int    `json:"ordinal"`
}

// GET /level
func (h *LevelHandler) List(c *gin.Context) {
	levels, err := h.catalog.ListLevels(c)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, levels)
}

// GET /level/:id
func (h *LevelHandler) GetOne(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid level id"})
		return
	}

	level, err := h.catalog.GetLevel(c, uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, level)
}

// POST /level
func (h *LevelHandler) Create(c *gin.Context) {
	var req levelReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	level := &domain.Level{LevelName: req.LevelName, Description: req.Description, Ordinal: req.Ordinal}
	if err := h.catalog.CreateLevel(c, level); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, level)
}

// PUT /level/:id
func (h *LevelHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid level id"})
		return
	}

	level, err := h.catalog.GetLevel(c, uint(id))
	if err != nil {
		respondError(c, err)
		return
	}

	var req levelReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	level.LevelName = req.LevelName
	level.Description = req.Description
	level.Ordinal = req.Ordinal
	if err := h.catalog.UpdateLevel(c, level); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, level)
}

// DELETE /level/:id
func (h *LevelHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid level id"})
		return
	}

	if _, err := h.catalog.GetLevel(c, uint(id)); err != nil {
		respondError(c, err)
		return
	}
	if err := h.catalog.DeleteLevel(c, uint(id)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /level/CheckAllTopicsCompletedInLevel?userId=&levelId=
func (h *LevelHandler) CheckAllTopicsCompleted(c *gin.Context) {
	userID, err := uuid.Parse(c.Query("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid userId"})
		return
	}
	levelID, err := strconv.ParseUint(c.Query("levelId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid levelId"})
		return
	}

	allCompleted, err := h.progress.CheckLevelCompletion(c, userID, uint(levelID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"allCompleted": allCompleted})
}
