package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"vocablearn/internal/application/usecase"
	"vocablearn/internal/domain"
	"vocablearn/internal/infrastructure/cache"
	"vocablearn/internal/infrastructure/repository"
	"vocablearn/internal/infrastructure/security"
	"vocablearn/internal/testutil"
	"vocablearn/internal/transport/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type serverEnv struct {
	router *gin.Engine
	db     *gorm.DB
}

func newServerForTest(t *testing.T) *serverEnv {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)

	userRepo := repository.NewUserRepository(db)
	catalogRepo := repository.NewCatalogRepository(db, nil)
	progressRepo := repository.NewProgressRepository(db)

	auth := usecase.NewAuthUsecase(
		userRepo,
		cache.NewMemoryRefreshStore(),
		security.NewPasswordHasher(),
		security.NewTokenManager("test-secret"),
		usecase.RegistrationDefaults{
			AvatarURL:  "https://example.com/avatar.jpg",
			Role:       domain.RoleStudent,
			StartLevel: 2,
		},
		log,
	)
	progress := usecase.NewProgressUsecase(catalogRepo, progressRepo, userRepo, log)

	// The limiter points at a dead address so it always fails open.
	limiter := middleware.NewRateLimiter(redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"}))

	router := NewRouter(
		auth,
		NewAuthHandler(auth),
		NewLevelHandler(catalogRepo, progress),
		NewTopicHandler(catalogRepo, progress),
		NewWordHandler(catalogRepo, progress),
		limiter,
		"",
	)
	return &serverEnv{router: router, db: db}
}

func (e *serverEnv) do(t *testing.T, method, path string, body any, token string) (int, any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var parsed any
	if len(w.Body.Bytes()) > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &parsed); err != nil {
			t.Fatalf("%s %s: invalid JSON response %q: %v", method, path, w.Body.String(), err)
		}
	}
	return w.Code, parsed
}

func asMap(t *testing.T, body any) map[string]any {
	t.Helper()
	m, ok := body.(map[string]any)
	if !ok {
		t.Fatalf("response is not an object: %v", body)
	}
	return m
}

func asList(t *testing.T, body any) []any {
	t.Helper()
	l, ok := body.([]any)
	if !ok {
		t.Fatalf("response is not an array: %v", body)
	}
	return l
}

func (e *serverEnv) registerAndLogin(t *testing.T, email, password string) (userID, access, refresh string) {
	t.Helper()

	code, body := e.do(t, http.MethodPost, "/auth/register", gin.H{"email": email, "password": password}, "")
	if code != http.StatusOK {
		t.Fatalf("register: status %d, body %v", code, body)
	}
	user, _ := asMap(t, body)["user"].(map[string]any)
	userID, _ = user["id"].(string)
	if userID == "" {
		t.Fatalf("register: no user id in %v", body)
	}

	code, body = e.do(t, http.MethodPost, "/auth/login", gin.H{"email": email, "password": password}, "")
	if code != http.StatusOK {
		t.Fatalf("login: status %d, body %v", code, body)
	}
	resp := asMap(t, body)
	access, _ = resp["accessToken"].(string)
	refresh, _ = resp["refreshToken"].(string)
	if access == "" || refresh == "" {
		t.Fatalf("login: missing tokens in %v", body)
	}
	return userID, access, refresh
}

func TestAuthFlow(t *testing.T) {
	env := newServerForTest(t)

	_, _, refresh := env.registerAndLogin(t, "student@example.com", "secret123")

	// Duplicate registration is rejected.
	code, _ := env.do(t, http.MethodPost, "/auth/register", gin.H{"email": "student@example.com", "password": "secret123"}, "")
	if code != http.StatusConflict {
		t.Fatalf("duplicate register: status %d, want 409", code)
	}

	// Wrong password is rejected without leaking which field failed.
	code, _ = env.do(t, http.MethodPost, "/auth/login", gin.H{"email": "student@example.com", "password": "wrong-pass"}, "")
	if code != http.StatusUnauthorized {
		t.Fatalf("wrong password: status %d, want 401", code)
	}

	// Refresh rotates: the new token works, the presented one is dead.
	code, body := env.do(t, http.MethodPost, "/auth/refresh", gin.H{"refreshToken": refresh}, "")
	if code != http.StatusOK {
		t.Fatalf("refresh: status %d, body %v", code, body)
	}
	rotated, _ := asMap(t, body)["refreshToken"].(string)
	if rotated == "" || rotated == refresh {
		t.Fatalf("refresh did not rotate: %v", body)
	}
	code, _ = env.do(t, http.MethodPost, "/auth/refresh", gin.H{"refreshToken": refresh}, "")
	if code != http.StatusUnauthorized {
		t.Fatalf("replayed refresh token: status %d, want 401", code)
	}

	// Logout revokes, and a revoked token cannot refresh or log out again.
	code, _ = env.do(t, http.MethodPost, "/auth/logout", gin.H{"refreshToken": rotated}, "")
	if code != http.StatusOK {
		t.Fatalf("logout: status %d", code)
	}
	code, _ = env.do(t, http.MethodPost, "/auth/refresh", gin.H{"refreshToken": rotated}, "")
	if code != http.StatusUnauthorized {
		t.Fatalf("refresh after logout: status %d, want 401", code)
	}
	code, _ = env.do(t, http.MethodPost, "/auth/logout", gin.H{"refreshToken": rotated}, "")
	if code != http.StatusBadRequest {
		t.Fatalf("double logout: status %d, want 400", code)
	}
}

func TestProtectedRoutesRequireBearer(t *testing.T) {
	env := newServerForTest(t)
	_, access, _ := env.registerAndLogin(t, "profile@example.com", "secret123")

	code, _ := env.do(t, http.MethodPost, "/auth/update-profile", gin.H{"displayName": "New Name"}, "")
	if code != http.StatusUnauthorized {
		t.Fatalf("no token: status %d, want 401", code)
	}

	code, _ = env.do(t, http.MethodPost, "/auth/update-profile", gin.H{"displayName": "New Name"}, "not-a-jwt")
	if code != http.StatusUnauthorized {
		t.Fatalf("garbage token: status %d, want 401", code)
	}

	code, body := env.do(t, http.MethodPost, "/auth/update-profile", gin.H{"displayName": "New Name"}, access)
	if code != http.StatusOK {
		t.Fatalf("update profile: status %d, body %v", code, body)
	}
	user, _ := asMap(t, body)["user"].(map[string]any)
	if got, _ := user["displayName"].(string); got != "New Name" {
		t.Fatalf("displayName = %q, want %q", got, "New Name")
	}
}

func TestCatalogCRUD(t *testing.T) {
	env := newServerForTest(t)

	code, body := env.do(t, http.MethodPost, "/level", gin.H{"levelName": "Beginner", "ordinal": 1}, "")
	if code != http.StatusCreated {
		t.Fatalf("create level: status %d, body %v", code, body)
	}
	levelID := uint(asMap(t, body)["id"].(float64))

	code, body = env.do(t, http.MethodPost, "/topic", gin.H{"levelId": levelID, "title": "Greetings"}, "")
	if code != http.StatusCreated {
		t.Fatalf("create topic: status %d, body %v", code, body)
	}
	topicID := uint(asMap(t, body)["id"].(float64))

	// A topic for a missing level is rejected.
	code, _ = env.do(t, http.MethodPost, "/topic", gin.H{"levelId": 999, "title": "Orphan"}, "")
	if code != http.StatusNotFound {
		t.Fatalf("topic for missing level: status %d, want 404", code)
	}

	code, body = env.do(t, http.MethodPost, "/words", gin.H{"topicId": topicID, "spelling": "hello", "definition": "a greeting"}, "")
	if code != http.StatusCreated {
		t.Fatalf("create word: status %d, body %v", code, body)
	}
	wordID := uint(asMap(t, body)["id"].(float64))

	code, body = env.do(t, http.MethodGet, "/level", nil, "")
	if code != http.StatusOK {
		t.Fatalf("list levels: status %d", code)
	}
	if got := asList(t, body); len(got) != 1 {
		t.Fatalf("levels = %v, want one entry", body)
	}

	code, body = env.do(t, http.MethodGet, fmt.Sprintf("/words/by-topic/%d", topicID), nil, "")
	if code != http.StatusOK {
		t.Fatalf("words by topic: status %d", code)
	}
	if got := asList(t, body); len(got) != 1 {
		t.Fatalf("words = %v, want one entry", body)
	}

	code, body = env.do(t, http.MethodPut, fmt.Sprintf("/words/%d", wordID),
		gin.H{"topicId": topicID, "spelling": "hi", "definition": "a casual greeting"}, "")
	if code != http.StatusOK {
		t.Fatalf("update word: status %d, body %v", code, body)
	}
	if got, _ := asMap(t, body)["spelling"].(string); got != "hi" {
		t.Fatalf("spelling = %q after update", got)
	}

	code, _ = env.do(t, http.MethodDelete, fmt.Sprintf("/words/%d", wordID), nil, "")
	if code != http.StatusNoContent {
		t.Fatalf("delete word: status %d, want 204", code)
	}
	code, _ = env.do(t, http.MethodGet, fmt.Sprintf("/words/%d", wordID), nil, "")
	if code != http.StatusNotFound {
		t.Fatalf("deleted word: status %d, want 404", code)
	}

	code, _ = env.do(t, http.MethodGet, "/level/999", nil, "")
	if code != http.StatusNotFound {
		t.Fatalf("missing level: status %d, want 404", code)
	}
}

func TestLearningFlow(t *testing.T) {
	env := newServerForTest(t)

	if err := env.db.Create(&domain.Level{ID: 2, LevelName: "Elementary", Ordinal: 2}).Error; err != nil {
		t.Fatalf("seed level: %v", err)
	}
	if err := env.db.Create(&domain.Topic{ID: 5, LevelID: 2, Title: "Travel", WordCount: 3}).Error; err != nil {
		t.Fatalf("seed topic: %v", err)
	}
	wordIDs := make([]uint, 0, 3)
	for _, spelling := range []string{"ticket", "luggage", "passport"} {
		w := domain.Word{TopicID: 5, Spelling: spelling, Definition: "travel item"}
		if err := env.db.Create(&w).Error; err != nil {
			t.Fatalf("seed word: %v", err)
		}
		wordIDs = append(wordIDs, w.ID)
	}

	userID, _, _ := env.registerAndLogin(t, "learner@example.com", "secret123")

	// Finish two of three words: topic stays incomplete.
	for _, id := range wordIDs[:2] {
		code, body := env.do(t, http.MethodPost, "/words/learned", gin.H{"param_1": userID, "param_2": id}, "")
		if code != http.StatusOK {
			t.Fatalf("mark learned: status %d, body %v", code, body)
		}
	}
	code, body := env.do(t, http.MethodGet, "/topic/check-complete?userId="+userID+"&topicId=5", nil, "")
	if code != http.StatusOK {
		t.Fatalf("check-complete: status %d, body %v", code, body)
	}
	if completed, _ := asMap(t, body)["isCompleted"].(bool); completed {
		t.Fatal("topic reported complete with one word pending")
	}

	// Finish the last word: topic completes and the level advances the user.
	code, _ = env.do(t, http.MethodPost, "/words/learned", gin.H{"param_1": userID, "param_2": wordIDs[2]}, "")
	if code != http.StatusOK {
		t.Fatalf("mark learned: status %d", code)
	}
	code, body = env.do(t, http.MethodGet, "/topic/check-complete?userId="+userID+"&topicId=5", nil, "")
	if code != http.StatusOK {
		t.Fatalf("check-complete: status %d", code)
	}
	if completed, _ := asMap(t, body)["isCompleted"].(bool); !completed {
		t.Fatalf("topic not complete: %v", body)
	}

	code, body = env.do(t, http.MethodGet, "/level/CheckAllTopicsCompletedInLevel?userId="+userID+"&levelId=2", nil, "")
	if code != http.StatusOK {
		t.Fatalf("level check: status %d, body %v", code, body)
	}
	if all, _ := asMap(t, body)["allCompleted"].(bool); !all {
		t.Fatalf("level not complete: %v", body)
	}

	var user domain.User
	if err := env.db.First(&user, "id = ?", uuid.MustParse(userID)).Error; err != nil {
		t.Fatalf("load user: %v", err)
	}
	if user.CurrentLevel != 3 {
		t.Fatalf("currentLevel = %d, want 3", user.CurrentLevel)
	}

	// Study status per word for the topic.
	code, body = env.do(t, http.MethodGet, "/words/by-topic-user?userId="+userID+"&topicId=5", nil, "")
	if code != http.StatusOK {
		t.Fatalf("by-topic-user: status %d, body %v", code, body)
	}
	entries := asList(t, body)
	if len(entries) != 3 {
		t.Fatalf("words = %d entries, want 3", len(entries))
	}
	for _, raw := range entries {
		entry, _ := raw.(map[string]any)
		if entry["latestLearning"] == nil {
			t.Fatalf("word without learning record: %v", entry)
		}
	}

	// Completed topics list.
	code, body = env.do(t, http.MethodGet, "/topic/CompletedByUser/"+userID, nil, "")
	if code != http.StatusOK {
		t.Fatalf("CompletedByUser: status %d, body %v", code, body)
	}
	if got := asList(t, body); len(got) != 1 {
		t.Fatalf("completed topics = %v, want one entry", body)
	}

	// Marking an unknown word is a 404, not a silent insert.
	code, _ = env.do(t, http.MethodPost, "/words/learned", gin.H{"param_1": userID, "param_2": 9999}, "")
	if code != http.StatusNotFound {
		t.Fatalf("unknown word: status %d, want 404", code)
	}
}

func TestLoginRateLimiterFailsOpen(t *testing.T) {
	env := newServerForTest(t)
	env.registerAndLogin(t, "burst@example.com", "secret123")

	// Redis is unreachable, so bursts above the limit still reach the handler.
	for i := 0; i < 8; i++ {
		code, _ := env.do(t, http.MethodPost, "/auth/login", gin.H{"email": "burst@example.com", "password": "secret123"}, "")
		if code != http.StatusOK {
			t.Fatalf("login #%d: status %d, want 200", i, code)
		}
	}
}
