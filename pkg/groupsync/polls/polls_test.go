package polls

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/groupsync/groupsync/pkg/groupsync/auth"
	"github.com/groupsync/groupsync/pkg/groupsync/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	models.AutoMigrate(db)
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string) models.User {
	hash, _ := auth.HashPassword("password123")
	user := models.User{
		Email:        email,
		PasswordHash: hash,
		Name:         "Test User",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

func setupTestRouter(db *gorm.DB, requireMembership bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := NewHandler(db, requireMembership)

	polls := r.Group("/polls")
	polls.Use(auth.AuthMiddleware())
	handler.RegisterRoutes(polls)

	return r
}

func getAuthHeader(user models.User) string {
	token, _ := auth.GenerateToken(user.ID, user.Email)
	return "Bearer " + token
}

// createTestPoll sets up a group, an event and a two option poll.
func createTestPoll(t *testing.T, db *gorm.DB, owner models.User) *models.Poll {
	group := models.Group{Name: "Study Group", OwnerID: owner.ID}
	if err := db.Create(&group).Error; err != nil {
		t.Fatalf("Failed to create test group: %v", err)
	}
	db.Create(&models.GroupMembership{UserID: owner.ID, GroupID: group.ID})

	event := models.Event{
		GroupID:   group.ID,
		CreatorID: owner.ID,
		Name:      "Team dinner",
		Date:      time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC),
		StartHour: 19,
		EndHour:   21,
	}
	if err := db.Create(&event).Error; err != nil {
		t.Fatalf("Failed to create test event: %v", err)
	}

	poll, err := Create(db, group.ID, owner.ID, event.ID, &PollRequest{
		Question: "Where should we eat?",
		Options: []OptionRequest{
			{ID: 1, Text: "Pizza"},
			{ID: 2, Text: "Sushi"},
		},
	})
	if err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}
	return poll
}

func putVote(router *gin.Engine, user models.User, path string, optionID int) *httptest.ResponseRecorder {
	jsonBody, _ := json.Marshal(VoteRequest{OptionID: optionID})
	req, _ := http.NewRequest("PUT", path, bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", getAuthHeader(user))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestVote(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db, false)
	user := createTestUser(t, db, "test@example.com")
	createTestPoll(t, db, user)

	resp := putVote(router, user, "/polls/1/votes", 1)

	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var response PollResponse
	json.Unmarshal(resp.Body.Bytes(), &response)

	if response.Votes[1] != 1 {
		t.Errorf("Expected 1 vote for option 1, got %d", response.Votes[1])
	}
}

func TestVoteReplacesPreviousVote(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db, false)
	user := createTestUser(t, db, "test@example.com")
	poll := createTestPoll(t, db, user)

	putVote(router, user, "/polls/1/votes", 1)
	resp := putVote(router, user, "/polls/1/votes", 2)

	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var response PollResponse
	json.Unmarshal(resp.Body.Bytes(), &response)

	if _, ok := response.Votes[1]; ok {
		t.Errorf("Expected no votes for option 1, got %d", response.Votes[1])
	}
	if response.Votes[2] != 1 {
		t.Errorf("Expected 1 vote for option 2, got %d", response.Votes[2])
	}

	// Exactly one vote row survives per user
	var count int64
	db.Model(&models.PollVote{}).
		Where("poll_id = ? AND user_id = ?", poll.ID, user.ID).
		Count(&count)
	if count != 1 {
		t.Errorf("Expected 1 vote row, got %d", count)
	}
}

func TestVoteCountsDistinctUsers(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db, false)
	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")
	carol := createTestUser(t, db, "carol@example.com")
	createTestPoll(t, db, alice)

	putVote(router, alice, "/polls/1/votes", 1)
	putVote(router, bob, "/polls/1/votes", 1)
	resp := putVote(router, carol, "/polls/1/votes", 2)

	var response PollResponse
	json.Unmarshal(resp.Body.Bytes(), &response)

	if response.Votes[1] != 2 {
		t.Errorf("Expected 2 votes for option 1, got %d", response.Votes[1])
	}
	if response.Votes[2] != 1 {
		t.Errorf("Expected 1 vote for option 2, got %d", response.Votes[2])
	}
}

func TestVoteUnknownOption(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db, false)
	user := createTestUser(t, db, "test@example.com")
	createTestPoll(t, db, user)

	resp := putVote(router, user, "/polls/1/votes", 9)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("Expected status 404, got %d: %s", resp.Code, resp.Body.String())
	}

	var body map[string]string
	json.Unmarshal(resp.Body.Bytes(), &body)
	if body["detail"] != "Option 9 does not exist in poll 1" {
		t.Errorf("Unexpected detail: %s", body["detail"])
	}

	// The rejected vote must not be recorded
	var count int64
	db.Model(&models.PollVote{}).Count(&count)
	if count != 0 {
		t.Errorf("Expected 0 vote rows, got %d", count)
	}
}

func TestVotePollNotFound(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db, false)
	user := createTestUser(t, db, "test@example.com")

	resp := putVote(router, user, "/polls/42/votes", 1)

	if resp.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestVoteNonMemberAllowedByDefault(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db, false)
	owner := createTestUser(t, db, "owner@example.com")
	outsider := createTestUser(t, db, "outsider@example.com")
	createTestPoll(t, db, owner)

	resp := putVote(router, outsider, "/polls/1/votes", 1)

	if resp.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestVoteNonMemberRejectedWhenRequired(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db, true)
	owner := createTestUser(t, db, "owner@example.com")
	outsider := createTestUser(t, db, "outsider@example.com")
	createTestPoll(t, db, owner)

	resp := putVote(router, outsider, "/polls/1/votes", 1)

	if resp.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d: %s", resp.Code, resp.Body.String())
	}

	member := putVote(router, owner, "/polls/1/votes", 1)
	if member.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d: %s", member.Code, member.Body.String())
	}
}

func TestGetPoll(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db, false)
	user := createTestUser(t, db, "test@example.com")
	createTestPoll(t, db, user)

	putVote(router, user, "/polls/1/votes", 2)

	req, _ := http.NewRequest("GET", "/polls/1", nil)
	req.Header.Set("Authorization", getAuthHeader(user))
	resp := httptest.NewRecorder()

	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var response PollResponse
	json.Unmarshal(resp.Body.Bytes(), &response)

	if response.Question != "Where should we eat?" {
		t.Errorf("Expected question 'Where should we eat?', got %s", response.Question)
	}
	if len(response.Options) != 2 {
		t.Errorf("Expected 2 options, got %d", len(response.Options))
	}
	if response.Votes[2] != 1 {
		t.Errorf("Expected 1 vote for option 2, got %d", response.Votes[2])
	}
}

func TestPollRequestValidateDuplicateOptions(t *testing.T) {
	req := PollRequest{
		Question: "Where should we eat?",
		Options: []OptionRequest{
			{ID: 1, Text: "Pizza"},
			{ID: 1, Text: "Sushi"},
		},
	}

	appErr := req.Validate()
	if appErr == nil {
		t.Fatal("Expected validation error for duplicate option ids")
	}
	if appErr.Detail != "Duplicate option in poll data" {
		t.Errorf("Unexpected detail: %s", appErr.Detail)
	}
}

func TestPollRequestValidateUniqueOptions(t *testing.T) {
	req := PollRequest{
		Question: "Where should we eat?",
		Options: []OptionRequest{
			{ID: 1, Text: "Pizza"},
			{ID: 2, Text: "Sushi"},
		},
	}

	if appErr := req.Validate(); appErr != nil {
		t.Errorf("Expected no error, got %v", appErr)
	}
}
