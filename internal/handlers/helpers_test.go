package handlers_test

import (
	"LostFound/internal/cache"
	"LostFound/internal/config"
	"LostFound/internal/events"
	"LostFound/internal/handlers"
	"LostFound/internal/middleware"
	"LostFound/internal/model"
	"LostFound/internal/repo"
	"LostFound/internal/service"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type testEnv struct {
	router http.Handler
	cfg    *config.Config
	db     *gorm.DB
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := &config.Config{AuthSecret: "test-secret", CampusDomain: "@college.edu", AdminEmails: []string{"admin@college.edu"}}
	logger := zap.NewNop().Sugar()

	db, err := repo.InitDB(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	users := repo.NewUserRepository(db)
	items := repo.NewItemRepository(db)
	userSvc := service.NewUserService(users, cfg)
	itemSvc := service.NewItemService(items, users, cache.Nop{}, logger)
	chatSvc := service.NewChatService(
		repo.NewTxRunner(db),
		repo.NewConversationRepository(db),
		repo.NewMessageRepository(db),
		users,
		events.LogPublisher{Logger: logger},
		logger,
	)

	h := handlers.NewHandler(userSvc, itemSvc, chatSvc, logger, cfg)
	return &testEnv{router: h.Router, cfg: cfg, db: db}
}

// seedUser создаёт пользователя напрямую в БД.
func (e *testEnv) seedUser(t *testing.T, email, password string, mutate func(u *model.User)) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &model.User{Email: email, Password: string(hash), Role: model.RoleStudent, Approved: true, Verified: true}
	if mutate != nil {
		mutate(u)
	}
	u, err = repo.NewUserRepository(e.db).CreateUser(context.Background(), u)
	require.NoError(t, err)
	return u
}

// do выполняет запрос; userID == 0 — анонимно.
func (e *testEnv) do(t *testing.T, method, path string, body any, userID int64) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != 0 {
		addAuthCookie(t, req, userID, e.cfg.AuthSecret)
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func addAuthCookie(t *testing.T, req *http.Request, userID int64, secret string) {
	t.Helper()
	rr := httptest.NewRecorder()
	_ = middleware.SetLoginCookie(rr, userID, secret)
	for _, c := range rr.Result().Cookies() {
		req.AddCookie(c)
	}
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(bytes.NewReader(rr.Body.Bytes())).Decode(&v), rr.Body.String())
	return v
}

func errorMessage(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[struct {
		Message string `json:"message"`
	}](t, rr).Message
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }
