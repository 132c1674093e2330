package repo

import (
	"LostFound/internal/model"
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"
)

// newTestDB инициализирует отдельную in-memory SQLite (modernc.org/sqlite) для каждого теста.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	dial := gormsqlite.Dialector{DriverName: "sqlite", DSN: dsn}
	db, err := gorm.Open(dial, &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite (modernc): %v", err)
	}
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// одна коннекция: запись в SQLite всё равно сериализуется
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := Migrate(db); err != nil {
		t.Fatalf("failed to automigrate: %v", err)
	}
	return db
}

func mustUser(t *testing.T, db *gorm.DB, email string) *model.User {
	t.Helper()
	u, err := NewUserRepository(db).CreateUser(context.Background(), &model.User{Email: email, Password: "hash", Approved: true})
	require.NoError(t, err)
	return u
}

func mustItem(t *testing.T, db *gorm.DB, it model.Item) *model.Item {
	t.Helper()
	if it.ID == "" {
		it.ID = uuid.NewString()
	}
	if it.Title == "" {
		it.Title = "thing"
	}
	require.NoError(t, NewItemRepository(db).Create(context.Background(), &it))
	return &it
}
