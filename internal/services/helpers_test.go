package services_test

import (
	"context"
	"fmt"
	"testing"

	"todo-app/backend/internal/auth"
	"todo-app/backend/internal/models"
	"todo-app/backend/internal/services"
	"todo-app/backend/internal/validation"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB opens a uniquely named shared in-memory sqlite database so
// parallel tests never see each other's rows.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.Must(uuid.NewV4()).String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Task{}))
	return db
}

func createUser(t *testing.T, db *gorm.DB, email, nickname string) models.User {
	t.Helper()

	hasher := auth.NewHasher(4)
	svc := services.NewUserService(hasher)
	_, err := svc.Signup(context.Background(), db, validation.SignupRequest{
		Email:           email,
		Password:        "secret1",
		PasswordConfirm: "secret1",
		Nickname:        nickname,
	})
	require.NoError(t, err)

	user, found, err := svc.FindByEmail(context.Background(), db, email)
	require.NoError(t, err)
	require.True(t, found)
	return user
}

func createTask(t *testing.T, db *gorm.DB, owner models.User, title string) models.Task {
	t.Helper()

	task, err := services.NewTaskService().Create(context.Background(), db, owner, validation.TaskCreateRequest{Title: title})
	require.NoError(t, err)
	return task
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }
