package services

import (
	"context"
	"fmt"
	"testing"

	"testcase-generator/generator"
	"testcase-generator/infra"
	"testcase-generator/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := infra.SetupSQLite(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	require.NoError(t, infra.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func createUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()

	user := models.User{
		Email:          name + "@example.com",
		Username:       name,
		HashedPassword: "not-a-real-hash",
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func createProject(t *testing.T, db *gorm.DB, userID uint, name string) *models.Project {
	t.Helper()

	project := models.Project{UserID: userID, Name: name}
	require.NoError(t, db.Create(&project).Error)
	return &project
}

func nopLogger() *zap.Logger { return zap.NewNop() }

func countTestCases(t *testing.T, db *gorm.DB, projectID uint) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.Model(&models.TestCase{}).Where("project_id = ?", projectID).Count(&count).Error)
	return count
}

type fakeGenerator struct {
	cases []generator.TestCase
	err   error
	calls int
}

func (f *fakeGenerator) Generate(ctx context.Context, requirementText string) ([]generator.TestCase, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.cases, nil
}

func sixLoginCases() []generator.TestCase {
	return []generator.TestCase{
		{Title: "Valid login", Description: "d", Type: "functional", Steps: []string{"Open login", "Enter valid credentials", "Submit"}, ExpectedResult: "Logged in"},
		{Title: "Remember me", Description: "d", Type: "functional", Steps: []string{"Tick remember me", "Submit"}, ExpectedResult: "Session persists"},
		{Title: "Wrong password", Description: "d", Type: "negative", Steps: []string{"Enter wrong password"}, ExpectedResult: "Error shown"},
		{Title: "Unknown email", Description: "d", Type: "negative", Steps: []string{"Enter unknown email"}, ExpectedResult: "Error shown"},
		{Title: "Max length password", Description: "d", Type: "boundary", Steps: []string{"Enter 128 char password"}, ExpectedResult: "Handled"},
		{Title: "Paste credentials", Description: "d", Type: "exploratory", Steps: []string{"Paste email with spaces"}, ExpectedResult: "Trimmed"},
	}
}
