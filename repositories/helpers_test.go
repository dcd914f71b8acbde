package repositories

import (
	"fmt"
	"testing"

	"testcase-generator/infra"
	"testcase-generator/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
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

func seedUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()

	user := models.User{Email: name + "@example.com", Username: name, HashedPassword: "hash"}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func seedProject(t *testing.T, db *gorm.DB, userID uint, name string) *models.Project {
	t.Helper()

	project := models.Project{UserID: userID, Name: name}
	require.NoError(t, db.Create(&project).Error)
	return &project
}

func newTestCases(projectID uint, featureName string, titles ...string) []models.TestCase {
	testCases := make([]models.TestCase, 0, len(titles))
	for _, title := range titles {
		testCases = append(testCases, models.TestCase{
			ProjectID:       projectID,
			FeatureName:     featureName,
			RequirementText: "requirement for " + featureName,
			Title:           title,
			Description:     "description",
			Type:            "functional",
			Steps:           datatypes.JSONSlice[string]{"step 1", "step 2"},
			ExpectedResult:  "works",
		})
	}
	return testCases
}

func seedFeature(t *testing.T, repo ITestCaseRepository, projectID uint, featureName string, titles ...string) []models.TestCase {
	t.Helper()

	feature := models.Feature{ProjectID: projectID, Name: featureName, RequirementText: "requirement for " + featureName}
	created, err := repo.CreateFeature(t.Context(), &feature, newTestCases(projectID, featureName, titles...))
	require.NoError(t, err)
	return created
}

func count(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()

	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}
