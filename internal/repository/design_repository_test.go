package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/skillsync/skillsync-backend/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DesignRepositoryTestSuite is the test suite for DesignRepository
type DesignRepositoryTestSuite struct {
	suite.Suite
	db   *gorm.DB
	repo DesignRepository
}

func (s *DesignRepositoryTestSuite) SetupSuite() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(s.T(), err)

	err = db.AutoMigrate(&models.Design{}, &models.Attachment{})
	require.NoError(s.T(), err)

	s.db = db
	s.repo = NewDesignRepository(db)
}

func (s *DesignRepositoryTestSuite) TearDownSuite() {
	sqlDB, _ := s.db.DB()
	if sqlDB != nil {
		sqlDB.Close()
	}
}

func (s *DesignRepositoryTestSuite) SetupTest() {
	s.db.Exec("DELETE FROM attachments")
	s.db.Exec("DELETE FROM designs")
}

func TestDesignRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(DesignRepositoryTestSuite))
}

func (s *DesignRepositoryTestSuite) TestCreateAndGetByID() {
	design := &models.Design{OwnerID: "user-1", Title: "Poster", Description: "A3 print"}
	err := s.repo.Create(context.Background(), design)
	require.NoError(s.T(), err)
	assert.NotZero(s.T(), design.ID)

	got, err := s.repo.GetByID(context.Background(), design.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Poster", got.Title)
}

func (s *DesignRepositoryTestSuite) TestGetByID_NotFound() {
	_, err := s.repo.GetByID(context.Background(), 9999)
	assert.ErrorIs(s.T(), err, ErrNotFound)
}

func (s *DesignRepositoryTestSuite) TestGetWithActiveAttachments_FiltersAndOrders() {
	design := &models.Design{OwnerID: "user-1", Title: "Poster"}
	require.NoError(s.T(), s.db.Create(design).Error)

	base := time.Now().UTC()
	second := &models.Attachment{DesignID: &design.ID, FileName: "second.png", IsActive: true, CreatedAt: base.Add(time.Second)}
	first := &models.Attachment{DesignID: &design.ID, FileName: "first.png", IsPrimary: true, IsActive: true, CreatedAt: base}
	removed := &models.Attachment{DesignID: &design.ID, FileName: "removed.png", IsActive: false, CreatedAt: base}
	require.NoError(s.T(), s.db.Create(second).Error)
	require.NoError(s.T(), s.db.Create(first).Error)
	require.NoError(s.T(), s.db.Create(removed).Error)

	got, err := s.repo.GetWithActiveAttachments(context.Background(), design.ID)
	require.NoError(s.T(), err)
	require.Len(s.T(), got.Attachments, 2)
	assert.Equal(s.T(), "first.png", got.Attachments[0].FileName)
	assert.Equal(s.T(), "second.png", got.Attachments[1].FileName)
}

func (s *DesignRepositoryTestSuite) TestGetWithActiveAttachments_NotFound() {
	_, err := s.repo.GetWithActiveAttachments(context.Background(), 9999)
	assert.ErrorIs(s.T(), err, ErrNotFound)
}

func (s *DesignRepositoryTestSuite) TestList_Pagination() {
	for i := 0; i < 5; i++ {
		design := &models.Design{
			OwnerID:   "user-1",
			Title:     "Design",
			CreatedAt: time.Now().UTC().Add(time.Duration(i) * time.Second),
		}
		require.NoError(s.T(), s.db.Create(design).Error)
	}

	designs, total, err := s.repo.List(context.Background(), 2, 0)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(5), total)
	assert.Len(s.T(), designs, 2)

	rest, total, err := s.repo.List(context.Background(), 10, 4)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(5), total)
	assert.Len(s.T(), rest, 1)
}
