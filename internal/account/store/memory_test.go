package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"pfaportal/internal/account/models"
	"pfaportal/pkg/platform/sentinel"
)

type InMemorySuite struct {
	suite.Suite

	store *InMemory
	now   time.Time
}

func TestInMemorySuite(t *testing.T) {
	suite.Run(t, new(InMemorySuite))
}

func (s *InMemorySuite) SetupTest() {
	s.now = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	s.store = NewInMemory(WithClock(func() time.Time { return s.now }))
}

func (s *InMemorySuite) TestCreate() {
	s.Run("assigns id and timestamps, keeps profile fields", func() {
		created, err := s.store.Create(s.T().Context(), &models.Account{
			Username:    "mgarcia",
			Password:    "secreta123",
			FullName:    "María García",
			Email:       "mgarcia@pfa.example",
			BadgeNumber: "PFA-0412",
			Rank:        models.RankOficial,
			Department:  models.DepartmentInvestigaciones,
		})
		s.Require().NoError(err)
		s.NotEmpty(created.ID)
		s.Equal(s.now, created.CreatedAt)

		got, err := s.store.GetByUsername(s.T().Context(), "mgarcia")
		s.Require().NoError(err)
		s.Equal("mgarcia@pfa.example", got.Email)
		s.Equal("PFA-0412", got.BadgeNumber)
		s.Equal("María García", got.FullName)
	})

	s.Run("duplicate username conflicts regardless of case", func() {
		_, err := s.store.Create(s.T().Context(), &models.Account{Username: "MGarcia", Password: "x", Rank: models.RankAgente})
		s.ErrorIs(err, sentinel.ErrConflict)
	})

	s.Run("profile fields stay optional", func() {
		created, err := s.store.Create(s.T().Context(), &models.Account{
			Username: "jlopez",
			Password: "otra",
			Rank:     models.RankAgente,
		})
		s.Require().NoError(err)
		s.Empty(created.Email)
		s.Empty(created.BadgeNumber)
	})
}

func (s *InMemorySuite) TestGetByUsernameCaseInsensitive() {
	_, err := s.store.Create(s.T().Context(), &models.Account{Username: "RPeralta", Password: "x", Rank: models.RankAgente})
	s.Require().NoError(err)

	got, err := s.store.GetByUsername(s.T().Context(), "rperalta")
	s.Require().NoError(err)
	s.Equal("RPeralta", got.Username)

	_, err = s.store.GetByUsername(s.T().Context(), "nadie")
	s.ErrorIs(err, sentinel.ErrNotFound)
}
