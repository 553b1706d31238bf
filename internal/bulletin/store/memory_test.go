package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"pfaportal/internal/bulletin/models"
	"pfaportal/pkg/platform/sentinel"
)

type InMemorySuite struct {
	suite.Suite
	ctx   context.Context
	now   time.Time
	store *InMemory
}

func TestInMemorySuite(t *testing.T) {
	suite.Run(t, new(InMemorySuite))
}

func (s *InMemorySuite) SetupTest() {
	s.ctx = context.Background()
	s.now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.store = NewInMemory(WithClock(func() time.Time { return s.now }))
}

func (s *InMemorySuite) draft(title string) *models.Bulletin {
	return &models.Bulletin{
		Title:    title,
		Content:  "Contenido del comunicado",
		Category: models.CategoryComunicado,
	}
}

func (s *InMemorySuite) TestCreate() {
	s.Run("draft has no publication stamp", func() {
		created, err := s.store.Create(s.ctx, s.draft("Borrador"))
		s.Require().NoError(err)
		s.False(created.Published)
		s.Nil(created.PublishedAt)
	})

	s.Run("immediate publication stamps publishedAt", func() {
		b := s.draft("Publicado")
		b.Published = true
		created, err := s.store.Create(s.ctx, b)
		s.Require().NoError(err)
		s.True(created.Published)
		s.Require().NotNil(created.PublishedAt)
		s.Equal(s.now, *created.PublishedAt)
	})
}

func (s *InMemorySuite) TestPublish() {
	created, err := s.store.Create(s.ctx, s.draft("Alerta vial"))
	s.Require().NoError(err)

	s.now = s.now.Add(time.Hour)
	published, err := s.store.Publish(s.ctx, created.ID)
	s.Require().NoError(err)
	s.True(published.Published)
	s.Require().NotNil(published.PublishedAt)
	s.Equal(s.now, *published.PublishedAt)
	s.Equal(s.now, published.UpdatedAt)

	s.Run("publishing twice conflicts and keeps the first stamp", func() {
		firstStamp := *published.PublishedAt
		s.now = s.now.Add(time.Hour)

		_, err := s.store.Publish(s.ctx, created.ID)
		s.Require().ErrorIs(err, sentinel.ErrConflict)

		got, err := s.store.GetByID(s.ctx, created.ID)
		s.Require().NoError(err)
		s.Equal(firstStamp, *got.PublishedAt)
	})

	s.Run("unknown id", func() {
		_, err := s.store.Publish(s.ctx, "missing")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *InMemorySuite) TestListPublished() {
	first, err := s.store.Create(s.ctx, s.draft("Primero"))
	s.Require().NoError(err)
	second, err := s.store.Create(s.ctx, s.draft("Segundo"))
	s.Require().NoError(err)
	_, err = s.store.Create(s.ctx, s.draft("Nunca publicado"))
	s.Require().NoError(err)

	s.now = s.now.Add(time.Hour)
	_, err = s.store.Publish(s.ctx, first.ID)
	s.Require().NoError(err)
	s.now = s.now.Add(time.Hour)
	_, err = s.store.Publish(s.ctx, second.ID)
	s.Require().NoError(err)

	published, err := s.store.ListPublished(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(published, 2)
	s.Equal("Segundo", published[0].Title)
	s.Equal("Primero", published[1].Title)

	all, err := s.store.ListAll(s.ctx)
	s.Require().NoError(err)
	s.Len(all, 3)
}

func (s *InMemorySuite) TestUpdateFields() {
	created, err := s.store.Create(s.ctx, s.draft("Título original"))
	s.Require().NoError(err)

	title := "Título corregido"
	category := models.CategoryAlerta
	updated, err := s.store.UpdateFields(s.ctx, created.ID, FieldPatch{
		Title:    &title,
		Category: &category,
	})
	s.Require().NoError(err)
	s.Equal(title, updated.Title)
	s.Equal(models.CategoryAlerta, updated.Category)
	s.Equal(created.Content, updated.Content)
}
