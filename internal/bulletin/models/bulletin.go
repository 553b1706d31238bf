package models

import (
	"strings"
	"time"

	dErrors "pfaportal/pkg/domain-errors"
)

// Category labels a bulletin for the public board.
type Category string

const (
	CategoryAlerta     Category = "Alerta"
	CategoryComunicado Category = "Comunicado"
	CategoryNoticia    Category = "Noticia"
	CategoryOtro       Category = "Otro"
)

var Categories = []Category{CategoryAlerta, CategoryComunicado, CategoryNoticia, CategoryOtro}

// Bulletin is a staff-authored announcement.
//
// Invariant: PublishedAt is set if and only if Published is true. Bulletins
// are created in draft and publish exactly once; the public board only ever
// sees published ones.
type Bulletin struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	Category    Category   `json:"category"`
	Author      string     `json:"author,omitempty"`
	Published   bool       `json:"published"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// CreateBulletinRequest is the staff creation payload. Published=true
// publishes immediately at creation.
type CreateBulletinRequest struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	Category  string `json:"category"`
	Author    string `json:"author"`
	Published bool   `json:"published"`
}

// Validate accumulates field errors.
func (r *CreateBulletinRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	r.Content = strings.TrimSpace(r.Content)
	r.Category = strings.TrimSpace(r.Category)
	r.Author = strings.TrimSpace(r.Author)

	var errs []dErrors.FieldError
	if r.Title == "" {
		errs = append(errs, dErrors.FieldError{Field: "title", Reason: "El título es requerido"})
	}
	if r.Content == "" {
		errs = append(errs, dErrors.FieldError{Field: "content", Reason: "El contenido es requerido"})
	}
	if !validCategory(Category(r.Category)) {
		errs = append(errs, dErrors.FieldError{Field: "category", Reason: "Categoría inválida"})
	}
	if len(errs) > 0 {
		return dErrors.NewValidation("invalid bulletin", errs)
	}
	return nil
}

// ToBulletin builds the record-creation payload; the store assigns id and
// timestamps, and stamps publishedAt when Published is set.
func (r *CreateBulletinRequest) ToBulletin() *Bulletin {
	return &Bulletin{
		Title:     r.Title,
		Content:   r.Content,
		Category:  Category(r.Category),
		Author:    r.Author,
		Published: r.Published,
	}
}

func validCategory(c Category) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}
