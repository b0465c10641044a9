package reviews

import (
	"time"

	"github.com/google/uuid"

	"github.com/shoplux/shoplux-backend/pkg/db/models"
	"github.com/shoplux/shoplux-backend/pkg/pagination"
)

// ReviewDTO is the wire shape of one review.
type ReviewDTO struct {
	ID               uuid.UUID `json:"id"`
	ProductID        uuid.UUID `json:"product_id"`
	Rating           int       `json:"rating"`
	Title            *string   `json:"title,omitempty"`
	Comment          string    `json:"comment"`
	VerifiedPurchase bool      `json:"verified_purchase"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// PageDTO carries one page of a product's reviews.
type PageDTO struct {
	Items      []ReviewDTO `json:"items"`
	NextCursor *string     `json:"next_cursor,omitempty"`
}

func newReviewDTO(row *models.Review) ReviewDTO {
	return ReviewDTO{
		ID:               row.ID,
		ProductID:        row.ProductID,
		Rating:           row.Rating,
		Title:            row.Title,
		Comment:          row.Comment,
		VerifiedPurchase: row.VerifiedPurchase,
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
	}
}

func newPageDTO(rows []models.Review, next *pagination.Cursor) PageDTO {
	items := make([]ReviewDTO, 0, len(rows))
	for i := range rows {
		items = append(items, newReviewDTO(&rows[i]))
	}
	page := PageDTO{Items: items}
	if next != nil {
		encoded := pagination.EncodeCursor(*next)
		page.NextCursor = &encoded
	}
	return page
}
