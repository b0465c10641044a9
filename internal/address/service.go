package address

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shoplux/shoplux-backend/pkg/db/models"
	"github.com/shoplux/shoplux-backend/pkg/enums"
	pkgerrors "github.com/shoplux/shoplux-backend/pkg/errors"
	"github.com/shoplux/shoplux-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Input carries the writable address-book fields.
type Input struct {
	Type         enums.AddressType `json:"type"`
	Label        *string           `json:"label,omitempty"`
	FullName     string            `json:"full_name"`
	Phone        string            `json:"phone"`
	Line1        string            `json:"line1"`
	Line2        *string           `json:"line2,omitempty"`
	City         string            `json:"city"`
	Region       *string           `json:"region,omitempty"`
	PostalCode   *string           `json:"postal_code,omitempty"`
	CountryCode  string            `json:"country_code"`
	Instructions *string           `json:"instructions,omitempty"`
	IsDefault    bool              `json:"is_default"`
}

// DTO is the address-book entry returned to clients.
type DTO struct {
	ID           uuid.UUID `json:"id"`
	Type         string    `json:"type"`
	Label        *string   `json:"label,omitempty"`
	FullName     string    `json:"full_name"`
	Phone        string    `json:"phone"`
	Line1        string    `json:"line1"`
	Line2        *string   `json:"line2,omitempty"`
	City         string    `json:"city"`
	Region       *string   `json:"region,omitempty"`
	PostalCode   *string   `json:"postal_code,omitempty"`
	CountryCode  string    `json:"country_code"`
	Instructions *string   `json:"instructions,omitempty"`
	IsDefault    bool      `json:"is_default"`
	CreatedAt    time.Time `json:"created_at"`
}

// Service manages the user's address book.
type Service interface {
	List(ctx context.Context, userID uuid.UUID) ([]DTO, error)
	Create(ctx context.Context, userID uuid.UUID, input Input) (*DTO, error)
	Update(ctx context.Context, userID, id uuid.UUID, input Input) (*DTO, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	SetDefault(ctx context.Context, userID, id uuid.UUID) error
	SaveDefaultFromSnapshot(ctx context.Context, userID uuid.UUID, snapshot types.PostalAddress) error
}

type service struct {
	repo *Repository
	tx   txRunner
}

func NewService(repo *Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("address repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]DTO, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list addresses")
	}
	out := make([]DTO, 0, len(rows))
	for i := range rows {
		out = append(out, toDTO(&rows[i]))
	}
	return out, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, input Input) (*DTO, error) {
	row, err := rowFromInput(userID, input)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if row.IsDefault {
			if err := repo.ClearDefault(ctx, userID, row.Type); err != nil {
				return err
			}
		}
		return repo.Create(ctx, row)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create address")
	}
	dto := toDTO(row)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, userID, id uuid.UUID, input Input) (*DTO, error) {
	updated, err := rowFromInput(userID, input)
	if err != nil {
		return nil, err
	}

	var result *models.Address
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		existing, err := repo.FindByIDForUser(ctx, userID, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load address")
		}

		if updated.IsDefault && (!existing.IsDefault || existing.Type != updated.Type) {
			if err := repo.ClearDefault(ctx, userID, updated.Type); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear default")
			}
		}

		updated.ID = existing.ID
		updated.CreatedAt = existing.CreatedAt
		if err := repo.Update(ctx, updated); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update address")
		}
		result = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	dto := toDTO(result)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	ok, err := s.repo.Delete(ctx, userID, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete address")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
	}
	return nil
}

// SetDefault promotes the address inside one transaction: the previous
// default for the same type is unset first so the partial unique index
// always holds.
func (s *service) SetDefault(ctx context.Context, userID, id uuid.UUID) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		row, err := repo.FindByIDForUser(ctx, userID, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load address")
		}
		if row.IsDefault {
			return nil
		}
		if err := repo.ClearDefault(ctx, userID, row.Type); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear default")
		}
		ok, err := repo.SetDefault(ctx, userID, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set default")
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
		}
		return nil
	})
}

// SaveDefaultFromSnapshot persists a checkout shipping address as the new
// default shipping entry.
func (s *service) SaveDefaultFromSnapshot(ctx context.Context, userID uuid.UUID, snapshot types.PostalAddress) error {
	if err := snapshot.Validate(); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "address incomplete")
	}
	_, err := s.Create(ctx, userID, Input{
		Type:         enums.AddressTypeShipping,
		FullName:     snapshot.FullName,
		Phone:        snapshot.Phone,
		Line1:        snapshot.Line1,
		Line2:        snapshot.Line2,
		City:         snapshot.City,
		Region:       snapshot.Region,
		PostalCode:   snapshot.PostalCode,
		CountryCode:  snapshot.CountryCode,
		Instructions: snapshot.Instructions,
		IsDefault:    true,
	})
	return err
}

func rowFromInput(userID uuid.UUID, input Input) (*models.Address, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	addressType := input.Type
	if addressType == "" {
		addressType = enums.AddressTypeShipping
	}
	if !addressType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown address type")
	}
	snapshot := types.PostalAddress{
		FullName:    input.FullName,
		Phone:       input.Phone,
		Line1:       input.Line1,
		City:        input.City,
		CountryCode: strings.ToUpper(strings.TrimSpace(input.CountryCode)),
	}
	if err := snapshot.Validate(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "address incomplete")
	}

	return &models.Address{
		UserID:       userID,
		Type:         addressType,
		Label:        input.Label,
		FullName:     strings.TrimSpace(input.FullName),
		Phone:        strings.TrimSpace(input.Phone),
		Line1:        strings.TrimSpace(input.Line1),
		Line2:        input.Line2,
		City:         strings.TrimSpace(input.City),
		Region:       input.Region,
		PostalCode:   input.PostalCode,
		CountryCode:  snapshot.CountryCode,
		Instructions: input.Instructions,
		IsDefault:    input.IsDefault,
	}, nil
}

func toDTO(row *models.Address) DTO {
	return DTO{
		ID:           row.ID,
		Type:         row.Type.String(),
		Label:        row.Label,
		FullName:     row.FullName,
		Phone:        row.Phone,
		Line1:        row.Line1,
		Line2:        row.Line2,
		City:         row.City,
		Region:       row.Region,
		PostalCode:   row.PostalCode,
		CountryCode:  row.CountryCode,
		Instructions: row.Instructions,
		IsDefault:    row.IsDefault,
		CreatedAt:    row.CreatedAt,
	}
}
