package item

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/borrowbox/borrowbox-backend/pkg/db/models"
	pkgerrors "github.com/borrowbox/borrowbox-backend/pkg/errors"
)

// Service exposes item listing management operations.
type Service interface {
	CreateItem(ctx context.Context, input CreateItemInput) (*ItemDTO, error)
	GetItem(ctx context.Context, itemID uuid.UUID) (*ItemDTO, error)
	ListItems(ctx context.Context) ([]ItemDTO, error)
	ListOwnedBy(ctx context.Context, ownerID uuid.UUID) ([]ItemDTO, error)
	ListBorrowedBy(ctx context.Context, borrowerID uuid.UUID) ([]ItemDTO, error)
	UpdateItem(ctx context.Context, itemID uuid.UUID, input UpdateItemInput) (*ItemDTO, error)
	DeleteItem(ctx context.Context, itemID uuid.UUID) (bool, error)
}

// CreateItemInput holds the validated payload to list an item.
type CreateItemInput struct {
	Name        string
	PricePerDay float64
	PictureURL  *string
	Location    *string
	Condition   *string
	OwnerID     uuid.UUID
}

// UpdateItemInput holds mutation values for an item. Zero values leave the
// stored field untouched; the lending fields are never writable here.
type UpdateItemInput struct {
	Name        string
	PricePerDay float64
	PictureURL  string
	Location    string
	Condition   string
}

type nameResolver interface {
	DisplayNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
}

type service struct {
	repo  *Repository
	names nameResolver
}

// NewService constructs an item service instance.
func NewService(repo *Repository, names nameResolver) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("item repository required")
	}
	if names == nil {
		return nil, fmt.Errorf("name resolver required")
	}
	return &service{repo: repo, names: names}, nil
}

// CreateItem lists a new item. New listings always start available.
func (s *service) CreateItem(ctx context.Context, input CreateItemInput) (*ItemDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.OwnerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "owner_id is required")
	}
	if input.PricePerDay < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price_per_day must be non-negative")
	}

	item := &models.Item{
		Name:        name,
		PricePerDay: input.PricePerDay,
		PictureURL:  input.PictureURL,
		Location:    input.Location,
		Condition:   input.Condition,
		OwnerID:     input.OwnerID,
		Lent:        false,
	}

	created, err := s.repo.Create(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert item")
	}
	return s.decorateOne(ctx, created)
}

// GetItem loads a single item with display names resolved.
func (s *service) GetItem(ctx context.Context, itemID uuid.UUID) (*ItemDTO, error) {
	item, err := s.repo.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
	}
	return s.decorateOne(ctx, item)
}

// ListItems returns the full catalog, newest first.
func (s *service) ListItems(ctx context.Context) ([]ItemDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list items")
	}
	return s.decorateMany(ctx, rows)
}

// ListOwnedBy returns the items listed by an owner.
func (s *service) ListOwnedBy(ctx context.Context, ownerID uuid.UUID) ([]ItemDTO, error) {
	rows, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list items by owner")
	}
	return s.decorateMany(ctx, rows)
}

// ListBorrowedBy returns the items a borrower currently holds.
func (s *service) ListBorrowedBy(ctx context.Context, borrowerID uuid.UUID) ([]ItemDTO, error) {
	rows, err := s.repo.ListByBorrower(ctx, borrowerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list items by borrower")
	}
	return s.decorateMany(ctx, rows)
}

// UpdateItem merges the provided fields into the stored item. Lending state
// is owned by the lifecycle flows and cannot be changed through here.
func (s *service) UpdateItem(ctx context.Context, itemID uuid.UUID, input UpdateItemInput) (*ItemDTO, error) {
	if input.PricePerDay < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price_per_day must be non-negative")
	}

	item, err := s.repo.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
	}

	applyUpdateToItem(item, input)

	updated, err := s.repo.Update(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update item")
	}
	return s.decorateOne(ctx, updated)
}

// DeleteItem removes an available item. Deleting a lent item is refused so a
// live loan never loses its listing; a missing item reports deleted=false.
func (s *service) DeleteItem(ctx context.Context, itemID uuid.UUID) (bool, error) {
	item, err := s.repo.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
	}
	if item.Lent {
		return false, pkgerrors.New(pkgerrors.CodeConflict, "item is currently lent")
	}

	deleted, err := s.repo.Delete(ctx, itemID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete item")
	}
	return deleted, nil
}

func applyUpdateToItem(item *models.Item, input UpdateItemInput) {
	if name := strings.TrimSpace(input.Name); name != "" {
		item.Name = name
	}
	if input.PricePerDay > 0 {
		item.PricePerDay = input.PricePerDay
	}
	if input.PictureURL != "" {
		value := input.PictureURL
		item.PictureURL = &value
	}
	if input.Location != "" {
		value := input.Location
		item.Location = &value
	}
	if input.Condition != "" {
		value := input.Condition
		item.Condition = &value
	}
}

func (s *service) decorateOne(ctx context.Context, item *models.Item) (*ItemDTO, error) {
	dtos, err := s.decorateMany(ctx, []models.Item{*item})
	if err != nil {
		return nil, err
	}
	return &dtos[0], nil
}

func (s *service) decorateMany(ctx context.Context, rows []models.Item) ([]ItemDTO, error) {
	ids := make([]uuid.UUID, 0, len(rows)*2)
	seen := make(map[uuid.UUID]struct{}, len(rows)*2)
	collect := func(id uuid.UUID) {
		if id == uuid.Nil {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	for _, row := range rows {
		collect(row.OwnerID)
		if row.BorrowerID != nil {
			collect(*row.BorrowerID)
		}
	}

	names := map[uuid.UUID]string{}
	if len(ids) > 0 {
		resolved, err := s.names.DisplayNames(ctx, ids)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve display names")
		}
		names = resolved
	}

	dtos := make([]ItemDTO, 0, len(rows))
	for i := range rows {
		dto := NewItemDTO(&rows[i])
		dto.OwnerName = names[rows[i].OwnerID]
		if rows[i].BorrowerID != nil {
			dto.BorrowerName = names[*rows[i].BorrowerID]
		}
		dtos = append(dtos, *dto)
	}
	return dtos, nil
}
