package lending

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	item "github.com/borrowbox/borrowbox-backend/internal/items"
	request "github.com/borrowbox/borrowbox-backend/internal/requests"
	"github.com/borrowbox/borrowbox-backend/pkg/db"
	"github.com/borrowbox/borrowbox-backend/pkg/db/models"
	"github.com/borrowbox/borrowbox-backend/pkg/enums"
	pkgerrors "github.com/borrowbox/borrowbox-backend/pkg/errors"
)

// Service coordinates the borrow request lifecycle and the item loan state.
type Service interface {
	SubmitRequest(ctx context.Context, input SubmitRequestInput) (*RequestDTO, error)
	GetRequest(ctx context.Context, requestID uuid.UUID) (*RequestDTO, error)
	ListPendingForOwner(ctx context.Context, ownerID uuid.UUID) ([]RequestDTO, error)
	Respond(ctx context.Context, requestID uuid.UUID, accept bool) (*RequestDTO, error)
	BorrowItem(ctx context.Context, input BorrowInput) error
	ReturnItem(ctx context.Context, itemID uuid.UUID) error
}

// SubmitRequestInput holds the validated payload to open a borrow request.
type SubmitRequestInput struct {
	ItemID     uuid.UUID
	BorrowerID uuid.UUID
	DueAt      *time.Time
}

// BorrowInput holds the payload for a direct loan without a request.
type BorrowInput struct {
	ItemID     uuid.UUID
	BorrowerID uuid.UUID
	DueAt      *time.Time
}

type itemStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Item, error)
	MarkBorrowed(ctx context.Context, itemID, borrowerID uuid.UUID, borrowedOn time.Time, dueAt *time.Time) (int64, error)
	MarkReturned(ctx context.Context, itemID uuid.UUID) (int64, error)
}

type requestStore interface {
	Create(ctx context.Context, req *models.BorrowRequest) (*models.BorrowRequest, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.BorrowRequest, error)
	ListPendingForOwner(ctx context.Context, ownerID uuid.UUID) ([]models.BorrowRequest, error)
	SetStatusIfPending(ctx context.Context, id uuid.UUID, status enums.RequestStatus) (int64, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type nameResolver interface {
	DisplayNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
}

// ServiceParams wires the coordinator's collaborators.
type ServiceParams struct {
	Items    *item.Repository
	Requests *request.Repository
	DB       *db.Client
	Names    nameResolver
}

type service struct {
	items        itemStore
	requests     requestStore
	tx           txRunner
	names        nameResolver
	bindItems    func(tx *gorm.DB) itemStore
	bindRequests func(tx *gorm.DB) requestStore
	now          func() time.Time
}

// NewService constructs the lifecycle coordinator.
func NewService(params ServiceParams) (Service, error) {
	if params.Items == nil {
		return nil, fmt.Errorf("item repository required")
	}
	if params.Requests == nil {
		return nil, fmt.Errorf("request repository required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db client required")
	}
	if params.Names == nil {
		return nil, fmt.Errorf("name resolver required")
	}
	return &service{
		items:    params.Items,
		requests: params.Requests,
		tx:       params.DB,
		names:    params.Names,
		bindItems: func(tx *gorm.DB) itemStore {
			return params.Items.WithTx(tx)
		},
		bindRequests: func(tx *gorm.DB) requestStore {
			return params.Requests.WithTx(tx)
		},
		now: time.Now,
	}, nil
}

// SubmitRequest opens a pending request against an available item. The item
// name and owner are copied onto the request so its history survives item
// edits.
func (s *service) SubmitRequest(ctx context.Context, input SubmitRequestInput) (*RequestDTO, error) {
	if input.BorrowerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "borrower_id is required")
	}
	if input.DueAt != nil && input.DueAt.Before(s.now()) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "due_at must be in the future")
	}

	target, err := s.items.FindByID(ctx, input.ItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
	}
	if target.OwnerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item has no owner")
	}
	if target.OwnerID == input.BorrowerID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot request your own item")
	}
	if target.Lent {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "item is currently lent")
	}

	req := &models.BorrowRequest{
		ItemID:     target.ID,
		ItemName:   target.Name,
		OwnerID:    target.OwnerID,
		BorrowerID: input.BorrowerID,
		DueAt:      input.DueAt,
		Status:     enums.RequestStatusPending,
	}

	created, err := s.requests.Create(ctx, req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert borrow request")
	}
	return s.decorateOne(ctx, created)
}

// GetRequest loads a single request with display names resolved.
func (s *service) GetRequest(ctx context.Context, requestID uuid.UUID) (*RequestDTO, error) {
	req, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "request not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load request")
	}
	return s.decorateOne(ctx, req)
}

// ListPendingForOwner returns the owner's open requests, oldest first.
func (s *service) ListPendingForOwner(ctx context.Context, ownerID uuid.UUID) ([]RequestDTO, error) {
	rows, err := s.requests.ListPendingForOwner(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pending requests")
	}
	return s.decorateMany(ctx, rows)
}

// Respond resolves a pending request. A denial only flips the request; an
// acceptance also marks the item lent, and both writes land in one
// transaction so concurrent accepts of the same item produce exactly one
// loan. The losing request stays pending for the owner to retry or deny.
func (s *service) Respond(ctx context.Context, requestID uuid.UUID, accept bool) (*RequestDTO, error) {
	req, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "request not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load request")
	}
	if req.Status.IsTerminal() {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "request already resolved")
	}

	if !accept {
		rows, err := s.requests.SetStatusIfPending(ctx, req.ID, enums.RequestStatusDenied)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: deny request")
		}
		if rows == 0 {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "request already resolved")
		}
		return s.reload(ctx, req.ID)
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txItems := s.bindItems(tx)
		txRequests := s.bindRequests(tx)

		rows, err := txItems.MarkBorrowed(ctx, req.ItemID, req.BorrowerID, s.now().UTC(), req.DueAt)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: mark item borrowed")
		}
		if rows == 0 {
			if _, ferr := txItems.FindByID(ctx, req.ItemID); ferr != nil {
				if errors.Is(ferr, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeNotFound, "item no longer exists")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, ferr, "load item")
			}
			return pkgerrors.New(pkgerrors.CodeConflict, "item is currently lent")
		}

		rows, err = txRequests.SetStatusIfPending(ctx, req.ID, enums.RequestStatusAccepted)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: accept request")
		}
		if rows == 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, "request already resolved")
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "accept request")
	}

	return s.reload(ctx, req.ID)
}

// BorrowItem marks an item lent without a prior request.
func (s *service) BorrowItem(ctx context.Context, input BorrowInput) error {
	if input.BorrowerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "borrower_id is required")
	}
	if input.DueAt != nil && input.DueAt.Before(s.now()) {
		return pkgerrors.New(pkgerrors.CodeValidation, "due_at must be in the future")
	}

	target, err := s.items.FindByID(ctx, input.ItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
	}
	if target.OwnerID == input.BorrowerID {
		return pkgerrors.New(pkgerrors.CodeValidation, "cannot borrow your own item")
	}

	rows, err := s.items.MarkBorrowed(ctx, input.ItemID, input.BorrowerID, s.now().UTC(), input.DueAt)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: mark item borrowed")
	}
	if rows == 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "item is currently lent")
	}
	return nil
}

// ReturnItem clears the loan state on a lent item.
func (s *service) ReturnItem(ctx context.Context, itemID uuid.UUID) error {
	rows, err := s.items.MarkReturned(ctx, itemID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: mark item returned")
	}
	if rows == 0 {
		if _, ferr := s.items.FindByID(ctx, itemID); ferr != nil {
			if errors.Is(ferr, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, ferr, "load item")
		}
		return pkgerrors.New(pkgerrors.CodeConflict, "item is not lent")
	}
	return nil
}

func (s *service) reload(ctx context.Context, requestID uuid.UUID) (*RequestDTO, error) {
	req, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load request")
	}
	return s.decorateOne(ctx, req)
}

func (s *service) decorateOne(ctx context.Context, req *models.BorrowRequest) (*RequestDTO, error) {
	dtos, err := s.decorateMany(ctx, []models.BorrowRequest{*req})
	if err != nil {
		return nil, err
	}
	return &dtos[0], nil
}

func (s *service) decorateMany(ctx context.Context, rows []models.BorrowRequest) ([]RequestDTO, error) {
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
		collect(row.BorrowerID)
	}

	names := map[uuid.UUID]string{}
	if len(ids) > 0 {
		resolved, err := s.names.DisplayNames(ctx, ids)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve display names")
		}
		names = resolved
	}

	dtos := make([]RequestDTO, 0, len(rows))
	for i := range rows {
		dto := NewRequestDTO(&rows[i])
		dto.OwnerName = names[rows[i].OwnerID]
		dto.BorrowerName = names[rows[i].BorrowerID]
		dtos = append(dtos, *dto)
	}
	return dtos, nil
}
