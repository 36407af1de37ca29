package controllers

import (
	"net/http"
	"time"

	"github.com/borrowbox/borrowbox-backend/api/responses"
	"github.com/borrowbox/borrowbox-backend/api/validators"
	itemsvc "github.com/borrowbox/borrowbox-backend/internal/items"
	lendingsvc "github.com/borrowbox/borrowbox-backend/internal/lending"
	pkgerrors "github.com/borrowbox/borrowbox-backend/pkg/errors"
	"github.com/borrowbox/borrowbox-backend/pkg/logger"
	"github.com/google/uuid"
)

type createItemRequest struct {
	Name        string  `json:"name" validate:"required"`
	PricePerDay float64 `json:"price_per_day" validate:"gte=0"`
	PictureURL  *string `json:"picture_url,omitempty"`
	Location    *string `json:"location,omitempty"`
	Condition   *string `json:"condition,omitempty"`
	OwnerID     string  `json:"owner_id" validate:"required,uuid"`
}

type updateItemRequest struct {
	Name        string  `json:"name,omitempty"`
	PricePerDay float64 `json:"price_per_day,omitempty" validate:"omitempty,gte=0"`
	PictureURL  string  `json:"picture_url,omitempty"`
	Location    string  `json:"location,omitempty"`
	Condition   string  `json:"condition,omitempty"`
}

type borrowItemRequest struct {
	BorrowerID string     `json:"borrower_id" validate:"required,uuid"`
	DueAt      *time.Time `json:"due_at,omitempty"`
}

// CreateItem handles new listings.
func CreateItem(svc itemsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ownerID, err := uuid.Parse(payload.OwnerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid owner_id"))
			return
		}

		created, err := svc.CreateItem(r.Context(), itemsvc.CreateItemInput{
			Name:        payload.Name,
			PricePerDay: payload.PricePerDay,
			PictureURL:  payload.PictureURL,
			Location:    payload.Location,
			Condition:   payload.Condition,
			OwnerID:     ownerID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// ListItems returns the full catalog.
func ListItems(svc itemsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListItems(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

// GetItem returns one item by ID.
func GetItem(svc itemsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := uuidParam(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		found, err := svc.GetItem(r.Context(), itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, found)
	}
}

// ListItemsByOwner returns an owner's listings.
func ListItemsByOwner(svc itemsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, err := uuidParam(r, "ownerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.ListOwnedBy(r.Context(), ownerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

// ListItemsByBorrower returns the items a borrower currently holds.
func ListItemsByBorrower(svc itemsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		borrowerID, err := uuidParam(r, "borrowerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.ListBorrowedBy(r.Context(), borrowerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

// UpdateItem merges the provided fields into an existing listing.
func UpdateItem(svc itemsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := uuidParam(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.UpdateItem(r.Context(), itemID, itemsvc.UpdateItemInput{
			Name:        payload.Name,
			PricePerDay: payload.PricePerDay,
			PictureURL:  payload.PictureURL,
			Location:    payload.Location,
			Condition:   payload.Condition,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

// DeleteItem removes an available listing. A missing item is not an error;
// the response reports deleted=false so removal is repeatable.
func DeleteItem(svc itemsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := uuidParam(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		deleted, err := svc.DeleteItem(r.Context(), itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": deleted})
	}
}

// BorrowItem lends an item directly, without a prior request.
func BorrowItem(lending lendingsvc.Service, items itemsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := uuidParam(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload borrowItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		borrowerID, err := uuid.Parse(payload.BorrowerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid borrower_id"))
			return
		}

		if err := lending.BorrowItem(r.Context(), lendingsvc.BorrowInput{
			ItemID:     itemID,
			BorrowerID: borrowerID,
			DueAt:      payload.DueAt,
		}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := items.GetItem(r.Context(), itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

// ReturnItem ends a loan and makes the item available again.
func ReturnItem(lending lendingsvc.Service, items itemsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := uuidParam(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := lending.ReturnItem(r.Context(), itemID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := items.GetItem(r.Context(), itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}
