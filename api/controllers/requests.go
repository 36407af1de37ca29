package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/borrowbox/borrowbox-backend/api/responses"
	"github.com/borrowbox/borrowbox-backend/api/validators"
	lendingsvc "github.com/borrowbox/borrowbox-backend/internal/lending"
	pkgerrors "github.com/borrowbox/borrowbox-backend/pkg/errors"
	"github.com/borrowbox/borrowbox-backend/pkg/logger"
)

type submitRequestRequest struct {
	ItemID     string     `json:"item_id" validate:"required,uuid"`
	BorrowerID string     `json:"borrower_id" validate:"required,uuid"`
	DueAt      *time.Time `json:"due_at,omitempty"`
}

type respondRequestRequest struct {
	Accepted *bool `json:"accepted" validate:"required"`
}

// SubmitRequest opens a borrow request against an available item.
func SubmitRequest(svc lendingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload submitRequestRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		itemID, err := uuid.Parse(payload.ItemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid item_id"))
			return
		}
		borrowerID, err := uuid.Parse(payload.BorrowerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid borrower_id"))
			return
		}

		created, err := svc.SubmitRequest(r.Context(), lendingsvc.SubmitRequestInput{
			ItemID:     itemID,
			BorrowerID: borrowerID,
			DueAt:      payload.DueAt,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// GetRequest returns one borrow request by ID.
func GetRequest(svc lendingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID, err := uuidParam(r, "requestId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		found, err := svc.GetRequest(r.Context(), requestID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, found)
	}
}

// ListOwnerRequests returns the pending requests for an owner's items.
func ListOwnerRequests(svc lendingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, err := uuidParam(r, "ownerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.ListPendingForOwner(r.Context(), ownerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// RespondToRequest resolves a pending request with an accept or deny.
func RespondToRequest(svc lendingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID, err := uuidParam(r, "requestId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload respondRequestRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resolved, err := svc.Respond(r.Context(), requestID, *payload.Accepted)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, resolved)
	}
}
