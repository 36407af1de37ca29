package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	lendingsvc "github.com/borrowbox/borrowbox-backend/internal/lending"
	pkgerrors "github.com/borrowbox/borrowbox-backend/pkg/errors"
	"github.com/borrowbox/borrowbox-backend/pkg/enums"
)

func TestSubmitRequestSuccess(t *testing.T) {
	itemID := uuid.New()
	borrowerID := uuid.New()
	dueAt := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)

	svc := &testLendingService{
		submitFn: func(_ context.Context, input lendingsvc.SubmitRequestInput) (*lendingsvc.RequestDTO, error) {
			if input.ItemID != itemID || input.BorrowerID != borrowerID {
				t.Fatalf("unexpected input %+v", input)
			}
			if input.DueAt == nil || !input.DueAt.Equal(dueAt) {
				t.Fatalf("due date not passed through: %v", input.DueAt)
			}
			return &lendingsvc.RequestDTO{
				ID:         uuid.New(),
				ItemID:     input.ItemID,
				BorrowerID: input.BorrowerID,
				Status:     string(enums.RequestStatusPending),
			}, nil
		},
	}

	body := `{"item_id":"` + itemID.String() + `","borrower_id":"` + borrowerID.String() +
		`","due_at":"` + dueAt.Format(time.RFC3339) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/requests", strings.NewReader(body))
	resp := httptest.NewRecorder()

	SubmitRequest(svc, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data lendingsvc.RequestDTO `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data.Status != string(enums.RequestStatusPending) {
		t.Fatalf("unexpected status %q", envelope.Data.Status)
	}
}

func TestSubmitRequestRejectsBadItemID(t *testing.T) {
	body := `{"item_id":"not-a-uuid","borrower_id":"` + uuid.NewString() + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/requests", strings.NewReader(body))
	resp := httptest.NewRecorder()

	SubmitRequest(&testLendingService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestRespondToRequestRequiresAccept(t *testing.T) {
	requestID := uuid.NewString()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/requests/"+requestID+"/respond", strings.NewReader(`{}`))
	req = addRouteParam(req, "requestId", requestID)
	resp := httptest.NewRecorder()

	RespondToRequest(&testLendingService{}, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestRespondToRequestAccept(t *testing.T) {
	requestID := uuid.New()
	svc := &testLendingService{
		respondFn: func(_ context.Context, id uuid.UUID, accept bool) (*lendingsvc.RequestDTO, error) {
			if id != requestID {
				t.Fatalf("unexpected request id %s", id)
			}
			if !accept {
				t.Fatal("expected accept=true")
			}
			return &lendingsvc.RequestDTO{ID: id, Status: string(enums.RequestStatusAccepted)}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/requests/"+requestID.String()+"/respond", strings.NewReader(`{"accepted":true}`))
	req = addRouteParam(req, "requestId", requestID.String())
	resp := httptest.NewRecorder()

	RespondToRequest(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data lendingsvc.RequestDTO `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data.Status != string(enums.RequestStatusAccepted) {
		t.Fatalf("unexpected status %q", envelope.Data.Status)
	}
}

func TestRespondToRequestDenyFalseAccepted(t *testing.T) {
	requestID := uuid.New()
	svc := &testLendingService{
		respondFn: func(_ context.Context, _ uuid.UUID, accept bool) (*lendingsvc.RequestDTO, error) {
			if accept {
				t.Fatal("expected accept=false")
			}
			return &lendingsvc.RequestDTO{ID: requestID, Status: string(enums.RequestStatusDenied)}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/requests/"+requestID.String()+"/respond", strings.NewReader(`{"accepted":false}`))
	req = addRouteParam(req, "requestId", requestID.String())
	resp := httptest.NewRecorder()

	RespondToRequest(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestRespondToRequestResolvedConflicts(t *testing.T) {
	svc := &testLendingService{
		respondFn: func(context.Context, uuid.UUID, bool) (*lendingsvc.RequestDTO, error) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "request is already resolved")
		},
	}

	requestID := uuid.NewString()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/requests/"+requestID+"/respond", strings.NewReader(`{"accepted":true}`))
	req = addRouteParam(req, "requestId", requestID)
	resp := httptest.NewRecorder()

	RespondToRequest(svc, testLogger())(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.Code)
	}
}
