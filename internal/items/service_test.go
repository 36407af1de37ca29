package item

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/borrowbox/borrowbox-backend/pkg/db/models"
	pkgerrors "github.com/borrowbox/borrowbox-backend/pkg/errors"
)

type fakeNameResolver struct {
	names map[uuid.UUID]string
	calls int
}

func (f *fakeNameResolver) DisplayNames(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	f.calls++
	out := make(map[uuid.UUID]string, len(ids))
	for _, id := range ids {
		if name, ok := f.names[id]; ok {
			out[id] = name
		}
	}
	return out, nil
}

func TestCreateItemValidation(t *testing.T) {
	svc := &service{names: &fakeNameResolver{}}

	cases := []struct {
		name  string
		input CreateItemInput
	}{
		{"missing name", CreateItemInput{OwnerID: uuid.New()}},
		{"blank name", CreateItemInput{Name: "   ", OwnerID: uuid.New()}},
		{"missing owner", CreateItemInput{Name: "Ladder"}},
		{"negative price", CreateItemInput{Name: "Ladder", OwnerID: uuid.New(), PricePerDay: -1}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateItem(context.Background(), tc.input)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error code, got %v", err)
			}
		})
	}
}

func TestApplyUpdateToItemKeepsUnsetFields(t *testing.T) {
	location := "Garage"
	item := &models.Item{
		Name:        "Tent",
		PricePerDay: 3,
		Location:    &location,
	}

	applyUpdateToItem(item, UpdateItemInput{Name: "  Family Tent  ", Condition: "good"})

	if item.Name != "Family Tent" {
		t.Fatalf("expected trimmed name, got %q", item.Name)
	}
	if item.PricePerDay != 3 {
		t.Fatalf("expected price untouched, got %v", item.PricePerDay)
	}
	if item.Location == nil || *item.Location != "Garage" {
		t.Fatalf("expected location untouched, got %v", item.Location)
	}
	if item.Condition == nil || *item.Condition != "good" {
		t.Fatalf("expected condition set, got %v", item.Condition)
	}
}

func TestDecorateManyResolvesNamesOnce(t *testing.T) {
	owner := uuid.New()
	borrower := uuid.New()
	resolver := &fakeNameResolver{names: map[uuid.UUID]string{
		owner:    "Ana Ruiz",
		borrower: "Ben Okafor",
	}}
	svc := &service{names: resolver}

	rows := []models.Item{
		{ID: uuid.New(), Name: "Drill", OwnerID: owner, Lent: true, BorrowerID: &borrower},
		{ID: uuid.New(), Name: "Tent", OwnerID: owner},
	}

	dtos, err := svc.decorateMany(context.Background(), rows)
	if err != nil {
		t.Fatalf("decorate: %v", err)
	}
	if resolver.calls != 1 {
		t.Fatalf("expected a single resolver call, got %d", resolver.calls)
	}
	if dtos[0].OwnerName != "Ana Ruiz" || dtos[0].BorrowerName != "Ben Okafor" {
		t.Fatalf("unexpected names on first dto: %q %q", dtos[0].OwnerName, dtos[0].BorrowerName)
	}
	if dtos[1].BorrowerName != "" {
		t.Fatalf("expected no borrower name on available item, got %q", dtos[1].BorrowerName)
	}
}

func TestDecorateManyEmptySliceSkipsResolver(t *testing.T) {
	resolver := &fakeNameResolver{}
	svc := &service{names: resolver}

	dtos, err := svc.decorateMany(context.Background(), nil)
	if err != nil {
		t.Fatalf("decorate: %v", err)
	}
	if len(dtos) != 0 {
		t.Fatalf("expected empty result, got %d", len(dtos))
	}
	if resolver.calls != 0 {
		t.Fatalf("expected resolver not to be called, got %d calls", resolver.calls)
	}
}
