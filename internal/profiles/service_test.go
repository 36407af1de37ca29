package profile

import (
	"context"
	"testing"

	"github.com/borrowbox/borrowbox-backend/pkg/db/models"
	pkgerrors "github.com/borrowbox/borrowbox-backend/pkg/errors"
)

func TestCreateProfileValidation(t *testing.T) {
	svc := &service{}

	cases := []struct {
		name  string
		input CreateProfileInput
	}{
		{"missing name", CreateProfileInput{Email: "a@example.com"}},
		{"missing email", CreateProfileInput{FirstName: "Ana"}},
		{"blank email", CreateProfileInput{FirstName: "Ana", Email: "   "}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateProfile(context.Background(), tc.input)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error code, got %v", err)
			}
		})
	}
}

func TestApplyUpdateToProfileKeepsUnsetFields(t *testing.T) {
	phone := "555-0100"
	profile := &models.Profile{
		FirstName: "Ana",
		LastName:  "Ruiz",
		Email:     "ana@example.com",
		Phone:     &phone,
	}

	applyUpdateToProfile(profile, UpdateProfileInput{LastName: " Ruiz-Vega ", Address: "12 Elm St"})

	if profile.FirstName != "Ana" {
		t.Fatalf("expected first name untouched, got %q", profile.FirstName)
	}
	if profile.LastName != "Ruiz-Vega" {
		t.Fatalf("expected trimmed last name, got %q", profile.LastName)
	}
	if profile.Phone == nil || *profile.Phone != "555-0100" {
		t.Fatalf("expected phone untouched, got %v", profile.Phone)
	}
	if profile.Address == nil || *profile.Address != "12 Elm St" {
		t.Fatalf("expected address set, got %v", profile.Address)
	}
	if profile.Email != "ana@example.com" {
		t.Fatalf("expected email untouched, got %q", profile.Email)
	}
}

func TestProfileDisplayName(t *testing.T) {
	cases := []struct {
		first, last, want string
	}{
		{"Ana", "Ruiz", "Ana Ruiz"},
		{"Ana", "", "Ana"},
		{"", "Ruiz", "Ruiz"},
	}
	for _, tc := range cases {
		profile := models.Profile{FirstName: tc.first, LastName: tc.last}
		if got := profile.DisplayName(); got != tc.want {
			t.Fatalf("expected %q, got %q", tc.want, got)
		}
	}
}
