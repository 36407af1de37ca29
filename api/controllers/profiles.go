package controllers

import (
	"net/http"

	"github.com/borrowbox/borrowbox-backend/api/responses"
	"github.com/borrowbox/borrowbox-backend/api/validators"
	profilesvc "github.com/borrowbox/borrowbox-backend/internal/profiles"
	pkgerrors "github.com/borrowbox/borrowbox-backend/pkg/errors"
	"github.com/borrowbox/borrowbox-backend/pkg/logger"
)

type createProfileRequest struct {
	FirstName  string  `json:"first_name" validate:"required"`
	LastName   string  `json:"last_name,omitempty"`
	Email      string  `json:"email" validate:"required,email"`
	Phone      *string `json:"phone,omitempty"`
	Address    *string `json:"address,omitempty"`
	PictureURL *string `json:"picture_url,omitempty"`
}

type updateProfileRequest struct {
	FirstName  string `json:"first_name,omitempty"`
	LastName   string `json:"last_name,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Address    string `json:"address,omitempty"`
	PictureURL string `json:"picture_url,omitempty"`
}

// CreateProfile registers a new account.
func CreateProfile(svc profilesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createProfileRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.CreateProfile(r.Context(), profilesvc.CreateProfileInput{
			FirstName:  payload.FirstName,
			LastName:   payload.LastName,
			Email:      payload.Email,
			Phone:      payload.Phone,
			Address:    payload.Address,
			PictureURL: payload.PictureURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// GetProfile returns one profile by ID.
func GetProfile(svc profilesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, err := uuidParam(r, "profileId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		found, err := svc.GetProfile(r.Context(), profileID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, found)
	}
}

// GetProfileByEmail returns the profile registered under an email address,
// looked up via the email query parameter.
func GetProfileByEmail(svc profilesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email := r.URL.Query().Get("email")
		if email == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "email query parameter is required"))
			return
		}

		found, err := svc.GetProfileByEmail(r.Context(), email)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, found)
	}
}

// UpdateProfile merges the provided fields into an existing profile.
func UpdateProfile(svc profilesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, err := uuidParam(r, "profileId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProfileRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.UpdateProfile(r.Context(), profileID, profilesvc.UpdateProfileInput{
			FirstName:  payload.FirstName,
			LastName:   payload.LastName,
			Phone:      payload.Phone,
			Address:    payload.Address,
			PictureURL: payload.PictureURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

// DeleteProfile removes an account; a missing profile reports deleted=false.
func DeleteProfile(svc profilesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profileID, err := uuidParam(r, "profileId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		deleted, err := svc.DeleteProfile(r.Context(), profileID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": deleted})
	}
}
