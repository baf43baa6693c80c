package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	mediasvc "github.com/romatertia749-eng/StudNet/internal/services/media"
	profilesvc "github.com/romatertia749-eng/StudNet/internal/services/profiles"
	"github.com/romatertia749-eng/StudNet/internal/transport/http/dto"
	httperrors "github.com/romatertia749-eng/StudNet/internal/transport/http/errors"
)

const maxProfileFormSize = 20 << 20 // 20 MiB

type ProfileHandler struct {
	service *profilesvc.Service
}

func NewProfileHandler(service *profilesvc.Service) *ProfileHandler {
	return &ProfileHandler{service: service}
}

func (h *ProfileHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxProfileFormSize)
	if err := r.ParseMultipartForm(maxProfileFormSize); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid multipart form")
		return
	}

	userID, err := strconv.ParseInt(strings.TrimSpace(r.FormValue("user_id")), 10, 64)
	if err != nil || userID <= 0 {
		writeBadRequest(w, "VALIDATION_ERROR", "user_id must be a positive integer")
		return
	}

	age := parseIntOrDefault(r.FormValue("age"), 0)

	interests, err := parseStringList(r.FormValue("interests"))
	if err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "interests must be a JSON array or a comma-separated list")
		return
	}
	goals, err := parseStringList(r.FormValue("goals"))
	if err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "goals must be a JSON array or a comma-separated list")
		return
	}

	in := profilesvc.UpsertInput{
		UserID:     userID,
		Username:   optionalFormValue(r, "username"),
		FirstName:  optionalFormValue(r, "first_name"),
		LastName:   optionalFormValue(r, "last_name"),
		Name:       r.FormValue("name"),
		Gender:     r.FormValue("gender"),
		Age:        age,
		City:       r.FormValue("city"),
		University: r.FormValue("university"),
		Interests:  interests,
		Goals:      goals,
		Bio:        optionalFormValue(r, "bio"),
	}

	file, header, err := r.FormFile("photo")
	switch {
	case err == nil:
		defer file.Close()
		if header == nil || header.Size <= 0 {
			writeBadRequest(w, "VALIDATION_ERROR", "photo is empty")
			return
		}
		contentType := header.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		in.Photo = &profilesvc.PhotoUpload{
			FileName:    header.Filename,
			ContentType: contentType,
			Body:        file,
			Size:        header.Size,
		}
	case errors.Is(err, http.ErrMissingFile):
		// photo stays optional on update
	default:
		writeBadRequest(w, "VALIDATION_ERROR", "invalid photo upload")
		return
	}

	profile, err := h.service.Upsert(r.Context(), in)
	if err != nil {
		handleProfileError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.NewProfileResponse(profile))
}

func (h *ProfileHandler) Check(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	userID, ok := parseInt64Param(r, "user_id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "user_id must be a positive integer")
		return
	}

	exists, err := h.service.Exists(r.Context(), userID)
	if err != nil {
		handleProfileError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.ProfileCheckResponse{HasProfile: exists})
}

func (h *ProfileHandler) ByUser(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	userID, ok := parseInt64Param(r, "user_id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "user_id must be a positive integer")
		return
	}

	profile, err := h.service.GetByUserID(r.Context(), userID)
	if err != nil {
		handleProfileError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.NewProfileResponse(profile))
}

func (h *ProfileHandler) ByID(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	profileID, ok := parseInt64Param(r, "profile_id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "profile_id must be a positive integer")
		return
	}

	profile, err := h.service.GetByID(r.Context(), profileID)
	if err != nil {
		handleProfileError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.NewProfileResponse(profile))
}

func handleProfileError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, profilesvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, profilesvc.ErrNotFound):
		writeNotFound(w, "PROFILE_NOT_FOUND", "profile not found")
	case errors.Is(err, mediasvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "invalid photo upload")
	case errors.Is(err, mediasvc.ErrDependency):
		writeDependency(w, "STORAGE_UNAVAILABLE", "photo storage is unavailable")
	default:
		writeInternal(w, "INTERNAL_ERROR", "profile operation failed")
	}
}

func parseInt64Param(r *http.Request, name string) (int64, bool) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value <= 0 {
		return 0, false
	}
	return value, true
}

func optionalFormValue(r *http.Request, name string) *string {
	value := strings.TrimSpace(r.FormValue(name))
	if value == "" {
		return nil
	}
	return &value
}

// parseStringList accepts either a JSON array ("[\"go\",\"music\"]") or a
// comma-separated string; clients have shipped both. A value that opens like
// a JSON array but fails to parse is rejected rather than comma-split.
func parseStringList(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if strings.HasPrefix(raw, "[") {
		var items []string
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			return nil, fmt.Errorf("malformed list: %w", err)
		}
		return items, nil
	}
	return strings.Split(raw, ","), nil
}
