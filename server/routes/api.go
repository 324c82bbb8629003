// Copyright 2024 - 2026, the Table for Two contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/evanmaskanazi/datinglanguage/config"
	"github.com/evanmaskanazi/datinglanguage/core/apiclient"
	"github.com/evanmaskanazi/datinglanguage/core/untrusted"
	"github.com/evanmaskanazi/datinglanguage/i18n"
	"github.com/evanmaskanazi/datinglanguage/server/utils"
)

// localeEntry describes one supported locale in API responses.
type localeEntry struct {
	Code      i18n.Code      `json:"code"`
	Name      string         `json:"name"`
	Direction i18n.Direction `json:"direction"`
	Active    bool           `json:"active"`
}

// localeResponse is the payload of GET /api/locale.
type localeResponse struct {
	Active    i18n.Code      `json:"active"`
	Direction i18n.Direction `json:"direction"`
	Supported []localeEntry  `json:"supported"`
}

// LocaleAPI reports the active locale and the supported set: GET /api/locale.
func LocaleAPI(w http.ResponseWriter, r *http.Request) error {
	active := effectiveLocale(r)

	resp := localeResponse{
		Active:    active,
		Direction: i18n.DirectionOf(active),
	}

	for _, code := range i18n.Supported() {
		resp.Supported = append(resp.Supported, localeEntry{
			Code:      code,
			Name:      i18n.NativeName(code),
			Direction: i18n.DirectionOf(code),
			Active:    code == active,
		})
	}

	return writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": resp})
}

// BootstrapAPI hands the browse view everything it needs in one round trip:
// the active locale, its full catalog, and the signed-in user's profile and
// upcoming reservations fetched from the backend concurrently.
//
// Backend failures degrade to a locale-only payload so the page still renders.
func BootstrapAPI(w http.ResponseWriter, r *http.Request) error {
	active := effectiveLocale(r)

	payload := map[string]any{
		"locale":    active,
		"direction": i18n.DirectionOf(active),
		"catalog":   json.RawMessage(i18n.CatalogFor(active)),
	}

	if token := untrusted.GetUserToken(r); token != "" {
		results, err := apiclient.GetMany(r.Context(), []string{
			apiclient.Endpoint("/api/user/profile"),
			apiclient.Endpoint("/api/matches"),
			apiclient.Endpoint("/api/reservations/upcoming"),
		}, token, r.Header)
		if err != nil {
			if apiclient.IsContextCanceled(err) {
				return nil
			}

			log.Ctx(r.Context()).Warn().
				Err(err).
				Msg("Bootstrap backend fetch failed, serving locale data only")
		} else {
			payload["profile"] = json.RawMessage(results[0])
			payload["matches"] = json.RawMessage(results[1])
			payload["reservations"] = json.RawMessage(results[2])
		}
	}

	return writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": payload})
}

// reservationFields maps form fields to their validators, mirroring what the
// backend enforces so most mistakes never leave the front-end.
var reservationFields = []struct {
	name      string
	validator string
}{
	{"restaurant_id", "required"},
	{"date", "date"},
	{"time", "time_slot"},
	{"party_size", "party_size"},
}

// ReservationsAPI books a table: POST /api/reservations.
func ReservationsAPI(w http.ResponseWriter, r *http.Request) error {
	token := untrusted.GetUserToken(r)
	if token == "" {
		return NewUnauthorizedError("/pages/reservations")
	}

	locale := effectiveLocale(r)

	booking := make(map[string]string, len(reservationFields))

	for _, field := range reservationFields {
		value := utils.GetFormValue(r, field.name)

		ok, messageKey, err := formValidators.Validate(field.validator, value)
		if err != nil {
			return err
		}

		if !ok {
			return writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"success": false,
				"field":   field.name,
				"error":   i18n.Resolve(locale, messageKey),
			})
		}

		booking[field.name] = value
	}

	data, err := apiclient.PostJSONData(
		r.Context(),
		apiclient.Endpoint("/api/reservations"),
		booking,
		token,
		untrusted.GetCSRFToken(r),
		r.Header,
	)
	if err != nil {
		if apiclient.IsContextCanceled(err) {
			return nil
		}

		var apiErr *apiclient.APIError
		if errors.As(err, &apiErr) {
			return writeJSON(w, apiErr.StatusCode, map[string]any{
				"success": false,
				"error":   apiErr.Message,
			})
		}

		return err
	}

	return writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"data":    json.RawMessage(data),
	})
}

// HealthPage reports liveness: GET /healthz.
func HealthPage(w http.ResponseWriter, r *http.Request) error {
	return writeJSON(w, http.StatusOK, map[string]any{
		"status":  "healthy",
		"version": config.BuildVersion,
	})
}

// writeJSON encodes v and sends it with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, v any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(statusCode)

	return json.NewEncoder(w).Encode(v)
}
