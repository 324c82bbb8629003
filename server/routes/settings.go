// Copyright 2024 - 2026, the Table for Two contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/evanmaskanazi/datinglanguage/core/cookie"
	"github.com/evanmaskanazi/datinglanguage/core/untrusted"
	"github.com/evanmaskanazi/datinglanguage/i18n"
	"github.com/evanmaskanazi/datinglanguage/server/request_context"
	"github.com/evanmaskanazi/datinglanguage/server/utils"
)

var errNoSuchSetting = errors.New("no such setting is available")

// setLanguage switches the active locale.
//
// The durable preference and the cookie are updated together so the choice
// survives both server restarts (file state) and cookie loss (state file).
func setLanguage(w http.ResponseWriter, r *http.Request) (string, error) {
	code := i18n.Code(utils.GetFormValue(r, "language"))

	if err := localeState.SetLocale(code); err != nil {
		return "", fmt.Errorf("cannot switch language to %q: %w", code, err)
	}

	untrusted.SetCookie(w, r, cookie.LangCookie, string(code))

	return fmt.Sprintf("Language set to %s.", i18n.NativeName(code)), nil
}

// setTheme stores the visual theme preference.
func setTheme(w http.ResponseWriter, r *http.Request) (string, error) {
	theme := utils.GetFormValue(r, "theme")
	if theme != "light" && theme != "dark" {
		return "", fmt.Errorf("%w: invalid theme %q", errNoSuchSetting, theme)
	}

	untrusted.SetCookie(w, r, cookie.ThemeCookie, theme)

	return fmt.Sprintf("Theme set to %s.", theme), nil
}

//nolint:unparam
func setLogout(w http.ResponseWriter, r *http.Request) (string, error) {
	// Clear-Site-Data header with wildcard to clear everything
	w.Header().Set("Clear-Site-Data", "*")

	// Cookie clearing as fallback
	untrusted.ClearCookie(w, r, cookie.TokenCookie)
	untrusted.ClearCookie(w, r, cookie.CSRFCookie)

	return "Successfully logged out.", nil
}

//nolint:unparam
func resetAll(w http.ResponseWriter, r *http.Request) (string, error) {
	// Clear-Site-Data header with wildcard to clear everything
	w.Header().Set("Clear-Site-Data", "*")

	// Cookie clearing as fallback
	untrusted.ClearAllCookies(w, r)

	return "All preferences have been reset to default values.", nil
}

var actions = map[string]func(http.ResponseWriter, *http.Request) (string, error){
	"language":  setLanguage,
	"theme":     setTheme,
	"logout":    setLogout,
	"reset_all": resetAll,
}

// SettingsPOST applies a single setting: POST /settings/{action}.
func SettingsPOST(w http.ResponseWriter, r *http.Request) error {
	var err error

	if action, ok := actions[utils.GetPathVar(r, "action")]; ok {
		_, err = action(w, r)
	} else {
		err = errNoSuchSetting
	}

	if err != nil {
		// Bad settings input is the caller's fault, not a server failure.
		request_context.FromRequest(r).StatusCode = http.StatusBadRequest
		w.WriteHeader(http.StatusBadRequest)
		ErrorPage(w, r)

		return err
	}

	returnPath := utils.SanitizeReturnPath(r.FormValue("returnPath"))
	if returnPath == "" {
		returnPath = "/"
	}

	http.Redirect(w, r, returnPath, http.StatusSeeOther)

	return nil
}
