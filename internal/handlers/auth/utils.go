package auth

import (
	"bytes"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/notetube/notetube/internal/models"
)

// Hardcode the static protected routes
var staticProtectedPaths = map[string]bool{
	"/health/":        true,
	"/account/delete": true,
}

// Detect if it's a protected route
func isProtectedRoute(path string) bool {

	// The logout path
	if strings.HasPrefix(path, "/logout/") {
		return true
	}

	// The notes API routes require authentication
	if strings.HasPrefix(path, "/api/") {
		return true
	}

	return staticProtectedPaths[path]
}

// Extracts the value from the query param "redirect"
func getRedirectPath(r *http.Request) string {
	redirectParam := r.URL.Query().Get("redirect")

	if redirectParam == "" {
		return "/"
	}

	parsedURL, err := url.Parse(redirectParam)
	if err != nil {
		return "/"
	}

	// Reject absolute URLs, allow only local paths
	if parsedURL.IsAbs() || parsedURL.Host != "" {
		return "/"
	}

	if isProtectedRoute(parsedURL.Path) {
		return "/"
	}

	return redirectParam
}

// redirectWithError redirects the user back with an error marker
func redirectWithError(w http.ResponseWriter, r *http.Request, redirectTo string) {
	parsedURL, err := url.Parse(redirectTo)
	if err != nil {
		http.Redirect(w, r, "/?error=login_failed", http.StatusSeeOther)
		return
	}

	query := parsedURL.Query()
	query.Set("error", "login_failed")
	parsedURL.RawQuery = query.Encode()
	http.Redirect(w, r, parsedURL.String(), http.StatusSeeOther)
}

// Store user info in our own session
func (s *Service) loginUser(w http.ResponseWriter, r *http.Request, user *models.User) error {
	// Generate analytics ID
	user.SetAnalyticsID()

	// Parse the name, save only the first name
	user.Name = strings.Split(user.Name, " ")[0]

	// Update or insert user
	id, err := s.usersRepo.UpsertUser(r.Context(), user)
	if err != nil {
		return err
	}

	// Get a session. We're ignoring the error resulted from decoding an
	// existing session: Get() always returns a session, even if empty map[]
	session, _ := s.store.Get(r, s.config.UserSessionName)
	now := time.Now()

	// Store user values in session
	session.Values["ID"] = id
	session.Values["ProviderUserId"] = user.ProviderUserId
	session.Values["Email"] = user.Email
	session.Values["Name"] = user.Name
	session.Values["Provider"] = user.Provider
	session.Values["AvatarURL"] = user.AvatarURL
	session.Values["AnalyticsID"] = user.AnalyticsID
	session.Values["AccessToken"] = user.AccessToken
	session.Values["LastSeen"] = now
	session.Values["LastSeenDB"] = now

	// Save the session
	if err := session.Save(r, w); err != nil {
		return err
	}

	return nil
}

// GetUserFromSession resolves the current user from the session.
// Returns nil when there is no valid session.
func (s *Service) GetUserFromSession(w http.ResponseWriter, r *http.Request) *models.User {
	// Get session from store
	session, err := s.store.Get(r, s.config.UserSessionName)
	if session == nil || err != nil {
		return nil
	}

	// Get user row ID from session
	id, ok := session.Values["ID"].(int)
	if id == 0 || !ok {
		return nil
	}

	// Update last seen
	now := time.Now()
	session.Values["LastSeen"] = now

	// This will be a zero time value (January 1, year 1, 00:00:00 UTC) on fail
	lastSeenDB, _ := session.Values["LastSeenDB"].(time.Time)

	// Check if the DB update is out of sync for an entire day
	if !sameDate(lastSeenDB, now) {
		if _, err := s.usersRepo.UpdateLastUserSeen(r.Context(), id, now); err != nil {
			log.Printf("Couldn't update the last seen in DB on user '%d': %v", id, err)
		}
		session.Values["LastSeenDB"] = now
	}

	// Save the session
	session.Save(r, w)

	user := models.User{ID: id}
	user.ProviderUserId, _ = session.Values["ProviderUserId"].(string)
	user.Email, _ = session.Values["Email"].(string)
	user.Name, _ = session.Values["Name"].(string)
	user.Provider, _ = session.Values["Provider"].(string)
	user.AvatarURL, _ = session.Values["AvatarURL"].(string)
	user.AnalyticsID, _ = session.Values["AnalyticsID"].(string)
	user.AccessToken, _ = session.Values["AccessToken"].(string)

	user.LocalAvatarURL = user.GetAvatar(r.Context(), s.config, s.rdb)

	return &user
}

// Check if same dates
func sameDate(t1, t2 time.Time) bool {
	y1, m1, d1 := t1.Date()
	y2, m2, d2 := t2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// Retrieve the user final redirect value
func (s *Service) getUserFinalRedirect(w http.ResponseWriter, r *http.Request) string {

	// Check for flash cookie
	if _, err := r.Cookie(s.config.RedirectSessionName); err != nil {
		return "/"
	}

	redirectTo := "/"
	session, _ := s.store.Get(r, s.config.RedirectSessionName)
	if url, ok := session.Values["redirect"].(string); ok && url != "" {
		redirectTo = url
	}

	// Clear the redirect session created with s.store.Get
	session.Options.MaxAge = -1
	session.Values = make(map[any]any)
	session.Save(r, w)
	return redirectTo
}

// Logout the user, delete the session
func (s *Service) logoutUser(w http.ResponseWriter, r *http.Request) error {
	// Invalidate the user session
	session, err := s.store.Get(r, s.config.UserSessionName)
	if err != nil {
		return err
	}

	session.Options.MaxAge = -1
	session.Values = make(map[any]any)
	if err = session.Save(r, w); err != nil {
		return err
	}

	return nil
}

// Send revoke request. It will work if the access token is not expired.
func (s *Service) revokeLogin(user *models.User) error {

	if user.Provider != "google" {
		return fmt.Errorf(
			"unknown login provider on revoke login: %s",
			user.Provider,
		)
	}

	url := "https://oauth2.googleapis.com/revoke"
	contentType := "application/x-www-form-urlencoded"
	body := []byte("token=" + user.AccessToken)
	response, err := http.Post(url, contentType, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("revoke request failed with status: %d", response.StatusCode)
	}

	return nil
}

func (s *Service) clearCSRFCookie(w http.ResponseWriter) {
	cookie := &http.Cookie{
		Name:     s.config.CsrfSessionName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	}
	http.SetCookie(w, cookie)
}
