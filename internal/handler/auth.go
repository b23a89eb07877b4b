package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/stockroom/internal/domain/user"
)

// SessionCookie is the name of the session token cookie.
const SessionCookie = "stockroom_session"

const forbiddenMsg = "You are not authorized to perform this action."

type userCtxKey struct{}

// userFrom returns the authenticated user stored by RequireUser. Must only
// be called from handlers behind that middleware.
func userFrom(ctx context.Context) *user.User {
	u, _ := ctx.Value(userCtxKey{}).(*user.User)
	return u
}

// sessionToken extracts the session token from the cookie or, failing that,
// an Authorization bearer header.
func sessionToken(r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

// RequireUser resolves the session and stores the user on the request
// context. Unauthenticated requests are redirected to the login page.
func (h *Handler) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := sessionToken(r)
		if token == "" {
			redirect(w, "/login", "Authentication required.")
			return
		}

		u, err := h.sessions.Resolve(r.Context(), token)
		if err != nil {
			redirect(w, "/login", "Authentication required.")
			return
		}

		ctx := context.WithValue(r.Context(), userCtxKey{}, u)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin rejects non-administrators with 403. It never redirects: the
// caller is authenticated, just not allowed.
func (h *Handler) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u := userFrom(r.Context()); u == nil || !u.IsAdmin() {
			writeError(w, http.StatusForbidden, forbiddenMsg)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RegisterForm describes the registration form fields.
func (h *Handler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	writeFormDescription(w, "/register", []string{"username", "password1", "password2"})
}

// LoginForm describes the login form fields.
func (h *Handler) LoginForm(w http.ResponseWriter, r *http.Request) {
	writeFormDescription(w, "/login", []string{"username", "password"})
}

func writeFormDescription(w http.ResponseWriter, action string, fields []string) {
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("action")
		e.Str(action)
		e.FieldStart("fields")
		e.ArrStart()
		for _, f := range fields {
			e.Str(f)
		}
		e.ArrEnd()
		e.ObjEnd()
	})
}

// Register creates a new account from form input and redirects to the login
// page. Validation failures re-present the form errors and create nothing.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "malformed form data")
		return
	}

	_, err := h.users.Register(r.Context(), user.RegisterRequest{
		Username:  r.PostFormValue("username"),
		Password1: r.PostFormValue("password1"),
		Password2: r.PostFormValue("password2"),
	})
	if err != nil {
		if field := registrationField(err); field != "" {
			writeFieldError(w, field, err.Error())
			return
		}
		zctx.From(r.Context()).Error("Registration failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "registration failed")
		return
	}

	redirect(w, "/login", "Account created. Please log in.")
}

// registrationField maps a registration error to the offending form field.
// An empty result means the error is not a validation error.
func registrationField(err error) string {
	switch {
	case errors.Is(err, user.ErrUsernameRequired),
		errors.Is(err, user.ErrUsernameTooShort),
		errors.Is(err, user.ErrUsernameTaken):
		return "username"
	case errors.Is(err, user.ErrPasswordTooShort):
		return "password1"
	case errors.Is(err, user.ErrPasswordMismatch):
		return "password2"
	}
	return ""
}

// Login verifies credentials, establishes a session, and redirects by role:
// administrators to the product list, everyone else to the user dashboard.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "malformed form data")
		return
	}

	u, err := h.users.Authenticate(r.Context(), r.PostFormValue("username"), r.PostFormValue("password"))
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		zctx.From(r.Context()).Error("Login failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	token, err := h.sessions.Issue(r.Context(), u.ID)
	if err != nil {
		zctx.From(r.Context()).Error("Session issue failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	if u.IsAdmin() {
		redirect(w, "/admin/products", "Logged in.")
		return
	}
	redirect(w, "/dashboard", "Logged in.")
}

// Logout revokes the current session, clears the cookie, and redirects to
// the login page.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := sessionToken(r); token != "" {
		if err := h.sessions.Revoke(r.Context(), token); err != nil {
			zctx.From(r.Context()).Warn("Session revoke failed", zap.Error(err))
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	redirect(w, "/login", "Logged out.")
}
