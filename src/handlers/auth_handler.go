package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"budget-planner-server/src/config"
	db "budget-planner-server/src/db/sql"
	"budget-planner-server/src/middleware"
	"budget-planner-server/src/models"
	"budget-planner-server/src/session"
	"budget-planner-server/src/util"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

func Register(pool *pgxpool.Pool, sessions session.Store, cfg config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.Credentials
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode register request body: %v", err)
			writeError(w, http.StatusBadRequest, "invalid request")
			return
		}

		req.Email = strings.ToLower(strings.TrimSpace(req.Email))

		if !util.ValidateEmail(req.Email) {
			log.Printf("ERROR: Email validation failed during registration - Email: %s", req.Email)
			writeError(w, http.StatusBadRequest, "invalid email format")
			return
		}

		if !util.ValidatePassword(req.Password) {
			log.Printf("ERROR: Password validation failed during registration - Email: %s", req.Email)
			writeError(w, http.StatusBadRequest, "password must be at least 8 characters with uppercase, lowercase, digit, and special character")
			return
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("ERROR: Failed to hash password for %s: %v", req.Email, err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		user, err := db.CreateUser(r.Context(), pool, req.Email, string(hashedPassword))
		if err != nil {
			if errors.Is(err, db.ErrDuplicateEmail) {
				log.Printf("ERROR: Registration failed - email already exists - Email: %s", req.Email)
				writeError(w, http.StatusConflict, "email already registered")
				return
			}
			log.Printf("ERROR: Failed to create user %s: %v", req.Email, err)
			writeStoreError(w, err, "internal error")
			return
		}

		sess := sessions.Create(user.ID, user.Email)
		setSessionCookie(w, cfg, sess.ID)

		log.Printf("INFO: Successful registration - User: %s, ID: %d", user.Email, user.ID)
		writeJSON(w, http.StatusCreated, models.SessionResponse{UserID: user.ID, Email: user.Email})
	}
}

func Login(pool *pgxpool.Pool, sessions session.Store, cfg config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.Credentials
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode login request body: %v", err)
			writeError(w, http.StatusBadRequest, "invalid request")
			return
		}

		req.Email = strings.ToLower(strings.TrimSpace(req.Email))

		// Unknown email and wrong password answer identically; neither
		// creates a session.
		user, err := db.GetUserByEmail(r.Context(), pool, req.Email)
		if err != nil {
			if !errors.Is(err, db.ErrNotFound) {
				log.Printf("ERROR: Failed to look up user during login - Email: %s: %v", req.Email, err)
				writeStoreError(w, err, "invalid credentials")
				return
			}
			log.Printf("ERROR: Login attempt for unknown email %s from IP %s", req.Email, r.RemoteAddr)
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}

		if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(req.Password)); err != nil {
			log.Printf("ERROR: Invalid password attempt for email %s from IP %s", req.Email, r.RemoteAddr)
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}

		sess := sessions.Create(user.ID, user.Email)
		setSessionCookie(w, cfg, sess.ID)

		log.Printf("INFO: Successful login - User: %s, ID: %d", user.Email, user.ID)
		writeJSON(w, http.StatusOK, models.SessionResponse{UserID: user.ID, Email: user.Email})
	}
}

// Logout destroys the session if one is presented. Destroying a missing or
// already-destroyed session still succeeds.
func Logout(sessions session.Store, cfg config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil && cookie.Value != "" {
			sessions.Destroy(cookie.Value)
		}
		clearSessionCookie(w, cfg)
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}

// Session reports the current user. Runs behind the session middleware, so
// the identity comes from the resolved session only.
func Session() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := userIDFromContext(r)
		email, _ := r.Context().Value("email").(string)
		writeJSON(w, http.StatusOK, models.SessionResponse{UserID: userID, Email: email})
	}
}

func setSessionCookie(w http.ResponseWriter, cfg config.Config, sessionID string) {
	http.SetCookie(w, sessionCookie(cfg, sessionID, int(cfg.SessionTTL.Seconds())))
}

func clearSessionCookie(w http.ResponseWriter, cfg config.Config) {
	http.SetCookie(w, sessionCookie(cfg, "", -1))
}

// Secure + SameSite=None in production so the cookie survives the
// cross-site hop from the hosted frontend; Lax otherwise.
func sessionCookie(cfg config.Config, value string, maxAge int) *http.Cookie {
	sameSite := http.SameSiteLaxMode
	if cfg.Production {
		sameSite = http.SameSiteNoneMode
	}
	return &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   cfg.Production,
		SameSite: sameSite,
	}
}
