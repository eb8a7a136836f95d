package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/traveljournal/apiserver/config"
	"github.com/traveljournal/apiserver/internal/services"
	"github.com/traveljournal/apiserver/internal/store"
	"github.com/traveljournal/apiserver/types"
	"golang.org/x/crypto/bcrypt"
)

const defaultTokenTTL = 72 * time.Hour

// AuthHandler provides account registration, login, and the
// token-gated profile endpoint.
type AuthHandler struct {
	userService *services.UserService
	secret      []byte
	tokenTTL    time.Duration
}

// NewAuthHandler constructs an AuthHandler with the provided dependencies.
func NewAuthHandler(userService *services.UserService, cfg config.AuthConfig) *AuthHandler {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &AuthHandler{
		userService: userService,
		secret:      []byte(cfg.JWTSecret),
		tokenTTL:    ttl,
	}
}

// AuthRouter registers account routes on the given router.
func AuthRouter(r chi.Router, userService *services.UserService, cfg config.AuthConfig) {
	handler := NewAuthHandler(userService, cfg)

	r.Post("/create-account", handler.CreateAccount)
	r.Post("/login", handler.Login)
	r.With(handler.RequireAuth).Get("/get-user", handler.GetUser)
}

// RequireAuth enforces bearer-token authentication and injects the
// token subject into the request context.
func (h *AuthHandler) RequireAuth(next http.Handler) http.Handler {
	return requireAuth(h.secret)(next)
}

// RequireAuth constructs auth middleware for other routers.
func RequireAuth(cfg config.AuthConfig) func(http.Handler) http.Handler {
	return requireAuth([]byte(cfg.JWTSecret))
}

func requireAuth(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, err := bearerToken(r)
			if err != nil {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}

			subject, err := parseTokenSubject(tokenString, secret)
			if err != nil {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), contextSubjectKey, subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

type RegisterRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is the success body for registration and login.
type AuthResponse struct {
	Error       bool             `json:"error"`
	User        types.PublicUser `json:"user"`
	AccessToken string           `json:"accessToken"`
	Message     string           `json:"message"`
}

// UserResponse is the success body for the profile endpoint.
type UserResponse struct {
	User    types.User `json:"user"`
	Message string     `json:"message"`
}

// CreateAccount registers a new account and returns an access token.
func (h *AuthHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	fullName := strings.TrimSpace(req.FullName)
	email := strings.TrimSpace(req.Email)
	if fullName == "" || email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "All fields are required")
		return
	}

	if _, err := h.userService.GetByEmail(r.Context(), email); err == nil {
		writeError(w, http.StatusBadRequest, "User already exists")
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusBadRequest, "Failed to create account")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to create account")
		return
	}

	user, err := h.userService.Create(r.Context(), types.User{
		FullName:     fullName,
		Email:        email,
		PasswordHash: string(hashed),
	})
	if err != nil {
		// The unique index closes the window between the existence
		// check and the insert.
		if errors.Is(err, store.ErrDuplicate) {
			writeError(w, http.StatusBadRequest, "User already exists")
			return
		}
		writeError(w, http.StatusBadRequest, "Failed to create account")
		return
	}

	token, err := issueToken(user.ID, h.secret, h.tokenTTL)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to create account")
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{
		User:        user.Public(),
		AccessToken: token,
		Message:     "Registration Successfully",
	})
}

// Login verifies credentials and returns an access token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "Email and Password are required")
		return
	}

	user, err := h.userService.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeMessage(w, http.StatusBadRequest, "User not found")
			return
		}
		writeMessage(w, http.StatusBadRequest, "Failed to authenticate")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid Credentials")
		return
	}

	token, err := issueToken(user.ID, h.secret, h.tokenTTL)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Failed to authenticate")
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{
		User:        user.Public(),
		AccessToken: token,
		Message:     "Login Successfully",
	})
}

// GetUser returns the account resolved from the bearer token.
func (h *AuthHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	user, err := h.userService.GetByID(r.Context(), userID)
	if err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	writeJSON(w, http.StatusOK, UserResponse{User: user, Message: ""})
}

func issueToken(userID int, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	// iat/exp carry whole-second precision, so the jti is what keeps two
	// tokens minted in the same second from colliding.
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   strconv.Itoa(userID),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func parseTokenSubject(tokenString string, secret []byte) (string, error) {
	claims := jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return secret, nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", errors.New("invalid token")
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return "", errors.New("missing subject")
	}
	return claims.Subject, nil
}

func bearerToken(r *http.Request) (string, error) {
	auth := strings.TrimSpace(r.Header.Get("Authorization"))
	if auth == "" {
		return "", errors.New("missing authorization")
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization")
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", errors.New("invalid authorization")
	}
	return token, nil
}
