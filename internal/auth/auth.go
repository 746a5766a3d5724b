package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/campuslab/campus-events-api/internal/config"
	"github.com/campuslab/campus-events-api/internal/models"
	"github.com/campuslab/campus-events-api/internal/workflow"
	"github.com/danielgtaylor/huma/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
	"gorm.io/gorm"
)

const (
	DiscordAuthorizeEndpoint = "https://discord.com/api/oauth2/authorize"
	DiscordTokenEndpoint     = "https://discord.com/api/oauth2/token"
	DiscordUserAPI           = "https://discord.com/api/users/@me"
	DiscordUserGuildsAPI     = "https://discord.com/api/users/@me/guilds"
)

const TokenDuration = 24 * time.Hour

type AuthHandler struct {
	oauthConfig *oauth2.Config
	db          *gorm.DB
	cfg         *config.Config
}

func NewAuthHandler(cfg *config.Config, db *gorm.DB) *AuthHandler {
	return &AuthHandler{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.DiscordClientID,
			ClientSecret: cfg.DiscordClientSecret,
			RedirectURL:  cfg.DiscordRedirectURL,
			Scopes:       []string{"identify", "email", "guilds"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  DiscordAuthorizeEndpoint,
				TokenURL: DiscordTokenEndpoint,
			},
		},
		db:  db,
		cfg: cfg,
	}
}

// AuthInput carries the browser cookie into huma operations.
type AuthInput struct {
	Cookie string `header:"Cookie"`
}

func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	url := h.oauthConfig.AuthCodeURL("state", oauth2.AccessTypeOnline)
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

func (h *AuthHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "Code not found", http.StatusBadRequest)
		return
	}

	token, err := h.oauthConfig.Exchange(context.Background(), code)
	if err != nil {
		http.Error(w, "Failed to exchange token", http.StatusInternalServerError)
		return
	}

	client := h.oauthConfig.Client(context.Background(), token)

	// Check Guild Membership
	if h.cfg.DiscordGuildID != "" {
		guildsResp, err := client.Get(DiscordUserGuildsAPI)
		if err != nil {
			http.Error(w, "Failed to get user guilds", http.StatusInternalServerError)
			return
		}
		defer guildsResp.Body.Close()

		var guilds []struct {
			ID string `json:"id"`
		}
		if err := json.NewDecoder(guildsResp.Body).Decode(&guilds); err != nil {
			http.Error(w, "Failed to decode user guilds", http.StatusInternalServerError)
			return
		}

		isMember := false
		for _, g := range guilds {
			if g.ID == h.cfg.DiscordGuildID {
				isMember = true
				break
			}
		}

		if !isMember {
			http.Error(w, "Access denied: You are not a member of the campus server.", http.StatusForbidden)
			return
		}
	}

	// Get User Info
	resp, err := client.Get(DiscordUserAPI)
	if err != nil {
		http.Error(w, "Failed to get user info", http.StatusInternalServerError)
		return
	}
	defer resp.Body.Close()

	var discordUser struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
		Avatar   string `json:"avatar"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&discordUser); err != nil {
		http.Error(w, "Failed to decode user info", http.StatusInternalServerError)
		return
	}

	var user models.User
	if err := h.db.FirstOrInit(&user, models.User{DiscordID: discordUser.ID}).Error; err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	user.Username = discordUser.Username
	user.Email = discordUser.Email
	user.Avatar = discordUser.Avatar
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	if user.Category == "" {
		user.Category = h.cfg.DefaultCategory
	}
	if h.cfg.IsSuperadmin(user.DiscordID) {
		user.Role = models.RoleSuperAdmin
	}

	if err := h.db.Save(&user).Error; err != nil {
		http.Error(w, "Failed to save user", http.StatusInternalServerError)
		return
	}

	jwtToken, err := h.GenerateToken(user.ID)
	if err != nil {
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    jwtToken,
		Expires:  time.Now().Add(TokenDuration),
		HttpOnly: true,
		Path:     "/",
	})

	http.Redirect(w, r, h.cfg.FrontendURL, http.StatusTemporaryRedirect)
}

func (h *AuthHandler) GenerateToken(userID uint) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(TokenDuration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.cfg.JWTSecret))
}

// parseToken verifies a JWT and returns the user id inside it.
func (h *AuthHandler) parseToken(tokenString string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(h.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, fmt.Errorf("invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, fmt.Errorf("invalid token claims")
	}
	userIDFloat, ok := claims["user_id"].(float64)
	if !ok || userIDFloat == 0 {
		return 0, fmt.Errorf("invalid token claims")
	}
	return uint(userIDFloat), nil
}

// tokenExpiry returns the exp claim of a verified token.
func (h *AuthHandler) tokenExpiry(tokenString string) (time.Time, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(h.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return time.Time{}, fmt.Errorf("invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return time.Time{}, fmt.Errorf("invalid token claims")
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		return time.Time{}, fmt.Errorf("token has no expiry")
	}
	return time.Unix(int64(exp), 0), nil
}

// cookieToken digs the auth_token value out of a raw Cookie header.
func cookieToken(cookieHeader string) (string, bool) {
	for _, part := range strings.Split(cookieHeader, ";") {
		name, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if found && name == "auth_token" {
			return value, true
		}
	}
	return "", false
}

// Authorize resolves the calling user id from either the API-key middleware
// (already in the context) or the JWT cookie.
func (h *AuthHandler) Authorize(ctx context.Context, cookieHeader string) (uint, error) {
	if userID, ok := ctx.Value(UserIDKey).(uint); ok && userID != 0 {
		return userID, nil
	}
	tokenString, ok := cookieToken(cookieHeader)
	if !ok {
		return 0, huma.Error401Unauthorized("Unauthorized: No token found")
	}
	userID, err := h.parseToken(tokenString)
	if err != nil {
		return 0, huma.Error401Unauthorized("Unauthorized: Invalid token")
	}
	return userID, nil
}

// Actor authorizes the request and loads the user as a workflow actor.
func (h *AuthHandler) Actor(ctx context.Context, cookieHeader string) (workflow.Actor, error) {
	userID, err := h.Authorize(ctx, cookieHeader)
	if err != nil {
		return workflow.Actor{}, err
	}
	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		return workflow.Actor{}, huma.Error401Unauthorized("Unauthorized: Unknown user")
	}
	return workflow.Actor{ID: user.ID, Name: user.Username, Role: user.Role}, nil
}

type MeOutput struct {
	Body struct {
		ID       uint        `json:"id"`
		Username string      `json:"username"`
		Email    string      `json:"email"`
		Avatar   string      `json:"avatar"`
		Role     models.Role `json:"role"`
		Category string      `json:"category"`
	}
}

func (h *AuthHandler) HandleMe(ctx context.Context, input *AuthInput) (*MeOutput, error) {
	userID, err := h.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		return nil, huma.Error404NotFound("User not found")
	}

	out := &MeOutput{}
	out.Body.ID = user.ID
	out.Body.Username = user.Username
	out.Body.Email = user.Email
	out.Body.Avatar = user.Avatar
	out.Body.Role = user.Role
	out.Body.Category = user.Category
	return out, nil
}
