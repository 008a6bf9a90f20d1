package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"

	"ats-backend/internal/database"
	"ats-backend/internal/logging"
	"ats-backend/internal/model"
	"ats-backend/internal/utilities"
)

// GoogleUserInfoEndpoint returns the profile of the user owning an access token.
const GoogleUserInfoEndpoint = "https://www.googleapis.com/oauth2/v2/userinfo"

// NewGoogleOauthConfig builds the OAuth2 client configuration for Google sign in.
func NewGoogleOauthConfig(clientID string, clientSecret string, redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
			"openid",
		},
		Endpoint: google.Endpoint,
	}
}

// OauthLoginHandler struct holds the database connection and OAuth2 configuration for handling OAuth login.
type OauthLoginHandler struct {
	DB               *database.DBinstanceStruct
	OauthConfig      *oauth2.Config
	UserInfoEndpoint string
}

type code struct {
	Code string `json:"code" binding:"required"`
}

// NewOauthLoginHandler creates a new instance of OauthLoginHandler with the provided database connection and OAuth2 configuration.
func NewOauthLoginHandler(db *database.DBinstanceStruct, oauthConfig *oauth2.Config, userInfoEndpoint string) *OauthLoginHandler {
	return &OauthLoginHandler{
		DB:               db,
		OauthConfig:      oauthConfig,
		UserInfoEndpoint: userInfoEndpoint,
	}
}

func (h *OauthLoginHandler) getUserInfo(ctx context.Context, authCode string) (model.GoogleUserInfo, error) {
	var uInfo model.GoogleUserInfo

	// Exchange code with google and get userinfo
	token, err := h.OauthConfig.Exchange(ctx, authCode)
	if err != nil {
		return uInfo, fmt.Errorf("Failed to receive token: %w", err)
	}

	client := h.OauthConfig.Client(ctx, token)
	resp, err := client.Get(h.UserInfoEndpoint)
	if err != nil {
		return uInfo, fmt.Errorf("Failed to fetch user information: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logging.Logger(ctx).Warn("Failed to close response body", zap.Error(err))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return uInfo, fmt.Errorf("Failed to fetch user information: status=%d body=%s", resp.StatusCode, string(bodyBytes))
	}

	if err := json.NewDecoder(resp.Body).Decode(&uInfo); err != nil {
		return uInfo, fmt.Errorf("Failed to decode user info: %w", err)
	}
	if uInfo.GID == "" || uInfo.Email == "" {
		return uInfo, errors.New("Google user info is missing id or email")
	}
	return uInfo, nil
}

// GoogleLoginHandler signs in an existing staff account through Google.
// The Google identity is linked to the active user with the same email on first use.
// @Summary Log in with Google
// @Description Exchange an authorization code for an access token. Only existing active accounts can sign in.
// @Tags Auth
// @Accept json
// @Produce json
// @Param code body code true "Authorization code from Google"
// @Success 200 {object} model.AuthResponse
// @Failure 400 {object} utilities.ErrorResponse "Missing code or Google exchange failed"
// @Failure 401 {object} utilities.ErrorResponse "No active account for this Google user"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /auth/google [post]
func (h *OauthLoginHandler) GoogleLoginHandler(c *gin.Context) {
	var body code
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("No authorization code provided: %v", err.Error()),
		})
		return
	}

	ctx := c.Request.Context()
	uInfo, err := h.getUserInfo(ctx, body.Code)
	if err != nil {
		LogAuthAttempt(ctx, "Google", AuthFail, "", err.Error())
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		return
	}
	email := normalizeEmail(uInfo.Email)

	db := h.DB.WithContext(ctx)

	var user model.User
	err = db.Where("email = ? AND is_active = ?", email, true).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		LogAuthAttempt(ctx, "Google", AuthFail, email, "no active user")
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: invalidCredentials})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %v", err.Error()),
		})
		return
	}

	if user.GoogleID != nil && *user.GoogleID != uInfo.GID {
		LogAuthAttempt(ctx, "Google", AuthFail, email, "linked to another Google account")
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: invalidCredentials})
		return
	}

	if user.GoogleID == nil {
		gid := uInfo.GID
		if err := db.Model(&user).Update("google_id", gid).Error; err != nil {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Failed to link Google account: %v", err.Error()),
			})
			return
		}
		user.GoogleID = &gid
	}

	resp, err := authResponse(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to generate access token: %s", err.Error()),
		})
		return
	}

	LogAuthAttempt(ctx, "Google", AuthSuccess, email, "")
	c.JSON(http.StatusOK, resp)
}
