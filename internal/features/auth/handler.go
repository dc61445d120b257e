package auth

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"

	"github.com/devtrailhq/devtrail/internal/config"
	"github.com/devtrailhq/devtrail/internal/pkg/logger"
	"github.com/devtrailhq/devtrail/internal/pkg/response"
	"github.com/devtrailhq/devtrail/internal/pkg/token"
)

const resetTokenTTL = 10 * time.Minute

// Sender delivers transactional mail. Satisfied by the SMTP mailer.
type Sender interface {
	Send(to, subject, body string) error
}

type Handler struct {
	repo *Repository
	cfg  *config.Config
	mail Sender
}

func NewHandler(repo *Repository, cfg *config.Config, mail Sender) *Handler {
	return &Handler{repo: repo, cfg: cfg, mail: mail}
}

// Register godoc
// @Summary Register a new user
// @Description Create an account with the user or publisher role
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.ErrorEnvelope
// @Router /auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request format")
		return
	}

	if err := ValidateRegister(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		response.InternalServerError(c, "Failed to process password")
		return
	}

	user := &User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashed),
		Role:     req.Role,
	}

	// The unique email index is the source of truth for duplicates; the
	// driver error maps to a 400 in the translator.
	if err := h.repo.Create(c.Request.Context(), user); err != nil {
		response.FromError(c, err)
		return
	}

	h.sendTokenResponse(c, user, http.StatusOK)
}

// Login godoc
// @Summary Log in
// @Description Authenticate with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.ErrorEnvelope
// @Router /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Please provide an email and password")
		return
	}

	user, err := h.repo.FindByEmail(c.Request.Context(), req.Email)
	if err != nil {
		response.FromError(c, err)
		return
	}
	if user == nil {
		response.Unauthorized(c, "Invalid credentials")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		response.Unauthorized(c, "Invalid credentials")
		return
	}

	if !user.Active {
		response.Unauthorized(c, "This account has been deactivated")
		return
	}

	h.sendTokenResponse(c, user, http.StatusOK)
}

// Logout godoc
// @Summary Log out
// @Description Clear the token cookie
// @Tags auth
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /auth/logout [get]
func (h *Handler) Logout(c *gin.Context) {
	c.SetCookie("token", "none", 10, "/", "", h.cfg.IsProduction(), true)
	response.Success(c, gin.H{})
}

// Me godoc
// @Summary Get the current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.ErrorEnvelope
// @Router /auth/me [get]
func (h *Handler) Me(c *gin.Context) {
	user, _ := CurrentUser(c)
	response.Success(c, user)
}

// UpdateProfile godoc
// @Summary Update the current user's profile
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /auth/updateuserprofile [patch]
func (h *Handler) UpdateProfile(c *gin.Context) {
	user, _ := CurrentUser(c)

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request format")
		return
	}

	updates, err := buildProfileUpdates(&req)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if len(updates) > 0 {
		if err := h.repo.UpdateFields(c.Request.Context(), user.ID, updates); err != nil {
			response.FromError(c, err)
			return
		}
	}

	updated, err := h.repo.FindByID(c.Request.Context(), user.ID.Hex())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, updated)
}

// UpdatePassword godoc
// @Summary Change the current user's password
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.ErrorEnvelope
// @Router /auth/updateuserpassword [put]
func (h *Handler) UpdatePassword(c *gin.Context) {
	user, _ := CurrentUser(c)

	var req UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request format")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		response.Unauthorized(c, "Password is incorrect")
		return
	}

	if err := ValidatePassword(req.NewPassword); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		response.InternalServerError(c, "Failed to process password")
		return
	}

	if err := h.repo.UpdateFields(c.Request.Context(), user.ID, bson.M{"password": string(hashed)}); err != nil {
		response.FromError(c, err)
		return
	}

	h.sendTokenResponse(c, user, http.StatusOK)
}

// ForgotPassword godoc
// @Summary Request a password reset token
// @Description Email a single-use reset link to the account address
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.ErrorEnvelope
// @Router /auth/forgotpassword [post]
func (h *Handler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Please provide an email")
		return
	}

	user, err := h.repo.FindByEmail(c.Request.Context(), req.Email)
	if err != nil {
		response.FromError(c, err)
		return
	}
	if user == nil {
		response.NotFound(c, "There is no user with that email")
		return
	}

	plain, digest, err := NewResetToken()
	if err != nil {
		response.InternalServerError(c, "Failed to generate reset token")
		return
	}

	if err := h.repo.SetResetToken(c.Request.Context(), user.ID, digest, time.Now().Add(resetTokenTTL)); err != nil {
		response.FromError(c, err)
		return
	}

	resetURL := fmt.Sprintf("%s://%s/api/v1/auth/resetpassword/%s", requestScheme(c), c.Request.Host, plain)
	body := fmt.Sprintf("You are receiving this email because you (or someone else) has requested the reset of a password. Please make a PUT request to: \n\n%s", resetURL)

	if h.mail == nil || h.mail.Send(user.Email, "Password reset token", body) != nil {
		// Roll the credential back so a failed send leaves nothing usable.
		if err := h.repo.ClearResetToken(c.Request.Context(), user.ID); err != nil {
			logger.L.Error().Err(err).Str("userId", user.ID.Hex()).Msg("failed to clear reset token")
		}
		response.InternalServerError(c, "Email could not be sent")
		return
	}

	response.Success(c, "Email sent")
}

// ResetPassword godoc
// @Summary Reset password with an emailed token
// @Tags auth
// @Accept json
// @Produce json
// @Param resettoken path string true "Reset token"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.ErrorEnvelope
// @Router /auth/resetpassword/{resettoken} [put]
func (h *Handler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Please provide a new password")
		return
	}

	if err := ValidatePassword(req.Password); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	digest := HashToken(c.Param("resettoken"))
	user, err := h.repo.FindByResetToken(c.Request.Context(), digest, time.Now())
	if err != nil {
		response.FromError(c, err)
		return
	}
	if user == nil {
		response.BadRequest(c, "Invalid token")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		response.InternalServerError(c, "Failed to process password")
		return
	}

	if err := h.repo.UpdateFields(c.Request.Context(), user.ID, bson.M{"password": string(hashed)}); err != nil {
		response.FromError(c, err)
		return
	}
	if err := h.repo.ClearResetToken(c.Request.Context(), user.ID); err != nil {
		logger.L.Error().Err(err).Str("userId", user.ID.Hex()).Msg("failed to clear reset token")
	}

	h.sendTokenResponse(c, user, http.StatusOK)
}

// buildProfileUpdates validates the changed fields and produces the update
// document. Bio and website accept empty strings so they can be cleared.
func buildProfileUpdates(req *UpdateProfileRequest) (bson.M, error) {
	updates := bson.M{}

	if req.Name != nil {
		if err := ValidateName(*req.Name); err != nil {
			return nil, err
		}
		updates["name"] = *req.Name
	}
	if req.Email != nil {
		if err := ValidateEmail(*req.Email); err != nil {
			return nil, err
		}
		updates["email"] = *req.Email
	}
	if req.Bio != nil {
		updates["bio"] = *req.Bio
	}
	if req.Website != nil {
		updates["website"] = *req.Website
	}

	return updates, nil
}

// sendTokenResponse signs a token for the user, sets it as an httpOnly
// cookie and returns it in the body alongside the user document.
func (h *Handler) sendTokenResponse(c *gin.Context, user *User, status int) {
	signed, err := token.Generate(user.ID.Hex(), user.Role, h.cfg.JWTSecret, time.Duration(h.cfg.JWTExpireHours)*time.Hour)
	if err != nil {
		response.InternalServerError(c, "Failed to generate token")
		return
	}

	maxAge := h.cfg.CookieExpireDays * 24 * 60 * 60
	c.SetCookie("token", signed, maxAge, "/", "", h.cfg.IsProduction(), true)

	c.JSON(status, gin.H{
		"success": true,
		"token":   signed,
		"data":    user,
	})
}

func requestScheme(c *gin.Context) string {
	if c.Request.TLS != nil {
		return "https"
	}
	return "http"
}
