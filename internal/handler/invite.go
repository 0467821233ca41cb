package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/lmarsolier/gestloc/internal/config"
	"github.com/lmarsolier/gestloc/internal/repository"
	"github.com/lmarsolier/gestloc/internal/utils"
)

// CreateInvite handles POST /v1/leases/:id/invite. Only the SHA-256 hash of
// the token is stored; the raw token is returned once so the owner can mail
// it to the tenant.
func (h *OwnerHandler) CreateInvite(c echo.Context) error {
	l, ok := h.ownedLease(c)
	if !ok {
		return nil
	}
	var req struct {
		Email string `json:"email"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "valid email required"})
	}

	tok, err := utils.NewInviteToken(h.InviteTTL)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue invite failed"})
	}
	id, err := h.Invites.Create(c.Request().Context(), l.ID, req.Email, utils.HashTokenRaw(tok.Raw), tok.Exp)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save invite failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"id":      id,
		"leaseId": l.ID,
		"email":   req.Email,
		"token":   tok.Raw, // raw token travels once
		"expires": tok.Exp,
	})
}

// InviteHandler serves the public acceptance endpoint. It lives apart from
// OwnerHandler because no JWT guards it.
type InviteHandler struct {
	Cfg     config.Config
	Invites *repository.InviteRepo
	Leases  *repository.LeaseRepo
	Users   *repository.UserRepo
	Tokens  *repository.TokenRepo
}

func NewInviteHandler(cfg config.Config, inv *repository.InviteRepo, leases *repository.LeaseRepo,
	users *repository.UserRepo, tokens *repository.TokenRepo) *InviteHandler {
	return &InviteHandler{Cfg: cfg, Invites: inv, Leases: leases, Users: users, Tokens: tokens}
}

type acceptInviteReq struct {
	Token    string `json:"token"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Accept handles POST /v1/invites/accept. The invitation is single-use: a
// valid token creates (or links) a TENANT account, attaches it to the lease
// and returns a fresh token pair so the tenant is signed in immediately.
func (h *InviteHandler) Accept(c echo.Context) error {
	var req acceptInviteReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Token = strings.TrimSpace(req.Token)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Token == "" || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "token/email/password required"})
	}

	ctx := c.Request().Context()
	invite, err := h.Invites.FindByHash(ctx, utils.HashTokenRaw(req.Token))
	if err != nil {
		if errors.Is(err, repository.ErrInviteNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "invitation not found or expired"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load invitation failed"})
	}
	if invite.AcceptedAt.Valid {
		return c.JSON(http.StatusConflict, echo.Map{"error": "invitation already accepted"})
	}
	if req.Email != strings.ToLower(invite.Email) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "email does not match invitation"})
	}

	// Create the tenant account, or link an existing one after checking
	// the password so a known email cannot be hijacked via an invite.
	var uid uint64
	uid, err = h.Users.Create(ctx, req.Email, req.Password, "TENANT", h.Cfg.BcryptCost)
	if err != nil {
		if !errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
		}
		u, err := h.Users.GetByEmail(ctx, req.Email)
		if err != nil {
			if err == sql.ErrNoRows {
				return c.JSON(http.StatusConflict, echo.Map{"error": "account conflict"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
		}
		if !utils.VerifyPassword(u.PasswordHash, req.Password) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		uid = u.ID
	}

	if err := h.Invites.MarkAccepted(ctx, invite.ID); err != nil {
		if errors.Is(err, repository.ErrInviteNotFound) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "invitation already accepted"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "accept invitation failed"})
	}
	if err := h.Leases.LinkTenant(ctx, invite.LeaseID, uid); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "link tenant failed"})
	}

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, uid, u.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue refresh failed"})
	}
	if err := h.Tokens.StoreRefresh(ctx, uid, utils.HashTokenRaw(refresh.Raw), refresh.Exp); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save refresh failed"})
	}

	return c.JSON(http.StatusOK, authResp{
		User:    userPart{ID: uid, Email: u.Email, Role: u.Role},
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
		Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp},
	})
}
