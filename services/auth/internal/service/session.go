package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Skotchmaster/internhub/pkg/events"
	"github.com/Skotchmaster/internhub/pkg/hash"
	"github.com/Skotchmaster/internhub/pkg/logging"
	"github.com/Skotchmaster/internhub/pkg/roles"
	"github.com/Skotchmaster/internhub/pkg/tokens"
	"github.com/Skotchmaster/internhub/services/auth/internal/models"
	"github.com/Skotchmaster/internhub/services/auth/internal/repo"
)

// RefreshStore persists refresh records. Every call is atomic on its own;
// no operation here spans more than one record.
type RefreshStore interface {
	CreateRefresh(ctx context.Context, userID string, expiresAt time.Time) (*models.RefreshToken, error)
	FindRefreshByID(ctx context.Context, id string) (*models.RefreshToken, error)
	DeleteRefreshByID(ctx context.Context, id string) error
	DeleteRefreshByUser(ctx context.Context, userID string) (int64, error)
}

type SessionService struct {
	Codec       *tokens.Codec
	Store       RefreshStore
	Directories map[roles.Role]Directory
	Events      events.Publisher
}

type LoginResult struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
}

func NewSessionService(codec *tokens.Codec, store RefreshStore, dirs map[roles.Role]Directory, pub events.Publisher) *SessionService {
	if pub == nil {
		pub = events.Nop{}
	}
	return &SessionService{Codec: codec, Store: store, Directories: dirs, Events: pub}
}

// Login checks the password of the principal registered under email for
// role and opens a new session: one refresh record plus an access token
// bound to it.
func (s *SessionService) Login(ctx context.Context, email, password string, role roles.Role) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "role", role)

	dir, ok := s.Directories[role]
	if !ok {
		return nil, invalidCredentials("invalid role specified")
	}

	p, err := dir.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrPrincipalNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("find principal: %w", err)
	}

	if !hash.CheckPassword(p.PasswordHash, password) {
		return nil, invalidCredentials("password mismatch")
	}

	now := s.Codec.Now()
	refresh, rec, err := s.generateRefreshToken(ctx, p.ID, role, now)
	if err != nil {
		return nil, err
	}

	access, accessExp, err := s.generateAccessToken(ctx, p, role, rec.ID, now)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{Type: events.TypeLoggedIn, UserID: p.ID, Role: role.String(), SessionID: rec.ID, At: now})
	l.Info("login_successful", "user_id", p.ID, "session_id", rec.ID)

	return &LoginResult{
		AccessToken:  access,
		RefreshToken: refresh,
		AccessExp:    accessExp,
		RefreshExp:   rec.ExpiresAt,
	}, nil
}

// RefreshAccessToken mints a new access token against the session named by
// refreshToken. The refresh token itself is not replaced.
func (s *SessionService) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	claims, err := s.Codec.VerifyRefresh(refreshToken)
	if err != nil {
		l.Debug("refresh_rejected", "reason", "bad refresh token", "error", err)
		return "", invalidCredentials("invalid refresh token")
	}

	rec, err := s.liveRecord(ctx, claims.RecordID, s.Codec.Now())
	if err != nil {
		return "", err
	}

	dir, ok := s.Directories[claims.Role]
	if !ok {
		return "", invalidCredentials("invalid role specified")
	}
	p, err := dir.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrPrincipalNotFound) {
			return "", invalidCredentials("principal no longer exists")
		}
		return "", fmt.Errorf("find principal: %w", err)
	}

	access, _, err := s.generateAccessToken(ctx, p, claims.Role, rec.ID, s.Codec.Now())
	if err != nil {
		return "", err
	}

	l.Info("refresh_success", "user_id", p.ID, "session_id", rec.ID)
	return access, nil
}

// Logout deletes the session named by refreshToken. Logging out of an
// already closed session succeeds.
func (s *SessionService) Logout(ctx context.Context, refreshToken string) error {
	l := logging.FromContext(ctx).With("svc", "auth.logout")

	claims, err := s.Codec.VerifyRefresh(refreshToken)
	if err != nil {
		return invalidCredentials("invalid refresh token")
	}

	if err := s.Store.DeleteRefreshByID(ctx, claims.RecordID); err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}

	s.publish(ctx, events.Event{Type: events.TypeSessionRevoked, UserID: claims.Subject, Role: claims.Role.String(), SessionID: claims.RecordID, At: s.Codec.Now()})
	l.Info("logout_successful", "user_id", claims.Subject, "session_id", claims.RecordID)
	return nil
}

// RevokeAll ends every session of userID, e.g. when the account is banned or
// removed.
func (s *SessionService) RevokeAll(ctx context.Context, userID string) (int64, error) {
	n, err := s.Store.DeleteRefreshByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("delete refresh tokens: %w", err)
	}

	s.publish(ctx, events.Event{Type: events.TypeSessionsRevokedAll, UserID: userID, Count: n, At: s.Codec.Now()})
	logging.FromContext(ctx).Info("sessions_revoked", "svc", "auth.revoke_all", "user_id", userID, "count", n)
	return n, nil
}

// generateRefreshToken commits the record first so the signed token always
// names an existing id.
func (s *SessionService) generateRefreshToken(ctx context.Context, userID string, role roles.Role, issuedAt time.Time) (string, *models.RefreshToken, error) {
	rec, err := s.Store.CreateRefresh(ctx, userID, s.Codec.RefreshExpiry(issuedAt))
	if err != nil {
		return "", nil, fmt.Errorf("create refresh record: %w", err)
	}

	tok, err := s.Codec.SignRefresh(tokens.RefreshPayload{RecordID: rec.ID, Subject: userID, Role: role}, issuedAt)
	if err != nil {
		if delErr := s.Store.DeleteRefreshByID(ctx, rec.ID); delErr != nil {
			logging.FromContext(ctx).Error("refresh_cleanup_failed", "session_id", rec.ID, "error", delErr)
		}
		return "", nil, err
	}
	return tok, rec, nil
}

// generateAccessToken refuses to mint unless the record rti exists, belongs
// to p and has not expired. An expired record is deleted on the way out.
func (s *SessionService) generateAccessToken(ctx context.Context, p *Principal, role roles.Role, rti string, issuedAt time.Time) (string, time.Time, error) {
	rec, err := s.liveRecord(ctx, rti, issuedAt)
	if err != nil {
		return "", time.Time{}, err
	}
	if rec.UserID != p.ID {
		return "", time.Time{}, invalidCredentials("refresh record belongs to another principal")
	}

	tok, err := s.Codec.SignAccess(tokens.AccessPayload{Subject: p.ID, Email: p.Email, Role: role, RTI: rec.ID}, issuedAt)
	if err != nil {
		return "", time.Time{}, err
	}
	return tok, s.Codec.AccessExpiry(issuedAt), nil
}

func (s *SessionService) liveRecord(ctx context.Context, id string, now time.Time) (*models.RefreshToken, error) {
	rec, err := s.Store.FindRefreshByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, invalidCredentials("refresh record not found")
		}
		return nil, fmt.Errorf("find refresh record: %w", err)
	}

	if rec.Expired(now) {
		if err := s.Store.DeleteRefreshByID(ctx, rec.ID); err != nil {
			return nil, fmt.Errorf("delete expired refresh record: %w", err)
		}
		return nil, invalidCredentials("refresh token expired")
	}
	return rec, nil
}

func (s *SessionService) publish(ctx context.Context, e events.Event) {
	if err := s.Events.Publish(ctx, e); err != nil {
		logging.FromContext(ctx).Error("event_publish_failed", "type", e.Type, "error", err)
	}
}
