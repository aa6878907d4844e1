package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mira/mood-journal-website/internal/config"
	"github.com/mira/mood-journal-website/internal/domain"
	"github.com/mira/mood-journal-website/internal/googleauth"
	"github.com/mira/mood-journal-website/internal/ratelimit"
	"github.com/mira/mood-journal-website/internal/repository"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ErrInvalidInput wraps registration/change-password validation failures; the
// wrapped message is safe to show to the user.
var ErrInvalidInput = errors.New("invalid input")

// maxSessionAttempts bounds the generate-until-unique loop for session ids.
const maxSessionAttempts = 5

// AuthService owns credential verification, the progressive account lockout,
// and the session token lifecycle. It is the only component that mutates the
// per-user lockout counters.
type AuthService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	tx          repository.Transactor
	limiter     ratelimit.Limiter
	cfg         *config.Config
	policy      LockoutPolicy

	// test seams
	now            func() time.Time
	verifyPassword func(encoded, password string) (bool, error)
}

func NewAuthService(repos *repository.Repositories, limiter ratelimit.Limiter, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo:       repos.User,
		sessionRepo:    repos.Session,
		tx:             repos.Tx,
		limiter:        limiter,
		cfg:            cfg,
		policy:         NewLockoutPolicy(cfg.LockThreshold, cfg.LockDuration),
		now:            time.Now,
		verifyPassword: VerifyPassword,
	}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
	SourceIP string
}

// AuthResult carries the raw bearer token back to the caller. The token is
// never persisted; only its hash is.
type AuthResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	if len(input.Username) < 2 {
		return nil, fmt.Errorf("%w: username must be at least 2 characters", ErrInvalidInput)
	}
	if len(input.Email) < 5 || !strings.Contains(input.Email, "@") {
		return nil, fmt.Errorf("%w: please enter a valid email address", ErrInvalidInput)
	}
	if len(input.Password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidInput)
	}

	if _, err := s.userRepo.GetByEmail(ctx, input.Email); err == nil {
		return nil, domain.ErrEmailExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	user := &domain.User{
		ID:           uuid.New(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		LockedUntil:  epochZero,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrEmailExists
		}
		return nil, err
	}

	token, session, err := s.issueSession(ctx, s.sessionRepo, user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token, ExpiresAt: session.ExpiresAt}, nil
}

// Login runs the full attempt pipeline: rate limit, credential lookup, lock
// check, password verification, then either the failure bookkeeping write or
// the atomic counter-reset-plus-session-insert.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	allowed, err := s.limiter.Allow(ctx, input.SourceIP, s.cfg.LoginRateLimit, s.cfg.LoginRateWindow)
	if err != nil {
		// Throttling is best-effort; a broken limiter backend must not take
		// logins down with it.
		log.WithError(err).Warn("rate limiter check failed, allowing request")
	} else if !allowed {
		return nil, domain.ErrRateLimited
	}

	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	now := s.now()
	if s.policy.Evaluate(now, user.LockedUntil) {
		log.WithFields(log.Fields{
			"user_id":      user.ID,
			"locked_until": user.LockedUntil,
		}).Debug("rejecting login: account locked")
		return nil, domain.ErrAccountLocked
	}

	// The expensive step. No lock or transaction is held across it, so
	// concurrent attempts against other users are never serialized here.
	ok, err := s.verifyPassword(user.PasswordHash, input.Password)
	if err != nil {
		return nil, err
	}

	if !ok {
		attempts, lockedUntil := s.policy.OnFailure(now, user.FailedAttempts, user.LockedUntil)
		if err := s.userRepo.UpdateLockState(ctx, user.ID, attempts, lockedUntil); err != nil {
			return nil, err
		}
		log.WithFields(log.Fields{
			"user_id":  user.ID,
			"attempts": attempts,
		}).Debug("failed login attempt recorded")
		return nil, domain.ErrInvalidCredentials
	}

	// Counter reset and session insert commit together: a concurrent reader
	// never sees reset counters without a session, or the reverse.
	var token string
	var session *domain.Session
	err = s.tx.InTx(ctx, func(repos *repository.Repositories) error {
		attempts, lockedUntil := s.policy.OnSuccess()
		if err := repos.User.UpdateLockState(ctx, user.ID, attempts, lockedUntil); err != nil {
			return err
		}
		var txErr error
		token, session, txErr = s.issueSession(ctx, repos.Session, user.ID)
		return txErr
	})
	if err != nil {
		return nil, err
	}

	if err := s.limiter.Reset(ctx, input.SourceIP); err != nil {
		log.WithError(err).Warn("rate limiter reset failed")
	}

	user.FailedAttempts = 0
	user.LockedUntil = epochZero
	return &AuthResult{User: user, Token: token, ExpiresAt: session.ExpiresAt}, nil
}

// LoginWithGoogle signs in (or provisions) the account matching a verified
// Google identity. Federated accounts carry an empty password hash and can
// only ever log in this way.
func (s *AuthService) LoginWithGoogle(ctx context.Context, identity *googleauth.GoogleUser) (*AuthResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, identity.Email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		now := s.now()
		username := identity.Name
		if username == "" {
			username = strings.Split(identity.Email, "@")[0]
		}
		user = &domain.User{
			ID:          uuid.New(),
			Username:    username,
			Email:       identity.Email,
			AvatarURL:   identity.Picture,
			LockedUntil: epochZero,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	token, session, err := s.issueSession(ctx, s.sessionRepo, user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token, ExpiresAt: session.ExpiresAt}, nil
}

// issueSession creates one session row, regenerating the token on the
// near-impossible id collision, bounded to maxSessionAttempts.
func (s *AuthService) issueSession(ctx context.Context, sessions repository.SessionRepository, userID uuid.UUID) (string, *domain.Session, error) {
	now := s.now()
	expiresAt := now.Add(s.cfg.SessionDuration)

	for attempt := 0; attempt < maxSessionAttempts; attempt++ {
		token, err := GenerateSessionToken()
		if err != nil {
			return "", nil, err
		}
		session := &domain.Session{
			ID:        SessionIDFromToken(token),
			UserID:    userID,
			ExpiresAt: expiresAt,
			CreatedAt: now,
		}
		err = sessions.Create(ctx, session)
		if err == nil {
			return token, session, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", nil, err
		}
	}
	return "", nil, domain.ErrSessionCreation
}

// ValidateSession resolves a bearer token to its owning user. Expired rows
// are treated as absent and removed opportunistically.
func (s *AuthService) ValidateSession(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.ErrInvalidSession
	}

	sessionID := SessionIDFromToken(token)
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidSession
		}
		return nil, err
	}

	if session.Expired(s.now()) {
		if err := s.sessionRepo.Delete(ctx, sessionID); err != nil {
			log.WithError(err).Warn("failed to delete expired session")
		}
		return nil, domain.ErrInvalidSession
	}

	user, err := s.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Orphaned session: the user is gone, so the grant is void.
			if err := s.sessionRepo.Delete(ctx, sessionID); err != nil {
				log.WithError(err).Warn("failed to delete orphaned session")
			}
			return nil, domain.ErrInvalidSession
		}
		return nil, err
	}
	return user, nil
}

// Logout invalidates the session for a bearer token. Idempotent: a second
// call with the same token is a no-op.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessionRepo.Delete(ctx, SessionIDFromToken(token))
}

func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	if len(next) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidInput)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.PasswordHash == "" {
		return domain.ErrNoPassword
	}

	ok, err := s.verifyPassword(user.PasswordHash, current)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrInvalidCredentials
	}

	hash, err := HashPassword(next)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	user.UpdatedAt = s.now()
	return s.userRepo.Update(ctx, user)
}

func (s *AuthService) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, id)
}
