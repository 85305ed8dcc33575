package services

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"ghostsapi/internal/authz"
	"ghostsapi/internal/models"
	"ghostsapi/internal/repositories"
)

var (
	ErrValidation            = errors.New("validation error")
	ErrNotFound              = errors.New("user not found")
	ErrInvalidCredentials    = errors.New("email not registered or password incorrect")
	ErrAlreadyRegistered     = errors.New("email already registered")
	ErrAlreadyVerified       = errors.New("user already verified")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")
	ErrPasswordUnchanged     = errors.New("new password must be different from the previous one")
)

var phoneRe = regexp.MustCompile(`^\+\d{7,15}$`)

// TokenVerification is the verify-token response: either the decoded payload
// or a stable error string, never a parser error.
type TokenVerification struct {
	Valid   bool    `json:"valid"`
	Payload *Claims `json:"payload,omitempty"`
	Error   string  `json:"error,omitempty"`
}

// AuthResult is returned by login and register.
type AuthResult struct {
	User        *models.User
	AccessToken string
}

// AuthService orchestrates the authentication flows: credentials and access
// tokens, plus the single-use token protocols for email verification,
// password reset and password restore ("undo").
type AuthService interface {
	Login(email, password string) (*AuthResult, error)
	Register(req *models.RegisterRequest) (*AuthResult, error)
	RequestEmailVerification(email string) error
	ConfirmEmail(token string) error
	RequestPasswordReset(email string) error
	ResetPassword(token, newPassword string) error
	UndoPasswordChange(token string) error
	VerifyAccessToken(token string) *TokenVerification
}

type authService struct {
	txm      repositories.TxManager
	users    repositories.UserRepository
	tokens   ActionTokenService
	security SecurityService
	emails   EmailService

	accessTTL   time.Duration
	actionTTL   time.Duration
	frontendURL string
}

func NewAuthService(
	txm repositories.TxManager,
	users repositories.UserRepository,
	tokens ActionTokenService,
	security SecurityService,
	emails EmailService,
	accessTTL, actionTTL time.Duration,
	frontendURL string,
) AuthService {
	return &authService{
		txm:         txm,
		users:       users,
		tokens:      tokens,
		security:    security,
		emails:      emails,
		accessTTL:   accessTTL,
		actionTTL:   actionTTL,
		frontendURL: strings.TrimRight(frontendURL, "/"),
	}
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

// ValidatePassword enforces the password shape shared by register and reset.
func ValidatePassword(password string) error {
	switch {
	case strings.TrimSpace(password) == "":
		return fmt.Errorf("%w: the 'password' field is required", ErrValidation)
	case len(password) < 6:
		return fmt.Errorf("%w: the 'password' field must be at least 6 characters long", ErrValidation)
	case len(password) > 128:
		return fmt.Errorf("%w: the 'password' field must not exceed 128 characters", ErrValidation)
	case !strings.ContainsAny(password, "ABCDEFGHIJKLMNOPQRSTUVWXYZ"):
		return fmt.Errorf("%w: the 'password' must contain at least one uppercase letter", ErrValidation)
	case !strings.ContainsAny(password, "abcdefghijklmnopqrstuvwxyz"):
		return fmt.Errorf("%w: the 'password' must contain at least one lowercase letter", ErrValidation)
	case !strings.ContainsAny(password, "0123456789"):
		return fmt.Errorf("%w: the 'password' must contain at least one digit", ErrValidation)
	}
	return nil
}

func validateRegister(req *models.RegisterRequest) error {
	if strings.TrimSpace(req.Email) == "" {
		return fmt.Errorf("%w: the 'email' field is required", ErrValidation)
	}
	if strings.TrimSpace(req.Firstname) == "" || len(req.Firstname) > 50 {
		return fmt.Errorf("%w: the 'firstname' field is required and must not exceed 50 characters", ErrValidation)
	}
	if strings.TrimSpace(req.Lastname) == "" || len(req.Lastname) > 50 {
		return fmt.Errorf("%w: the 'lastname' field is required and must not exceed 50 characters", ErrValidation)
	}
	if !phoneRe.MatchString(strings.TrimSpace(req.Phone)) {
		return fmt.Errorf("%w: the 'phone' field must be a valid international phone number (e.g., +1234567890)", ErrValidation)
	}
	return ValidatePassword(req.Password)
}

func (s *authService) Login(email, password string) (*AuthResult, error) {
	user, err := s.users.GetByEmail(normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	// same answer for unknown email and wrong password
	if user == nil || !s.security.CheckPassword(password, user.PasswordHash) {
		log.Printf("[auth][login] rejected for email=%q", normalizeEmail(email))
		return nil, ErrInvalidCredentials
	}

	token, err := s.security.IssueAccessToken(user.ID, user.Role, s.accessTTL)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	log.Printf("[auth][login] success userID=%d role=%s", user.ID, user.Role)
	return &AuthResult{User: user, AccessToken: token}, nil
}

func (s *authService) Register(req *models.RegisterRequest) (*AuthResult, error) {
	if err := validateRegister(req); err != nil {
		return nil, err
	}
	email := normalizeEmail(req.Email)

	existing, err := s.users.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyRegistered
	}

	hash, err := s.security.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		Firstname:    strings.TrimSpace(req.Firstname),
		Lastname:     strings.TrimSpace(req.Lastname),
		Phone:        strings.TrimSpace(req.Phone),
		Role:         authz.RoleCustomer,
	}
	// the unique constraint closes the check-then-insert race
	if err := s.users.Create(user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return nil, ErrAlreadyRegistered
		}
		return nil, err
	}

	accessToken, err := s.security.IssueAccessToken(user.ID, user.Role, s.accessTTL)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	verification, err := s.tokens.Issue(user.ID, models.TokenKindVerification, s.actionTTL, nil)
	if err != nil {
		return nil, fmt.Errorf("issue verification token: %w", err)
	}

	// email is fire-and-forget: registration must not fail on delivery
	link := s.frontendURL + "/confirm-email?token=" + verification.Token
	if err := s.emails.SendWelcomeEmail(user.Email, user.FullName(), link); err != nil {
		log.Printf("[auth][register] warning: failed to send welcome email to %s: %v", user.Email, err)
	}

	log.Printf("[auth][register] success userID=%d", user.ID)
	return &AuthResult{User: user, AccessToken: accessToken}, nil
}

func (s *authService) RequestEmailVerification(email string) error {
	user, err := s.users.GetByEmail(normalizeEmail(email))
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}
	if user.IsVerified {
		return ErrAlreadyVerified
	}

	verification, err := s.tokens.Issue(user.ID, models.TokenKindVerification, s.actionTTL, nil)
	if err != nil {
		return fmt.Errorf("issue verification token: %w", err)
	}

	link := s.frontendURL + "/confirm-email?token=" + verification.Token
	if err := s.emails.SendVerificationEmail(user.Email, user.FullName(), link); err != nil {
		log.Printf("[auth][request-verification] warning: failed to send email to %s: %v", user.Email, err)
	}
	return nil
}

func (s *authService) ConfirmEmail(token string) error {
	consumed, err := s.tokens.Consume(token, models.TokenKindVerification)
	if err != nil {
		return err
	}
	if consumed == nil {
		return ErrInvalidOrExpiredToken
	}
	if err := s.users.SetVerified(consumed.UserID); err != nil {
		return fmt.Errorf("set verified: %w", err)
	}
	log.Printf("[auth][confirm-email] userID=%d verified", consumed.UserID)
	return nil
}

func (s *authService) RequestPasswordReset(email string) error {
	user, err := s.users.GetByEmail(normalizeEmail(email))
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}

	reset, err := s.tokens.Issue(user.ID, models.TokenKindReset, s.actionTTL, nil)
	if err != nil {
		return fmt.Errorf("issue reset token: %w", err)
	}

	link := s.frontendURL + "/reset-password?token=" + reset.Token
	if err := s.emails.SendPasswordResetEmail(user.Email, user.FullName(), link); err != nil {
		log.Printf("[auth][request-reset] warning: failed to send email to %s: %v", user.Email, err)
	}
	return nil
}

// ResetPassword changes the password behind a valid reset token. Ordering
// matters: the restore token carrying the old hash is written before the
// reset token is consumed and before the password is overwritten, and all
// three run in one transaction, so a changed password always has an undo.
func (s *authService) ResetPassword(token, newPassword string) error {
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}

	rec, err := s.tokens.Validate(token, models.TokenKindReset)
	if err != nil {
		return err
	}
	if rec == nil {
		return ErrInvalidOrExpiredToken
	}
	user, err := s.users.GetByID(rec.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrInvalidOrExpiredToken
	}
	if s.security.CheckPassword(newPassword, user.PasswordHash) {
		return ErrPasswordUnchanged
	}

	newHash, err := s.security.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	var restoreToken string
	err = s.txm.WithinTx(func(tx *sql.Tx) error {
		tokens := s.tokens.WithTx(tx)
		users := s.users.WithTx(tx)

		oldHash := user.PasswordHash
		restore, err := tokens.Issue(user.ID, models.TokenKindRestore, s.actionTTL, &oldHash)
		if err != nil {
			return fmt.Errorf("issue restore token: %w", err)
		}
		restoreToken = restore.Token

		// atomic gate: a concurrent reset with the same token loses here
		consumed, err := tokens.Consume(token, models.TokenKindReset)
		if err != nil {
			return fmt.Errorf("consume reset token: %w", err)
		}
		if consumed == nil {
			return ErrInvalidOrExpiredToken
		}

		if err := users.UpdatePassword(user.ID, newHash); err != nil {
			return fmt.Errorf("update password: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	undoLink := s.frontendURL + "/undo-password-change?token=" + restoreToken
	if err := s.emails.SendPasswordChangedEmail(user.Email, user.FullName(), undoLink); err != nil {
		log.Printf("[auth][reset-password] warning: failed to send email to %s: %v", user.Email, err)
	}
	log.Printf("[auth][reset-password] success userID=%d", user.ID)
	return nil
}

// UndoPasswordChange writes the hash stored on the restore token back onto
// the user, reverting the reset that issued it.
func (s *authService) UndoPasswordChange(token string) error {
	return s.txm.WithinTx(func(tx *sql.Tx) error {
		tokens := s.tokens.WithTx(tx)
		users := s.users.WithTx(tx)

		consumed, err := tokens.Consume(token, models.TokenKindRestore)
		if err != nil {
			return err
		}
		if consumed == nil || consumed.OldPasswordHash == nil {
			return ErrInvalidOrExpiredToken
		}
		if err := users.UpdatePassword(consumed.UserID, *consumed.OldPasswordHash); err != nil {
			return fmt.Errorf("restore password: %w", err)
		}
		log.Printf("[auth][undo-password-change] userID=%d password restored", consumed.UserID)
		return nil
	})
}

// VerifyAccessToken reports validity and payload without touching any store.
func (s *authService) VerifyAccessToken(token string) *TokenVerification {
	claims, err := s.security.DecodeToken(token)
	switch {
	case errors.Is(err, ErrTokenExpired):
		return &TokenVerification{Valid: false, Error: "Token expired"}
	case err != nil:
		return &TokenVerification{Valid: false, Error: "Invalid token"}
	default:
		return &TokenVerification{Valid: true, Payload: claims}
	}
}
