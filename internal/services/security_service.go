package services

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("invalid token")
)

// Claims carried by every token this service signs. Access tokens set Role,
// action tokens set Kind; the subject is always the user id.
type Claims struct {
	Role string `json:"rol,omitempty"`
	Kind string `json:"type,omitempty"`
	jwt.RegisteredClaims
}

// UserID parses the subject claim.
func (c *Claims) UserID() (int, error) {
	id, err := strconv.Atoi(c.Subject)
	if err != nil {
		return 0, ErrTokenInvalid
	}
	return id, nil
}

// SecurityService hashes/verifies passwords and signs/decodes JWTs.
// The signing secret is fixed at construction; only HMAC is accepted.
type SecurityService interface {
	HashPassword(plain string) (string, error)
	CheckPassword(plain, hash string) bool
	IssueAccessToken(userID int, role string, ttl time.Duration) (string, error)
	IssueActionToken(userID int, kind string, ttl time.Duration) (string, error)
	DecodeToken(token string) (*Claims, error)
}

type securityService struct {
	secret []byte
}

func NewSecurityService(secret string) SecurityService {
	return &securityService{secret: []byte(secret)}
}

func (s *securityService) HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword returns false on a structurally invalid hash instead of
// erroring; bcrypt compares in constant time.
func (s *securityService) CheckPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

func (s *securityService) IssueAccessToken(userID int, role string, ttl time.Duration) (string, error) {
	return s.sign(&Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(userID),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	})
}

func (s *securityService) IssueActionToken(userID int, kind string, ttl time.Duration) (string, error) {
	return s.sign(&Claims{
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(userID),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	})
}

func (s *securityService) sign(claims *Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// DecodeToken never panics and never leaks parser internals: expiry maps to
// ErrTokenExpired, everything else (bad signature, corruption, wrong
// algorithm) to ErrTokenInvalid.
func (s *securityService) DecodeToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		// принимаем только HMAC
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
