// Package session turns an identity provider's bearer token into an Actor.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/nexla-ia/plataforma-conversa-sub000/internal/models"
)

var (
	ErrInvalidToken    = errors.New("session: invalid token")
	ErrUnknownIdentity = errors.New("session: unknown identity")
)

const issuer = "plataforma-conversa"

// Store is the subset of storage the resolver reads.
type Store interface {
	FindSuperAdmin(ctx context.Context, userID string) (*models.SuperAdmin, error)
	FindCompanyByUser(ctx context.Context, userID string) (*models.Company, error)
	FindAttendantByUser(ctx context.Context, userID string) (*models.Attendant, error)
	GetCompany(ctx context.Context, id string) (*models.Company, error)
}

type Resolver struct {
	store  Store
	secret []byte
}

func NewResolver(store Store, secret string) *Resolver {
	return &Resolver{store: store, secret: []byte(secret)}
}

// Subject verifies an HS256 token and returns its "sub" claim.
func (r *Resolver) Subject(tokenString string) (string, error) {
	if len(r.secret) == 0 {
		return "", fmt.Errorf("%w: no signing secret configured", ErrInvalidToken)
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		return r.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return sub, nil
}

// Resolve looks the user up as super-admin, then company owner, then active
// attendant.
func (r *Resolver) Resolve(ctx context.Context, userID string) (models.Actor, error) {
	sa, err := r.store.FindSuperAdmin(ctx, userID)
	if err != nil {
		return models.Actor{}, fmt.Errorf("resolve super admin: %w", err)
	}
	if sa != nil {
		return models.Actor{UserID: userID, Role: models.RoleSuperAdmin}, nil
	}

	company, err := r.store.FindCompanyByUser(ctx, userID)
	if err != nil {
		return models.Actor{}, fmt.Errorf("resolve company: %w", err)
	}
	if company != nil {
		return models.Actor{UserID: userID, Role: models.RoleCompanyAdmin, Company: company}, nil
	}

	attendant, err := r.store.FindAttendantByUser(ctx, userID)
	if err != nil {
		return models.Actor{}, fmt.Errorf("resolve attendant: %w", err)
	}
	if attendant == nil {
		return models.Actor{}, ErrUnknownIdentity
	}

	company, err = r.store.GetCompany(ctx, attendant.CompanyID)
	if err != nil {
		return models.Actor{}, fmt.Errorf("resolve attendant company: %w", err)
	}
	if company == nil {
		return models.Actor{}, ErrUnknownIdentity
	}
	return models.Actor{UserID: userID, Role: models.RoleAttendant, Company: company, Attendant: attendant}, nil
}

// Authenticate verifies the token and resolves its subject.
func (r *Resolver) Authenticate(ctx context.Context, tokenString string) (models.Actor, error) {
	sub, err := r.Subject(tokenString)
	if err != nil {
		return models.Actor{}, err
	}
	return r.Resolve(ctx, sub)
}

// SelectCompany points a super-admin at one tenant. Other roles are returned unchanged.
func (r *Resolver) SelectCompany(ctx context.Context, actor models.Actor, companyID string) (models.Actor, error) {
	if actor.Role != models.RoleSuperAdmin || companyID == "" {
		return actor, nil
	}
	company, err := r.store.GetCompany(ctx, companyID)
	if err != nil {
		return actor, fmt.Errorf("select company: %w", err)
	}
	if company == nil {
		return actor, fmt.Errorf("select company %s: %w", companyID, ErrUnknownIdentity)
	}
	actor.Company = company
	return actor, nil
}

// IssueToken mints a token the resolver accepts. Used for development and the admin CLI.
func IssueToken(secret, userID string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("session: empty secret")
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": userID,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
		"iss": issuer,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
