package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/calvoclucas/app-mdw-2025/internal/config"
	"github.com/calvoclucas/app-mdw-2025/internal/entity"
	"github.com/calvoclucas/app-mdw-2025/pkg/errorbank"
)

// Identity describes a resolved caller.
type Identity struct {
	SubjectID int64
	Role      entity.Role
}

// Guest is the anonymous identity used by optional-auth routes.
var Guest = Identity{Role: entity.RoleGuest}

// Authenticated reports whether the identity belongs to a real subject.
func (i Identity) Authenticated() bool {
	return i.Role != entity.RoleGuest && i.Role != ""
}

// TokenVerifier resolves a bearer token into a caller identity. The real
// implementation calls out to the external identity service; verification is
// a suspension point and must honour the request context.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

// Module provides the verifier and the access guard.
var Module = fx.Provide(NewVerifier, NewGuard)

// NewVerifier selects a verifier implementation from configuration.
func NewVerifier(cfg config.Config, logger *zap.Logger) (TokenVerifier, error) {
	switch cfg.Auth.Driver {
	case "remote":
		return &remoteVerifier{
			url:    cfg.Auth.VerifierURL,
			client: &http.Client{Timeout: cfg.Auth.Timeout},
			logger: logger,
		}, nil
	case "noop":
		logger.Warn("auth verifier running in noop mode; tokens are trusted")
		return noopVerifier{}, nil
	default:
		return nil, fmt.Errorf("unsupported auth driver: %s", cfg.Auth.Driver)
	}
}

// remoteVerifier posts the token to the identity service and maps its answer
// onto an Identity. Transport failures are dependency errors (the request
// cannot be authorised), a rejected token is unauthorized.
type remoteVerifier struct {
	url    string
	client *http.Client
	logger *zap.Logger
}

func (v *remoteVerifier) Verify(ctx context.Context, token string) (Identity, error) {
	body, err := json.Marshal(map[string]string{"token": token})
	if err != nil {
		return Identity{}, errorbank.Internal("encode verify request", errorbank.WithCause(err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.url, bytes.NewReader(body))
	if err != nil {
		return Identity{}, errorbank.Internal("build verify request", errorbank.WithCause(err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		v.logger.Error("identity verifier unreachable", zap.Error(err))
		return Identity{}, errorbank.Dependency("identity service unavailable", errorbank.WithCause(err))
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// decoded below
	case http.StatusUnauthorized, http.StatusForbidden:
		return Identity{}, errorbank.Unauthorized("invalid credential")
	default:
		return Identity{}, errorbank.Dependency(fmt.Sprintf("identity service returned %d", resp.StatusCode))
	}

	var claims struct {
		SubjectID int64  `json:"subject_id"`
		Role      string `json:"role"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&claims); err != nil {
		return Identity{}, errorbank.Dependency("decode identity response", errorbank.WithCause(err))
	}

	role := entity.Role(claims.Role)
	if role != entity.RoleCustomer && role != entity.RoleCompany {
		return Identity{}, errorbank.Unauthorized("unknown role in credential")
	}

	return Identity{SubjectID: claims.SubjectID, Role: role}, nil
}

// noopVerifier trusts tokens of the form "role:subject_id". Development only.
type noopVerifier struct{}

func (noopVerifier) Verify(_ context.Context, token string) (Identity, error) {
	role, subject, ok := strings.Cut(token, ":")
	if !ok {
		return Identity{}, errorbank.Unauthorized("invalid credential")
	}

	var id int64
	if _, err := fmt.Sscanf(subject, "%d", &id); err != nil {
		return Identity{}, errorbank.Unauthorized("invalid credential")
	}

	switch entity.Role(role) {
	case entity.RoleCustomer, entity.RoleCompany:
		return Identity{SubjectID: id, Role: entity.Role(role)}, nil
	default:
		return Identity{}, errorbank.Unauthorized("unknown role in credential")
	}
}
