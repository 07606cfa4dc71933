// Package backendauth trades the identity provider's one-time session token for a plant
// backend session through the API client.
package backendauth

import (
	"context"
	"errors"
	"fmt"

	"github.com/aquaflow/aquaflow-ui/internal/apiclient"
	domainauth "github.com/aquaflow/aquaflow-ui/internal/domain/auth"
	"github.com/aquaflow/aquaflow-ui/internal/ports"
)

// Exchanger implements ports.SessionExchanger against POST /api/auth/session.
type Exchanger struct {
	auth *apiclient.AuthAPI
}

// NewExchanger returns an exchanger bound to the client's Auth group.
func NewExchanger(client *apiclient.Client) *Exchanger {
	return &Exchanger{auth: client.Auth}
}

// Exchange performs the exchange. A role outside the known set fails the exchange so the
// browser is never sent to a landing page that would bounce it.
func (e *Exchanger) Exchange(ctx context.Context, sessionToken string) (ports.ExchangeResult, error) {
	su, err := e.auth.CreateSession(ctx, sessionToken)
	if err != nil {
		return ports.ExchangeResult{}, err
	}
	if su.UserID == "" {
		return ports.ExchangeResult{}, errors.New("backend session has no user")
	}
	role, ok := domainauth.ParseRole(su.Role)
	if !ok {
		return ports.ExchangeResult{}, fmt.Errorf("backend returned unknown role %q", su.Role)
	}
	if su.SessionToken == "" {
		return ports.ExchangeResult{}, errors.New("backend did not issue a session credential")
	}

	id := domainauth.Identity{
		UserID: su.UserID,
		Name:   su.Name,
		Email:  su.Email,
		Role:   role,
	}
	if su.Picture != nil {
		id.Picture = *su.Picture
	}
	return ports.ExchangeResult{Identity: id, Credential: su.SessionToken}, nil
}

// Revoke ends the backend session for credential.
func (e *Exchanger) Revoke(ctx context.Context, credential string) error {
	if credential == "" {
		return nil
	}
	return e.auth.Logout(apiclient.WithCredential(ctx, credential))
}
