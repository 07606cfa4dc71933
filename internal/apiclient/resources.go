package apiclient

import (
	"context"
	"net/http"
	"net/url"

	domainauth "github.com/aquaflow/aquaflow-ui/internal/domain/auth"
	"github.com/aquaflow/aquaflow-ui/internal/domain/model"
	apperrors "github.com/aquaflow/aquaflow-ui/internal/errors"
)

// AuthAPI covers /auth.
type AuthAPI struct{ c *Client }

// CreateSession exchanges the identity provider's one-time session_id for a backend
// session. The credential comes from the response body, falling back to the
// session_token cookie the backend also sets.
func (a *AuthAPI) CreateSession(ctx context.Context, sessionID string) (*model.SessionUser, error) {
	resp, err := a.c.send(ctx, call{
		op:     "auth.session",
		method: http.MethodPost,
		path:   "/auth/session",
		body:   map[string]string{"session_id": sessionID},
	})
	if err != nil {
		return nil, err
	}
	defer drainAndClose(resp.Body)

	var out model.SessionUser
	if err := decodeLimited(resp, a.c.maxBody, &out); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeRequestFailed, "unexpected response from auth.session")
	}
	if out.SessionToken == "" {
		for _, ck := range resp.Cookies() {
			if ck.Name == CredentialCookie {
				out.SessionToken = ck.Value
			}
		}
	}
	return &out, nil
}

// Me returns the user behind the context credential.
func (a *AuthAPI) Me(ctx context.Context) (*model.User, error) {
	var out model.User
	if err := a.c.do(ctx, call{op: "auth.me", method: http.MethodGet, path: "/auth/me"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout ends the backend session behind the context credential.
func (a *AuthAPI) Logout(ctx context.Context) error {
	return a.c.do(ctx, call{op: "auth.logout", method: http.MethodPost, path: "/auth/logout"}, nil)
}

// FarmersAPI covers /farmers.
type FarmersAPI struct{ c *Client }

// List returns every farmer.
func (f *FarmersAPI) List(ctx context.Context) ([]model.Farmer, error) {
	var out []model.Farmer
	err := f.c.do(ctx, call{op: "farmers.list", method: http.MethodGet, path: "/farmers"}, &out)
	return out, err
}

// Create registers a farmer.
func (f *FarmersAPI) Create(ctx context.Context, req model.CreateFarmerRequest) (*model.Farmer, error) {
	var out model.Farmer
	if err := f.c.do(ctx, call{op: "farmers.create", method: http.MethodPost, path: "/farmers", body: req}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MyStats returns the dashboard aggregate for the farmer behind the credential.
func (f *FarmersAPI) MyStats(ctx context.Context) (*model.FarmerStats, error) {
	var out model.FarmerStats
	if err := f.c.do(ctx, call{op: "farmers.stats", method: http.MethodGet, path: "/farmers/me/stats"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Link attaches a login account to a farmer record.
func (f *FarmersAPI) Link(ctx context.Context, req model.LinkFarmerRequest) error {
	return f.c.do(ctx, call{op: "farmers.link", method: http.MethodPost, path: "/farmers/link", body: req}, nil)
}

// BatchesAPI covers /batches.
type BatchesAPI struct{ c *Client }

// List returns every batch.
func (b *BatchesAPI) List(ctx context.Context) ([]model.Batch, error) {
	var out []model.Batch
	err := b.c.do(ctx, call{op: "batches.list", method: http.MethodGet, path: "/batches"}, &out)
	return out, err
}

// Create records an intake.
func (b *BatchesAPI) Create(ctx context.Context, req model.CreateBatchRequest) (*model.Batch, error) {
	var out model.Batch
	if err := b.c.do(ctx, call{op: "batches.create", method: http.MethodPost, path: "/batches", body: req}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Get returns one batch.
func (b *BatchesAPI) Get(ctx context.Context, batchID string) (*model.Batch, error) {
	var out model.Batch
	path := "/batches/" + url.PathEscape(batchID)
	if err := b.c.do(ctx, call{op: "batches.get", method: http.MethodGet, path: path}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ProcessingAPI covers /processing.
type ProcessingAPI struct{ c *Client }

// List returns every processing stage.
func (p *ProcessingAPI) List(ctx context.Context) ([]model.ProcessingStage, error) {
	var out []model.ProcessingStage
	err := p.c.do(ctx, call{op: "processing.list", method: http.MethodGet, path: "/processing"}, &out)
	return out, err
}

// Create records a processing stage.
func (p *ProcessingAPI) Create(ctx context.Context, req model.CreateProcessingStageRequest) (*model.ProcessingStage, error) {
	var out model.ProcessingStage
	if err := p.c.do(ctx, call{op: "processing.create", method: http.MethodPost, path: "/processing", body: req}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListByBatch returns the stages recorded for one batch.
func (p *ProcessingAPI) ListByBatch(ctx context.Context, batchID string) ([]model.ProcessingStage, error) {
	var out []model.ProcessingStage
	path := "/processing/batch/" + url.PathEscape(batchID)
	err := p.c.do(ctx, call{op: "processing.by_batch", method: http.MethodGet, path: path}, &out)
	return out, err
}

// InventoryAPI covers /inventory.
type InventoryAPI struct{ c *Client }

// List returns every inventory item.
func (i *InventoryAPI) List(ctx context.Context) ([]model.InventoryItem, error) {
	var out []model.InventoryItem
	err := i.c.do(ctx, call{op: "inventory.list", method: http.MethodGet, path: "/inventory"}, &out)
	return out, err
}

// Create stores part of a batch.
func (i *InventoryAPI) Create(ctx context.Context, req model.CreateInventoryRequest) (*model.InventoryItem, error) {
	var out model.InventoryItem
	if err := i.c.do(ctx, call{op: "inventory.create", method: http.MethodPost, path: "/inventory", body: req}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DispatchAPI covers /dispatch.
type DispatchAPI struct{ c *Client }

// List returns every dispatch.
func (d *DispatchAPI) List(ctx context.Context) ([]model.Dispatch, error) {
	var out []model.Dispatch
	err := d.c.do(ctx, call{op: "dispatch.list", method: http.MethodGet, path: "/dispatch"}, &out)
	return out, err
}

// Create ships a batch.
func (d *DispatchAPI) Create(ctx context.Context, req model.CreateDispatchRequest) (*model.Dispatch, error) {
	var out model.Dispatch
	if err := d.c.do(ctx, call{op: "dispatch.create", method: http.MethodPost, path: "/dispatch", body: req}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PaymentsAPI covers /payments.
type PaymentsAPI struct{ c *Client }

// List returns every payment.
func (p *PaymentsAPI) List(ctx context.Context) ([]model.Payment, error) {
	var out []model.Payment
	err := p.c.do(ctx, call{op: "payments.list", method: http.MethodGet, path: "/payments"}, &out)
	return out, err
}

// Create raises a payment for a batch.
func (p *PaymentsAPI) Create(ctx context.Context, req model.CreatePaymentRequest) (*model.Payment, error) {
	var out model.Payment
	if err := p.c.do(ctx, call{op: "payments.create", method: http.MethodPost, path: "/payments", body: req}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateStatus settles or reopens a payment. The backend reads status from the query.
func (p *PaymentsAPI) UpdateStatus(ctx context.Context, paymentID string, status model.PaymentStatus) error {
	return p.c.do(ctx, call{
		op:     "payments.update_status",
		method: http.MethodPut,
		path:   "/payments/" + url.PathEscape(paymentID) + "/status",
		query:  url.Values{"status": {string(status)}},
	}, nil)
}

// DashboardAPI covers /dashboard.
type DashboardAPI struct{ c *Client }

// Admin returns the plant-wide aggregate.
func (d *DashboardAPI) Admin(ctx context.Context) (*model.AdminDashboard, error) {
	var out model.AdminDashboard
	if err := d.c.do(ctx, call{op: "dashboard.admin", method: http.MethodGet, path: "/dashboard/admin"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UsersAPI covers /users.
type UsersAPI struct{ c *Client }

// List returns every login account.
func (u *UsersAPI) List(ctx context.Context) ([]model.User, error) {
	var out []model.User
	err := u.c.do(ctx, call{op: "users.list", method: http.MethodGet, path: "/users"}, &out)
	return out, err
}

// Create adds a login account directly.
func (u *UsersAPI) Create(ctx context.Context, req model.CreateUserRequest) (*model.User, error) {
	var out model.User
	if err := u.c.do(ctx, call{op: "users.create", method: http.MethodPost, path: "/users", body: req}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateRole changes a user's role. The role travels in the body and, for backends that
// bind it from the query string, as ?role= too.
func (u *UsersAPI) UpdateRole(ctx context.Context, userID string, role domainauth.Role) error {
	return u.c.do(ctx, call{
		op:     "users.update_role",
		method: http.MethodPut,
		path:   "/users/" + url.PathEscape(userID) + "/role",
		query:  url.Values{"role": {string(role)}},
		body:   model.UpdateRoleRequest{Role: role},
	}, nil)
}

// Delete removes a login account.
func (u *UsersAPI) Delete(ctx context.Context, userID string) error {
	return u.c.do(ctx, call{
		op:     "users.delete",
		method: http.MethodDelete,
		path:   "/users/" + url.PathEscape(userID),
	}, nil)
}

// Invite invites an email address with a role.
func (u *UsersAPI) Invite(ctx context.Context, req model.InviteUserRequest) (*model.MessageResponse, error) {
	var out model.MessageResponse
	if err := u.c.do(ctx, call{op: "users.invite", method: http.MethodPost, path: "/users/invite", body: req}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
