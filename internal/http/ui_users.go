package httpx

import (
	"context"
	"net/http"
	"slices"

	"golang.org/x/sync/errgroup"

	domainauth "github.com/aquaflow/aquaflow-ui/internal/domain/auth"
	"github.com/aquaflow/aquaflow-ui/internal/domain/model"
	apperrors "github.com/aquaflow/aquaflow-ui/internal/errors"
	"github.com/aquaflow/aquaflow-ui/internal/http/validation"
)

// RoleOption describes a role in the invite and change-role selects.
type RoleOption struct {
	Value       domainauth.Role
	Label       string
	Description string
}

//nolint:gochecknoglobals // static read-only lookup
var roleOptions = []RoleOption{
	{domainauth.RoleOwner, "Owner", "Full system access & user management"},
	{domainauth.RoleAdmin, "Admin", "Analytics, reports & operations"},
	{domainauth.RoleStaff, "Staff", "Daily operations & data entry"},
	{domainauth.RoleFarmer, "Farmer", "View own supplies & payments"},
}

// AssignableRoles returns the roles actor may grant. Only owners grant or revoke owner.
func AssignableRoles(actor domainauth.Role) []RoleOption {
	out := make([]RoleOption, 0, len(roleOptions))
	for _, o := range roleOptions {
		if o.Value == domainauth.RoleOwner && actor != domainauth.RoleOwner {
			continue
		}
		out = append(out, o)
	}
	return out
}

func canAssign(actor, role domainauth.Role) bool {
	return slices.ContainsFunc(AssignableRoles(actor), func(o RoleOption) bool { return o.Value == role })
}

// userRow is a user plus what the viewer may do to it.
type userRow struct {
	model.User
	IsSelf  bool
	CanEdit bool
}

func isSelf(u model.User, viewer *domainauth.Session) bool {
	return u.UserID == viewer.UserID || (u.Email != "" && u.Email == viewer.Email)
}

// canManage reports whether viewer may change or remove u. Owner accounts are managed by owners only.
func canManage(u model.User, viewer *domainauth.Session) bool {
	return !isSelf(u, viewer) && (u.Role != domainauth.RoleOwner || viewer.Role == domainauth.RoleOwner)
}

func userRows(users []model.User, viewer *domainauth.Session) []userRow {
	rows := make([]userRow, 0, len(users))
	for _, u := range users {
		rows = append(rows, userRow{
			User:    u,
			IsSelf:  isSelf(u, viewer),
			CanEdit: canManage(u, viewer),
		})
	}
	return rows
}

// checkTarget refuses changes to an owner account unless viewer is an owner.
// Targets missing from the list are left for the backend to reject.
func (h *UIHandlers) checkTarget(ctx context.Context, viewer *domainauth.Session, id string) error {
	if viewer.Role == domainauth.RoleOwner {
		return nil
	}
	users, err := h.API.Users.List(ctx)
	if err != nil {
		return err
	}
	i := slices.IndexFunc(users, func(u model.User) bool { return u.UserID == id })
	if i >= 0 && users[i].Role == domainauth.RoleOwner {
		return apperrors.Validation("Only an owner can change an owner account.")
	}
	return nil
}

// Users renders user management.
// GET /users.
func (h *UIHandlers) Users(w http.ResponseWriter, r *http.Request) {
	viewer := GetSessionFromContext(r.Context())
	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "User Management - AquaFlow", PageTitle: "User Management", CurrentPage: PageUsers},
		Fetch: func(ctx context.Context, data map[string]any) error {
			var (
				users   []model.User
				farmers []model.Farmer
			)
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				var err error
				users, err = h.API.Users.List(gctx)
				return err
			})
			g.Go(func() error {
				var err error
				farmers, err = h.API.Farmers.List(gctx)
				return err
			})
			if err := g.Wait(); err != nil {
				return err
			}

			unlinked := make([]model.Farmer, 0, len(farmers))
			for _, f := range farmers {
				if !f.Linked() {
					unlinked = append(unlinked, f)
				}
			}
			farmerUsers := make([]model.User, 0)
			for _, u := range users {
				if u.Role == domainauth.RoleFarmer {
					farmerUsers = append(farmerUsers, u)
				}
			}

			data["Users"] = userRows(users, viewer)
			data["Farmers"] = farmers
			data["UnlinkedFarmers"] = unlinked
			data["FarmerUsers"] = farmerUsers
			data["Roles"] = AssignableRoles(viewer.Role)
			return nil
		},
	})
}

// InviteUser pre-registers an email with a role.
// POST /users/invite.
func (h *UIHandlers) InviteUser(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r); err != nil {
		h.mutationFailed(w, r, mutationFailure{Err: err, Page: "/users"})
		return
	}
	req := model.InviteUserRequest{
		Email: formValue(r, "email"),
		Role:  domainauth.Role(formValue(r, "role")),
	}
	actor := sessionRole(r)

	h.mutate(w, r, mutation{
		Redirect: "/users",
		Success:  toast("Invite sent. " + req.Email + " can now sign in as " + string(req.Role) + "."),
		Run: func(ctx context.Context) error {
			fv := validation.New().Validate("email", req.Email, validation.Email("Email"))
			if err := invalid(fv, "email"); err != nil {
				return err
			}
			if !canAssign(actor, req.Role) {
				return apperrors.ValidationField("role", "You cannot grant that role.")
			}
			if err := req.Validate(); err != nil {
				return apperrors.Wrap(err, apperrors.ErrCodeValidation, "Enter a valid email and role.")
			}
			_, err := h.API.Users.Invite(ctx, req)
			return err
		},
	})
}

// UpdateUserRole changes another user's role.
// POST /users/{id}/role.
func (h *UIHandlers) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r); err != nil {
		h.mutationFailed(w, r, mutationFailure{Err: err, Page: "/users"})
		return
	}
	id := r.PathValue("id")
	raw := formValue(r, "role")
	viewer := GetSessionFromContext(r.Context())

	h.mutate(w, r, mutation{
		Redirect: "/users",
		Success:  toast("Role updated."),
		Run: func(ctx context.Context) error {
			role, ok := domainauth.ParseRole(raw)
			if !ok || !canAssign(viewer.Role, role) {
				return apperrors.ValidationField("role", "You cannot grant that role.")
			}
			if id == viewer.UserID {
				return apperrors.Validation("You cannot change your own role.")
			}
			if err := h.checkTarget(ctx, viewer, id); err != nil {
				return err
			}
			return h.API.Users.UpdateRole(ctx, id, role)
		},
	})
}

// LinkFarmer attaches a login account to a farmer record.
// POST /users/link.
func (h *UIHandlers) LinkFarmer(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(w, r); err != nil {
		h.mutationFailed(w, r, mutationFailure{Err: err, Page: "/users"})
		return
	}
	req := model.LinkFarmerRequest{
		UserID:   formValue(r, "user_id"),
		FarmerID: formValue(r, "farmer_id"),
	}

	h.mutate(w, r, mutation{
		Redirect: "/users",
		Success:  toast("Farmer linked to user."),
		Run: func(ctx context.Context) error {
			fv := validation.New().
				Validate("user_id", req.UserID, validation.Required("User", 64)).
				Validate("farmer_id", req.FarmerID, validation.Required("Farmer", 64))
			if err := invalid(fv, "user_id", "farmer_id"); err != nil {
				return err
			}
			return h.API.Farmers.Link(ctx, req)
		},
	})
}

// DeleteUser removes another user.
// POST /users/{id}/delete.
func (h *UIHandlers) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	viewer := GetSessionFromContext(r.Context())

	h.mutate(w, r, mutation{
		Redirect: "/users",
		Success:  toast("User removed."),
		Run: func(ctx context.Context) error {
			if id == viewer.UserID {
				return apperrors.Validation("You cannot remove yourself.")
			}
			if err := h.checkTarget(ctx, viewer, id); err != nil {
				return err
			}
			return h.API.Users.Delete(ctx, id)
		},
	})
}
