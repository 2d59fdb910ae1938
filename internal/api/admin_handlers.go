package api

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/lionbidapp/lionbid-server/internal/backup"
	"github.com/lionbidapp/lionbid-server/internal/domain"
	"github.com/lionbidapp/lionbid-server/internal/service"
)

func (s *Server) registerAdminRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "adminLogin",
		Method:      http.MethodPost,
		Path:        "/api/v1/admin/login",
		Summary:     "Admin login",
		Description: "Authenticates the admin account and issues a session token",
		Tags:        []string{"Admin"},
	}, s.handleAdminLogin)

	huma.Register(s.api, huma.Operation{
		OperationID:   "adminLogout",
		Method:        http.MethodPost,
		Path:          "/api/v1/admin/logout",
		Summary:       "Admin logout",
		Description:   "Revokes the current session token",
		Tags:          []string{"Admin"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusNoContent,
	}, s.handleAdminLogout)

	huma.Register(s.api, huma.Operation{
		OperationID: "adminDashboard",
		Method:      http.MethodGet,
		Path:        "/api/v1/admin/dashboard",
		Summary:     "Admin dashboard",
		Description: "Returns auction-wide statistics",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAdminDashboard)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createLion",
		Method:        http.MethodPost,
		Path:          "/api/v1/admin/lions",
		Summary:       "Create lion",
		Description:   "Adds a new entry to the catalogue",
		Tags:          []string{"Admin"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateLion)

	huma.Register(s.api, huma.Operation{
		OperationID: "getLionAdmin",
		Method:      http.MethodGet,
		Path:        "/api/v1/admin/lions/{id}",
		Summary:     "Get lion (admin)",
		Description: "Returns a catalogue entry by store ID for editing",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetLionAdmin)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateLion",
		Method:      http.MethodPatch,
		Path:        "/api/v1/admin/lions/{id}",
		Summary:     "Update lion",
		Description: "Applies a partial update to a catalogue entry",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateLion)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createBackup",
		Method:        http.MethodPost,
		Path:          "/api/v1/admin/backup",
		Summary:       "Create backup",
		Description:   "Writes a full store snapshot to the backup directory",
		Tags:          []string{"Admin"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateBackup)

	huma.Register(s.api, huma.Operation{
		OperationID: "listBackups",
		Method:      http.MethodGet,
		Path:        "/api/v1/admin/backups",
		Summary:     "List backups",
		Description: "Lists store snapshots, newest first",
		Tags:        []string{"Admin"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListBackups)

	// Direct chi route for CSV download, bypassing the JSON envelope.
	s.router.Get("/api/v1/admin/export/bids.csv", s.handleExportBids)
}

// === DTOs ===

// AdminLoginInput wraps the login request for Huma.
type AdminLoginInput struct {
	Body service.LoginRequest
}

// AdminLoginOutput wraps the login response for Huma.
type AdminLoginOutput struct {
	Body service.LoginResponse
}

// AdminLogoutInput contains the session to revoke.
type AdminLogoutInput struct {
	Authorization string `header:"Authorization"`
}

// AdminLogoutOutput is the empty response for a logout.
type AdminLogoutOutput struct{}

// AdminDashboardInput contains parameters for the dashboard.
type AdminDashboardInput struct {
	Authorization string `header:"Authorization"`
}

// AdminDashboardOutput wraps the dashboard stats for Huma.
type AdminDashboardOutput struct {
	Body service.DashboardStats
}

// CreateLionInput wraps the create request for Huma.
type CreateLionInput struct {
	Authorization string `header:"Authorization"`
	Body          service.CreateLionRequest
}

// AdminLionResponse contains the full catalogue entry for admin views.
type AdminLionResponse struct {
	ID              string     `json:"id" doc:"Lion ID"`
	Slug            string     `json:"slug" doc:"Public slug"`
	Name            string     `json:"name" doc:"Display name"`
	House           string     `json:"house,omitempty" doc:"Sponsoring house"`
	Summary         string     `json:"summary" doc:"Catalogue description"`
	CurrentBid      int64      `json:"current_bid" doc:"Current bid amount"`
	BiddingStartsAt *time.Time `json:"bidding_starts_at,omitempty" doc:"Window start (UTC)"`
	BiddingEndsAt   *time.Time `json:"bidding_ends_at,omitempty" doc:"Window end (UTC)"`
	ImageIDs        []string   `json:"image_ids,omitempty" doc:"Attached image IDs"`
	CreatedAt       time.Time  `json:"created_at" doc:"Creation time"`
	UpdatedAt       time.Time  `json:"updated_at" doc:"Last update time"`
}

// AdminLionOutput wraps an admin lion response for Huma.
type AdminLionOutput struct {
	Body AdminLionResponse
}

// CreateBackupInput contains parameters for a snapshot request.
type CreateBackupInput struct {
	Authorization string `header:"Authorization"`
}

// CreateBackupOutput wraps a snapshot result for Huma.
type CreateBackupOutput struct {
	Body backup.Result
}

// ListBackupsInput contains parameters for the snapshot listing.
type ListBackupsInput struct {
	Authorization string `header:"Authorization"`
}

// ListBackupsResponse contains the snapshots on disk.
type ListBackupsResponse struct {
	Backups []backup.Info `json:"backups"`
}

// ListBackupsOutput wraps the snapshot listing for Huma.
type ListBackupsOutput struct {
	Body ListBackupsResponse
}

// GetLionAdminInput contains parameters for an admin lion fetch.
type GetLionAdminInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Lion ID"`
}

// UpdateLionInput wraps the update request for Huma.
type UpdateLionInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Lion ID"`
	Body          service.UpdateLionRequest
}

// === Handlers ===

func (s *Server) handleAdminLogin(ctx context.Context, input *AdminLoginInput) (*AdminLoginOutput, error) {
	resp, err := s.services.Auth.Login(ctx, input.Body)
	if err != nil {
		return nil, err
	}
	return &AdminLoginOutput{Body: *resp}, nil
}

func (s *Server) handleAdminLogout(ctx context.Context, input *AdminLogoutInput) (*AdminLogoutOutput, error) {
	if _, err := s.authenticateAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	// authenticateAdmin validated the header shape, so the token is
	// everything after "Bearer ".
	s.services.Auth.Logout(ctx, input.Authorization[len("Bearer "):])
	return &AdminLogoutOutput{}, nil
}

func (s *Server) handleAdminDashboard(ctx context.Context, input *AdminDashboardInput) (*AdminDashboardOutput, error) {
	if _, err := s.authenticateAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	stats, err := s.services.Bid.Dashboard(ctx)
	if err != nil {
		return nil, err
	}
	return &AdminDashboardOutput{Body: *stats}, nil
}

func (s *Server) handleCreateLion(ctx context.Context, input *CreateLionInput) (*AdminLionOutput, error) {
	if _, err := s.authenticateAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	lion, err := s.services.Lion.CreateLion(ctx, input.Body)
	if err != nil {
		return nil, err
	}
	return &AdminLionOutput{Body: adminLionResponse(lion)}, nil
}

func (s *Server) handleGetLionAdmin(ctx context.Context, input *GetLionAdminInput) (*AdminLionOutput, error) {
	if _, err := s.authenticateAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	lion, err := s.services.Lion.GetLion(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &AdminLionOutput{Body: adminLionResponse(lion)}, nil
}

func (s *Server) handleUpdateLion(ctx context.Context, input *UpdateLionInput) (*AdminLionOutput, error) {
	if _, err := s.authenticateAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	lion, err := s.services.Lion.UpdateLion(ctx, input.ID, input.Body)
	if err != nil {
		return nil, err
	}
	return &AdminLionOutput{Body: adminLionResponse(lion)}, nil
}

func (s *Server) handleCreateBackup(ctx context.Context, input *CreateBackupInput) (*CreateBackupOutput, error) {
	if _, err := s.authenticateAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	result, err := s.services.Backup.Create(ctx)
	if err != nil {
		return nil, err
	}
	return &CreateBackupOutput{Body: *result}, nil
}

func (s *Server) handleListBackups(ctx context.Context, input *ListBackupsInput) (*ListBackupsOutput, error) {
	if _, err := s.authenticateAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	infos, err := s.services.Backup.List()
	if err != nil {
		return nil, err
	}
	return &ListBackupsOutput{Body: ListBackupsResponse{Backups: infos}}, nil
}

// handleExportBids streams the bid export as a CSV attachment.
func (s *Server) handleExportBids(w http.ResponseWriter, r *http.Request) {
	if _, err := s.authenticateAdmin(r.Context(), r.Header.Get("Authorization")); err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"v":1,"success":false,"error":"Invalid or expired session"}`))
		return
	}

	// Build the export up front so a storage fault becomes a clean
	// error response instead of a truncated download.
	var buf bytes.Buffer
	if err := s.services.Bid.ExportCSV(r.Context(), &buf); err != nil {
		s.logger.Error("bid export failed", "error", err)
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"v":1,"success":false,"error":"Export failed"}`))
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="bids.csv"`)
	_, _ = w.Write(buf.Bytes())
}

func adminLionResponse(lion *domain.Lion) AdminLionResponse {
	return AdminLionResponse{
		ID:              lion.ID,
		Slug:            lion.Slug,
		Name:            lion.Name,
		House:           lion.House,
		Summary:         lion.Summary,
		CurrentBid:      lion.CurrentBid,
		BiddingStartsAt: lion.BiddingStartsAt,
		BiddingEndsAt:   lion.BiddingEndsAt,
		ImageIDs:        lion.ImageIDs,
		CreatedAt:       lion.CreatedAt,
		UpdatedAt:       lion.UpdatedAt,
	}
}
