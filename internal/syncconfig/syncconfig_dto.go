package syncconfig

type CreateSyncConfigRequest struct {
	Name              string `json:"name" binding:"required,max=120"`
	IsActive          bool   `json:"is_active"`
	Host              string `json:"host" binding:"required"`
	Port              int    `json:"port" binding:"omitempty,min=1,max=65535"`
	Protocol          string `json:"protocol" binding:"omitempty,oneof=jsonrpc jsonrpc+ssl"`
	Database          string `json:"database" binding:"required"`
	Username          string `json:"username" binding:"required"`
	Password          string `json:"password" binding:"required"`
	SyncOnCreate      *bool  `json:"sync_on_create"`
	SyncOnApprove     *bool  `json:"sync_on_approve"`
	SyncOnRefuse      *bool  `json:"sync_on_refuse"`
	AutoApproveRemote bool   `json:"auto_approve_remote"`
}

// UpdateSyncConfigRequest is a partial update; nil fields are left untouched.
type UpdateSyncConfigRequest struct {
	Name              *string `json:"name" binding:"omitempty,max=120"`
	IsActive          *bool   `json:"is_active"`
	Host              *string `json:"host"`
	Port              *int    `json:"port" binding:"omitempty,min=1,max=65535"`
	Protocol          *string `json:"protocol" binding:"omitempty,oneof=jsonrpc jsonrpc+ssl"`
	Database          *string `json:"database"`
	Username          *string `json:"username"`
	Password          *string `json:"password"`
	SyncOnCreate      *bool   `json:"sync_on_create"`
	SyncOnApprove     *bool   `json:"sync_on_approve"`
	SyncOnRefuse      *bool   `json:"sync_on_refuse"`
	AutoApproveRemote *bool   `json:"auto_approve_remote"`
}

type SyncConfigResponse struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	IsActive          bool   `json:"is_active"`
	Host              string `json:"host"`
	Port              int    `json:"port"`
	Protocol          string `json:"protocol"`
	Database          string `json:"database"`
	Username          string `json:"username"`
	HasPassword       bool   `json:"has_password"`
	SyncOnCreate      bool   `json:"sync_on_create"`
	SyncOnApprove     bool   `json:"sync_on_approve"`
	SyncOnRefuse      bool   `json:"sync_on_refuse"`
	AutoApproveRemote bool   `json:"auto_approve_remote"`
	Complete          bool   `json:"complete"`
	CreatedAt         string `json:"created_at"`
	UpdatedAt         string `json:"updated_at"`
}

const (
	ResultSuccess = "success"
	ResultWarning = "warning"
)

// TestConnectionResult is the diagnostic shown to the administrator.
// A warning is a normal result, not an error.
type TestConnectionResult struct {
	Status     string `json:"status"`
	Title      string `json:"title"`
	Message    string `json:"message"`
	UserID     int64  `json:"user_id,omitempty"`
	UserName   string `json:"user_name,omitempty"`
	Database   string `json:"database,omitempty"`
	LeaveCount int64  `json:"leave_count"`
}
