package rbac

import "go-leavesync/internal/domain"

type EnforceRequest = domain.EnforceRequest

type EnforceResponse = domain.EnforceResponse

type PermissionResponse struct {
	Resource string `json:"resource"`
	Action   string `json:"action"`
}
