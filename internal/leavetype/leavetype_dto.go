package leavetype

type CreateLeaveTypeRequest struct {
	Name              string `json:"name" binding:"required,max=120"`
	Code              string `json:"code" binding:"required,max=40"`
	RemoteLeaveTypeID *int64 `json:"remote_leave_type_id" binding:"omitempty,min=1"`
}

type SetRemoteMappingRequest struct {
	RemoteLeaveTypeID *int64 `json:"remote_leave_type_id" binding:"omitempty,min=1"`
}

type LeaveTypeResponse struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Code              string `json:"code"`
	RemoteLeaveTypeID *int64 `json:"remote_leave_type_id"`
}

// RemoteLeaveTypeResponse is one hr.leave.type row read from the remote.
type RemoteLeaveTypeResponse struct {
	ID                       int64  `json:"id"`
	Name                     string `json:"name"`
	AllocationValidationType string `json:"allocation_validation_type,omitempty"`
}
