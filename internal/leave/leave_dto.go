package leave

// Dates accept YYYY-MM-DD or YYYY-MM-DD HH:MM:SS. NumberOfDays defaults to
// the inclusive calendar day count of the range.
type CreateLeaveRequest struct {
	EmployeeID      string   `json:"employee_id" binding:"required,uuid"`
	LeaveTypeID     string   `json:"leave_type_id" binding:"required,uuid"`
	Name            string   `json:"name" binding:"max=255"`
	DateFrom        string   `json:"date_from" binding:"required"`
	DateTo          string   `json:"date_to" binding:"required"`
	NumberOfDays    *float64 `json:"number_of_days" binding:"omitempty,gt=0"`
	RequestDateFrom *string  `json:"request_date_from"`
	RequestDateTo   *string  `json:"request_date_to"`
}

type UpdateLeaveRequest struct {
	Name            *string  `json:"name" binding:"omitempty,max=255"`
	DateFrom        *string  `json:"date_from"`
	DateTo          *string  `json:"date_to"`
	NumberOfDays    *float64 `json:"number_of_days" binding:"omitempty,gt=0"`
	RequestDateFrom *string  `json:"request_date_from"`
	RequestDateTo   *string  `json:"request_date_to"`
}

type LeaveResponse struct {
	ID              string  `json:"id"`
	EmployeeID      string  `json:"employee_id"`
	EmployeeName    string  `json:"employee_name"`
	LeaveTypeID     string  `json:"leave_type_id"`
	LeaveTypeName   string  `json:"leave_type_name"`
	Name            string  `json:"name"`
	DateFrom        string  `json:"date_from"`
	DateTo          string  `json:"date_to"`
	NumberOfDays    float64 `json:"number_of_days"`
	RequestDateFrom *string `json:"request_date_from,omitempty"`
	RequestDateTo   *string `json:"request_date_to,omitempty"`
	State           string  `json:"state"`
	CreatedBy       string  `json:"created_by"`
	ApprovedBy      *string `json:"approved_by,omitempty"`

	SyncStatus       string  `json:"sync_status"`
	HasRemoteSync    bool    `json:"has_remote_sync"`
	RemoteLeaveID    *int64  `json:"remote_leave_id,omitempty"`
	SyncErrorMessage *string `json:"sync_error_message,omitempty"`
	LastSyncAt       *string `json:"last_sync_at,omitempty"`
}

// WithoutSyncDetails hides the remote id and the sync error text.
func (r LeaveResponse) WithoutSyncDetails() LeaveResponse {
	r.RemoteLeaveID = nil
	r.SyncErrorMessage = nil
	return r
}
