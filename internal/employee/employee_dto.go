package employee

type CreateEmployeeRequest struct {
	FullName         string `json:"full_name" binding:"required,max=150"`
	Email            string `json:"email" binding:"required,email"`
	RemoteEmployeeID *int64 `json:"remote_employee_id" binding:"omitempty,min=1"`
}

// SetRemoteMappingRequest sets or clears (null) the remote employee id.
type SetRemoteMappingRequest struct {
	RemoteEmployeeID *int64 `json:"remote_employee_id" binding:"omitempty,min=1"`
}

type EmployeeResponse struct {
	ID               string `json:"id"`
	FullName         string `json:"full_name"`
	Email            string `json:"email"`
	RemoteEmployeeID *int64 `json:"remote_employee_id"`
}
