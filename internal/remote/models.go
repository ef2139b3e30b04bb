package remote

// Remote model names used by the leave sync.
const (
	ModelLeave     = "hr.leave"
	ModelLeaveType = "hr.leave.type"
	ModelUser      = "res.users"
)

// Remote hr.leave states and actions.
const (
	LeaveStateValidate = "validate"
	LeaveStateRefuse   = "refuse"

	ActionApprove = "action_approve"
	ActionRefuse  = "action_refuse"
)

// datetime and date layouts expected by the remote ORM
const (
	DatetimeLayout = "2006-01-02 15:04:05"
	DateLayout     = "2006-01-02"
)
