package model

// RequestStatus represents where the single in-flight request of the UI stands
type RequestStatus string

const (
	// RequestStatusIdle means no request has been submitted yet
	RequestStatusIdle RequestStatus = "Idle"

	// RequestStatusRunning means a request is executing in the background
	RequestStatusRunning RequestStatus = "Running"

	// RequestStatusSucceeded means the last request produced a file
	RequestStatusSucceeded RequestStatus = "Succeeded"

	// RequestStatusFailed means the last request ended with a classified error
	RequestStatusFailed RequestStatus = "Failed"
)

// String returns the string representation of RequestStatus
func (rs RequestStatus) String() string {
	return string(rs)
}

// IsActive returns true while a request is executing
func (rs RequestStatus) IsActive() bool {
	return rs == RequestStatusRunning
}

// IsFinished returns true if the request reached a terminal state
func (rs RequestStatus) IsFinished() bool {
	return rs == RequestStatusSucceeded || rs == RequestStatusFailed
}
