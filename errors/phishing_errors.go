// errors/phishing_errors.go
package errors

import "errors"

var (
	ErrInvalidIncidentData = errors.New("invalid incident data")
	ErrInvalidThreatLevel  = errors.New("invalid threat level")
	ErrInvalidPagination   = errors.New("invalid pagination parameters")
	ErrDatabaseOperation   = errors.New("database operation failed")
	ErrInternalServer      = errors.New("internal server error")
)
