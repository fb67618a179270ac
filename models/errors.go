package models

// ErrorUnauthorized means the caller has no identity.
type ErrorUnauthorized struct {
	Message string
}

func (e ErrorUnauthorized) Error() string { return e.Message }

// ErrorForbidden means the caller is known but lacks the required role.
type ErrorForbidden struct {
	Message string
}

func (e ErrorForbidden) Error() string { return e.Message }

// ErrorNotFound covers both absent records and records hidden from the caller.
type ErrorNotFound struct {
	Message string
}

func (e ErrorNotFound) Error() string { return e.Message }

type ErrorValidation struct {
	Message string
}

func (e ErrorValidation) Error() string { return e.Message }

type ErrorConflict struct {
	Message string
}

func (e ErrorConflict) Error() string { return e.Message }

type ErrorInternalServer struct {
	Message string
}

func (e ErrorInternalServer) Error() string { return e.Message }
