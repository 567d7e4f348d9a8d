package model

// Session is the authenticated caller identity passed explicitly into every
// usecase. Handlers build it from the verified token; nothing below the HTTP
// layer reads ambient auth state.
type Session struct {
	UserID   int64
	Role     Role
	ClientID *int64
}
