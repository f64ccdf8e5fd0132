package domain

const (
	RequesterAddressCtxKey = "dp-requesterAddress"
	SessionTokenCtxKey     = "dp-sessionToken"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "driftpad_session"
