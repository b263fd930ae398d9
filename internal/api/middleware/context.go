package middleware

import "context"

type contextKey string

const (
	OrgIDKey     contextKey = "org_id"
	RequestIDKey contextKey = "request_id"
)

// GetOrgID returns the organization ID from context.
func GetOrgID(ctx context.Context) string {
	orgID, _ := ctx.Value(OrgIDKey).(string)
	return orgID
}

// GetRequestID returns the request ID from context.
func GetRequestID(ctx context.Context) string {
	requestID, _ := ctx.Value(RequestIDKey).(string)
	return requestID
}
