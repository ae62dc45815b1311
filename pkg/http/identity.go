package http

import (
	"net/http"
	"strconv"

	apperrors "confstay/pkg/errors"
)

// HeaderUserID carries the authenticated user id, set by the upstream
// gateway after token verification.
const HeaderUserID = "X-User-Id"

// UserID extracts the caller's identity from the request. Requests without a
// valid positive id are unauthorized.
func UserID(r *http.Request) (int64, error) {
	raw := r.Header.Get(HeaderUserID)
	if raw == "" {
		return 0, apperrors.Unauthorized("Missing user identity")
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.Unauthorized("Invalid user identity")
	}
	return id, nil
}
