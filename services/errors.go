package services

import (
	"net/http"

	"github.com/krshsl/campusjobs/backend/apierror"
)

var (
	ErrInvalidCredentials = apierror.NewKind(http.StatusUnauthorized, "invalid credentials")
	ErrUnauthenticated    = apierror.NewKind(http.StatusUnauthorized, "authentication required")
	ErrForbidden          = apierror.NewKind(http.StatusForbidden, "not allowed")
	ErrDuplicateEmail     = apierror.NewKind(http.StatusConflict, "user already exists")
	ErrAlreadyOnboarded   = apierror.NewKind(http.StatusConflict, "onboarding already completed")
	ErrCannotDeleteSelf   = apierror.NewKind(http.StatusBadRequest, "admins cannot delete their own account")

	ErrUserNotFound          = apierror.NewKind(http.StatusNotFound, "user not found")
	ErrJobNotFound           = apierror.NewKind(http.StatusNotFound, "job listing not found")
	ErrApplicationNotFound   = apierror.NewKind(http.StatusNotFound, "application not found")
	ErrFriendRequestNotFound = apierror.NewKind(http.StatusNotFound, "friend request not found")
	ErrNotFriends            = apierror.NewKind(http.StatusForbidden, "users are not friends")
	ErrFriendshipNotFound    = apierror.NewKind(http.StatusNotFound, "friendship not found")
	ErrMessageNotFound       = apierror.NewKind(http.StatusNotFound, "message not found")
	ErrInterviewNotFound     = apierror.NewKind(http.StatusNotFound, "interview not found")
	ErrQuizNotFound          = apierror.NewKind(http.StatusNotFound, "quiz not found")
	ErrResumeNotFound        = apierror.NewKind(http.StatusNotFound, "resume not found")

	ErrSelfRequest       = apierror.NewKind(http.StatusBadRequest, "cannot send a friend request to yourself")
	ErrAlreadyConnected  = apierror.NewKind(http.StatusConflict, "a pending request or friendship already exists")
	ErrInvalidTransition = apierror.NewKind(http.StatusConflict, "invalid state transition")
	ErrJobClosed         = apierror.NewKind(http.StatusConflict, "job listing is closed")
	ErrAlreadyApplied    = apierror.NewKind(http.StatusConflict, "already applied to this job listing")

	ErrRateLimited     = apierror.NewKind(http.StatusTooManyRequests, "rate limit exceeded")
	ErrBodyTooLarge    = apierror.NewKind(http.StatusRequestEntityTooLarge, "request body too large")
	ErrAIUnavailable   = apierror.NewKind(http.StatusServiceUnavailable, "AI model is not configured")
	ErrAIRequest       = apierror.NewKind(http.StatusBadGateway, "AI model request failed")
	ErrAIOutput        = apierror.NewKind(http.StatusBadGateway, "AI model returned unusable output")
	ErrChatUnavailable = apierror.NewKind(http.StatusServiceUnavailable, "chat provider is not configured")
	ErrVideoProvider   = apierror.NewKind(http.StatusBadGateway, "video room provider failed")
	ErrNoVideoRoom     = apierror.NewKind(http.StatusServiceUnavailable, "interview has no video room")
)

// invalid builds a 400 error carrying a field specific message
func invalid(msg string) error {
	return apierror.NewKind(http.StatusBadRequest, msg)
}
