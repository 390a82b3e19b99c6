package auth

import "log/slog"

type authenticator struct {
	allowedUserIDs []int64
}

// NewAuthenticator restricts the bot to the given user IDs. An empty
// list means the bot is public.
func NewAuthenticator(allowedUserIDs []int64) *authenticator {
	if len(allowedUserIDs) > 0 {
		slog.Info("telegram allowed user IDs", "user_ids", allowedUserIDs)
	}

	return &authenticator{
		allowedUserIDs: allowedUserIDs,
	}
}

func (a *authenticator) IsAuthorized(userID int64) bool {
	if len(a.allowedUserIDs) == 0 {
		return true
	}
	for _, id := range a.allowedUserIDs {
		if userID == id {
			return true
		}
	}
	return false
}
