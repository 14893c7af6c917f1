package billing

import (
	"time"

	"github.com/clocko-app/clocko/app/models"
)

// Status is the computed access state for a user. IsActive is the product
// capability gate: a paid subscription or an unexpired trial grants access.
type Status struct {
	IsActive           bool
	IsInTrial          bool
	TrialEndsAt        *time.Time
	SubscriptionStatus string
	User               *models.User
}

// ResolveStatus derives the access state from the stored billing fields. It is
// side-effect free and cheap enough to call on every request. A nil user
// (unauthenticated or missing row) resolves to inactive without error.
func ResolveStatus(user *models.User, now time.Time) Status {
	if user == nil {
		return Status{}
	}

	status := Status{
		User:               user,
		SubscriptionStatus: user.SubscriptionStatus,
		TrialEndsAt:        user.TrialEndsAt,
	}
	if user.TrialEndsAt != nil && now.Before(*user.TrialEndsAt) {
		status.IsInTrial = true
	}
	status.IsActive = user.SubscriptionStatus == models.SubscriptionStatusActive || status.IsInTrial

	return status
}
