package entity

type AccountStatus int16

const (
	// AccountStatusUnknown is mean status is not known / not set.
	AccountStatusUnknown AccountStatus = 0

	// AccountStatusActive mean account is verified and allowed to use the app.
	AccountStatusActive AccountStatus = 1

	// AccountStatusBlocked mean account is blocked from using the app (policy/abuse/etc).
	AccountStatusBlocked AccountStatus = 2
)

func (as AccountStatus) String() string {
	switch as {
	case AccountStatusActive:
		return "Active"
	case AccountStatusBlocked:
		return "Blocked"
	default:
		return "Unknown"
	}
}

func (as AccountStatus) Ensure() AccountStatus {
	switch as {
	case AccountStatusActive:
		return AccountStatusActive
	case AccountStatusBlocked:
		return AccountStatusBlocked
	default:
		return AccountStatusUnknown
	}
}
