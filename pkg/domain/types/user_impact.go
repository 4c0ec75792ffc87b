package types

import "github.com/m-mizutani/goerr/v2"

// UserImpact is how badly users are affected when a capability fails. Same
// shape as FailureRate: ordered levels plus a UserImpactNA sentinel.
type UserImpact string

const (
	UserImpactNA           UserImpact = "NA"
	UserImpactMinimal      UserImpact = "MINIMAL"
	UserImpactSome         UserImpact = "SOME"
	UserImpactConsiderable UserImpact = "CONSIDERABLE"
	UserImpactMaximal      UserImpact = "MAXIMAL"
)

// AllUserImpacts returns every user impact, NA first and then in ascending severity
func AllUserImpacts() []UserImpact {
	return []UserImpact{
		UserImpactNA,
		UserImpactMinimal,
		UserImpactSome,
		UserImpactConsiderable,
		UserImpactMaximal,
	}
}

// IsValid checks if the user impact is a known value
func (u UserImpact) IsValid() bool {
	switch u {
	case UserImpactNA,
		UserImpactMinimal,
		UserImpactSome,
		UserImpactConsiderable,
		UserImpactMaximal:
		return true
	default:
		return false
	}
}

// Ordinal returns the position of u on the severity scale starting at 0.
// ok is false for UserImpactNA and for unknown values.
func (u UserImpact) Ordinal() (ordinal int, ok bool) {
	switch u {
	case UserImpactMinimal:
		return 0, true
	case UserImpactSome:
		return 1, true
	case UserImpactConsiderable:
		return 2, true
	case UserImpactMaximal:
		return 3, true
	default:
		return 0, false
	}
}

// Description returns a human readable phrase for the user impact
func (u UserImpact) Description() string {
	switch u {
	case UserImpactMinimal:
		return "minimal impact on users"
	case UserImpactSome:
		return "some impact on users"
	case UserImpactConsiderable:
		return "considerable impact on users"
	case UserImpactMaximal:
		return "maximal impact on users"
	default:
		return "user impact not applicable"
	}
}

// String returns the string representation of the user impact
func (u UserImpact) String() string {
	return string(u)
}

// ParseUserImpact parses a string into a UserImpact. An empty string is NA.
func ParseUserImpact(s string) (UserImpact, error) {
	if s == "" {
		return UserImpactNA, nil
	}
	u := UserImpact(s)
	if !u.IsValid() {
		return "", goerr.New("invalid user impact", goerr.V("value", s), goerr.V("allowed", AllUserImpacts()))
	}
	return u, nil
}
