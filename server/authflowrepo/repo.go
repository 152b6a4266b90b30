package authflowrepo

import "time"

// AuthFlowState tracks one in-flight SSO redirect: the opaque state value
// sent to the provider and the destination to return the browser to after
// the callback.
type AuthFlowState struct {
	ReturnURL string
	CreatedAt time.Time
}

type Repo interface {
	Upsert(state string, authState *AuthFlowState) error
	Get(state string) (*AuthFlowState, error)
	Delete(state string) error
}
