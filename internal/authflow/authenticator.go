package authflow

import (
	"context"
	"errors"

	"github.com/fzzzy/rube-iks-cube/internal/mcpclient"
)

// State of the credential machine.
type State int

const (
	Unauthenticated State = iota
	AuthorizationInFlight
	Authenticated
	Failed
)

func (s State) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case AuthorizationInFlight:
		return "authorization-in-flight"
	case Authenticated:
		return "authenticated"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Authorizer produces a credential interactively. *Flow satisfies it.
type Authorizer interface {
	Authorize(ctx context.Context, email string) (mcpclient.Credential, error)
}

// Authenticator owns the process-wide credential and the single-retry
// reauthentication policy. The credential is a value that gets replaced,
// never mutated; it is read-only for the duration of any one operation.
// One logical operation at a time is a precondition: running concurrent
// operations over the same identity is not supported.
type Authenticator struct {
	flow  Authorizer
	email string
	cred  mcpclient.Credential
	state State
}

// NewAuthenticator starts unauthenticated, with no credential attached.
func NewAuthenticator(flow Authorizer, email string) *Authenticator {
	return &Authenticator{flow: flow, email: email, state: Unauthenticated}
}

// Credential is the current credential, nil while unauthenticated.
func (a *Authenticator) Credential() mcpclient.Credential { return a.cred }

// State reports where the machine is.
func (a *Authenticator) State() State { return a.state }

// Do runs op with the current credential. On an authorization failure it
// runs the OAuth flow exactly once, swaps in the returned bearer token, and
// retries op exactly once more on a fresh session. A second authorization
// failure, or a flow that yields no token, surfaces AuthFailedError and
// parks the machine in its terminal Failed state.
func (a *Authenticator) Do(ctx context.Context, op func(cred mcpclient.Credential) error) error {
	err := op(a.cred)
	var authErr *mcpclient.AuthRequiredError
	if !errors.As(err, &authErr) {
		if err == nil && a.cred != nil {
			a.state = Authenticated
		}
		return err
	}

	a.state = AuthorizationInFlight
	cred, flowErr := a.flow.Authorize(ctx, a.email)
	if flowErr != nil {
		a.state = Failed
		return &mcpclient.AuthFailedError{Err: flowErr}
	}
	if cred == nil {
		a.state = Failed
		return &mcpclient.AuthFailedError{Err: errors.New("authorization flow yielded no credential")}
	}

	a.cred = cred
	retryErr := op(a.cred)
	if errors.As(retryErr, &authErr) {
		a.state = Failed
		return &mcpclient.AuthFailedError{Err: retryErr}
	}
	if retryErr != nil {
		return retryErr
	}
	a.state = Authenticated
	return nil
}
