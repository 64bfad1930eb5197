package frontdoor

import (
	"context"

	"github.com/daikazu/frontdoor/pkg/account"
)

// Identity establishes and clears the signed-in account for the current
// request. session.Guard is the reference implementation; it reads the
// session from ctx.
type Identity interface {
	Login(ctx context.Context, acct *account.Account) error
	Logout(ctx context.Context) error
	// Current returns nil, nil when nobody is signed in.
	Current(ctx context.Context) (*account.Account, error)
}
