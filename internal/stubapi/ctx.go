// Copyright (c) 2026 Parsight. All rights reserved.

package stubapi

import "context"

type ctxKey int

const keyAccount ctxKey = iota

// withAccount stores the authenticated account for downstream handlers.
func withAccount(ctx context.Context, acct *account) context.Context {
	return context.WithValue(ctx, keyAccount, acct)
}

// accountFrom returns the authenticated account. Only reachable behind the
// authenticate middleware, so the value is always present.
func accountFrom(ctx context.Context) *account {
	return ctx.Value(keyAccount).(*account)
}
