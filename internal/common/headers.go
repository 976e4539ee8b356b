package common

import (
	"context"

	"github.com/citizenwallet/governance/pkg/governance"
)

// GetContextAddress returns the governance.ContextKeyAddress from the context
func GetContextAddress(ctx context.Context) (string, bool) {
	addr, ok := ctx.Value(governance.ContextKeyAddress).(string)
	return addr, ok
}
