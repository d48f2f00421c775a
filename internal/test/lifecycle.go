package test

import (
	"go.uber.org/fx"
)

// ShutdownerStub records shutdown requests made by lifecycle hooks.
type ShutdownerStub struct {
	Called chan struct{}
}

// Shutdown signals Called without blocking when nobody listens.
func (s *ShutdownerStub) Shutdown(...fx.ShutdownOption) error {
	if s.Called != nil {
		select {
		case s.Called <- struct{}{}:
		default:
		}
	}
	return nil
}

var _ fx.Shutdowner = (*ShutdownerStub)(nil)
