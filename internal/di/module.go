package di

import (
	"go.uber.org/fx"

	"github.com/padudon-bit/IndieBook-project/internal/adapter/events"
	"github.com/padudon-bit/IndieBook-project/internal/app"
	"github.com/padudon-bit/IndieBook-project/internal/config"
	"github.com/padudon-bit/IndieBook-project/internal/logger"
	"github.com/padudon-bit/IndieBook-project/internal/pkg/auth"
	"github.com/padudon-bit/IndieBook-project/internal/server/http/handlers"
	"github.com/padudon-bit/IndieBook-project/internal/server/http/router"
	"github.com/padudon-bit/IndieBook-project/internal/storage/blob"
	"github.com/padudon-bit/IndieBook-project/internal/storage/cache"
	"github.com/padudon-bit/IndieBook-project/internal/storage/postgres"
	"github.com/padudon-bit/IndieBook-project/internal/usecase"
)

// Module assembles the full application graph. Extra options are appended last
// so callers can replace any provided value.
func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		blob.Module,
		cache.Module,
		events.Module,
		usecase.Module,
		fx.Provide(func(f *app.StoreFacade) handlers.StoreFacade { return f }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
