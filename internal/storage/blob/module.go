package blob

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/padudon-bit/IndieBook-project/internal/config"
)

// Module provides the bucket-backed object store.
var Module = fx.Provide(newStore)

type storeParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *slog.Logger
}

func newStore(p storeParams) (Store, error) {
	var (
		store    *BucketStore
		err      error
		location = slog.String("dir", p.Config.UploadsDir)
	)
	if p.Config.UploadsURL != "" {
		location = slog.String("url", p.Config.UploadsURL)
		store, err = OpenURL(context.Background(), p.Config.UploadsURL, p.Logger)
	} else {
		store, err = OpenDir(p.Config.UploadsDir, p.Logger)
	}
	if err != nil {
		return nil, err
	}
	p.Logger.Info("uploads bucket opened", location)

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return store.Close()
		},
	})
	return store, nil
}
