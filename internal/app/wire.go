//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"

	"github.com/julianstephens/habithub/internal/config"
)

func InitApp(cfg *config.Config) (*App, error) {
	wire.Build(ProviderSet)
	return nil, nil
}
