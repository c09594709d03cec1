//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/google/wire"
	"go.uber.org/zap"

	"github.com/plus3/vane/engine"
)

func ProvideLogger(cfg engine.Config) (*zap.Logger, error) {
	wire.Build(
		wire.FieldsOf(new(engine.Config), "Log"),
		engine.NewLogger,
	)
	return nil, nil
}

func ProvideContext(cfg engine.Config) (*engine.Context, error) {
	wire.Build(
		wire.FieldsOf(new(engine.Config), "Log"),
		engine.NewLogger,
		engine.NewContext,
	)
	return nil, nil
}

func ProvideContextFromFile(path string) (*engine.Context, error) {
	wire.Build(
		engine.LoadConfigFile,
		wire.FieldsOf(new(engine.Config), "Log"),
		engine.NewLogger,
		engine.NewContext,
	)
	return nil, nil
}
