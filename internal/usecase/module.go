package usecase

import "go.uber.org/fx"

var Module = fx.Module("usecase",
	fx.Provide(NewErrorHandler),
	fx.Provide(NewAuthUsecase),
	fx.Provide(NewMasterData),
	fx.Provide(NewDashboardUsecase),
	fx.Provide(NewFileUsecase),
)
