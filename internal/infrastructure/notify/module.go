package notify

import "go.uber.org/fx"

var Module = fx.Module("notify",
	fx.Provide(
		NewFeed,
		func(f *Feed) Notifier { return f },
	),
)
