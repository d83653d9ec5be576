package main

import (
	"go.uber.org/fx"

	"backoffice-agent/internal/service"
)

func main() {
	fx.New(service.Modules()).Run()
}
