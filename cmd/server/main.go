package main

import (
	"social-publisher/internal/app"

	"go.uber.org/fx"
)

func main() {
	fx.New(app.Server).Run()
}
