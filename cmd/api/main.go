package main

import (
	"go.uber.org/fx"

	"github.com/bookmint/inkwell/internal/app"
)

func main() {
	fx.New(app.Module).Run()
}
