package main

import (
	"go.uber.org/fx"

	"github.com/calvoclucas/app-mdw-2025/internal/app"
)

func main() {
	fx.New(app.Module).Run()
}
