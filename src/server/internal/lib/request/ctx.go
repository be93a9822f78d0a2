package request

import (
	"context"

	"github.com/SaiKishan369/Music-Analysis-and-Transformation-System/src/shared/lib/env"
	"github.com/labstack/echo/v4"
)

func Context(c echo.Context) context.Context {
	if !env.IsSet() {
		return c.Request().Context()
	}

	switch env.Get() {
	case env.Production, env.Test:
		return c.Request().Context()

	case env.Development:
		// opt to not use the request context in development situations
		// to avoid timeouts during debugging
		return context.Background()

	default:
		panic("Unrecognized environment")
	}
}
