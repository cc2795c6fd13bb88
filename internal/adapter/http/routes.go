package http

import "github.com/labstack/echo/v4"

// Routes registers every endpoint on e. Mutating endpoints go through guard,
// typically the idempotency middleware.
func Routes(e *echo.Echo, h *Handler, mh *MethodHandler, dh *DeskHandler, guard echo.MiddlewareFunc) {
	e.GET("/health", h.Health)

	var mw []echo.MiddlewareFunc
	if guard != nil {
		mw = append(mw, guard)
	}

	api := e.Group("/api")
	api.POST("/method/make_repayment_entry", mh.MakeRepaymentEntry, mw...)

	d := api.Group("/desk")
	d.GET("/:doctype", dh.List)
	d.GET("/:doctype/:name", dh.Form)
	d.POST("/:doctype", dh.Create, mw...)
	d.POST("/:doctype/:name/actions", dh.Action, mw...)
	d.POST("/:doctype/:name/submit", dh.Submit, mw...)
	d.POST("/:doctype/:name/cancel", dh.Cancel, mw...)
	d.POST("/:doctype/:name/close", dh.Close, mw...)
}
