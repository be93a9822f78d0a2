package testing

import (
	"net/http"
	"net/http/httptest"

	"github.com/labstack/echo/v4"
)

func PrepareEchoContext(request *http.Request, response http.ResponseWriter) echo.Context {
	e := echo.New()
	return e.NewContext(request, response)
}

// ServeRequest runs request through handler and records the response.
func ServeRequest(handler http.Handler, request *http.Request) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}
