package main

import (
	"github.com/julienschmidt/httprouter"
)

// SetupBookRoutes injects book related the api endpoints.
func (api *APIHandler) SetupBookRoutes(router *httprouter.Router, m *MiddlewareMap) *httprouter.Router {
	router.RedirectTrailingSlash = true
	router.GET("/", m.public.Chain(api.Index))
	router.GET("/status", m.public.Chain(api.Status))
	router.POST("/v1/books", m.public.Chain(api.CreateBook))
	router.GET("/v1/books", m.public.Chain(api.SearchBooks))
	router.GET("/v1/books/:isbn", m.public.Chain(api.GetOneBook))
	router.PUT("/v1/books/:isbn", m.public.Chain(api.UpdateBook))
	router.DELETE("/v1/books/:isbn", m.public.Chain(api.DeleteOneBook))
	return router
}
