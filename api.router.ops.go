package main

import (
	"net/http"
	"net/http/pprof"

	"github.com/julienschmidt/httprouter"
)

// SetupOpsRoutes injects internal operations related endpoints.
func (api *APIHandler) SetupOpsRoutes(router *httprouter.Router, m *MiddlewareMap) *httprouter.Router {
	router.RedirectTrailingSlash = true
	router.GET("/ops/configs", m.ops.Chain(api.GetConfigs))
	router.GET("/ops/stats", m.ops.Chain(api.GetStatistics))
	router.GET("/ops/maintenance", m.ops.Chain(api.Maintenance))
	router.GET("/ops/debug/vars", m.ops.Chain(GetMemStats))
	router.GET("/ops/debug/gc", m.ops.Chain(api.RunGC))
	router.GET("/ops/debug/fos", m.ops.Chain(api.FreeOSMemory))

	if api.config.ProfilerEnable {
		router.GET("/ops/debug/pprof/", m.ops.Chain(api.OpsHandlerWrapper(http.HandlerFunc(pprof.Index))))
		router.GET("/ops/debug/pprof/profile", m.ops.Chain(api.GetCPUProfile))
		router.GET("/ops/debug/pprof/trace", m.ops.Chain(api.GetTraceProfile))
		router.GET("/ops/debug/pprof/symbol", m.ops.Chain(api.GetSymbol))
		router.GET("/ops/debug/pprof/cmdline", m.ops.Chain(api.GetCmdLine))
		router.GET("/ops/debug/pprof/heap", m.ops.Chain(api.OpsHandlerWrapper(pprof.Handler("heap"))))
		router.GET("/ops/debug/pprof/allocs", m.ops.Chain(api.OpsHandlerWrapper(pprof.Handler("allocs"))))
		router.GET("/ops/debug/pprof/goroutine", m.ops.Chain(api.OpsHandlerWrapper(pprof.Handler("goroutine"))))
		router.GET("/ops/debug/pprof/threadcreate", m.ops.Chain(api.OpsHandlerWrapper(pprof.Handler("threadcreate"))))
		router.GET("/ops/debug/pprof/block", m.ops.Chain(api.OpsHandlerWrapper(pprof.Handler("block"))))
		router.GET("/ops/debug/pprof/mutex", m.ops.Chain(api.OpsHandlerWrapper(pprof.Handler("mutex"))))
	}

	return router
}
