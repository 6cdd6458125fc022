package handler

import (
	"net/http"
	"sync"

	"tablebook/config"
	"tablebook/di"
	"tablebook/shared/logger"
	tbHTTP "tablebook/transport/http"
)

var (
	server *tbHTTP.HTTP
	once   sync.Once
)

// Handler is the serverless entrypoint. The dependency graph is built on the
// first invocation and reused while the instance stays warm.
func Handler(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		logger.InitLogger()
		logger.SetLogLevel(config.Get())

		server = di.InitializeService()
	})

	r.RequestURI = r.URL.String()

	server.ServeHTTP(w, r)
}
