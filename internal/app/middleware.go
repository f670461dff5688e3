package app

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rbbydotdev/someday/internal/config"
	"github.com/rbbydotdev/someday/pkg/owner"
	log "github.com/sirupsen/logrus"
)

// SetupMiddleware wires all HTTP middlewares for the application.
func SetupMiddleware(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Mark requests carrying the owner's forwarded identity. The proxy in
	// front of the server is trusted to set this header.
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := req.Context()

			identity := req.Header.Get(cfg.Owner.Header)
			if cfg.Owner.Email != "" && identity == cfg.Owner.Email {
				log.Debugf("owner request: %s %s", req.Method, req.URL.Path)
				ctx = owner.WithOwner(ctx)
			}
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
}
