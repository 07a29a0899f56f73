package server

import (
	"net/http"

	"github.com/sheeladecor/paintsadmin/internal/utils"
	"github.com/sheeladecor/paintsadmin/pkg/screens"
	"github.com/sheeladecor/paintsadmin/pkg/storage"
)

type Server struct {
	// Deps builds every screen. Perms is replaced per request by the stored
	// allow-list when DB is set.
	Deps     screens.Deps
	DB       *storage.DB
	Username string
	Password string
}

func New(deps screens.Deps, db *storage.DB, user, pass string) *Server {
	return &Server{
		Deps:     deps,
		DB:       db,
		Username: user,
		Password: pass,
	}
}

// Handler returns the API routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/colours", s.basicAuth(s.handleColours))
	mux.HandleFunc("POST /api/colours", s.basicAuth(s.handleSaveColours))
	mux.HandleFunc("DELETE /api/colours", s.basicAuth(s.handleDeleteColours))
	mux.HandleFunc("GET /api/attendance", s.basicAuth(s.handleAttendance))
	mux.HandleFunc("POST /api/attendance", s.basicAuth(s.handleSaveAttendance))
	mux.HandleFunc("GET /api/labours", s.basicAuth(s.handleLabours))
	mux.HandleFunc("GET /api/products", s.basicAuth(s.handleProducts))
	mux.HandleFunc("GET /api/payments", s.basicAuth(s.handlePayments))
	mux.HandleFunc("GET /api/cache", s.basicAuth(s.handleCache))
	mux.HandleFunc("GET /api/mutations", s.basicAuth(s.handleMutations))
	mux.HandleFunc("GET /api/stats", s.basicAuth(s.handleStats))

	return mux
}

func (s *Server) Start(addr string) error {
	utils.Log.Infof("Starting server on %s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) basicAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.Username == "" && s.Password == "" {
			next(w, r)
			return
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != s.Username || pass != s.Password {
			w.Header().Set("WWW-Authenticate", `Basic realm="Restricted"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}
