package misc

import (
	"net/http"

	"github.com/notetube/notetube/internal/utils"
)

// HealthHandler reports DB, Redis and server health status.
// Wrap this with middleware that allows only admins.
func (s *Service) HealthHandler(w http.ResponseWriter, r *http.Request) {

	// Construct joined map
	data := map[string]any{
		"redis_status":    s.rdb.Health(r.Context()),
		"database_status": s.db.Health(r.Context()),
		"server_status":   getServerStats(),
	}

	utils.WriteJSON(w, r, data)
}
