package permissions

import (
	_ "embed"
	"encoding/json"
	"slices"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
)

//go:embed permissions.json
var permissionsData []byte

// Permission lists the roles allowed on one route pattern. Skip marks a
// public route.
type Permission struct {
	Permissions []string `json:"permissions"`
	Path        string   `json:"path"`
	Method      string   `json:"method"`
	Skip        bool     `json:"skip"`
}

// Allows reports whether role may call the route. An empty role list admits
// any authenticated caller.
func (p Permission) Allows(role string) bool {
	return len(p.Permissions) == 0 || slices.Contains(p.Permissions, role)
}

type PermissionData struct {
	Endpoints []Permission `json:"endpoints"`
	Skip      bool         `json:"skip"`

	index map[string]Permission
}

func routeKey(path, method string) string {
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}

	return strings.ToUpper(method) + " " + path
}

// FindPermissions looks up a chi route pattern. "/v1/bookings" and
// "/v1/bookings/" resolve to the same entry.
func (r *PermissionData) FindPermissions(path, method string) Permission {
	if r.index == nil {
		r.buildIndex()
	}

	return r.index[routeKey(path, method)]
}

func (r *PermissionData) buildIndex() {
	r.index = make(map[string]Permission, len(r.Endpoints))

	for _, endpoint := range r.Endpoints {
		r.index[routeKey(endpoint.Path, endpoint.Method)] = endpoint
	}
}

var (
	loaded     *PermissionData
	loadedOnce sync.Once
)

// Get decodes the embedded route table once. A broken table yields nil,
// which the RBAC middleware treats as deny all.
func Get() *PermissionData {
	loadedOnce.Do(func() {
		var data PermissionData

		if err := json.Unmarshal(permissionsData, &data); err != nil {
			log.Error().Err(err).Msg("failed to decode embedded permissions")

			return
		}

		data.buildIndex()
		loaded = &data

		log.Info().Int("endpoints", len(data.Endpoints)).Msg("permissions loaded")
	})

	return loaded
}
