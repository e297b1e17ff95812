package routes

import (
	"airport-ops/tarmac/internal/api"
	"airport-ops/tarmac/internal/auth"
	"airport-ops/tarmac/internal/constants"
	"airport-ops/tarmac/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// RegisterAPIRoutes registers all API v1 routes and handlers
func RegisterAPIRoutes(r chi.Router, jwtSecret []byte, flights *api.FlightHandlers) {
	r.Route("/api/v1", func(v1 chi.Router) {
		v1.Use(middleware.AuthMiddleware(jwtSecret)) // every v1 route needs a bearer token

		v1.Route("/flights", func(fr chi.Router) {
			fr.Use(middleware.RequireRole(constants.RoleSuperAdmin, constants.RoleAdminRegional))

			fr.Get("/", flights.ListFlights())
			fr.With(middleware.RequirePermission(auth.PermissionCreateFlight)).Post("/", flights.CreateFlight())

			fr.Route("/{id}", func(one chi.Router) {
				one.Get("/", flights.GetFlight())
				one.Get("/twin", flights.GetTwin())

				one.Group(func(edit chi.Router) {
					edit.Use(middleware.RequirePermission(auth.PermissionEditFlight))
					edit.Patch("/", flights.UpdateFlight())
					edit.Patch("/status", flights.ChangeStatus())
					edit.Post("/cancel", flights.CancelFlight())
					edit.Post("/delay", flights.DelayFlight())
				})

				// superadmin only
				one.With(middleware.RequireRole(constants.RoleSuperAdmin)).Delete("/", flights.DeleteFlight())
			})
		})
	})
}
