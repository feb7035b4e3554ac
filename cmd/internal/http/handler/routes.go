package handler

import (
	"net/http"
	"omigec/cmd/internal/domain/entity"
	"omigec/cmd/internal/http/middleware"

	"github.com/labstack/echo/v4"
)

// Routes groups every route handler of the API.
type Routes struct {
	Auth          *DefaultAuthRoute
	Registration  *DefaultRegistrationRoute
	Profiles      *DefaultProfileRoute
	Verification  *DefaultVerificationRoute
	Entreprises   *DefaultEntrepriseRoute
	Subscriptions *DefaultSubscriptionRoute
	Jobs          *DefaultJobRoute
	Applications  *DefaultApplicationRoute
	Sponsors      *DefaultSponsorRoute
}

// Register mounts the route table on 'e'. 'auth' resolves the caller and
// must store it in the request context.
func (r *Routes) Register(e *echo.Echo, auth echo.MiddlewareFunc) {
	engineer := middleware.RequireRole(entity.RoleEngineer)
	entreprise := middleware.RequireRole(entity.RoleEntreprise)
	admin := middleware.RequireRole(entity.RoleAdmin)

	// Docker Compose healthcheck
	e.GET("/health", healthCheck)

	api := e.Group("/api")

	// Auth
	api.POST("/auth/login", r.Auth.Login)
	api.POST("/auth/check-email", r.Auth.CheckEmail)
	api.POST("/auth/confirm", r.Auth.ConfirmSignup)
	api.POST("/auth/confirm/resend", r.Auth.ResendConfirmation)
	api.GET("/me", r.Auth.Me, auth)

	// Registration
	api.POST("/register/engineer", r.Registration.RegisterEngineer)
	api.POST("/register/entreprise", r.Registration.RegisterEntreprise)

	// Public catalog
	api.GET("/plans", r.Subscriptions.ListPlans)
	api.GET("/jobs", r.Jobs.GetJobs)
	api.GET("/jobs/:id", r.Jobs.GetJob)
	api.GET("/engineers", r.Profiles.SearchDirectory)
	api.GET("/engineers/:id", r.Profiles.GetPublicProfile)
	api.GET("/sponsors", r.Sponsors.ListActive)

	// Engineers
	me := api.Group("/profiles/@me", auth, engineer)
	me.GET("", r.Profiles.GetMine)
	me.PATCH("", r.Profiles.UpdateMine)
	me.POST("/documents", r.Registration.ResubmitDocuments)
	me.GET("/documents/:kind", r.Verification.GetMyDocument)

	api.GET("/references/pending", r.Verification.ListPendingReferences, auth, engineer)
	api.POST("/references/:id/respond", r.Verification.RespondReference, auth, engineer)
	api.POST("/jobs/:id/applications", r.Applications.Apply, auth, engineer)
	api.GET("/applications/@me", r.Applications.ListMine, auth, engineer)

	// Entreprises
	ent := api.Group("/entreprises/@me", auth, entreprise)
	ent.GET("", r.Entreprises.GetMine)
	ent.PATCH("", r.Entreprises.UpdateMine)
	ent.GET("/subscription", r.Subscriptions.GetStatus)
	ent.POST("/subscriptions", r.Subscriptions.RequestSubscription)
	ent.GET("/jobs", r.Jobs.GetMyJobs)

	api.POST("/jobs", r.Jobs.CreateJob, auth, entreprise)
	api.PATCH("/jobs/:id", r.Jobs.UpdateJob, auth, entreprise)
	api.DELETE("/jobs/:id", r.Jobs.DeleteJob, auth, entreprise)
	api.GET("/jobs/:id/applications", r.Applications.ListForJob, auth, entreprise)
	api.POST("/applications/:id/decision", r.Applications.Decide, auth, entreprise)

	// Admin, permissions are checked by the services
	adm := api.Group("/admin", auth, admin)
	adm.GET("/engineers", r.Verification.ListEngineers)
	adm.GET("/engineers/:id", r.Verification.GetEngineer)
	adm.POST("/engineers/:id/review", r.Verification.ReviewDocuments)
	adm.GET("/engineers/:id/documents/:kind", r.Verification.GetDocument)

	adm.GET("/entreprises", r.Entreprises.ListEntreprises)
	adm.POST("/entreprises/:id/validate", r.Entreprises.ValidateEntreprise)
	adm.POST("/entreprises/:id/suspend", r.Entreprises.SuspendEntreprise)
	adm.POST("/entreprises/:id/reject", r.Entreprises.RejectEntreprise)

	adm.GET("/subscriptions", r.Subscriptions.ListSubscriptions)
	adm.POST("/subscriptions/:id/activate", r.Subscriptions.Activate)
	adm.POST("/subscriptions/:id/reject", r.Subscriptions.Reject)
	adm.POST("/subscriptions/:id/deactivate", r.Subscriptions.Deactivate)

	adm.POST("/sponsors", r.Sponsors.Create)
	adm.PATCH("/sponsors/:id", r.Sponsors.Update)
	adm.DELETE("/sponsors/:id", r.Sponsors.Delete)
}

func healthCheck(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}
