package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"loop/pkg/api"
	"loop/pkg/jwt"
	"loop/pkg/logger"
	"loop/services/loop-service/domain/model"
)

type Router struct {
	AuthHandler           *AuthHandler
	RepresentativeHandler *RepresentativeHandler
	ClientHandler         *ClientHandler
	PlanHandler           *PlanHandler
	SaleHandler           *SaleHandler
	ChatHandler           *ChatHandler
	ContractHandler       *ContractHandler
	AssistantHandler      *AssistantHandler
	HealthHandler         *HealthHandler
	ChatHub               *ChatHub
	JWTClient             jwt.JWTClient
	AllowedOrigins        []string
	AppLogger             logger.LoggerInterface
}

func (r *Router) SetupRoutes() http.Handler {
	router := chi.NewRouter()
	apiClient := api.New(r.AppLogger)

	router.Use(middleware.RequestID)
	router.Use(LoggingMiddleware(r.AppLogger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Heartbeat("/ping"))
	router.Use(cors.New(cors.Options{
		AllowedOrigins:   r.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-Id"},
		AllowCredentials: true,
	}).Handler)

	router.Get("/health", r.HealthHandler.HealthCheckHandler)

	authenticated := JWTMiddleware(r.JWTClient, r.AppLogger, apiClient)
	only := func(roles ...model.Role) func(http.Handler) http.Handler {
		return RoleMiddleware(r.AppLogger, apiClient, roles...)
	}
	admin := only(model.RoleAdmin)
	staff := only(model.RoleAdmin, model.RoleRepresentative)

	router.Route("/api/v1", func(v1 chi.Router) {
		v1.Route("/auth", func(auth chi.Router) {
			auth.Post("/register", r.AuthHandler.RegisterHandler)
			auth.Post("/login", r.AuthHandler.LoginHandler)
			auth.Post("/refresh", r.AuthHandler.RefreshHandler)
			auth.With(authenticated).Get("/profile", r.AuthHandler.ProfileHandler)
		})

		// the hub authenticates with the token query param
		v1.Get("/ws/chats", r.ChatHub.ServeWS)

		v1.Group(func(protected chi.Router) {
			protected.Use(authenticated)

			protected.Route("/representatives", func(reps chi.Router) {
				reps.With(staff).Get("/{id}/summary", r.RepresentativeHandler.SummaryHandler)

				reps.Group(func(adm chi.Router) {
					adm.Use(admin)
					adm.Post("/", r.RepresentativeHandler.CreateHandler)
					adm.Get("/", r.RepresentativeHandler.ListHandler)
					adm.Get("/{id}", r.RepresentativeHandler.GetByIDHandler)
					adm.Patch("/{id}", r.RepresentativeHandler.UpdateHandler)
					adm.Patch("/{id}/status", r.RepresentativeHandler.ToggleStatusHandler)
					adm.Put("/{id}/goal", r.RepresentativeHandler.GoalHandler)
					adm.Delete("/{id}", r.RepresentativeHandler.DeleteHandler)
				})
			})

			protected.Route("/clients", func(clients chi.Router) {
				clients.With(only(model.RoleClient)).Get("/me/statement", r.ClientHandler.StatementHandler)
				clients.Get("/{id}", r.ClientHandler.GetByIDHandler)

				clients.Group(func(st chi.Router) {
					st.Use(staff)
					st.Post("/", r.ClientHandler.CreateHandler)
					st.Get("/", r.ClientHandler.ListHandler)
					st.Patch("/{id}", r.ClientHandler.UpdateHandler)
					st.Delete("/{id}", r.ClientHandler.DeleteHandler)
					st.Post("/{id}/score", r.ClientHandler.ScoreLeadHandler)
				})
			})

			protected.Route("/plans", func(plans chi.Router) {
				plans.Get("/", r.PlanHandler.ListHandler)
				plans.Get("/{id}", r.PlanHandler.GetByIDHandler)

				plans.Group(func(adm chi.Router) {
					adm.Use(admin)
					adm.Post("/", r.PlanHandler.CreateHandler)
					adm.Patch("/{id}", r.PlanHandler.UpdateHandler)
					adm.Delete("/{id}", r.PlanHandler.DeleteHandler)
				})
			})

			protected.Route("/sales", func(sales chi.Router) {
				sales.Get("/", r.SaleHandler.ListHandler)
				sales.Get("/{id}", r.SaleHandler.GetByIDHandler)
				sales.Get("/{id}/contract", r.ContractHandler.RenderHandler)
				sales.With(staff).Post("/", r.SaleHandler.CreateHandler)

				sales.Group(func(adm chi.Router) {
					adm.Use(admin)
					adm.Post("/{id}/approve", r.SaleHandler.ApproveHandler)
					adm.Post("/{id}/reject", r.SaleHandler.RejectHandler)
					adm.Delete("/{id}", r.SaleHandler.DeleteHandler)
				})
			})

			protected.Route("/commissions", func(commissions chi.Router) {
				commissions.With(staff).Get("/", r.SaleHandler.CommissionsHandler)
				commissions.With(admin).Post("/{saleId}/pay", r.SaleHandler.PayCommissionHandler)
			})

			protected.Route("/chats", func(chats chi.Router) {
				chats.With(only(model.RoleClient)).Get("/me", r.ChatHandler.MineHandler)
				chats.With(only(model.RoleClient)).Post("/me/messages", r.ChatHandler.SendHandler)
				chats.With(only(model.RoleAdmin, model.RoleClient)).Get("/{id}", r.ChatHandler.GetByIDHandler)

				chats.Group(func(adm chi.Router) {
					adm.Use(admin)
					adm.Get("/", r.ChatHandler.ListHandler)
					adm.Post("/{id}/messages", r.ChatHandler.ReplyHandler)
					adm.Post("/simulate", r.ChatHandler.SimulateHandler)
				})
			})

			protected.Route("/contract-template", func(tpl chi.Router) {
				tpl.Use(admin)
				tpl.Get("/", r.ContractHandler.GetTemplateHandler)
				tpl.Put("/", r.ContractHandler.SetTemplateHandler)
			})

			protected.Route("/assistant", func(assistant chi.Router) {
				assistant.Use(staff)
				assistant.Post("/generate", r.AssistantHandler.GenerateHandler)
				assistant.Post("/stream", r.AssistantHandler.StreamHandler)
			})
		})
	})
	return router
}
