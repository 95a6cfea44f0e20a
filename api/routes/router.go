package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/localizy/localizy-backend/api/controllers"
	"github.com/localizy/localizy-backend/api/middleware"
	"github.com/localizy/localizy-backend/internal/addresses"
	"github.com/localizy/localizy-backend/internal/auth"
	"github.com/localizy/localizy-backend/internal/cities"
	"github.com/localizy/localizy-backend/internal/homeslides"
	"github.com/localizy/localizy-backend/internal/projects"
	"github.com/localizy/localizy-backend/internal/settings"
	"github.com/localizy/localizy-backend/internal/users"
	"github.com/localizy/localizy-backend/internal/validations"
	"github.com/localizy/localizy-backend/pkg/config"
	"github.com/localizy/localizy-backend/pkg/db"
	"github.com/localizy/localizy-backend/pkg/enums"
	"github.com/localizy/localizy-backend/pkg/logger"
	"github.com/localizy/localizy-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	authService auth.Service,
	userService users.Service,
	cityService cities.Service,
	addressService addresses.Service,
	validationService validations.Service,
	slideService homeslides.Service,
	settingService settings.Service,
	projectService projects.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/website-config", controllers.SettingWebsiteConfig(settingService, logg))
		r.Get("/home-slides", controllers.HomeSlideListActive(slideService, logg))
		r.Get("/cities", controllers.CityList(cityService, logg))
		r.Get("/cities/{cityId}", controllers.CityGet(cityService, logg))
		r.Get("/addresses", controllers.AddressList(addressService, logg))
		r.Get("/addresses/{addressId}", controllers.AddressGet(addressService, logg))
		r.Post("/addresses/{addressId}/views", controllers.AddressIncrementViews(addressService, logg))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(authService, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.AuthRegister(authService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/users", func(r chi.Router) {
			r.Get("/me", controllers.UserMe(userService, logg))
			r.Post("/me/change-password", controllers.UserChangeMyPassword(userService, logg))

			r.Route("/sub-accounts", func(r chi.Router) {
				r.Use(middleware.RequireRole(string(enums.UserRoleBusiness), logg))
				r.Get("/", controllers.UserListSubAccounts(userService, logg))
				r.Post("/", controllers.UserCreateSubAccount(userService, logg))
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))
				r.Get("/", controllers.UserList(userService, logg))
				r.Get("/stats", controllers.UserStats(userService, logg))
				r.Post("/", controllers.UserCreate(userService, logg))
				r.Get("/{userId}", controllers.UserGet(userService, logg))
				r.Put("/{userId}", controllers.UserUpdate(userService, logg))
				r.Delete("/{userId}", controllers.UserDelete(userService, logg))
				r.Post("/{userId}/toggle-status", controllers.UserToggleStatus(userService, logg))
				r.Post("/{userId}/change-password", controllers.UserChangePassword(userService, logg))
			})
		})

		r.Route("/cities", func(r chi.Router) {
			r.Get("/", controllers.CityList(cityService, logg))
			r.Get("/{cityId}", controllers.CityGet(cityService, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))
				r.Get("/stats", controllers.CityStats(cityService, logg))
				r.Post("/", controllers.CityCreate(cityService, logg))
				r.Put("/{cityId}", controllers.CityUpdate(cityService, logg))
				r.Delete("/{cityId}", controllers.CityDelete(cityService, logg))
				r.Post("/{cityId}/toggle-active", controllers.CityToggleActive(cityService, logg))
			})
		})

		r.Route("/addresses", func(r chi.Router) {
			r.Get("/", controllers.AddressList(addressService, logg))
			r.Get("/mine", controllers.AddressListMine(addressService, logg))
			r.Post("/", controllers.AddressCreate(addressService, logg))
			r.Get("/{addressId}", controllers.AddressGet(addressService, logg))
			r.Put("/{addressId}", controllers.AddressUpdate(addressService, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAnyRole(logg, string(enums.UserRoleAdmin), string(enums.UserRoleValidator)))
				r.Post("/{addressId}/verify", controllers.AddressVerify(addressService, logg))
				r.Post("/{addressId}/reject", controllers.AddressReject(addressService, logg))
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))
				r.Get("/stats", controllers.AddressStats(addressService, logg))
				r.Get("/by-user/{userId}", controllers.AddressListByUser(addressService, logg))
				r.Delete("/{addressId}", controllers.AddressDelete(addressService, logg))
			})
		})

		r.Route("/validations", func(r chi.Router) {
			r.Get("/mine", controllers.ValidationListMine(validationService, logg))
			r.Post("/", controllers.ValidationCreate(validationService, logg))
			r.Post("/verification-request", controllers.ValidationCreateVerificationRequest(validationService, logg))
			r.Get("/verification-request/{validationId}", controllers.ValidationGet(validationService, logg))
			r.Get("/by-request-id/{requestId}", controllers.ValidationGetByRequestID(validationService, logg))
			r.Get("/{validationId}", controllers.ValidationGet(validationService, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAnyRole(logg, string(enums.UserRoleAdmin), string(enums.UserRoleValidator)))
				r.Get("/", controllers.ValidationList(validationService, logg))
				r.Put("/{validationId}", controllers.ValidationUpdate(validationService, logg))
				r.Post("/{validationId}/verify", controllers.ValidationVerify(validationService, logg))
				r.Post("/{validationId}/reject", controllers.ValidationReject(validationService, logg))
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))
				r.Get("/stats", controllers.ValidationStats(validationService, logg))
				r.Delete("/{validationId}", controllers.ValidationDelete(validationService, logg))
			})
		})

		r.Route("/home-slides", func(r chi.Router) {
			r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))
			r.Get("/", controllers.HomeSlideListAll(slideService, logg))
			r.Post("/", controllers.HomeSlideCreate(slideService, logg))
			r.Get("/{slideId}", controllers.HomeSlideGet(slideService, logg))
			r.Put("/{slideId}", controllers.HomeSlideUpdate(slideService, logg))
			r.Delete("/{slideId}", controllers.HomeSlideDelete(slideService, logg))
			r.Post("/{slideId}/toggle-active", controllers.HomeSlideToggleActive(slideService, logg))
		})

		r.Route("/settings", func(r chi.Router) {
			r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))
			r.Get("/", controllers.SettingList(settingService, logg))
			r.Get("/category/{category}", controllers.SettingListByCategory(settingService, logg))
			r.Get("/{key}", controllers.SettingGetByKey(settingService, logg))
			r.Put("/{key}", controllers.SettingUpdate(settingService, logg))
		})

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", controllers.ProjectList(projectService, logg))
			r.Post("/", controllers.ProjectCreate(projectService, logg))
			r.Get("/{projectId}", controllers.ProjectGet(projectService, logg))
			r.Put("/{projectId}", controllers.ProjectUpdate(projectService, logg))
			r.Delete("/{projectId}", controllers.ProjectDelete(projectService, logg))
			r.Route("/{projectId}/translations", func(r chi.Router) {
				r.Get("/", controllers.ProjectListTranslations(projectService, logg))
				r.Post("/", controllers.ProjectUpsertTranslation(projectService, logg))
				r.Delete("/{translationId}", controllers.ProjectDeleteTranslation(projectService, logg))
			})
		})
	})

	return r
}
