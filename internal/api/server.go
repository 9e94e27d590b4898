package api

import (
	"fmt"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/scoutcamp/campo/docs"
	v1 "github.com/scoutcamp/campo/internal/api/handler/v1"
	"github.com/scoutcamp/campo/internal/api/middleware"
	"github.com/scoutcamp/campo/internal/api/web"
	"github.com/scoutcamp/campo/internal/config"
	"github.com/scoutcamp/campo/internal/domain"
	"github.com/scoutcamp/campo/internal/repository"
	"github.com/scoutcamp/campo/internal/repository/dao"
	"github.com/scoutcamp/campo/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine

	auth *service.AuthService
}

type handlers struct {
	auth    *v1.AuthHandler
	camp    *v1.CampHandler
	admin   *v1.AdminHandler
	user    *v1.UserHandler
	terrain *v1.TerrainHandler
}

func NewServer(conf *config.AppConfig, db *gorm.DB) (*Server, error) {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	tmpl, err := web.Templates(conf.Camp.Location())
	if err != nil {
		return nil, fmt.Errorf("web.Templates -> %w", err)
	}
	engine.SetHTMLTemplate(tmpl)

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.auth = service.NewAuthService(repository.NewUserRepository(dao.NewUserDAO(db)), conf.Auth)
	s.MountMiddlewares()

	campSvc := s.initCampService(db)
	scoreSvc := service.NewScoreService(repository.NewScoreRepository(db))

	s.MountHandlers(handlers{
		auth:    v1.NewAuthHandler(conf.Auth, s.auth),
		camp:    v1.NewCampHandler(campSvc, scoreSvc, conf.Camp.TimelineLimit),
		admin:   v1.NewAdminHandler(campSvc, scoreSvc),
		user:    s.initUserHandler(db, campSvc),
		terrain: s.initTerrainHandler(db),
	})

	return s, nil
}

func (s *Server) initCampService(db *gorm.DB) *service.CampService {
	return service.NewCampService(
		repository.NewUnitRepository(dao.NewUnitDAO(db)),
		repository.NewPatrolRepository(dao.NewPatrolDAO(db)),
		repository.NewChallengeRepository(dao.NewChallengeDAO(db)),
		repository.NewCompletionRepository(dao.NewCompletionDAO(db)),
	)
}

func (s *Server) initUserHandler(db *gorm.DB, units v1.UnitLister) *v1.UserHandler {
	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	unitRepo := repository.NewUnitRepository(dao.NewUnitDAO(db))
	svc := service.NewUserService(userRepo, unitRepo)
	handler := v1.NewUserHandler(svc, units)

	return handler
}

func (s *Server) initTerrainHandler(db *gorm.DB) *v1.TerrainHandler {
	terrainRepo := repository.NewTerrainRepository(dao.NewTerrainDAO(db))
	terrains := service.NewTerrainService(terrainRepo)
	reservations := service.NewReservationService(
		repository.NewReservationRepository(db),
		terrainRepo,
		s.Config.Camp.MaxReservationHours,
		s.Config.Camp.Location(),
	)
	handler := v1.NewTerrainHandler(terrains, reservations)

	return handler
}

func (s *Server) MountMiddlewares() {
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.RequestLogger())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
	if key := s.Config.API.CSRFKey; key != "" {
		s.Router.Use(middleware.CSRF([]byte(key), s.Config.Auth.CookieSecure))
	}
	s.Router.Use(middleware.NewAuthenticator(s.auth, s.Config.Auth.CookieName).VerifyJWT())
}

func (s *Server) MountHandlers(h handlers) {
	const apiPath = "/api"

	s.Router.StaticFS("/static", web.Static())
	s.Router.GET("/healthz", v1.HandleHealthcheck)

	s.Router.GET("/login", h.auth.HandleLoginPage)
	s.Router.POST("/login", h.auth.HandleLogin)
	s.Router.GET("/logout", h.auth.HandleLogout)

	unit := s.Router.Group("", middleware.Require(domain.RoleUnit))
	{
		unit.GET("/", h.camp.HandleRanking)
		unit.GET("/timeline", h.camp.HandleTimeline)
		unit.GET("/prenotazioni", h.terrain.HandleBookingPage)
		unit.POST("/prenotazioni", h.terrain.HandleBook)
		unit.POST("/prenotazioni/:id/delete", h.terrain.HandleCancelReservation)
	}

	api := s.Router.Group(apiPath, middleware.Require(domain.RoleUnit))
	{
		api.GET("/terreni/availability", h.terrain.HandleAvailability)
	}

	tech := s.Router.Group("", middleware.Require(domain.RoleTech))
	{
		tech.GET("/input", h.camp.HandleInputPage)
		tech.POST("/complete", h.camp.HandleComplete)
		tech.GET("/export/ranking", h.camp.HandleExportRanking)

		tech.GET("/admin/terreni", h.terrain.HandleListTerrains)
		tech.POST("/admin/terreni", h.terrain.HandleCreateTerrain)
		tech.GET("/admin/terreni/:id", h.terrain.HandleEditTerrainPage)
		tech.POST("/admin/terreni/:id", h.terrain.HandleUpdateTerrain)
		tech.POST("/admin/terreni/:id/delete", h.terrain.HandleDeleteTerrain)
		tech.POST("/admin/prenotazioni/:id/approve", h.terrain.HandleApproveReservation)
		tech.POST("/admin/prenotazioni/:id/delete", h.terrain.HandleAdminDeleteReservation)
	}

	admin := s.Router.Group("/admin", middleware.Require(domain.RoleAdmin))
	{
		admin.GET("", h.admin.HandleDashboard)

		admin.GET("/unita", h.admin.HandleListUnits)
		admin.POST("/unita", h.admin.HandleCreateUnit)
		admin.GET("/unita/:id", h.admin.HandleEditUnitPage)
		admin.POST("/unita/:id/edit", h.admin.HandleUpdateUnit)
		admin.POST("/unita/:id/delete", h.admin.HandleDeleteUnit)

		admin.GET("/pattuglie", h.admin.HandleListPatrols)
		admin.POST("/pattuglie", h.admin.HandleCreatePatrol)
		admin.GET("/pattuglie/:id", h.admin.HandleEditPatrolPage)
		admin.POST("/pattuglie/:id/edit", h.admin.HandleUpdatePatrol)
		admin.POST("/pattuglie/:id/delete", h.admin.HandleDeletePatrol)

		admin.GET("/challenges", h.admin.HandleListChallenges)
		admin.POST("/challenges", h.admin.HandleCreateChallenge)
		admin.GET("/challenges/:id", h.admin.HandleEditChallengePage)
		admin.POST("/challenges/:id/edit", h.admin.HandleUpdateChallenge)
		admin.POST("/challenges/:id/delete", h.admin.HandleDeleteChallenge)

		admin.POST("/rollback/:completion_id", h.admin.HandleRollback)

		admin.GET("/users", h.user.HandleListUsers)
		admin.POST("/users", h.user.HandleCreateUser)
		admin.POST("/users/:id/password", h.user.HandleResetPassword)
		admin.POST("/users/:id/delete", h.user.HandleDeleteUser)
	}

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = apiPath
	docs.SwaggerInfo.Title = "Campo API"
	docs.SwaggerInfo.Description = "JSON endpoints of the scout camp manager."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
