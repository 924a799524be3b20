package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/garomon/garo-vibe-api/docs"
	v1 "github.com/garomon/garo-vibe-api/internal/api/handler/v1"
	"github.com/garomon/garo-vibe-api/internal/api/middleware"
	"github.com/garomon/garo-vibe-api/internal/config"
	"github.com/garomon/garo-vibe-api/internal/credential"
	"github.com/garomon/garo-vibe-api/internal/pkg/jwthelper"
	"github.com/garomon/garo-vibe-api/internal/repository"
	"github.com/garomon/garo-vibe-api/internal/repository/dao"
	"github.com/garomon/garo-vibe-api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, db *gorm.DB) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	issuer := s.initCredentialIssuer()
	tiers := s.initTierEngine(db, issuer)

	authHandler := s.initAuthHandler(db, tiers)
	membershipHandler := s.initMembershipHandler(db, tiers, issuer)
	eventHandler := s.initEventHandler(db)
	marketplaceHandler := s.initMarketplaceHandler(db)
	s.MountHandlers(authHandler, membershipHandler, eventHandler, marketplaceHandler)

	return s
}

func (s *Server) initCredentialIssuer() credential.Issuer {
	if s.Config.Credential != nil && s.Config.Credential.Enabled {
		return credential.NewClient(s.Config.Credential.BaseURL, s.Config.Credential.APIKey)
	}

	return credential.NewDisabled()
}

func (s *Server) initTierEngine(db *gorm.DB, issuer credential.Issuer) *service.TierEngine {
	memberRepo := repository.NewMemberRepository(dao.NewMemberDAO(db))

	return service.NewTierEngine(memberRepo, issuer, s.Config.Membership)
}

func (s *Server) initAuthHandler(db *gorm.DB, tiers *service.TierEngine) *v1.AuthHandler {
	memberRepo := repository.NewMemberRepository(dao.NewMemberDAO(db))
	ticketRepo := repository.NewTicketRepository(dao.NewTicketDAO(db), dao.NewInvitationDAO(db))
	identitySvc := service.NewIdentityService(memberRepo, ticketRepo, tiers)

	staffRepo := repository.NewStaffRepository(dao.NewStaffDAO(db))
	authSvc := service.NewAuthService(staffRepo)

	return v1.NewAuthHandler(s.Config.API, identitySvc, authSvc)
}

func (s *Server) initMembershipHandler(db *gorm.DB, tiers *service.TierEngine, issuer credential.Issuer) *v1.MembershipHandler {
	memberRepo := repository.NewMemberRepository(dao.NewMemberDAO(db))
	ticketRepo := repository.NewTicketRepository(dao.NewTicketDAO(db), dao.NewInvitationDAO(db))
	attendanceRepo := repository.NewAttendanceRepository(dao.NewAttendanceDAO(db))
	eventRepo := repository.NewEventRepository(dao.NewEventDAO(db))

	ticketSvc := service.NewTicketService(memberRepo, ticketRepo, attendanceRepo, eventRepo, tiers, issuer, s.Config.Membership)
	memberSvc := service.NewMemberService(memberRepo, attendanceRepo)
	staffSvc := service.NewAuthService(repository.NewStaffRepository(dao.NewStaffDAO(db)))

	return v1.NewMembershipHandler(ticketSvc, memberSvc, staffSvc)
}

func (s *Server) initEventHandler(db *gorm.DB) *v1.EventHandler {
	eventRepo := repository.NewEventRepository(dao.NewEventDAO(db))
	svc := service.NewEventService(eventRepo)

	return v1.NewEventHandler(svc)
}

func (s *Server) initMarketplaceHandler(db *gorm.DB) *v1.MarketplaceHandler {
	memberRepo := repository.NewMemberRepository(dao.NewMemberDAO(db))
	svc := service.NewMarketplaceService(memberRepo, s.Config.Stripe)

	return v1.NewMarketplaceHandler(svc)
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(authHandler *v1.AuthHandler, membershipHandler *v1.MembershipHandler, eventHandler *v1.EventHandler, marketplaceHandler *v1.MarketplaceHandler) {
	const basePath = "/api/v1"

	authenticator := middleware.NewAuthenticator(s.Config.API.JWTSigningKey)

	auth := s.Router.Group(basePath)
	{
		auth.POST("/auth/wallet-login", authHandler.HandleWalletLogin)
		auth.POST("/auth/staff/signup", authHandler.HandleStaffSignup)
		auth.POST("/auth/staff/login", authHandler.HandleStaffLogin)
	}

	members := s.Router.Group(basePath, authenticator.VerifyJWT(jwthelper.KindMember))
	{
		members.GET("/members/me", membershipHandler.HandleGetMe)
		members.GET("/members/me/attendance", membershipHandler.HandleGetMyAttendance)
		members.POST("/referrals", membershipHandler.HandleIssueInvitation)
		members.POST("/marketplace/points", marketplaceHandler.HandlePurchasePoints)
	}

	staff := s.Router.Group(basePath, authenticator.VerifyJWT(jwthelper.KindStaff))
	{
		staff.POST("/checkin", membershipHandler.HandleCheckin)
		staff.POST("/invitations", membershipHandler.HandleIssueInvitation)
		staff.GET("/members/:memberID", membershipHandler.HandleGetMember)
		staff.POST("/events", eventHandler.HandleCreateEvent)
	}

	events := s.Router.Group(basePath)
	{
		events.GET("/events", eventHandler.HandleListEvents)
		events.GET("/events/:eventID", eventHandler.HandleGetEvent)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "GARO VIBE membership API"
	docs.SwaggerInfo.Description = "Tiered membership API with wallet login, invitations and door check-in."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
