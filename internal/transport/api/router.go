package api

import (
	"time"

	"github.com/fsdevblog/groph-smm/internal/transport/api/middlewares"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	DefaultServiceTimeout = 3 * time.Second

	defaultListLimit uint = 100
)

const (
	RouteGroup    = "/api"
	RegisterRoute = "/user/register"
	LoginRoute    = "/user/login"

	MeRoute              = "/user/me"
	OrdersRoute          = "/user/orders"
	OrderRoute           = "/user/orders/:id"
	BalanceRoute         = "/user/balance"
	BalanceTransferRoute = "/user/balance/transfer"
	CampaignsRoute       = "/user/campaigns"
	CampaignPauseRoute   = "/user/campaigns/:id/pause"
	CampaignResumeRoute  = "/user/campaigns/:id/resume"
	DepositsRoute        = "/user/deposits"
	ServicesRoute        = "/user/services"
	AffiliateRoute       = "/user/affiliate"
	AffiliateTxsRoute    = "/user/affiliate/transactions"
	NotificationsRoute   = "/user/notifications"

	AdminUsersRoute           = "/admin/users"
	AdminDepositsRoute        = "/admin/deposits"
	AdminDepositAcceptRoute   = "/admin/deposits/:id/accept"
	AdminDepositRejectRoute   = "/admin/deposits/:id/reject"
	AdminCampaignsRoute       = "/admin/campaigns"
	AdminCampaignApproveRoute = "/admin/campaigns/:id/approve"
	AdminCampaignRejectRoute  = "/admin/campaigns/:id/reject"
	AdminOrderStatusRoute     = "/admin/orders/:id/status"
	AdminServicePriceRoute    = "/admin/services/:id/price"

	IntegrationRoute = "/v2"
)

type RouterArgs struct {
	Logger              *logrus.Logger
	UserService         UserServicer
	OrderService        OrderServicer
	CampaignService     CampaignServicer
	DepositService      DepositServicer
	CatalogService      CatalogServicer
	AffiliateService    AffiliateServicer
	NotificationService NotificationServicer
	JWTSecretKey        []byte
}

func New(args RouterArgs) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if args.Logger != nil {
		r.Use(middlewares.Logger(args.Logger))
	}
	r.Use(middlewares.Errors())

	authHandler := NewAuthHandler(args.UserService)
	ordersHandler := NewOrdersHandler(args.OrderService)
	balanceHandler := NewBalanceHandler(args.UserService)
	campaignsHandler := NewCampaignsHandler(args.CampaignService)
	depositsHandler := NewDepositsHandler(args.DepositService)
	servicesHandler := NewServicesHandler(args.CatalogService)
	affiliateHandler := NewAffiliateHandler(args.AffiliateService)
	notificationsHandler := NewNotificationsHandler(args.NotificationService)
	adminHandler := NewAdminHandler(args.UserService, args.OrderService,
		args.CampaignService, args.DepositService, args.CatalogService)
	integrationHandler := NewIntegrationHandler(args.UserService, args.OrderService, args.CatalogService)

	api := r.Group(RouteGroup)

	api.POST(RegisterRoute, middlewares.NonAuthRequired(args.JWTSecretKey), authHandler.Register)
	api.POST(LoginRoute, middlewares.NonAuthRequired(args.JWTSecretKey), authHandler.Login)

	// интеграционный API авторизуется api-ключом в теле запроса, а не jwt-токеном.
	api.POST(IntegrationRoute, integrationHandler.Handle)

	authed := api.Group("", middlewares.AuthRequired(args.JWTSecretKey))
	// ниже все роуты группы требуют авторизованного пользователя.
	authed.GET(MeRoute, authHandler.Me)

	authed.POST(OrdersRoute, ordersHandler.Create)
	authed.GET(OrdersRoute, ordersHandler.Index)
	authed.GET(OrderRoute, ordersHandler.Show)

	authed.GET(BalanceRoute, balanceHandler.Index)
	authed.POST(BalanceTransferRoute, balanceHandler.Transfer)

	authed.POST(CampaignsRoute, campaignsHandler.Create)
	authed.GET(CampaignsRoute, campaignsHandler.Index)
	authed.POST(CampaignPauseRoute, campaignsHandler.Pause)
	authed.POST(CampaignResumeRoute, campaignsHandler.Resume)

	authed.POST(DepositsRoute, depositsHandler.Create)
	authed.GET(DepositsRoute, depositsHandler.Index)

	authed.GET(ServicesRoute, servicesHandler.Index)

	authed.GET(AffiliateRoute, affiliateHandler.Summary)
	authed.GET(AffiliateTxsRoute, affiliateHandler.Transactions)

	authed.GET(NotificationsRoute, notificationsHandler.Index)

	admin := authed.Group("", middlewares.AdminRequired())
	admin.GET(AdminUsersRoute, adminHandler.Users)
	admin.GET(AdminDepositsRoute, adminHandler.PendingDeposits)
	admin.POST(AdminDepositAcceptRoute, adminHandler.AcceptDeposit)
	admin.POST(AdminDepositRejectRoute, adminHandler.RejectDeposit)
	admin.GET(AdminCampaignsRoute, adminHandler.PendingCampaigns)
	admin.POST(AdminCampaignApproveRoute, adminHandler.ApproveCampaign)
	admin.POST(AdminCampaignRejectRoute, adminHandler.RejectCampaign)
	admin.POST(AdminOrderStatusRoute, adminHandler.UpdateOrderStatus)
	admin.PUT(AdminServicePriceRoute, adminHandler.SetServicePrice)
	admin.DELETE(AdminServicePriceRoute, adminHandler.RemoveServicePrice)

	return r
}
