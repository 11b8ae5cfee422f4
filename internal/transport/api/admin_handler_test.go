package api

import (
	"bytes"
	"fmt"
	"net/http"
	"testing"

	"github.com/fsdevblog/groph-smm/internal/domain"
	"github.com/fsdevblog/groph-smm/internal/service"
	"github.com/fsdevblog/groph-smm/internal/service/tokens"
	"github.com/fsdevblog/groph-smm/internal/transport/api/mocks"
	"github.com/fsdevblog/groph-smm/internal/transport/api/testutils"
	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type AdminHandlerTestSuite struct {
	suite.Suite
	mockCtrl        *gomock.Controller
	mockUserSvs     *mocks.MockUserServicer
	mockOrderSvs    *mocks.MockOrderServicer
	mockCampaignSvs *mocks.MockCampaignServicer
	mockDepositSvs  *mocks.MockDepositServicer
	mockCatalogSvs  *mocks.MockCatalogServicer
	router          *gin.Engine
	adminJWT        string
	userJWT         string
}

func TestAdminHandlerSuite(t *testing.T) {
	suite.Run(t, new(AdminHandlerTestSuite))
}

func (s *AdminHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	s.mockCtrl = gomock.NewController(s.T())
	s.mockUserSvs = mocks.NewMockUserServicer(s.mockCtrl)
	s.mockOrderSvs = mocks.NewMockOrderServicer(s.mockCtrl)
	s.mockCampaignSvs = mocks.NewMockCampaignServicer(s.mockCtrl)
	s.mockDepositSvs = mocks.NewMockDepositServicer(s.mockCtrl)
	s.mockCatalogSvs = mocks.NewMockCatalogServicer(s.mockCtrl)

	s.router = New(RouterArgs{
		UserService:     s.mockUserSvs,
		OrderService:    s.mockOrderSvs,
		CampaignService: s.mockCampaignSvs,
		DepositService:  s.mockDepositSvs,
		CatalogService:  s.mockCatalogSvs,
		JWTSecretKey:    testJWTSecret,
	})

	adminJWT, adminErr := tokens.GenerateUserJWT(100, true, service.JWTTokenExpire, testJWTSecret)
	s.Require().NoError(adminErr)
	s.adminJWT = adminJWT

	userJWT, userErr := tokens.GenerateUserJWT(1, false, service.JWTTokenExpire, testJWTSecret)
	s.Require().NoError(userErr)
	s.userJWT = userJWT
}

func (s *AdminHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

// Обычный юзер не проходит через AdminRequired ни на один админский роут.
func (s *AdminHandlerTestSuite) TestAdminRoutesForbiddenForRegularUser() {
	routes := []struct {
		method string
		url    string
	}{
		{http.MethodGet, RouteGroup + AdminUsersRoute},
		{http.MethodGet, RouteGroup + AdminDepositsRoute},
		{http.MethodPost, RouteGroup + "/admin/deposits/1/accept"},
		{http.MethodPost, RouteGroup + "/admin/campaigns/1/approve"},
		{http.MethodPost, RouteGroup + "/admin/orders/1/status"},
		{http.MethodPut, RouteGroup + "/admin/services/102/price"},
	}

	for _, route := range routes {
		resp, respErr := testutils.MakeRequest(testutils.RequestArgs{
			Router: s.router,
			Method: route.method,
			URL:    route.url,
		}, testutils.WithJWT(s.userJWT))
		s.Require().NoError(respErr)
		resp.Body.Close() //nolint:errcheck

		s.Equal(http.StatusForbidden, resp.StatusCode, "%s %s", route.method, route.url)
	}
}

func (s *AdminHandlerTestSuite) TestAcceptDeposit() {
	deposit := &domain.Deposit{
		ID:     3,
		UserID: 1,
		Amount: decimal.NewFromFloat(49.99),
		Status: domain.DepositStatusAccepted,
	}
	s.mockDepositSvs.EXPECT().Accept(gomock.Any(), int64(3)).Return(deposit, nil)

	resp, respErr := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodPost,
		URL:    RouteGroup + "/admin/deposits/3/accept",
	}, testutils.WithJWT(s.adminJWT))
	s.Require().NoError(respErr)
	defer resp.Body.Close() //nolint:errcheck

	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *AdminHandlerTestSuite) TestAcceptDepositTwice() {
	s.mockDepositSvs.EXPECT().Accept(gomock.Any(), int64(3)).
		Return(nil, fmt.Errorf("accepting deposit: %w", domain.ErrDepositReviewed))

	resp, respErr := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodPost,
		URL:    RouteGroup + "/admin/deposits/3/accept",
	}, testutils.WithJWT(s.adminJWT))
	s.Require().NoError(respErr)
	defer resp.Body.Close() //nolint:errcheck

	s.Equal(http.StatusConflict, resp.StatusCode)
}

func (s *AdminHandlerTestSuite) TestAcceptMissingDeposit() {
	s.mockDepositSvs.EXPECT().Accept(gomock.Any(), int64(404)).
		Return(nil, domain.ErrRecordNotFound)

	resp, respErr := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodPost,
		URL:    RouteGroup + "/admin/deposits/404/accept",
	}, testutils.WithJWT(s.adminJWT))
	s.Require().NoError(respErr)
	defer resp.Body.Close() //nolint:errcheck

	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *AdminHandlerTestSuite) TestApproveCampaignNotEnoughAdBalance() {
	s.mockCampaignSvs.EXPECT().Approve(gomock.Any(), int64(10)).
		Return(nil, fmt.Errorf("approving campaign: %w", domain.ErrNotEnoughAdBalance))

	resp, respErr := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodPost,
		URL:    RouteGroup + "/admin/campaigns/10/approve",
	}, testutils.WithJWT(s.adminJWT))
	s.Require().NoError(respErr)
	defer resp.Body.Close() //nolint:errcheck

	s.Equal(http.StatusPaymentRequired, resp.StatusCode)
}

func (s *AdminHandlerTestSuite) TestApproveActiveCampaign() {
	stateErr := domain.NewCampaignStateError(10, domain.CampaignStatusActive, domain.CampaignStatusActive)
	s.mockCampaignSvs.EXPECT().Approve(gomock.Any(), int64(10)).
		Return(nil, fmt.Errorf("approving campaign: %w", stateErr))

	resp, respErr := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodPost,
		URL:    RouteGroup + "/admin/campaigns/10/approve",
	}, testutils.WithJWT(s.adminJWT))
	s.Require().NoError(respErr)
	defer resp.Body.Close() //nolint:errcheck

	s.Equal(http.StatusConflict, resp.StatusCode)
}

func (s *AdminHandlerTestSuite) TestUpdateOrderStatus() {
	type testCase struct {
		name         string
		body         string
		expectUpdate bool
		updateErr    error
		wantStatus   int
	}

	cases := []testCase{
		{
			name:         "completed",
			body:         `{"status": "completed", "start_count": 1500, "remains": 0}`,
			expectUpdate: true,
			wantStatus:   http.StatusOK,
		},
		{
			name:       "invalid status",
			body:       `{"status": "exploded"}`,
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:         "missing order",
			body:         `{"status": "cancelled"}`,
			expectUpdate: true,
			updateErr:    domain.ErrRecordNotFound,
			wantStatus:   http.StatusNotFound,
		},
	}

	for _, c := range cases {
		s.Run(c.name, func() {
			if c.expectUpdate {
				var order *domain.Order
				if c.updateErr == nil {
					order = &domain.Order{ID: 42, Status: domain.OrderStatusCompleted}
				}
				s.mockOrderSvs.EXPECT().UpdateStatus(gomock.Any(), gomock.Any()).
					Return(order, c.updateErr)
			}

			resp, respErr := testutils.MakeRequest(testutils.RequestArgs{
				Router: s.router,
				Method: http.MethodPost,
				URL:    RouteGroup + "/admin/orders/42/status",
				Body:   bytes.NewBufferString(c.body),
			}, testutils.WithJWT(s.adminJWT))
			s.Require().NoError(respErr)
			defer resp.Body.Close() //nolint:errcheck

			s.Equal(c.wantStatus, resp.StatusCode)
		})
	}
}

func (s *AdminHandlerTestSuite) TestSetServicePrice() {
	s.mockCatalogSvs.EXPECT().SetOverride(gomock.Any(), int64(102), gomock.Any()).Return(nil)

	resp, respErr := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodPut,
		URL:    RouteGroup + "/admin/services/102/price",
		Body:   bytes.NewBufferString(`{"price": 2.00}`),
	}, testutils.WithJWT(s.adminJWT))
	s.Require().NoError(respErr)
	defer resp.Body.Close() //nolint:errcheck

	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *AdminHandlerTestSuite) TestSetServicePriceNonPositive() {
	resp, respErr := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodPut,
		URL:    RouteGroup + "/admin/services/102/price",
		Body:   bytes.NewBufferString(`{"price": 0}`),
	}, testutils.WithJWT(s.adminJWT))
	s.Require().NoError(respErr)
	defer resp.Body.Close() //nolint:errcheck

	s.Equal(http.StatusUnprocessableEntity, resp.StatusCode)
}
