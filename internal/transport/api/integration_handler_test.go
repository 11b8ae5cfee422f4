package api

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/fsdevblog/groph-smm/internal/domain"
	"github.com/fsdevblog/groph-smm/internal/transport/api/mocks"
	"github.com/fsdevblog/groph-smm/internal/transport/api/testutils"
	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type IntegrationHandlerTestSuite struct {
	suite.Suite
	mockCtrl       *gomock.Controller
	mockUserSvs    *mocks.MockUserServicer
	mockOrderSvs   *mocks.MockOrderServicer
	mockCatalogSvs *mocks.MockCatalogServicer
	router         *gin.Engine
}

func TestIntegrationHandlerSuite(t *testing.T) {
	suite.Run(t, new(IntegrationHandlerTestSuite))
}

func (s *IntegrationHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	s.mockCtrl = gomock.NewController(s.T())
	s.mockUserSvs = mocks.NewMockUserServicer(s.mockCtrl)
	s.mockOrderSvs = mocks.NewMockOrderServicer(s.mockCtrl)
	s.mockCatalogSvs = mocks.NewMockCatalogServicer(s.mockCtrl)

	s.router = New(RouterArgs{
		UserService:    s.mockUserSvs,
		OrderService:   s.mockOrderSvs,
		CatalogService: s.mockCatalogSvs,
		JWTSecretKey:   testJWTSecret,
	})
}

func (s *IntegrationHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

// makeCall отправляет form-urlencoded запрос и декодирует ответ в map.
// Протокол всегда отвечает статусом 200, различие только в теле.
func (s *IntegrationHandlerTestSuite) makeCall(form url.Values) map[string]json.RawMessage {
	resp, respErr := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodPost,
		URL:    RouteGroup + IntegrationRoute,
		Body:   strings.NewReader(form.Encode()),
	}, testutils.WithHeader("Content-Type", "application/x-www-form-urlencoded"))
	s.Require().NoError(respErr)
	defer resp.Body.Close() //nolint:errcheck

	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var payload map[string]json.RawMessage
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&payload))
	return payload
}

func (s *IntegrationHandlerTestSuite) TestInvalidAPIKey() {
	s.mockUserSvs.EXPECT().GetByAPIKey(gomock.Any(), "bogus").
		Return(nil, domain.ErrRecordNotFound)

	payload := s.makeCall(url.Values{
		"key":    {"bogus"},
		"action": {"balance"},
	})

	var reason string
	s.Require().NoError(json.Unmarshal(payload["error"], &reason))
	s.Equal("Invalid API key", reason)
}

func (s *IntegrationHandlerTestSuite) TestIncorrectAction() {
	user := &domain.User{ID: 1, APIKey: "key1"}
	s.mockUserSvs.EXPECT().GetByAPIKey(gomock.Any(), "key1").Return(user, nil)

	payload := s.makeCall(url.Values{
		"key":    {"key1"},
		"action": {"refill"},
	})

	var reason string
	s.Require().NoError(json.Unmarshal(payload["error"], &reason))
	s.Equal("Incorrect action", reason)
}

func (s *IntegrationHandlerTestSuite) TestBalance() {
	user := &domain.User{ID: 1, APIKey: "key1", Balance: decimal.NewFromFloat(12.5)}
	s.mockUserSvs.EXPECT().GetByAPIKey(gomock.Any(), "key1").Return(user, nil)

	payload := s.makeCall(url.Values{
		"key":    {"key1"},
		"action": {"balance"},
	})

	var balance, currency string
	s.Require().NoError(json.Unmarshal(payload["balance"], &balance))
	s.Require().NoError(json.Unmarshal(payload["currency"], &currency))
	s.Equal("12.50", balance)
	s.Equal("USD", currency)
}

func (s *IntegrationHandlerTestSuite) TestAdd() {
	user := &domain.User{ID: 1, APIKey: "key1"}
	s.mockUserSvs.EXPECT().GetByAPIKey(gomock.Any(), "key1").Return(user, nil)
	s.mockOrderSvs.EXPECT().Place(gomock.Any(), gomock.Any()).
		Return(&domain.Order{ID: 42, UserID: 1}, nil, nil)

	payload := s.makeCall(url.Values{
		"key":      {"key1"},
		"action":   {"add"},
		"service":  {"102"},
		"link":     {"https://instagram.com/p/abc"},
		"quantity": {"1000"},
	})

	var orderID int64
	s.Require().NoError(json.Unmarshal(payload["order"], &orderID))
	s.EqualValues(42, orderID)
}

func (s *IntegrationHandlerTestSuite) TestAddNotEnoughFunds() {
	user := &domain.User{ID: 1, APIKey: "key1"}
	s.mockUserSvs.EXPECT().GetByAPIKey(gomock.Any(), "key1").Return(user, nil)
	s.mockOrderSvs.EXPECT().Place(gomock.Any(), gomock.Any()).
		Return(nil, nil, domain.ErrNotEnoughBalance)

	payload := s.makeCall(url.Values{
		"key":      {"key1"},
		"action":   {"add"},
		"service":  {"102"},
		"link":     {"https://instagram.com/p/abc"},
		"quantity": {"1000"},
	})

	var reason string
	s.Require().NoError(json.Unmarshal(payload["error"], &reason))
	s.Equal("Not enough funds", reason)
}

func (s *IntegrationHandlerTestSuite) TestStatus() {
	user := &domain.User{ID: 1, APIKey: "key1"}
	order := &domain.Order{
		ID:         42,
		UserID:     1,
		Charge:     decimal.NewFromFloat(1.2),
		StartCount: 1500,
		Remains:    300,
		Status:     domain.OrderStatusPartial,
	}
	s.mockUserSvs.EXPECT().GetByAPIKey(gomock.Any(), "key1").Return(user, nil)
	s.mockOrderSvs.EXPECT().FindForUser(gomock.Any(), int64(1), int64(42)).Return(order, nil)

	payload := s.makeCall(url.Values{
		"key":    {"key1"},
		"action": {"status"},
		"order":  {"42"},
	})

	var charge, startCount, remains string
	s.Require().NoError(json.Unmarshal(payload["charge"], &charge))
	s.Require().NoError(json.Unmarshal(payload["start_count"], &startCount))
	s.Require().NoError(json.Unmarshal(payload["remains"], &remains))
	s.Equal("1.20", charge)
	s.Equal("1500", startCount)
	s.Equal("300", remains)
}

func (s *IntegrationHandlerTestSuite) TestStatusForeignOrder() {
	user := &domain.User{ID: 1, APIKey: "key1"}
	s.mockUserSvs.EXPECT().GetByAPIKey(gomock.Any(), "key1").Return(user, nil)
	s.mockOrderSvs.EXPECT().FindForUser(gomock.Any(), int64(1), int64(42)).
		Return(nil, domain.ErrRecordNotFound)

	payload := s.makeCall(url.Values{
		"key":    {"key1"},
		"action": {"status"},
		"order":  {"42"},
	})

	var reason string
	s.Require().NoError(json.Unmarshal(payload["error"], &reason))
	s.Equal("Incorrect order ID", reason)
}
