package service

import (
	"fmt"

	"github.com/fsdevblog/groph-smm/pkg/uow"
	"github.com/sirupsen/logrus"
)

type AppServices struct {
	UserService         *UserService
	OrderService        *OrderService
	CampaignService     *CampaignService
	DepositService      *DepositService
	CatalogService      *CatalogService
	AffiliateService    *AffiliateService
	NotificationService *NotificationService
}

func Factory(unitOfWork uow.UOW, jwtSecret []byte, hasher PasswordHasher, l *logrus.Logger) (*AppServices, error) {
	userService, userServiceErr := NewUserService(unitOfWork, jwtSecret, hasher, l)
	if userServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", userServiceErr.Error())
	}

	orderService, orderServiceErr := NewOrderService(unitOfWork)
	if orderServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", orderServiceErr.Error())
	}

	campaignService, campaignServiceErr := NewCampaignService(unitOfWork)
	if campaignServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", campaignServiceErr.Error())
	}

	depositService, depositServiceErr := NewDepositService(unitOfWork)
	if depositServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", depositServiceErr.Error())
	}

	catalogService, catalogServiceErr := NewCatalogService(unitOfWork)
	if catalogServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", catalogServiceErr.Error())
	}

	affiliateService, affiliateServiceErr := NewAffiliateService(unitOfWork)
	if affiliateServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", affiliateServiceErr.Error())
	}

	notificationService, notificationServiceErr := NewNotificationService(unitOfWork)
	if notificationServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", notificationServiceErr.Error())
	}

	return &AppServices{
		UserService:         userService,
		OrderService:        orderService,
		CampaignService:     campaignService,
		DepositService:      depositService,
		CatalogService:      catalogService,
		AffiliateService:    affiliateService,
		NotificationService: notificationService,
	}, nil
}
