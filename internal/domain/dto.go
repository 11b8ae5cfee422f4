package domain

type OrderStatusType string

const (
	OrderStatusPending   OrderStatusType = "pending"
	OrderStatusCompleted OrderStatusType = "completed"
	OrderStatusCancelled OrderStatusType = "cancelled"
	OrderStatusPartial   OrderStatusType = "partial"
)

func (s OrderStatusType) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusCompleted, OrderStatusCancelled, OrderStatusPartial:
		return true
	}
	return false
}

type CampaignStatusType string

const (
	CampaignStatusPendingReview CampaignStatusType = "pending_review"
	CampaignStatusActive        CampaignStatusType = "active"
	CampaignStatusPaused        CampaignStatusType = "paused"
	CampaignStatusCompleted     CampaignStatusType = "completed"
)

type DepositStatusType string

const (
	DepositStatusPending  DepositStatusType = "pending"
	DepositStatusAccepted DepositStatusType = "accepted"
	DepositStatusRejected DepositStatusType = "rejected"
)

type NotificationKind string

const (
	NotificationDepositAccepted NotificationKind = "deposit_accepted"
)
