package domain

import (
	"errors"
	"fmt"
)

var (
	ErrRecordNotFound    = errors.New("record not found")
	ErrPasswordMissMatch = errors.New("password mismatch")
	ErrDuplicateKey      = errors.New("duplicate key")
	ErrUnknown           = errors.New("unknown error")

	ErrNotEnoughBalance   = errors.New("not enough balance")
	ErrNotEnoughAdBalance = errors.New("not enough ad balance")
	ErrServiceNotFound    = errors.New("service not found")
	ErrDepositReviewed    = errors.New("deposit already reviewed")
)

// QuantityRangeError возвращается при размещении заказа с количеством вне лимитов услуги.
type QuantityRangeError struct {
	Quantity int64
	Min      int64
	Max      int64
}

func NewQuantityRangeError(quantity, minQ, maxQ int64) error {
	return &QuantityRangeError{Quantity: quantity, Min: minQ, Max: maxQ}
}

func (e *QuantityRangeError) Error() string {
	return fmt.Sprintf("quantity %d is out of service limits [%d, %d]", e.Quantity, e.Min, e.Max)
}

// CampaignStateError возвращается при недопустимом переходе статуса кампании.
type CampaignStateError struct {
	CampaignID int64
	Current    CampaignStatusType
	Attempted  CampaignStatusType
}

func NewCampaignStateError(id int64, current, attempted CampaignStatusType) error {
	return &CampaignStateError{CampaignID: id, Current: current, Attempted: attempted}
}

func (e *CampaignStateError) Error() string {
	return fmt.Sprintf(
		"campaign %d: transition %s -> %s is not allowed",
		e.CampaignID,
		e.Current,
		e.Attempted,
	)
}
