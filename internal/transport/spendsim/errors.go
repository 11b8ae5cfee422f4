package spendsim

import "errors"

var ErrNoCampaigns = errors.New("no active campaigns")
