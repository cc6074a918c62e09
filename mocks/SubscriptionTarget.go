package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/Leixb/yeelight/common"
)

// SubscriptionTarget is a mock implementation of common.SubscriptionTarget
type SubscriptionTarget struct {
	mock.Mock
}

// NewSubscription provides a mock function
func (m *SubscriptionTarget) NewSubscription() (*common.Subscription, error) {
	ret := m.Called()

	var r0 *common.Subscription
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*common.Subscription)
	}

	return r0, ret.Error(1)
}

// CloseSubscription provides a mock function with given fields: sub
func (m *SubscriptionTarget) CloseSubscription(sub *common.Subscription) error {
	ret := m.Called(sub)
	return ret.Error(0)
}
