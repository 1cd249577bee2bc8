package mocks

import (
	context "context"

	common "github.com/thirdweb-dev/blob-indexer/internal/common"

	mock "github.com/stretchr/testify/mock"
)

// MockIPublisher is a testify mock of IPublisher
type MockIPublisher struct {
	mock.Mock
}

// Close provides a mock function with no fields
func (_m *MockIPublisher) Close() error {
	ret := _m.Called()

	if len(ret) == 0 {
		panic("no return value specified for Close")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func() error); ok {
		r0 = rf()
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// PublishBlobs provides a mock function with given fields: ctx, records
func (_m *MockIPublisher) PublishBlobs(ctx context.Context, records []common.BlobRecord) error {
	ret := _m.Called(ctx, records)

	if len(ret) == 0 {
		panic("no return value specified for PublishBlobs")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, []common.BlobRecord) error); ok {
		r0 = rf(ctx, records)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// NewMockIPublisher creates a new instance of MockIPublisher. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockIPublisher(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockIPublisher {
	mock := &MockIPublisher{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
