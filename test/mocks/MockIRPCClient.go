package mocks

import (
	context "context"

	mock "github.com/stretchr/testify/mock"
)

// MockIRPCClient is a testify mock of IRPCClient
type MockIRPCClient struct {
	mock.Mock
}

// Close provides a mock function with no fields
func (_m *MockIRPCClient) Close() {
	_m.Called()
}

// GetBlockTransactions provides a mock function with given fields: ctx, height
func (_m *MockIRPCClient) GetBlockTransactions(ctx context.Context, height uint64) ([]string, error) {
	ret := _m.Called(ctx, height)

	if len(ret) == 0 {
		panic("no return value specified for GetBlockTransactions")
	}

	var r0 []string
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, uint64) ([]string, error)); ok {
		return rf(ctx, height)
	}
	if rf, ok := ret.Get(0).(func(context.Context, uint64) []string); ok {
		r0 = rf(ctx, height)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]string)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, uint64) error); ok {
		r1 = rf(ctx, height)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// GetURL provides a mock function with no fields
func (_m *MockIRPCClient) GetURL() string {
	ret := _m.Called()

	if len(ret) == 0 {
		panic("no return value specified for GetURL")
	}

	var r0 string
	if rf, ok := ret.Get(0).(func() string); ok {
		r0 = rf()
	} else {
		r0 = ret.Get(0).(string)
	}

	return r0
}

// NewMockIRPCClient creates a new instance of MockIRPCClient. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockIRPCClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockIRPCClient {
	mock := &MockIRPCClient{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
