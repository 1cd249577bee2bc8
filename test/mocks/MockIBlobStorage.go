package mocks

import (
	context "context"

	common "github.com/thirdweb-dev/blob-indexer/internal/common"

	mock "github.com/stretchr/testify/mock"
)

// MockIBlobStorage is a testify mock of IBlobStorage
type MockIBlobStorage struct {
	mock.Mock
}

// Get provides a mock function with given fields: ctx, contentID
func (_m *MockIBlobStorage) Get(ctx context.Context, contentID string) ([]byte, error) {
	ret := _m.Called(ctx, contentID)

	if len(ret) == 0 {
		panic("no return value specified for Get")
	}

	var r0 []byte
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string) ([]byte, error)); ok {
		return rf(ctx, contentID)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string) []byte); ok {
		r0 = rf(ctx, contentID)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]byte)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, contentID)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// Has provides a mock function with given fields: ctx, contentID
func (_m *MockIBlobStorage) Has(ctx context.Context, contentID string) (bool, error) {
	ret := _m.Called(ctx, contentID)

	if len(ret) == 0 {
		panic("no return value specified for Has")
	}

	var r0 bool
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string) (bool, error)); ok {
		return rf(ctx, contentID)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string) bool); ok {
		r0 = rf(ctx, contentID)
	} else {
		r0 = ret.Get(0).(bool)
	}

	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, contentID)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// Put provides a mock function with given fields: ctx, record
func (_m *MockIBlobStorage) Put(ctx context.Context, record common.BlobRecord) error {
	ret := _m.Called(ctx, record)

	if len(ret) == 0 {
		panic("no return value specified for Put")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, common.BlobRecord) error); ok {
		r0 = rf(ctx, record)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// NewMockIBlobStorage creates a new instance of MockIBlobStorage. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockIBlobStorage(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockIBlobStorage {
	mock := &MockIBlobStorage{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
