package mocks

import (
	context "context"

	common "github.com/thirdweb-dev/blob-indexer/internal/common"

	mock "github.com/stretchr/testify/mock"
)

// MockICatalogStorage is a testify mock of ICatalogStorage
type MockICatalogStorage struct {
	mock.Mock
}

// Close provides a mock function with no fields
func (_m *MockICatalogStorage) Close() error {
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

// Get provides a mock function with given fields: ctx, contentID
func (_m *MockICatalogStorage) Get(ctx context.Context, contentID string) (*common.CatalogEntry, error) {
	ret := _m.Called(ctx, contentID)

	if len(ret) == 0 {
		panic("no return value specified for Get")
	}

	var r0 *common.CatalogEntry
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string) (*common.CatalogEntry, error)); ok {
		return rf(ctx, contentID)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string) *common.CatalogEntry); ok {
		r0 = rf(ctx, contentID)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*common.CatalogEntry)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, contentID)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// ListByHeight provides a mock function with given fields: ctx, height, limit
func (_m *MockICatalogStorage) ListByHeight(ctx context.Context, height uint64, limit int) ([]common.CatalogEntry, error) {
	ret := _m.Called(ctx, height, limit)

	if len(ret) == 0 {
		panic("no return value specified for ListByHeight")
	}

	var r0 []common.CatalogEntry
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, uint64, int) ([]common.CatalogEntry, error)); ok {
		return rf(ctx, height, limit)
	}
	if rf, ok := ret.Get(0).(func(context.Context, uint64, int) []common.CatalogEntry); ok {
		r0 = rf(ctx, height, limit)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]common.CatalogEntry)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, uint64, int) error); ok {
		r1 = rf(ctx, height, limit)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// Record provides a mock function with given fields: ctx, records
func (_m *MockICatalogStorage) Record(ctx context.Context, records []common.BlobRecord) error {
	ret := _m.Called(ctx, records)

	if len(ret) == 0 {
		panic("no return value specified for Record")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, []common.BlobRecord) error); ok {
		r0 = rf(ctx, records)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// NewMockICatalogStorage creates a new instance of MockICatalogStorage. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockICatalogStorage(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockICatalogStorage {
	mock := &MockICatalogStorage{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
