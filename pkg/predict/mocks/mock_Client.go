// Package mocks provides test doubles for the predict client.
package mocks

import (
	"context"

	predict "github.com/sells-group/signature-cli/pkg/predict"
	mock "github.com/stretchr/testify/mock"
)

// MockClient is a mock type for the Client interface.
type MockClient struct {
	mock.Mock
}

// Predict provides a mock function with given fields: ctx, img
func (_m *MockClient) Predict(ctx context.Context, img predict.Image) (*predict.Prediction, error) {
	ret := _m.Called(ctx, img)

	if len(ret) == 0 {
		panic("no return value specified for Predict")
	}

	var r0 *predict.Prediction
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, predict.Image) (*predict.Prediction, error)); ok {
		return rf(ctx, img)
	}
	if rf, ok := ret.Get(0).(func(context.Context, predict.Image) *predict.Prediction); ok {
		r0 = rf(ctx, img)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*predict.Prediction)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, predict.Image) error); ok {
		r1 = rf(ctx, img)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// Verify provides a mock function with given fields: ctx, reference, test
func (_m *MockClient) Verify(ctx context.Context, reference predict.Image, test predict.Image) (*predict.Verification, error) {
	ret := _m.Called(ctx, reference, test)

	if len(ret) == 0 {
		panic("no return value specified for Verify")
	}

	var r0 *predict.Verification
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, predict.Image, predict.Image) (*predict.Verification, error)); ok {
		return rf(ctx, reference, test)
	}
	if rf, ok := ret.Get(0).(func(context.Context, predict.Image, predict.Image) *predict.Verification); ok {
		r0 = rf(ctx, reference, test)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*predict.Verification)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, predict.Image, predict.Image) error); ok {
		r1 = rf(ctx, reference, test)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// Health provides a mock function with given fields: ctx
func (_m *MockClient) Health(ctx context.Context) (*predict.Health, error) {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for Health")
	}

	var r0 *predict.Health
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context) (*predict.Health, error)); ok {
		return rf(ctx)
	}
	if rf, ok := ret.Get(0).(func(context.Context) *predict.Health); ok {
		r0 = rf(ctx)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*predict.Health)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context) error); ok {
		r1 = rf(ctx)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// ModelInfo provides a mock function with given fields: ctx
func (_m *MockClient) ModelInfo(ctx context.Context) (predict.ModelInfo, error) {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for ModelInfo")
	}

	var r0 predict.ModelInfo
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context) (predict.ModelInfo, error)); ok {
		return rf(ctx)
	}
	if rf, ok := ret.Get(0).(func(context.Context) predict.ModelInfo); ok {
		r0 = rf(ctx)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(predict.ModelInfo)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context) error); ok {
		r1 = rf(ctx)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// ReloadModel provides a mock function with given fields: ctx
func (_m *MockClient) ReloadModel(ctx context.Context) (*predict.ReloadResult, error) {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for ReloadModel")
	}

	var r0 *predict.ReloadResult
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context) (*predict.ReloadResult, error)); ok {
		return rf(ctx)
	}
	if rf, ok := ret.Get(0).(func(context.Context) *predict.ReloadResult); ok {
		r0 = rf(ctx)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*predict.ReloadResult)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context) error); ok {
		r1 = rf(ctx)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewMockClient creates a new instance of MockClient.
func NewMockClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockClient {
	mock := &MockClient{}
	mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
