package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acqua-delivery/backend/internal/model"
)

// mockCouponRepository is a mock implementation of CouponRepositoryInterface.
type mockCouponRepository struct {
	insertFn      func(ctx context.Context, coupon *model.Coupon) error
	getByCodeFn   func(ctx context.Context, code string) (*model.Coupon, error)
	listFn        func(ctx context.Context) ([]model.Coupon, error)
	deleteFn      func(ctx context.Context, code string) (bool, error)
	listForCustFn func(ctx context.Context, email string, now time.Time) ([]model.Coupon, error)
}

func (m *mockCouponRepository) Insert(ctx context.Context, coupon *model.Coupon) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, coupon)
	}
	return nil
}

func (m *mockCouponRepository) GetByCode(ctx context.Context, code string) (*model.Coupon, error) {
	if m.getByCodeFn != nil {
		return m.getByCodeFn(ctx, code)
	}
	return nil, nil
}

func (m *mockCouponRepository) List(ctx context.Context) ([]model.Coupon, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return []model.Coupon{}, nil
}

func (m *mockCouponRepository) Delete(ctx context.Context, code string) (bool, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, code)
	}
	return false, nil
}

func (m *mockCouponRepository) ListActiveForCustomer(ctx context.Context, email string, now time.Time) ([]model.Coupon, error) {
	if m.listForCustFn != nil {
		return m.listForCustFn(ctx, email, now)
	}
	return []model.Coupon{}, nil
}

func TestCouponService_Create_UppercasesCode(t *testing.T) {
	var inserted *model.Coupon
	repo := &mockCouponRepository{
		insertFn: func(ctx context.Context, coupon *model.Coupon) error {
			inserted = coupon
			return nil
		},
	}
	svc := NewCouponService(repo)

	req := &model.CreateCouponRequest{
		Code:               "  summer25 ",
		DiscountPercentage: intPtr(25),
		ExpiryDate:         time.Now().Add(72 * time.Hour),
	}
	coupon, err := svc.Create(context.Background(), req)

	require.NoError(t, err)
	require.NotNil(t, inserted)
	assert.Equal(t, "SUMMER25", coupon.Code)
	assert.Equal(t, 25, coupon.DiscountPercentage)
	assert.True(t, coupon.IsActive, "new coupons start active")
	assert.Zero(t, coupon.CurrentUses)
	assert.Nil(t, coupon.MaxUses)
}

func TestCouponService_Create_DuplicateCode(t *testing.T) {
	repo := &mockCouponRepository{
		insertFn: func(ctx context.Context, coupon *model.Coupon) error {
			return ErrCouponExists
		},
	}
	svc := NewCouponService(repo)

	req := &model.CreateCouponRequest{
		Code:               "SAVE10",
		DiscountPercentage: intPtr(10),
		ExpiryDate:         time.Now().Add(time.Hour),
	}
	_, err := svc.Create(context.Background(), req)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCouponExists))
}

func TestCouponService_Create_NilDiscount(t *testing.T) {
	svc := NewCouponService(&mockCouponRepository{})

	_, err := svc.Create(context.Background(), &model.CreateCouponRequest{Code: "SAVE10"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidRequest))
}

func TestCouponService_Delete_NormalizesCode(t *testing.T) {
	var deletedCode string
	repo := &mockCouponRepository{
		deleteFn: func(ctx context.Context, code string) (bool, error) {
			deletedCode = code
			return true, nil
		},
	}
	svc := NewCouponService(repo)

	err := svc.Delete(context.Background(), "save10")

	require.NoError(t, err)
	assert.Equal(t, "SAVE10", deletedCode)
}

func TestCouponService_Delete_NotFound(t *testing.T) {
	svc := NewCouponService(&mockCouponRepository{})

	err := svc.Delete(context.Background(), "MISSING")

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCouponNotFound))
}

func TestCouponService_Validate_ValidCoupon(t *testing.T) {
	repo := &mockCouponRepository{
		getByCodeFn: func(ctx context.Context, code string) (*model.Coupon, error) {
			require.Equal(t, "SAVE10", code)
			return &model.Coupon{
				Code:               "SAVE10",
				DiscountPercentage: 10,
				ExpiryDate:         time.Now().Add(24 * time.Hour),
				IsActive:           true,
			}, nil
		},
	}
	svc := NewCouponService(repo)

	resp, err := svc.Validate(context.Background(), "save10", "customer@example.com")

	require.NoError(t, err)
	assert.True(t, resp.Valid)
	assert.Equal(t, 10, resp.DiscountPercentage)
	assert.Equal(t, "coupon applied successfully", resp.Message)
}

func TestCouponService_Validate_UnknownCodeReturnsInvalidNotError(t *testing.T) {
	svc := NewCouponService(&mockCouponRepository{})

	resp, err := svc.Validate(context.Background(), "MISSING", "customer@example.com")

	require.NoError(t, err)
	assert.False(t, resp.Valid)
	assert.Zero(t, resp.DiscountPercentage)
	assert.Equal(t, "coupon not found", resp.Message)
}

func TestCouponService_Validate_ScopedCouponForOtherAccount(t *testing.T) {
	repo := &mockCouponRepository{
		getByCodeFn: func(ctx context.Context, code string) (*model.Coupon, error) {
			return &model.Coupon{
				Code:               "LOYAL5_ALICE",
				DiscountPercentage: 20,
				ExpiryDate:         time.Now().Add(24 * time.Hour),
				IsActive:           true,
				MaxUses:            intPtr(1),
				CustomerEmail:      strPtr("alice@example.com"),
			}, nil
		},
	}
	svc := NewCouponService(repo)

	resp, err := svc.Validate(context.Background(), "LOYAL5_ALICE", "bob@example.com")

	require.NoError(t, err)
	assert.False(t, resp.Valid)
	assert.Equal(t, "coupon is not valid for this account", resp.Message)
}

func TestCouponService_Validate_RepositoryError(t *testing.T) {
	repo := &mockCouponRepository{
		getByCodeFn: func(ctx context.Context, code string) (*model.Coupon, error) {
			return nil, errors.New("connection refused")
		},
	}
	svc := NewCouponService(repo)

	_, err := svc.Validate(context.Background(), "SAVE10", "customer@example.com")

	require.Error(t, err)
}

func TestCouponService_ListMine(t *testing.T) {
	var listedEmail string
	repo := &mockCouponRepository{
		listForCustFn: func(ctx context.Context, email string, now time.Time) ([]model.Coupon, error) {
			listedEmail = email
			return []model.Coupon{{Code: "LOYAL5_CUSTO"}}, nil
		},
	}
	svc := NewCouponService(repo)

	coupons, err := svc.ListMine(context.Background(), "customer@example.com")

	require.NoError(t, err)
	assert.Equal(t, "customer@example.com", listedEmail)
	require.Len(t, coupons, 1)
	assert.Equal(t, "LOYAL5_CUSTO", coupons[0].Code)
}
