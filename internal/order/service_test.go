package order

import (
	"context"
	"testing"

	"bazaar-be/internal/auth"
	"bazaar-be/internal/cache"
	"bazaar-be/internal/cart"
	"bazaar-be/internal/fault"
	"bazaar-be/internal/notify"
	"bazaar-be/internal/product"
	"bazaar-be/internal/sales"
	"bazaar-be/internal/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// --- Mocks ---

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateOrderTx(ctx context.Context, o Order) (Order, error) {
	args := m.Called(ctx, o)
	return args.Get(0).(Order), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id string) (*Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Order), args.Error(1)
}

func (m *MockRepository) ListByUser(ctx context.Context, userID string, limit, page *int32) ([]*Order, error) {
	args := m.Called(ctx, userID, limit, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Order), args.Error(1)
}

func (m *MockRepository) SetOrderStatusTx(ctx context.Context, id string, from, to OrderStatus, saleRows []sales.Sale) error {
	args := m.Called(ctx, id, from, to, saleRows)
	return args.Error(0)
}

func (m *MockRepository) SetPaymentStatusTx(ctx context.Context, id string, from, to PaymentStatus, saleRows []sales.Sale) error {
	args := m.Called(ctx, id, from, to, saleRows)
	return args.Error(0)
}

func (m *MockRepository) CancelTx(ctx context.Context, id string, from OrderStatus) error {
	args := m.Called(ctx, id, from)
	return args.Error(0)
}

type MockProductRepo struct {
	mock.Mock
}

func (m *MockProductRepo) Create(ctx context.Context, p product.Product) (product.Product, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(product.Product), args.Error(1)
}

func (m *MockProductRepo) GetByID(ctx context.Context, id string) (*product.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductRepo) UpdateStatus(ctx context.Context, id string, status product.Status, isActive *bool) (*product.Product, error) {
	args := m.Called(ctx, id, status, isActive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductRepo) AdjustStock(ctx context.Context, id string, delta int) (int, int, error) {
	args := m.Called(ctx, id, delta)
	return args.Int(0), args.Int(1), args.Error(2)
}

func (m *MockProductRepo) ListByCategory(ctx context.Context, categoryID string, cursor *string, limit int32) ([]*product.Product, error) {
	args := m.Called(ctx, categoryID, cursor, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*product.Product), args.Error(1)
}

func (m *MockProductRepo) ListSimilar(ctx context.Context, productID string, categoryID, subCategoryID *string) ([]*product.Product, error) {
	args := m.Called(ctx, productID, categoryID, subCategoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*product.Product), args.Error(1)
}

func (m *MockProductRepo) SetRating(ctx context.Context, id string, rating float64) error {
	args := m.Called(ctx, id, rating)
	return args.Error(0)
}

type MockCartRepo struct {
	mock.Mock
}

func (m *MockCartRepo) GetCartItemByUserAndProduct(ctx context.Context, userID, productID string) (*cart.CartItem, error) {
	args := m.Called(ctx, userID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.CartItem), args.Error(1)
}

func (m *MockCartRepo) CreateCartItem(ctx context.Context, userID, productID string, quantity int) (*cart.CartItem, error) {
	args := m.Called(ctx, userID, productID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.CartItem), args.Error(1)
}

func (m *MockCartRepo) UpdateCartItemQuantity(ctx context.Context, id string, quantity int) (*cart.CartItem, error) {
	args := m.Called(ctx, id, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.CartItem), args.Error(1)
}

func (m *MockCartRepo) GetCartRows(ctx context.Context, userID string) ([]*cart.CartRow, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*cart.CartRow), args.Error(1)
}

func (m *MockCartRepo) RemoveFromCart(ctx context.Context, userID string, productIDs []string) error {
	args := m.Called(ctx, userID, productIDs)
	return args.Error(0)
}

func (m *MockCartRepo) ClearCart(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockCartRepo) CountCartItems(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, email, password, role string) (user.User, error) {
	args := m.Called(ctx, email, password, role)
	return args.Get(0).(user.User), args.Error(1)
}

func (m *MockUserRepo) FindByEmail(ctx context.Context, email string) (user.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(user.User), args.Error(1)
}

func (m *MockUserRepo) FindByID(ctx context.Context, id string) (user.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(user.User), args.Error(1)
}

// --- Fixtures ---

var (
	buyer = auth.Actor{UserID: "u1", Email: "buyer@example.com", Role: auth.RoleUser}
	admin = auth.Actor{UserID: "a1", Email: "admin@example.com", Role: auth.RoleAdmin}
)

func newTestService(repo *MockRepository, productRepo *MockProductRepo, cartRepo *MockCartRepo, userRepo *MockUserRepo) Service {
	return NewService(repo, productRepo, cartRepo, userRepo,
		notify.NewLogNotifier(), cache.NoopInvalidator{}, 0.10)
}

func activeProduct(id string, price float64) *product.Product {
	return &product.Product{
		ID:       id,
		Title:    "Red Mug",
		Price:    price,
		Stock:    10,
		IsActive: true,
		Status:   product.StatusActive,
		VendorID: "v1",
		StoreID:  "s1",
	}
}

// --- Tests ---

func TestService_PlaceOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		productRepo := new(MockProductRepo)
		cartRepo := new(MockCartRepo)
		userRepo := new(MockUserRepo)
		svc := newTestService(repo, productRepo, cartRepo, userRepo)

		productRepo.On("GetByID", ctx, "p1").Return(activeProduct("p1", 10.0), nil)
		repo.On("CreateOrderTx", ctx, mock.MatchedBy(func(o Order) bool {
			return o.OrderStatus == StatusPending &&
				o.PaymentStatus == PaymentPending &&
				o.TotalOrderAmount == 20.0 &&
				len(o.Items) == 1 &&
				o.Items[0].Title == "Red Mug" &&
				o.OrderNumber != ""
		})).Return(Order{ID: "o1", OrderNumber: "ORD-X"}, nil)
		cartRepo.On("RemoveFromCart", ctx, "u1", []string{"p1"}).Return(nil)

		o, err := svc.PlaceOrder(ctx, PlaceOrderInput{
			Items: []PlaceOrderItem{{ProductID: "p1", Quantity: 2}},
		}, buyer)
		assert.NoError(t, err)
		assert.Equal(t, "o1", o.ID)
		repo.AssertExpectations(t)
		cartRepo.AssertExpectations(t)
	})

	t.Run("EmptyOrder", func(t *testing.T) {
		svc := newTestService(new(MockRepository), new(MockProductRepo), new(MockCartRepo), new(MockUserRepo))

		_, err := svc.PlaceOrder(ctx, PlaceOrderInput{}, buyer)
		assert.ErrorIs(t, err, ErrEmptyOrder)
		assert.ErrorIs(t, err, fault.ErrValidation)
	})

	t.Run("UnsellableProduct", func(t *testing.T) {
		repo := new(MockRepository)
		productRepo := new(MockProductRepo)
		svc := newTestService(repo, productRepo, new(MockCartRepo), new(MockUserRepo))

		p := activeProduct("p1", 10.0)
		p.Status = product.StatusPending
		productRepo.On("GetByID", ctx, "p1").Return(p, nil)

		_, err := svc.PlaceOrder(ctx, PlaceOrderInput{
			Items: []PlaceOrderItem{{ProductID: "p1", Quantity: 1}},
		}, buyer)
		assert.ErrorIs(t, err, fault.ErrValidation)
		repo.AssertNotCalled(t, "CreateOrderTx", mock.Anything, mock.Anything)
	})

	t.Run("UsesSalePriceWhenDiscounted", func(t *testing.T) {
		repo := new(MockRepository)
		productRepo := new(MockProductRepo)
		cartRepo := new(MockCartRepo)
		svc := newTestService(repo, productRepo, cartRepo, new(MockUserRepo))

		p := activeProduct("p1", 10.0)
		sale := 8.0
		p.IsDiscount = true
		p.SalePrice = &sale
		productRepo.On("GetByID", ctx, "p1").Return(p, nil)
		repo.On("CreateOrderTx", ctx, mock.MatchedBy(func(o Order) bool {
			return o.Items[0].Price == 8.0 && o.TotalOrderAmount == 16.0
		})).Return(Order{ID: "o1"}, nil)
		cartRepo.On("RemoveFromCart", ctx, "u1", []string{"p1"}).Return(nil)

		_, err := svc.PlaceOrder(ctx, PlaceOrderInput{
			Items: []PlaceOrderItem{{ProductID: "p1", Quantity: 2}},
		}, buyer)
		assert.NoError(t, err)
	})

	t.Run("RetriesOnOrderNumberCollision", func(t *testing.T) {
		repo := new(MockRepository)
		productRepo := new(MockProductRepo)
		cartRepo := new(MockCartRepo)
		svc := newTestService(repo, productRepo, cartRepo, new(MockUserRepo))

		productRepo.On("GetByID", ctx, "p1").Return(activeProduct("p1", 10.0), nil)

		var first, second string
		repo.On("CreateOrderTx", ctx, mock.MatchedBy(func(o Order) bool {
			if first == "" {
				first = o.OrderNumber
			}
			return true
		})).Return(Order{}, ErrDuplicateOrderNumber).Once()
		repo.On("CreateOrderTx", ctx, mock.MatchedBy(func(o Order) bool {
			second = o.OrderNumber
			return true
		})).Return(Order{ID: "o1"}, nil).Once()
		cartRepo.On("RemoveFromCart", ctx, "u1", []string{"p1"}).Return(nil)

		o, err := svc.PlaceOrder(ctx, PlaceOrderInput{
			Items: []PlaceOrderItem{{ProductID: "p1", Quantity: 1}},
		}, buyer)
		assert.NoError(t, err)
		assert.Equal(t, "o1", o.ID)
		assert.NotEqual(t, first, second)
		repo.AssertNumberOfCalls(t, "CreateOrderTx", 2)
	})

	t.Run("NonPositiveQuantity", func(t *testing.T) {
		svc := newTestService(new(MockRepository), new(MockProductRepo), new(MockCartRepo), new(MockUserRepo))

		_, err := svc.PlaceOrder(ctx, PlaceOrderInput{
			Items: []PlaceOrderItem{{ProductID: "p1", Quantity: 0}},
		}, buyer)
		assert.ErrorIs(t, err, fault.ErrValidation)
	})
}

func TestService_UpdateOrderStatus(t *testing.T) {
	ctx := context.Background()

	deliveredReady := func() *Order {
		return &Order{
			ID:            "o1",
			OrderNumber:   "ORD-1001",
			UserID:        "u1",
			OrderStatus:   StatusShipped,
			PaymentStatus: PaymentCompleted,
			Items: []OrderItem{
				{ID: "oi1", ProductID: "p1", VendorID: "v1", StoreID: "s1", Price: 10.0, Quantity: 2},
				{ID: "oi2", ProductID: "p2", VendorID: "v2", StoreID: "s2", Price: 5.0, Quantity: 1},
			},
		}
	}

	t.Run("DeliveryRecordsSales", func(t *testing.T) {
		repo := new(MockRepository)
		userRepo := new(MockUserRepo)
		svc := newTestService(repo, new(MockProductRepo), new(MockCartRepo), userRepo)

		repo.On("GetByID", ctx, "o1").Return(deliveredReady(), nil)
		repo.On("SetOrderStatusTx", ctx, "o1", StatusShipped, StatusDelivered,
			mock.MatchedBy(func(rows []sales.Sale) bool {
				return len(rows) == 2 &&
					rows[0].Total == 20.0 && rows[0].Commission == 2.0 &&
					rows[1].Total == 5.0 && rows[1].Commission == 0.5
			})).Return(nil)
		userRepo.On("FindByID", ctx, "u1").Return(user.User{Email: "buyer@example.com"}, nil)

		o, err := svc.UpdateOrderStatus(ctx, "o1", StatusDelivered, admin)
		assert.NoError(t, err)
		assert.Equal(t, StatusDelivered, o.OrderStatus)
		repo.AssertExpectations(t)
	})

	t.Run("UnpaidDeliverySkipsSales", func(t *testing.T) {
		repo := new(MockRepository)
		userRepo := new(MockUserRepo)
		svc := newTestService(repo, new(MockProductRepo), new(MockCartRepo), userRepo)

		o := deliveredReady()
		o.PaymentStatus = PaymentPending
		repo.On("GetByID", ctx, "o1").Return(o, nil)
		repo.On("SetOrderStatusTx", ctx, "o1", StatusShipped, StatusDelivered, []sales.Sale(nil)).Return(nil)
		userRepo.On("FindByID", ctx, "u1").Return(user.User{Email: "buyer@example.com"}, nil)

		_, err := svc.UpdateOrderStatus(ctx, "o1", StatusDelivered, admin)
		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("InvalidTransition", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, new(MockProductRepo), new(MockCartRepo), new(MockUserRepo))

		o := deliveredReady()
		o.OrderStatus = StatusPending
		repo.On("GetByID", ctx, "o1").Return(o, nil)

		_, err := svc.UpdateOrderStatus(ctx, "o1", StatusDelivered, admin)
		assert.ErrorIs(t, err, fault.ErrInvalidTransition)
	})

	t.Run("RequiresAdmin", func(t *testing.T) {
		svc := newTestService(new(MockRepository), new(MockProductRepo), new(MockCartRepo), new(MockUserRepo))

		_, err := svc.UpdateOrderStatus(ctx, "o1", StatusProcessing, buyer)
		assert.ErrorIs(t, err, fault.ErrAuthorization)
	})

	t.Run("CancelRestoresStock", func(t *testing.T) {
		repo := new(MockRepository)
		userRepo := new(MockUserRepo)
		svc := newTestService(repo, new(MockProductRepo), new(MockCartRepo), userRepo)

		o := deliveredReady()
		o.OrderStatus = StatusProcessing
		repo.On("GetByID", ctx, "o1").Return(o, nil)
		repo.On("CancelTx", ctx, "o1", StatusProcessing).Return(nil)
		userRepo.On("FindByID", ctx, "u1").Return(user.User{Email: "buyer@example.com"}, nil)

		updated, err := svc.UpdateOrderStatus(ctx, "o1", StatusCanceled, admin)
		assert.NoError(t, err)
		assert.Equal(t, StatusCanceled, updated.OrderStatus)
		repo.AssertExpectations(t)
		repo.AssertNotCalled(t, "SetOrderStatusTx",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestService_UpdatePaymentStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("LatePaymentRecordsSales", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, new(MockProductRepo), new(MockCartRepo), new(MockUserRepo))

		o := &Order{
			ID:            "o1",
			UserID:        "u1",
			OrderStatus:   StatusDelivered,
			PaymentStatus: PaymentPending,
			Items: []OrderItem{
				{ID: "oi1", ProductID: "p1", VendorID: "v1", StoreID: "s1", Price: 10.0, Quantity: 2},
			},
		}
		repo.On("GetByID", ctx, "o1").Return(o, nil)
		repo.On("SetPaymentStatusTx", ctx, "o1", PaymentPending, PaymentCompleted,
			mock.MatchedBy(func(rows []sales.Sale) bool {
				return len(rows) == 1 && rows[0].OrderItemID == "oi1"
			})).Return(nil)

		updated, err := svc.UpdatePaymentStatus(ctx, "o1", PaymentCompleted, admin)
		assert.NoError(t, err)
		assert.Equal(t, PaymentCompleted, updated.PaymentStatus)
		repo.AssertExpectations(t)
	})

	t.Run("TerminalState", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, new(MockProductRepo), new(MockCartRepo), new(MockUserRepo))

		repo.On("GetByID", ctx, "o1").Return(&Order{
			ID: "o1", OrderStatus: StatusPending, PaymentStatus: PaymentFailed,
		}, nil)

		_, err := svc.UpdatePaymentStatus(ctx, "o1", PaymentCompleted, admin)
		assert.ErrorIs(t, err, fault.ErrInvalidTransition)
	})
}

func TestService_Cancel(t *testing.T) {
	ctx := context.Background()

	t.Run("OwnerCancelsPending", func(t *testing.T) {
		repo := new(MockRepository)
		userRepo := new(MockUserRepo)
		svc := newTestService(repo, new(MockProductRepo), new(MockCartRepo), userRepo)

		repo.On("GetByID", ctx, "o1").Return(&Order{
			ID: "o1", UserID: "u1", OrderStatus: StatusPending,
		}, nil)
		repo.On("CancelTx", ctx, "o1", StatusPending).Return(nil)
		userRepo.On("FindByID", ctx, "u1").Return(user.User{Email: "buyer@example.com"}, nil)

		err := svc.Cancel(ctx, "o1", buyer)
		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("ShippedCannotCancel", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, new(MockProductRepo), new(MockCartRepo), new(MockUserRepo))

		repo.On("GetByID", ctx, "o1").Return(&Order{
			ID: "o1", UserID: "u1", OrderStatus: StatusShipped,
		}, nil)

		err := svc.Cancel(ctx, "o1", buyer)
		assert.ErrorIs(t, err, ErrOrderNotPending)
		repo.AssertNotCalled(t, "CancelTx", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("StrangerSeesNotFound", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, new(MockProductRepo), new(MockCartRepo), new(MockUserRepo))

		repo.On("GetByID", ctx, "o1").Return(&Order{
			ID: "o1", UserID: "someone-else", OrderStatus: StatusPending,
		}, nil)

		err := svc.Cancel(ctx, "o1", buyer)
		assert.ErrorIs(t, err, fault.ErrNotFound)
	})
}

func TestService_GetOrderDetail(t *testing.T) {
	ctx := context.Background()

	t.Run("OwnerSeesOrder", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, new(MockProductRepo), new(MockCartRepo), new(MockUserRepo))

		repo.On("GetByID", ctx, "o1").Return(&Order{ID: "o1", UserID: "u1"}, nil)

		o, err := svc.GetOrderDetail(ctx, "o1", buyer)
		assert.NoError(t, err)
		assert.Equal(t, "o1", o.ID)
	})

	t.Run("StrangerSeesNotFound", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, new(MockProductRepo), new(MockCartRepo), new(MockUserRepo))

		repo.On("GetByID", ctx, "o1").Return(&Order{ID: "o1", UserID: "someone-else"}, nil)

		_, err := svc.GetOrderDetail(ctx, "o1", buyer)
		assert.ErrorIs(t, err, fault.ErrNotFound)
	})

	t.Run("AdminSeesAny", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newTestService(repo, new(MockProductRepo), new(MockCartRepo), new(MockUserRepo))

		repo.On("GetByID", ctx, "o1").Return(&Order{ID: "o1", UserID: "u1"}, nil)

		o, err := svc.GetOrderDetail(ctx, "o1", admin)
		assert.NoError(t, err)
		assert.Equal(t, "o1", o.ID)
	})
}
