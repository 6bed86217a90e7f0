package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/tambeaditya101/next-ecom-api/internal/orders"
)

// fakeStore implements Store in memory with the same contract as the pgx
// Repo: CommitOrder re-checks stock under its own lock and applies nothing
// unless every line fits.
type fakeStore struct {
	mu            sync.Mutex
	products      map[int64]ProductRow
	placed        []*orders.Order
	nextOrderID   int64
	commitErr     error
	snapshotCalls int
	commitCalls   int
}

func newFakeStore(rows ...ProductRow) *fakeStore {
	f := &fakeStore{products: make(map[int64]ProductRow, len(rows))}
	for _, r := range rows {
		f.products[r.ID] = r
	}
	return f
}

func (f *fakeStore) Snapshot(_ context.Context, ids []int64) (map[int64]ProductRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snapshotCalls++
	out := make(map[int64]ProductRow, len(ids))
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (f *fakeStore) CommitOrder(_ context.Context, userID int64, lines []Line) (*orders.Order, []StockLevel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.commitCalls++
	if f.commitErr != nil {
		return nil, nil, &PersistenceError{Op: "commit", Err: f.commitErr}
	}

	// Conditional phase: nothing is applied until every line fits.
	work := make(map[int64]int, len(lines))
	for id, p := range f.products {
		work[id] = p.Stock
	}
	for _, l := range lines {
		p, ok := f.products[l.ProductID]
		if !ok {
			return nil, nil, &ProductNotFoundError{ProductID: l.ProductID}
		}
		if work[l.ProductID] < l.Qty {
			return nil, nil, &InsufficientStockError{
				ProductID: l.ProductID,
				Name:      p.Name,
				Available: work[l.ProductID],
				Requested: l.Qty,
			}
		}
		work[l.ProductID] -= l.Qty
	}

	f.nextOrderID++
	o := &orders.Order{
		ID:        f.nextOrderID,
		UserID:    userID,
		Status:    orders.StatusPaid,
		CreatedAt: time.Now(),
	}
	for i, l := range lines {
		p := f.products[l.ProductID]
		o.TotalCents += p.PriceCents * l.Qty
		o.Items = append(o.Items, orders.OrderItem{
			ID: int64(i + 1), OrderID: o.ID,
			ProductID: l.ProductID, Qty: l.Qty, PriceCents: p.PriceCents,
		})
	}
	for id, st := range work {
		p := f.products[id]
		p.Stock = st
		f.products[id] = p
	}
	f.placed = append(f.placed, o)

	seen := map[int64]bool{}
	var levels []StockLevel
	for _, l := range lines {
		if !seen[l.ProductID] {
			seen[l.ProductID] = true
			levels = append(levels, StockLevel{ProductID: l.ProductID, Stock: f.products[l.ProductID].Stock})
		}
	}
	return o, levels, nil
}

func (f *fakeStore) stock(id int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.products[id].Stock
}

func (f *fakeStore) orderCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.placed)
}

func TestPlaceOrderSuccess(t *testing.T) {
	store := newFakeStore(
		ProductRow{ID: 1, Name: "Lamp", PriceCents: 1500, Stock: 5},
		ProductRow{ID: 2, Name: "Rug", PriceCents: 4000, Stock: 2},
	)
	svc := &Service{Store: store}

	res, err := svc.PlaceOrder(context.Background(), CartRequest{
		UserID: 9,
		Lines:  []Line{{ProductID: 1, Qty: 2}, {ProductID: 2, Qty: 1}},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(9), res.Order.UserID)
	assert.Equal(t, orders.StatusPaid, res.Order.Status)
	assert.Equal(t, 2*1500+4000, res.Order.TotalCents)
	require.Len(t, res.Order.Items, 2)
	assert.Equal(t, 1500, res.Order.Items[0].PriceCents)
	assert.Equal(t, 4000, res.Order.Items[1].PriceCents)

	assert.Equal(t, []StockLevel{{ProductID: 1, Stock: 3}, {ProductID: 2, Stock: 1}}, res.UpdatedProducts)
	assert.Equal(t, 3, store.stock(1))
	assert.Equal(t, 1, store.stock(2))
}

// Stock 2: asking 3 fails and changes nothing, asking 2 drains it, asking 1
// afterwards fails with availability 0.
func TestPlaceOrderStockScenario(t *testing.T) {
	store := newFakeStore(ProductRow{ID: 1, Name: "Lamp", PriceCents: 1000, Stock: 2})
	svc := &Service{Store: store}
	ctx := context.Background()

	_, err := svc.PlaceOrder(ctx, CartRequest{UserID: 1, Lines: []Line{{ProductID: 1, Qty: 3}}})
	var ins *InsufficientStockError
	require.ErrorAs(t, err, &ins)
	assert.Equal(t, 2, ins.Available)
	assert.Equal(t, 3, ins.Requested)
	assert.Equal(t, 2, store.stock(1))
	assert.Equal(t, 0, store.orderCount())

	res, err := svc.PlaceOrder(ctx, CartRequest{UserID: 1, Lines: []Line{{ProductID: 1, Qty: 2}}})
	require.NoError(t, err)
	assert.Equal(t, 2000, res.Order.TotalCents)
	assert.Equal(t, 0, store.stock(1))

	_, err = svc.PlaceOrder(ctx, CartRequest{UserID: 2, Lines: []Line{{ProductID: 1, Qty: 1}}})
	require.ErrorAs(t, err, &ins)
	assert.Equal(t, 0, ins.Available)
	assert.Equal(t, 1, ins.Requested)
	assert.Equal(t, 1, store.orderCount())
}

func TestPlaceOrderProductNotFound(t *testing.T) {
	store := newFakeStore(ProductRow{ID: 1, PriceCents: 100, Stock: 1})
	svc := &Service{Store: store}

	_, err := svc.PlaceOrder(context.Background(), CartRequest{
		UserID: 1,
		Lines:  []Line{{ProductID: 1, Qty: 1}, {ProductID: 99, Qty: 1}},
	})
	var nf *ProductNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, int64(99), nf.ProductID)
	assert.Equal(t, 1, store.stock(1))
	assert.Equal(t, 0, store.orderCount())
}

// One short line poisons the whole cart: nothing is written for any line.
func TestPlaceOrderAtomicity(t *testing.T) {
	store := newFakeStore(
		ProductRow{ID: 1, PriceCents: 100, Stock: 10},
		ProductRow{ID: 2, PriceCents: 200, Stock: 1},
	)
	svc := &Service{Store: store}

	_, err := svc.PlaceOrder(context.Background(), CartRequest{
		UserID: 1,
		Lines:  []Line{{ProductID: 1, Qty: 5}, {ProductID: 2, Qty: 3}},
	})
	var ins *InsufficientStockError
	require.ErrorAs(t, err, &ins)
	assert.Equal(t, int64(2), ins.ProductID)
	assert.Equal(t, 10, store.stock(1))
	assert.Equal(t, 1, store.stock(2))
	assert.Equal(t, 0, store.orderCount())
}

// Resubmitting an invalid cart always fails the same way and never reaches
// storage.
func TestPlaceOrderInvalidCartNeverTouchesStore(t *testing.T) {
	store := newFakeStore(ProductRow{ID: 1, PriceCents: 100, Stock: 5})
	svc := &Service{Store: store}
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.PlaceOrder(ctx, CartRequest{UserID: 1, Lines: []Line{{ProductID: 1, Qty: 0}}})
		assert.ErrorIs(t, err, ErrInvalidCart)
	}
	_, err := svc.PlaceOrder(ctx, CartRequest{Lines: []Line{{ProductID: 1, Qty: 1}}})
	assert.ErrorIs(t, err, ErrMissingIdentity)

	assert.Equal(t, 0, store.snapshotCalls)
	assert.Equal(t, 0, store.commitCalls)
	assert.Equal(t, 5, store.stock(1))
}

func TestPlaceOrderPersistenceFailure(t *testing.T) {
	store := newFakeStore(ProductRow{ID: 1, PriceCents: 100, Stock: 5})
	store.commitErr = errors.New("connection reset")
	svc := &Service{Store: store}

	_, err := svc.PlaceOrder(context.Background(), CartRequest{UserID: 1, Lines: []Line{{ProductID: 1, Qty: 1}}})
	var pe *PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.ErrorIs(t, err, store.commitErr)
	assert.Equal(t, 0, store.orderCount())
}

// Duplicate product ids stay independent lines, but stock accounting is
// cumulative: two lines of 1 need stock 2.
func TestPlaceOrderDuplicateLines(t *testing.T) {
	ctx := context.Background()

	short := newFakeStore(ProductRow{ID: 1, PriceCents: 100, Stock: 1})
	_, err := (&Service{Store: short}).PlaceOrder(ctx, CartRequest{
		UserID: 1,
		Lines:  []Line{{ProductID: 1, Qty: 1}, {ProductID: 1, Qty: 1}},
	})
	var ins *InsufficientStockError
	require.ErrorAs(t, err, &ins)
	assert.Equal(t, 1, short.stock(1))

	enough := newFakeStore(ProductRow{ID: 1, PriceCents: 100, Stock: 2})
	res, err := (&Service{Store: enough}).PlaceOrder(ctx, CartRequest{
		UserID: 1,
		Lines:  []Line{{ProductID: 1, Qty: 1}, {ProductID: 1, Qty: 1}},
	})
	require.NoError(t, err)
	assert.Len(t, res.Order.Items, 2) // no implicit merge
	assert.Equal(t, 200, res.Order.TotalCents)
	assert.Equal(t, 0, enough.stock(1))
	assert.Equal(t, []StockLevel{{ProductID: 1, Stock: 0}}, res.UpdatedProducts)
}

// K concurrent checkouts of 1 unit against stock N: exactly N succeed, the
// rest fail with insufficient stock, and the final stock is exactly 0.
func TestPlaceOrderConcurrentNoOversell(t *testing.T) {
	const stock, clients = 4, 32
	store := newFakeStore(ProductRow{ID: 1, Name: "Lamp", PriceCents: 100, Stock: stock})
	svc := &Service{Store: store}

	var mu sync.Mutex
	succeeded, rejected := 0, 0

	g, ctx := errgroup.WithContext(context.Background())
	for i := 0; i < clients; i++ {
		userID := int64(i + 1)
		g.Go(func() error {
			_, err := svc.PlaceOrder(ctx, CartRequest{UserID: userID, Lines: []Line{{ProductID: 1, Qty: 1}}})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			default:
				var ins *InsufficientStockError
				if !errors.As(err, &ins) {
					return err
				}
				rejected++
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, stock, succeeded)
	assert.Equal(t, clients-stock, rejected)
	assert.Equal(t, 0, store.stock(1))
	assert.Equal(t, stock, store.orderCount())
}

// The stored item price is the catalog price at commit time, regardless of
// what the client payload claimed.
func TestPlaceOrderPriceIntegrity(t *testing.T) {
	store := newFakeStore(ProductRow{ID: 1, Name: "Lamp", PriceCents: 1500, Stock: 5})
	svc := &Service{Store: store}

	// Simulate a hostile payload that carried a price field; decoding into
	// Line drops it, so only id+quantity survive.
	var line Line
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"quantity":1,"price":1}`), &line))

	res, err := svc.PlaceOrder(context.Background(), CartRequest{UserID: 1, Lines: []Line{line}})
	require.NoError(t, err)
	assert.Equal(t, 1500, res.Order.Items[0].PriceCents)
	assert.Equal(t, 1500, res.Order.TotalCents)
}
