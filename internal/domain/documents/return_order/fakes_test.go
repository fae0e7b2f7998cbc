package return_order

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/medtraie/Gaztesto-sub001/internal/core/apperror"
	"github.com/medtraie/Gaztesto-sub001/internal/core/entity"
	"github.com/medtraie/Gaztesto-sub001/internal/core/id"
	"github.com/medtraie/Gaztesto-sub001/internal/core/numerator"
	"github.com/medtraie/Gaztesto-sub001/internal/core/types"
	"github.com/medtraie/Gaztesto-sub001/internal/domain"
	"github.com/medtraie/Gaztesto-sub001/internal/domain/catalogs/bottletype"
	"github.com/medtraie/Gaztesto-sub001/internal/domain/catalogs/driver"
	"github.com/medtraie/Gaztesto-sub001/internal/domain/documents/supply_order"
	"github.com/medtraie/Gaztesto-sub001/internal/domain/registers/ledger"
)

type memSupplyOrders struct {
	rows map[id.ID]*supply_order.SupplyOrder
}

func (m *memSupplyOrders) GetByID(_ context.Context, docID id.ID) (*supply_order.SupplyOrder, error) {
	so, ok := m.rows[docID]
	if !ok {
		return nil, apperror.NewNotFound("supply_order", docID)
	}
	return so, nil
}

func (m *memSupplyOrders) Create(_ context.Context, doc *supply_order.SupplyOrder) error {
	m.rows[doc.ID] = doc
	return nil
}

type memBottles struct {
	mu   sync.Mutex
	rows map[id.ID]bottletype.BottleType
}

func (m *memBottles) GetByID(_ context.Context, btID id.ID) (*bottletype.BottleType, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.rows[btID]
	if !ok {
		return nil, apperror.NewNotFound("bottle_type", btID)
	}
	return &b, nil
}

func (m *memBottles) GetForUpdate(ctx context.Context, btID id.ID) (*bottletype.BottleType, error) {
	return m.GetByID(ctx, btID)
}

func (m *memBottles) UpdateFields(_ context.Context, btID id.ID, f bottletype.Fields) (*bottletype.BottleType, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.rows[btID]
	if !ok {
		return nil, apperror.NewNotFound("bottle_type", btID)
	}
	f.Apply(&b)
	m.rows[btID] = b
	return &b, nil
}

func (m *memBottles) List(context.Context) ([]*bottletype.BottleType, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*bottletype.BottleType, 0, len(m.rows))
	for _, b := range m.rows {
		b := b
		out = append(out, &b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memBottles) Create(_ context.Context, b *bottletype.BottleType) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[b.ID] = *b
	return nil
}

type memDrivers struct {
	rows map[id.ID]driver.Driver
}

func (m *memDrivers) GetByID(_ context.Context, dID id.ID) (*driver.Driver, error) {
	d, ok := m.rows[dID]
	if !ok {
		return nil, apperror.NewNotFound("driver", dID)
	}
	return &d, nil
}

func (m *memDrivers) IncrementDebt(_ context.Context, dID id.ID, amount types.Money) (*driver.Driver, error) {
	d, ok := m.rows[dID]
	if !ok {
		return nil, apperror.NewNotFound("driver", dID)
	}
	d.AddDebt(amount)
	m.rows[dID] = d
	return &d, nil
}

func (m *memDrivers) Create(_ context.Context, d *driver.Driver) error {
	m.rows[d.ID] = *d
	return nil
}

type memSettlements struct {
	rows []*Settlement
}

func (m *memSettlements) Create(_ context.Context, s *Settlement) (id.ID, error) {
	m.rows = append(m.rows, s)
	return s.ID, nil
}

func (m *memSettlements) GetByID(_ context.Context, sID id.ID) (*Settlement, error) {
	for _, s := range m.rows {
		if s.ID == sID {
			return s, nil
		}
	}
	return nil, apperror.NewNotFound("settlement", sID)
}

func (m *memSettlements) List(_ context.Context, f ListFilter) (domain.ListResult[*Settlement], error) {
	var items []*Settlement
	for _, s := range m.rows {
		if f.DriverID != nil && s.DriverID != *f.DriverID {
			continue
		}
		if f.SupplyOrderID != nil && s.SupplyOrderID != *f.SupplyOrderID {
			continue
		}
		items = append(items, s)
	}
	return domain.ListResult[*Settlement]{Items: items, TotalCount: int64(len(items)), Limit: f.Limit, Offset: f.Offset}, nil
}

type memLedger struct {
	foreign   []ledger.ForeignBottleEntry
	defective []ledger.DefectiveBottleEntry
	expenses  []ledger.ExpenseEntry
	revenues  []ledger.Revenue
	cash      []ledger.CashOperation
	financial []ledger.FinancialTransaction

	// failOn makes the named sink fail once.
	failOn string
}

var errSinkDown = errors.New("sink unavailable")

func (m *memLedger) check(sink string) error {
	if m.failOn == sink {
		m.failOn = ""
		return errSinkDown
	}
	return nil
}

func (m *memLedger) AppendForeign(_ context.Context, e []ledger.ForeignBottleEntry) error {
	if err := m.check("foreign"); err != nil {
		return err
	}
	m.foreign = append(m.foreign, e...)
	return nil
}

func (m *memLedger) AppendDefective(_ context.Context, e []ledger.DefectiveBottleEntry) error {
	if err := m.check("defective"); err != nil {
		return err
	}
	m.defective = append(m.defective, e...)
	return nil
}

func (m *memLedger) AppendExpenses(_ context.Context, e []ledger.ExpenseEntry) error {
	if err := m.check("expenses"); err != nil {
		return err
	}
	m.expenses = append(m.expenses, e...)
	return nil
}

func (m *memLedger) AppendRevenue(_ context.Context, r ledger.Revenue) error {
	if err := m.check("revenue"); err != nil {
		return err
	}
	m.revenues = append(m.revenues, r)
	return nil
}

func (m *memLedger) AppendCashOperation(_ context.Context, op ledger.CashOperation) error {
	m.cash = append(m.cash, op)
	return nil
}

func (m *memLedger) AppendFinancialTransaction(_ context.Context, t ledger.FinancialTransaction) error {
	m.financial = append(m.financial, t)
	return nil
}

func (m *memLedger) TrailFor(_ context.Context, sID id.ID) (*ledger.Trail, error) {
	t := &ledger.Trail{}
	for _, e := range m.foreign {
		if e.SettlementID == sID {
			t.Foreign = append(t.Foreign, e)
		}
	}
	for _, r := range m.revenues {
		if r.SettlementID == sID {
			t.Revenues = append(t.Revenues, r)
		}
	}
	return t, nil
}

type memMovements struct {
	items []entity.StockMovement
}

func (m *memMovements) AppendMovements(_ context.Context, mv []entity.StockMovement) error {
	m.items = append(m.items, mv...)
	return nil
}

func (m *memMovements) GetMovementsByRecorder(_ context.Context, rID id.ID) ([]entity.StockMovement, error) {
	var out []entity.StockMovement
	for _, mv := range m.items {
		if mv.RecorderID == rID {
			out = append(out, mv)
		}
	}
	return out, nil
}

// fixture is a wired service over in-memory stores with one 12KG bottle type,
// one driver and a supply order of 20 full bottles at 50.
type fixture struct {
	svc         *Service
	supply      *memSupplyOrders
	bottles     *memBottles
	drivers     *memDrivers
	settlements *memSettlements
	ledger      *memLedger
	movements   *memMovements

	bottleType  *bottletype.BottleType
	driver      *driver.Driver
	supplyOrder *supply_order.SupplyOrder
}

func newFixture(cfg Config) *fixture {
	f := &fixture{
		supply:      &memSupplyOrders{rows: make(map[id.ID]*supply_order.SupplyOrder)},
		bottles:     &memBottles{rows: make(map[id.ID]bottletype.BottleType)},
		drivers:     &memDrivers{rows: make(map[id.ID]driver.Driver)},
		settlements: &memSettlements{},
		ledger:      &memLedger{},
		movements:   &memMovements{},
	}

	f.bottleType = bottletype.NewBottleType("B12", "12KG", types.MustMoney("50"))
	f.bottleType.DistributedQuantity = 20
	_ = f.bottles.Create(context.Background(), f.bottleType)

	f.driver = driver.NewDriver("D1", "Driver One")
	_ = f.drivers.Create(context.Background(), f.driver)

	f.supplyOrder = supply_order.NewSupplyOrder("BS-2026-00001", f.driver.ID)
	f.supplyOrder.AddLine(f.bottleType.ID, "12KG", 0, 20, types.MustMoney("50"))
	_ = f.supply.Create(context.Background(), f.supplyOrder)

	svc, err := NewService(Deps{
		SupplyOrders: f.supply,
		BottleTypes:  f.bottles,
		Drivers:      f.drivers,
		Settlements:  f.settlements,
		Ledger:       f.ledger,
		Stock:        f.movements,
		Numerator:    &numerator.MockGenerator{},
	}, cfg)
	if err != nil {
		panic(err)
	}
	f.svc = svc
	return f
}

func (f *fixture) bottle() bottletype.BottleType {
	return f.bottles.rows[f.bottleType.ID]
}

func (f *fixture) driverState() driver.Driver {
	return f.drivers.rows[f.driver.ID]
}
