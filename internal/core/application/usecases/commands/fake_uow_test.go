package commands_test

import (
	"context"
	"sort"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/event"
	"dispatch/internal/core/domain/model/facility"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/pack"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// fakeStore is an in-memory stand-in for the persistence layer. Aggregates
// are shared by pointer, so "transactions" are immediate; good enough for
// exercising the dispatch workflows end to end.
type fakeStore struct {
	orders     map[kernel.UUID]*order.Order
	facilities map[kernel.UUID]*facility.Facility
	drivers    map[kernel.UUID]*driver.Driver
	packages   map[kernel.UUID]*pack.Package
	events     []*event.Event

	// dispatchableErr makes GetAllDispatchable fail for one facility.
	dispatchableErr map[kernel.UUID]error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		orders:          make(map[kernel.UUID]*order.Order),
		facilities:      make(map[kernel.UUID]*facility.Facility),
		drivers:         make(map[kernel.UUID]*driver.Driver),
		packages:        make(map[kernel.UUID]*pack.Package),
		dispatchableErr: make(map[kernel.UUID]error),
	}
}

func (s *fakeStore) eventsOfKind(kind event.Kind) []*event.Event {
	var out []*event.Event
	for _, e := range s.events {
		if e.Kind() == kind {
			out = append(out, e)
		}
	}
	return out
}

type fakeUoW struct{ store *fakeStore }

func (u *fakeUoW) Begin(context.Context) error    { return nil }
func (u *fakeUoW) Commit(context.Context) error   { return nil }
func (u *fakeUoW) Rollback(context.Context) error { return nil }

func (u *fakeUoW) OrderRepository() ports.OrderRepository       { return &fakeOrderRepo{u.store} }
func (u *fakeUoW) FacilityRepository() ports.FacilityRepository { return &fakeFacilityRepo{u.store} }
func (u *fakeUoW) DriverRepository() ports.DriverRepository     { return &fakeDriverRepo{u.store} }
func (u *fakeUoW) PackageRepository() ports.PackageRepository   { return &fakePackageRepo{u.store} }
func (u *fakeUoW) EventRepository() ports.EventRepository       { return &fakeEventRepo{u.store} }

type fakeUoWFactory struct{ store *fakeStore }

func (f *fakeUoWFactory) Create() commands.DispatchUoW { return &fakeUoW{store: f.store} }

type fakePackageUoWFactory struct{ store *fakeStore }

func (f *fakePackageUoWFactory) Create() commands.PackageUoW { return &fakeUoW{store: f.store} }

type fakeOrderRepo struct{ store *fakeStore }

func (r *fakeOrderRepo) Add(_ context.Context, o *order.Order) error {
	r.store.orders[o.ID()] = o
	return nil
}

func (r *fakeOrderRepo) Update(_ context.Context, o *order.Order) error {
	r.store.orders[o.ID()] = o
	return nil
}

func (r *fakeOrderRepo) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	o, ok := r.store.orders[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("orderID", id)
	}
	return o, nil
}

func (r *fakeOrderRepo) GetAllDispatchable(_ context.Context, facilityID kernel.UUID) ([]*order.Order, error) {
	if err := r.store.dispatchableErr[facilityID]; err != nil {
		return nil, err
	}

	var out []*order.Order
	for _, o := range r.store.orders {
		if o.Status() != order.Processing || o.IsAssigned() || o.Driver() != nil {
			continue
		}
		if o.Facility() == nil || !o.Facility().IsEqual(facilityID) {
			continue
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID().Less(out[j].ID()) })
	return out, nil
}

type fakeFacilityRepo struct{ store *fakeStore }

func (r *fakeFacilityRepo) Add(_ context.Context, f *facility.Facility) error {
	r.store.facilities[f.ID()] = f
	return nil
}

func (r *fakeFacilityRepo) Update(_ context.Context, f *facility.Facility) error {
	r.store.facilities[f.ID()] = f
	return nil
}

func (r *fakeFacilityRepo) Get(_ context.Context, id kernel.UUID) (*facility.Facility, error) {
	f, ok := r.store.facilities[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("facilityID", id)
	}
	return f, nil
}

func (r *fakeFacilityRepo) GetAllActive(_ context.Context) ([]*facility.Facility, error) {
	var out []*facility.Facility
	for _, f := range r.store.facilities {
		if f.IsActive() {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID().Less(out[j].ID()) })
	return out, nil
}

type fakeDriverRepo struct{ store *fakeStore }

func (r *fakeDriverRepo) Add(_ context.Context, d *driver.Driver) error {
	r.store.drivers[d.ID()] = d
	return nil
}

func (r *fakeDriverRepo) Update(_ context.Context, d *driver.Driver) error {
	r.store.drivers[d.ID()] = d
	return nil
}

func (r *fakeDriverRepo) Get(_ context.Context, id kernel.UUID) (*driver.Driver, error) {
	d, ok := r.store.drivers[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("driverID", id)
	}
	return d, nil
}

func (r *fakeDriverRepo) GetAllServingFacility(_ context.Context, facilityID kernel.UUID) ([]*driver.Driver, error) {
	var out []*driver.Driver
	for _, d := range r.store.drivers {
		if d.IsActive() && d.ServesFacility(facilityID) {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID().Less(out[j].ID()) })
	return out, nil
}

type fakePackageRepo struct{ store *fakeStore }

func (r *fakePackageRepo) Add(_ context.Context, p *pack.Package) error {
	r.store.packages[p.ID()] = p
	return nil
}

func (r *fakePackageRepo) Update(_ context.Context, p *pack.Package) error {
	r.store.packages[p.ID()] = p
	return nil
}

func (r *fakePackageRepo) Get(_ context.Context, id kernel.UUID) (*pack.Package, error) {
	p, ok := r.store.packages[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("packageID", id)
	}
	return p, nil
}

func (r *fakePackageRepo) GetActiveByDriverAndDate(_ context.Context, driverID kernel.UUID, date time.Time) (*pack.Package, error) {
	for _, p := range r.store.packages {
		if p.Driver() != nil && p.Driver().IsEqual(driverID) &&
			p.Status().IsActive() && p.ServiceDate().Equal(date) {
			return p, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("driverID", driverID)
}

func (r *fakePackageRepo) GetDriverIDsWithActivePackages(_ context.Context, date time.Time) ([]kernel.UUID, error) {
	var out []kernel.UUID
	for _, p := range r.store.packages {
		if p.Driver() != nil && p.Status().IsActive() && p.ServiceDate().Equal(date) {
			out = append(out, *p.Driver())
		}
	}
	return out, nil
}

func (r *fakePackageRepo) CountOrdersByDriver(_ context.Context, date time.Time) (map[kernel.UUID]int, error) {
	out := make(map[kernel.UUID]int)
	for _, p := range r.store.packages {
		if p.Driver() != nil && p.Status() != pack.StatusCancelled && p.ServiceDate().Equal(date) {
			out[*p.Driver()] += p.OrderCount()
		}
	}
	return out, nil
}

type fakeEventRepo struct{ store *fakeStore }

func (r *fakeEventRepo) Add(_ context.Context, e *event.Event) error {
	r.store.events = append(r.store.events, e)
	return nil
}
