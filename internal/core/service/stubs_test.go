package service

import (
	"context"
	"sync"

	"github.com/fleetline/logistics-platform/internal/core/domain"
	"github.com/fleetline/logistics-platform/internal/core/ports"
)

// In-memory stubs shared by the service tests. Finds return copies so a
// failed mutation never leaks into the stored record.

type stubShipmentRepo struct {
	mu        sync.Mutex
	byID      map[string]*domain.Shipment
	findErr   map[string]error
	updateErr error
	lastList  ports.ListShipmentsFilter
}

func newStubShipmentRepo() *stubShipmentRepo {
	return &stubShipmentRepo{byID: make(map[string]*domain.Shipment), findErr: make(map[string]error)}
}

func (r *stubShipmentRepo) put(s *domain.Shipment) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.byID[s.ID] = &cp
}

func (r *stubShipmentRepo) Create(_ context.Context, s *domain.Shipment) error {
	r.put(s)
	return nil
}

func (r *stubShipmentRepo) FindByID(_ context.Context, id string) (*domain.Shipment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err, ok := r.findErr[id]; ok {
		return nil, err
	}
	s, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrShipmentNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *stubShipmentRepo) FindByTrackingID(_ context.Context, trackingID string) (*domain.Shipment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.byID {
		if s.TrackingID == trackingID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, domain.ErrShipmentNotFound
}

func (r *stubShipmentRepo) Update(_ context.Context, s *domain.Shipment) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.put(s)
	return nil
}

func (r *stubShipmentRepo) List(_ context.Context, filter ports.ListShipmentsFilter) ([]*domain.Shipment, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastList = filter
	out := make([]*domain.Shipment, 0, len(r.byID))
	for _, s := range r.byID {
		if filter.CustomerID != "" && s.CustomerID != filter.CustomerID {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}

type stubVehicleRepo struct {
	mu      sync.Mutex
	byID    map[string]*domain.Vehicle
	findErr map[string]error
}

func newStubVehicleRepo() *stubVehicleRepo {
	return &stubVehicleRepo{byID: make(map[string]*domain.Vehicle), findErr: make(map[string]error)}
}

func (r *stubVehicleRepo) put(v *domain.Vehicle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *v
	r.byID[v.ID] = &cp
}

func (r *stubVehicleRepo) Create(_ context.Context, v *domain.Vehicle) error {
	r.put(v)
	return nil
}

func (r *stubVehicleRepo) FindByID(_ context.Context, id string) (*domain.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err, ok := r.findErr[id]; ok {
		return nil, err
	}
	v, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrVehicleNotFound
	}
	cp := *v
	return &cp, nil
}

func (r *stubVehicleRepo) FindInTransit(_ context.Context) ([]*domain.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Vehicle, 0)
	for _, v := range r.byID {
		if v.Status == domain.VehicleInTransit {
			cp := *v
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *stubVehicleRepo) Update(_ context.Context, v *domain.Vehicle) error {
	r.put(v)
	return nil
}

func (r *stubVehicleRepo) List(_ context.Context) ([]*domain.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Vehicle, 0, len(r.byID))
	for _, v := range r.byID {
		cp := *v
		out = append(out, &cp)
	}
	return out, nil
}

type stubCustomerRepo struct {
	users map[string]*domain.User
}

func newStubCustomerRepo(ids ...string) *stubCustomerRepo {
	users := make(map[string]*domain.User, len(ids))
	for _, id := range ids {
		users[id] = &domain.User{ID: id, Role: domain.RoleCustomer}
	}
	return &stubCustomerRepo{users: users}
}

func (r *stubCustomerRepo) FindCustomerByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrCustomerNotFound
	}
	return u, nil
}

type broadcastRecord struct {
	event    domain.RealtimeEvent
	channels []string
}

type stubBroadcaster struct {
	mu     sync.Mutex
	events []broadcastRecord
}

func (b *stubBroadcaster) Broadcast(event domain.RealtimeEvent, channels ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, broadcastRecord{event: event, channels: channels})
}

func (b *stubBroadcaster) typesSeen() []domain.RealtimeEventType {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]domain.RealtimeEventType, 0, len(b.events))
	for _, rec := range b.events {
		out = append(out, rec.event.Type)
	}
	return out
}

type stubJobStore struct {
	mu   sync.Mutex
	jobs map[string]*domain.Job
}

func newStubJobStore() *stubJobStore {
	return &stubJobStore{jobs: make(map[string]*domain.Job)}
}

func (s *stubJobStore) Save(_ context.Context, job *domain.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *job
	s.jobs[job.JobID] = &cp
	return nil
}

func (s *stubJobStore) Get(_ context.Context, jobID string) (*domain.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[jobID]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	cp := *job
	return &cp, nil
}

type stubDispatcher struct {
	mu         sync.Mutex
	available  bool
	enqueueErr error
	enqueued   []*domain.Job
}

func (d *stubDispatcher) Enqueue(job *domain.Job) error {
	if d.enqueueErr != nil {
		return d.enqueueErr
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.enqueued = append(d.enqueued, job)
	return nil
}

func (d *stubDispatcher) Available() bool { return d.available }
