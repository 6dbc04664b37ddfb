package booking

import (
	"context"
	"errors"
	"sync"
	"time"

	catalogRepo "vendora/database/repository/catalog"
	clientRepo "vendora/database/repository/client"
	"vendora/models"
)

// testHarness bundles the service and its fakes for assertions.
type testHarness struct {
	svc      *DefaultBookingService
	repo     *fakeBookingRepo
	catalog  *fakeCatalogRepo
	clients  *fakeClientRepo
	gateway  *fakeGateway
	notifier *fakeNotifier
}

func newTestHarness() *testHarness {
	h := &testHarness{
		repo:     newFakeBookingRepo(),
		catalog:  newFakeCatalogRepo(),
		clients:  newFakeClientRepo(),
		gateway:  &fakeGateway{verifyStatus: "successful"},
		notifier: &fakeNotifier{},
	}
	h.svc = &DefaultBookingService{
		Repo:     h.repo,
		Catalog:  h.catalog,
		Clients:  h.clients,
		Gateway:  h.gateway,
		Notifier: h.notifier,
	}
	return h
}

// seedApartment registers an approved apartment service, its owning vendor,
// and a known client.
func (h *testHarness) seedApartment() {
	h.catalog.resources["svc-1"] = &models.BookableResource{
		Kind: models.BookingTypeService,
		Service: &models.Service{
			ID:              "svc-1",
			VendorID:        "v-1",
			Name:            "Lakeside Apartment",
			Category:        "hospitality",
			ServiceType:     "apartment",
			Price:           10000,
			SecurityDeposit: 5000,
			Approved:        true,
			Active:          true,
		},
	}
	h.catalog.vendors["v-1"] = &models.Vendor{
		ID: "v-1", Name: "Acme Stays", Email: "vendor@acme.test", Approved: true,
	}
	h.clients.add(&models.Client{
		ID: "c-1", Name: "Ada", Email: "ada@example.com", Phone: "0800000001",
	})
}

// fakeBookingRepo is an in-memory BookingRepository with the same
// conditional-update semantics as the Mongo implementation: every transition
// checks the current status under a lock and reports whether it matched.
type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]*models.Booking // keyed by BookingID

	reserveCalls int
	releaseCalls int
	reserveErr   error
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[string]*models.Booking)}
}

func (f *fakeBookingRepo) put(b *models.Booking) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *b
	f.bookings[b.BookingID] = &cp
}

func (f *fakeBookingRepo) get(bookingID string) *models.Booking {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.bookings[bookingID]; ok {
		cp := *b
		return &cp
	}
	return nil
}

func (f *fakeBookingRepo) ReserveBooking(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reserveCalls++
	if f.reserveErr != nil {
		return nil, f.reserveErr
	}
	for _, existing := range f.bookings {
		if existing.ResourceID() != booking.ResourceID() {
			continue
		}
		if existing.Status == models.BookingStatusCancelled || existing.Status == models.BookingStatusFailed {
			continue
		}
		if existing.StartDate.Before(booking.EndDate) && existing.EndDate.After(booking.StartDate) {
			cp := *existing
			return &cp, nil
		}
	}
	cp := *booking
	f.bookings[booking.BookingID] = &cp
	return nil, nil
}

func (f *fakeBookingRepo) ReleaseReservation(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.releaseCalls++
	for key, b := range f.bookings {
		if b.ID == id {
			delete(f.bookings, key)
			return nil
		}
	}
	return errors.New("reservation not found")
}

func (f *fakeBookingRepo) AttachTransactionReference(ctx context.Context, id, transactionRef string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.ID == id && b.TransactionReference == "" {
			b.TransactionReference = transactionRef
			return nil
		}
	}
	return errors.New("no matching reservation")
}

func (f *fakeBookingRepo) GetByBookingID(ctx context.Context, bookingID string) (*models.Booking, error) {
	if b := f.get(bookingID); b != nil {
		return b, nil
	}
	return nil, errors.New("not found")
}

func (f *fakeBookingRepo) GetByPaymentReference(ctx context.Context, paymentRef string) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.PaymentReference == paymentRef {
			cp := *b
			return &cp, nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeBookingRepo) GetByTransactionReference(ctx context.Context, transactionRef string) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.TransactionReference == transactionRef {
			cp := *b
			return &cp, nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeBookingRepo) ListByClient(ctx context.Context, clientID string) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Booking
	for _, b := range f.bookings {
		if b.ClientID == clientID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) FindConflict(ctx context.Context, resourceID string, start, end time.Time) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.ResourceID() != resourceID {
			continue
		}
		if b.Status == models.BookingStatusCancelled || b.Status == models.BookingStatusFailed {
			continue
		}
		if b.StartDate.Before(end) && b.EndDate.After(start) {
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

// transition applies fn to the booking under the lock when cond matches,
// mirroring a conditional UpdateOne.
func (f *fakeBookingRepo) transition(bookingID string, cond func(*models.Booking) bool, fn func(*models.Booking)) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[bookingID]
	if !ok || !cond(b) {
		return false
	}
	fn(b)
	return true
}

func (f *fakeBookingRepo) ConfirmPayment(ctx context.Context, bookingID string) (bool, error) {
	return f.transition(bookingID,
		func(b *models.Booking) bool { return b.Status == models.BookingStatusPending },
		func(b *models.Booking) {
			b.Status = models.BookingStatusUpcoming
			b.PaymentStatus = models.PaymentStatusCompleted
		}), nil
}

func (f *fakeBookingRepo) FailPayment(ctx context.Context, bookingID string) (bool, error) {
	return f.transition(bookingID,
		func(b *models.Booking) bool {
			return b.Status == models.BookingStatusPending || b.Status == models.BookingStatusUpcoming
		},
		func(b *models.Booking) {
			b.Status = models.BookingStatusFailed
			b.PaymentStatus = models.PaymentStatusFailed
		}), nil
}

func (f *fakeBookingRepo) Accept(ctx context.Context, bookingID, vendorID string) (bool, error) {
	return f.transition(bookingID,
		func(b *models.Booking) bool {
			return b.VendorID == vendorID &&
				b.Status != models.BookingStatusInProgress && !b.IsTerminal()
		},
		func(b *models.Booking) { b.Status = models.BookingStatusInProgress }), nil
}

func (f *fakeBookingRepo) RejectByVendor(ctx context.Context, bookingID, vendorID string) (bool, error) {
	return f.transition(bookingID,
		func(b *models.Booking) bool {
			return b.VendorID == vendorID &&
				b.Status != models.BookingStatusInProgress && !b.IsTerminal()
		},
		func(b *models.Booking) { b.Status = models.BookingStatusCancelled }), nil
}

func (f *fakeBookingRepo) CancelByVendor(ctx context.Context, bookingID, vendorID string) (bool, error) {
	return f.transition(bookingID,
		func(b *models.Booking) bool { return b.VendorID == vendorID && !b.IsTerminal() },
		func(b *models.Booking) { b.Status = models.BookingStatusCancelled }), nil
}

func (f *fakeBookingRepo) CancelByClient(ctx context.Context, bookingID, clientID string) (bool, error) {
	return f.transition(bookingID,
		func(b *models.Booking) bool { return b.ClientID == clientID && !b.IsTerminal() },
		func(b *models.Booking) { b.Status = models.BookingStatusCancelled }), nil
}

func (f *fakeBookingRepo) Complete(ctx context.Context, bookingID, clientID string) (bool, error) {
	return f.transition(bookingID,
		func(b *models.Booking) bool {
			return b.ClientID == clientID && b.Status == models.BookingStatusInProgress
		},
		func(b *models.Booking) {
			now := time.Now()
			b.Status = models.BookingStatusCompleted
			b.CompletedAt = &now
		}), nil
}

func (f *fakeBookingRepo) Rate(ctx context.Context, bookingID, clientID string, rating int, review string) (bool, error) {
	return f.transition(bookingID,
		func(b *models.Booking) bool {
			return b.ClientID == clientID && b.Status == models.BookingStatusCompleted && !b.Rated
		},
		func(b *models.Booking) {
			b.Rated = true
			b.Rating = rating
			b.ReviewDescription = review
		}), nil
}

func (f *fakeBookingRepo) CompleteElapsed(ctx context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, b := range f.bookings {
		viable := b.Status == models.BookingStatusUpcoming || b.Status == models.BookingStatusInProgress
		if viable && !b.EndDate.After(now) {
			ts := now
			b.Status = models.BookingStatusCompleted
			b.CompletedAt = &ts
			n++
		}
	}
	return n, nil
}

func (f *fakeBookingRepo) AverageRating(ctx context.Context, refField, refID string) (float64, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var sum, count int
	for _, b := range f.bookings {
		if !b.Rated {
			continue
		}
		if refField == "service_id" && b.ServiceID != refID {
			continue
		}
		if refField == "vendor_id" && b.VendorID != refID {
			continue
		}
		sum += b.Rating
		count++
	}
	if count == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(count), count, nil
}

// fakeCatalogRepo serves a fixed set of resources and records rating writes.
type fakeCatalogRepo struct {
	mu         sync.Mutex
	resources  map[string]*models.BookableResource
	vendors    map[string]*models.Vendor
	resolveErr error

	serviceRatings map[string]float64
	vendorRatings  map[string]float64
}

func newFakeCatalogRepo() *fakeCatalogRepo {
	return &fakeCatalogRepo{
		resources:      make(map[string]*models.BookableResource),
		vendors:        make(map[string]*models.Vendor),
		serviceRatings: make(map[string]float64),
		vendorRatings:  make(map[string]float64),
	}
}

func (f *fakeCatalogRepo) ResolveResource(ctx context.Context, resourceID string) (*models.BookableResource, error) {
	if f.resolveErr != nil {
		return nil, f.resolveErr
	}
	if r, ok := f.resources[resourceID]; ok {
		return r, nil
	}
	return nil, catalogRepo.ErrResourceNotFound
}

func (f *fakeCatalogRepo) GetVendorByID(ctx context.Context, vendorID string) (*models.Vendor, error) {
	if v, ok := f.vendors[vendorID]; ok {
		return v, nil
	}
	return nil, errors.New("vendor not found")
}

func (f *fakeCatalogRepo) SetServiceRating(ctx context.Context, serviceID string, avg float64, count int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.serviceRatings[serviceID] = avg
	return nil
}

func (f *fakeCatalogRepo) SetVendorRating(ctx context.Context, vendorID string, avg float64, count int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.vendorRatings[vendorID] = avg
	return nil
}

// fakeClientRepo stores clients keyed by email and counts stat increments.
type fakeClientRepo struct {
	mu             sync.Mutex
	byID           map[string]*models.Client
	byEmail        map[string]*models.Client
	byPhone        map[string]*models.Client
	createCalls    int
	incrementCalls int
}

func newFakeClientRepo() *fakeClientRepo {
	return &fakeClientRepo{
		byID:    make(map[string]*models.Client),
		byEmail: make(map[string]*models.Client),
		byPhone: make(map[string]*models.Client),
	}
}

func (f *fakeClientRepo) add(c *models.Client) {
	f.byID[c.ID] = c
	f.byEmail[c.Email] = c
	f.byPhone[c.Phone] = c
}

func (f *fakeClientRepo) GetByID(ctx context.Context, id string) (*models.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.byID[id]; ok {
		return c, nil
	}
	return nil, clientRepo.ErrClientNotFound
}

func (f *fakeClientRepo) GetByEmail(ctx context.Context, email string) (*models.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.byEmail[email]; ok {
		return c, nil
	}
	return nil, clientRepo.ErrClientNotFound
}

func (f *fakeClientRepo) GetByPhone(ctx context.Context, phone string) (*models.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.byPhone[phone]; ok {
		return c, nil
	}
	return nil, clientRepo.ErrClientNotFound
}

func (f *fakeClientRepo) Create(ctx context.Context, client *models.Client) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	f.add(client)
	return nil
}

func (f *fakeClientRepo) IncrementBookingStats(ctx context.Context, clientID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.incrementCalls++
	if c, ok := f.byID[clientID]; ok {
		c.BookingCount++
	}
	return nil
}

// fakeGateway returns canned initiation and verification responses.
type fakeGateway struct {
	mu            sync.Mutex
	initiateCalls int
	verifyCalls   int
	initiateErr   error
	verifyStatus  string
	verifyErr     error
}

func (f *fakeGateway) Initiate(ctx context.Context, req models.InitiatePaymentRequest) (*models.InitiatePaymentResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.initiateCalls++
	if f.initiateErr != nil {
		return nil, f.initiateErr
	}
	return &models.InitiatePaymentResult{
		CheckoutURL:          "https://gateway.test/checkout/abc",
		PaymentReference:     req.PaymentReference,
		TransactionReference: "TXN-12345",
	}, nil
}

func (f *fakeGateway) Verify(ctx context.Context, transactionRef string) (*models.VerifyPaymentResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.verifyCalls++
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	return &models.VerifyPaymentResult{
		Status:               f.verifyStatus,
		TransactionReference: transactionRef,
	}, nil
}

// fakeNotifier counts dispatches per kind.
type fakeNotifier struct {
	mu             sync.Mutex
	createdCalls   int
	confirmedCalls int
	alertCalls     int
	cancelledCalls int
}

func (f *fakeNotifier) SendBookingCreated(ctx context.Context, to string, b *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createdCalls++
	return nil
}

func (f *fakeNotifier) SendBookingConfirmed(ctx context.Context, to string, b *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.confirmedCalls++
	return nil
}

func (f *fakeNotifier) SendVendorBookingAlert(ctx context.Context, to string, b *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.alertCalls++
	return nil
}

func (f *fakeNotifier) SendBookingCancelled(ctx context.Context, to string, b *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelledCalls++
	return nil
}
