package stats

import (
	"context"
	"testing"

	"quickdeliver/internal/models"

	"github.com/google/uuid"
)

// fakeRepo serves the aggregations from plain in-memory records.
type fakeRepo struct {
	ratingsByDriver    map[string][]int
	customerTotals     map[string][2]int // total, pending
	partnerTotals      map[string][2]int
	feedbackByCustomer map[string]int
	completedByDriver  map[string]int
	deliveriesByCust   map[string]int
	appStats           models.AppStats
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		ratingsByDriver:    make(map[string][]int),
		customerTotals:     make(map[string][2]int),
		partnerTotals:      make(map[string][2]int),
		feedbackByCustomer: make(map[string]int),
		completedByDriver:  make(map[string]int),
		deliveriesByCust:   make(map[string]int),
	}
}

func (f *fakeRepo) CustomerDeliveryCounts(ctx context.Context, customerID string) (int, int, error) {
	c := f.customerTotals[customerID]
	return c[0], c[1], nil
}

func (f *fakeRepo) PartnerDeliveryCounts(ctx context.Context, partnerID string) (int, int, error) {
	c := f.partnerTotals[partnerID]
	return c[0], c[1], nil
}

func (f *fakeRepo) AppStatusCounts(ctx context.Context) (*models.AppStats, error) {
	cp := f.appStats
	return &cp, nil
}

func (f *fakeRepo) DriverRatingStats(ctx context.Context, driverID string) (int, int, error) {
	sum := 0
	for _, r := range f.ratingsByDriver[driverID] {
		sum += r
	}
	return sum, len(f.ratingsByDriver[driverID]), nil
}

func (f *fakeRepo) CustomerFeedbackCount(ctx context.Context, customerID string) (int, error) {
	return f.feedbackByCustomer[customerID], nil
}

func (f *fakeRepo) DriverCompletedCount(ctx context.Context, driverID string) (int, error) {
	return f.completedByDriver[driverID], nil
}

func (f *fakeRepo) CustomerDeliveryTotal(ctx context.Context, customerID string) (int, error) {
	return f.deliveriesByCust[customerID], nil
}

func TestDriverAverageRating(t *testing.T) {
	fr := newFakeRepo()
	svc := NewService(fr)

	rated := uuid.NewString()
	fresh := uuid.NewString()
	uneven := uuid.NewString()
	fr.ratingsByDriver[rated] = []int{4, 5, 3}
	fr.ratingsByDriver[uneven] = []int{4, 4, 5}

	got, err := svc.DriverAverageRating(context.Background(), rated)
	if err != nil {
		t.Fatalf("DriverAverageRating: %v", err)
	}
	if got.AverageRating != 4.0 {
		t.Errorf("average of [4 5 3] = %v; want 4.0", got.AverageRating)
	}
	if got.TotalFeedbacks != 3 {
		t.Errorf("total feedbacks = %d; want 3", got.TotalFeedbacks)
	}

	// No feedback → zero average, zero count, no error.
	got, err = svc.DriverAverageRating(context.Background(), fresh)
	if err != nil {
		t.Fatalf("DriverAverageRating fresh driver: %v", err)
	}
	if got.AverageRating != 0 || got.TotalFeedbacks != 0 {
		t.Errorf("fresh driver = %v/%d; want 0/0", got.AverageRating, got.TotalFeedbacks)
	}

	// Mean rounded to 2 decimal places: 13/3 = 4.333... → 4.33
	got, err = svc.DriverAverageRating(context.Background(), uneven)
	if err != nil {
		t.Fatalf("DriverAverageRating uneven: %v", err)
	}
	if got.AverageRating != 4.33 {
		t.Errorf("average of [4 4 5] = %v; want 4.33", got.AverageRating)
	}

	if _, err := svc.DriverAverageRating(context.Background(), "bogus"); err != models.ErrInvalidID {
		t.Errorf("malformed id: err = %v; want ErrInvalidID", err)
	}
}

func TestUserStatsRoleDispatch(t *testing.T) {
	fr := newFakeRepo()
	svc := NewService(fr)

	customerID := uuid.NewString()
	agentID := uuid.NewString()
	fr.customerTotals[customerID] = [2]int{5, 2}
	fr.partnerTotals[agentID] = [2]int{7, 1}

	got, err := svc.UserStats(context.Background(), customerID, models.RoleCustomer, "c@example.com")
	if err != nil {
		t.Fatalf("UserStats customer: %v", err)
	}
	if got.TotalDeliveries != 5 || got.PendingDeliveries != 2 {
		t.Errorf("customer stats = %d/%d; want 5/2", got.TotalDeliveries, got.PendingDeliveries)
	}

	got, err = svc.UserStats(context.Background(), agentID, models.RoleAgent, "a@example.com")
	if err != nil {
		t.Fatalf("UserStats agent: %v", err)
	}
	if got.TotalDeliveries != 7 || got.PendingDeliveries != 1 {
		t.Errorf("agent stats = %d/%d; want 7/1", got.TotalDeliveries, got.PendingDeliveries)
	}

	if _, err := svc.UserStats(context.Background(), uuid.NewString(), models.RoleAdmin, "x@example.com"); err != models.ErrForbidden {
		t.Errorf("admin stats: err = %v; want ErrForbidden", err)
	}
}

func TestCountViews(t *testing.T) {
	fr := newFakeRepo()
	svc := NewService(fr)

	customerID := uuid.NewString()
	driverID := uuid.NewString()
	fr.feedbackByCustomer[customerID] = 3
	fr.completedByDriver[driverID] = 4
	fr.deliveriesByCust[customerID] = 6
	fr.appStats = models.AppStats{TotalDeliveries: 10, TotalPending: 4, TotalAccepted: 2, TotalInTransit: 1, TotalDelivered: 3}

	fb, err := svc.CustomerFeedbackSummary(context.Background(), customerID)
	if err != nil || fb.TotalFeedbacksGiven != 3 {
		t.Errorf("feedback summary = %v, %v; want 3, nil", fb, err)
	}

	done, err := svc.DriverCompletedDeliveries(context.Background(), driverID)
	if err != nil || done.CompletedDeliveries != 4 {
		t.Errorf("completed deliveries = %v, %v; want 4, nil", done, err)
	}

	total, err := svc.CustomerDeliveryCount(context.Background(), customerID)
	if err != nil || total.TotalDeliveries != 6 {
		t.Errorf("delivery count = %v, %v; want 6, nil", total, err)
	}

	app, err := svc.AppStats(context.Background())
	if err != nil {
		t.Fatalf("AppStats: %v", err)
	}
	if app.TotalDeliveries != 10 || app.TotalDelivered != 3 {
		t.Errorf("app stats = %+v", app)
	}
}
