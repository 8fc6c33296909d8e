package delivery

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"quickdeliver/internal/models"

	"github.com/google/uuid"
)

// ----------------------------------------------------------------------------
// fakeRepo: 模拟存储层，带互斥锁以保留条件更新（CAS）语义，供并发测试使用
// ----------------------------------------------------------------------------
type fakeRepo struct {
	mu         sync.Mutex
	deliveries map[string]*models.Delivery
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{deliveries: make(map[string]*models.Delivery)}
}

func (f *fakeRepo) Create(ctx context.Context, customerID string, req models.CreateDeliveryRequest) (*models.Delivery, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d := &models.Delivery{
		ID:              uuid.NewString(),
		CustomerID:      customerID,
		PickupLocation:  req.PickupLocation,
		DropLocation:    req.DropLocation,
		ItemDescription: req.ItemDescription,
		PhoneNumber:     req.PhoneNumber,
		Status:          models.StatusPending,
		RequestedAt:     time.Now(),
	}
	f.deliveries[d.ID] = d
	cp := *d
	return &cp, nil
}

func (f *fakeRepo) FindByID(ctx context.Context, deliveryID string) (*models.Delivery, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.deliveries[deliveryID]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (f *fakeRepo) FindByIDForCustomer(ctx context.Context, deliveryID, customerID string) (*models.Delivery, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.deliveries[deliveryID]
	if !ok || d.CustomerID != customerID {
		// 所有权不匹配与不存在不可区分
		return nil, models.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (f *fakeRepo) ListPending(ctx context.Context) ([]*models.PendingDelivery, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*models.PendingDelivery{}
	for _, d := range f.deliveries {
		if d.Status == models.StatusPending {
			out = append(out, &models.PendingDelivery{
				ID:              d.ID,
				PickupLocation:  d.PickupLocation,
				DropLocation:    d.DropLocation,
				ItemDescription: d.ItemDescription,
				PhoneNumber:     d.PhoneNumber,
				RequestedAt:     d.RequestedAt,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RequestedAt.After(out[j].RequestedAt) })
	return out, nil
}

func (f *fakeRepo) listBy(match func(*models.Delivery) bool) []*models.Delivery {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*models.Delivery{}
	for _, d := range f.deliveries {
		if match(d) {
			cp := *d
			out = append(out, &cp)
		}
	}
	return out
}

func (f *fakeRepo) ListByCustomer(ctx context.Context, customerID string) ([]*models.Delivery, error) {
	return f.listBy(func(d *models.Delivery) bool { return d.CustomerID == customerID }), nil
}

func (f *fakeRepo) ListByPartner(ctx context.Context, partnerID string) ([]*models.Delivery, error) {
	return f.listBy(func(d *models.Delivery) bool { return d.PartnerID != nil && *d.PartnerID == partnerID }), nil
}

// Accept 在锁内重新检查 pending，与 SQL 的条件 UPDATE 等价
func (f *fakeRepo) Accept(ctx context.Context, deliveryID, partnerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.deliveries[deliveryID]
	if !ok || d.Status != models.StatusPending {
		return models.ErrDeliveryTaken
	}
	now := time.Now()
	d.PartnerID = &partnerID
	d.Status = models.StatusAccepted
	d.AcceptedAt = &now
	return nil
}

func (f *fakeRepo) UpdateStatus(ctx context.Context, deliveryID, partnerID, fromStatus, toStatus string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.deliveries[deliveryID]
	if !ok || d.Status != fromStatus || d.PartnerID == nil || *d.PartnerID != partnerID {
		return models.ErrInvalidTransition
	}
	d.Status = toStatus
	if toStatus == models.StatusDelivered {
		now := time.Now()
		d.DeliveredAt = &now
	}
	return nil
}

// ----------------------------------------------------------------------------
// Notification and user-lookup fakes
// ----------------------------------------------------------------------------
type fakeNotifier struct {
	mu        sync.Mutex
	accepted  int
	delivered int
}

func (n *fakeNotifier) DeliveryAccepted(ctx context.Context, recipient string, d *models.Delivery) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.accepted++
	return nil
}

func (n *fakeNotifier) DeliveryDelivered(ctx context.Context, recipient string, d *models.Delivery) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.delivered++
	return nil
}

type fakeUsers struct{}

func (fakeUsers) FindEmailByID(ctx context.Context, userID string) (string, error) {
	return "customer@example.com", nil
}

func newTestService(fr *fakeRepo) (*Service, *fakeNotifier) {
	n := &fakeNotifier{}
	return NewService(fr, n, fakeUsers{}), n
}

func seedDelivery(fr *fakeRepo, customerID, status string, partnerID *string) *models.Delivery {
	d := &models.Delivery{
		ID:              uuid.NewString(),
		CustomerID:      customerID,
		PartnerID:       partnerID,
		PickupLocation:  "A",
		DropLocation:    "B",
		ItemDescription: "box",
		PhoneNumber:     "555-0100",
		Status:          status,
		RequestedAt:     time.Now(),
	}
	if partnerID != nil {
		now := time.Now()
		d.AcceptedAt = &now
	}
	fr.deliveries[d.ID] = d
	return d
}

// ----------------------------------------------------------------------------
// Tests
// ----------------------------------------------------------------------------

func TestCreateDeliveryRoleCheck(t *testing.T) {
	fr := newFakeRepo()
	svc, _ := newTestService(fr)
	req := models.CreateDeliveryRequest{
		PickupLocation: "A", DropLocation: "B", ItemDescription: "box", PhoneNumber: "555-0100",
	}

	customerID := uuid.NewString()
	d, err := svc.Create(context.Background(), customerID, models.RoleCustomer, req)
	if err != nil {
		t.Fatalf("Create as customer: %v", err)
	}
	if d.Status != models.StatusPending {
		t.Errorf("new delivery status = %q; want pending", d.Status)
	}
	if d.PartnerID != nil {
		t.Errorf("new delivery has partner %q; want none", *d.PartnerID)
	}
	if d.CustomerID != customerID {
		t.Errorf("customer_id = %q; want %q", d.CustomerID, customerID)
	}

	if _, err := svc.Create(context.Background(), uuid.NewString(), models.RoleAgent, req); err != models.ErrUnauthorized {
		t.Errorf("Create as agent: err = %v; want ErrUnauthorized", err)
	}
}

func TestListPendingNewestFirst(t *testing.T) {
	fr := newFakeRepo()
	svc, _ := newTestService(fr)
	customerID := uuid.NewString()

	first := seedDelivery(fr, customerID, models.StatusPending, nil)
	first.RequestedAt = time.Now().Add(-time.Hour)
	second := seedDelivery(fr, customerID, models.StatusPending, nil)
	agentID := uuid.NewString()
	seedDelivery(fr, customerID, models.StatusAccepted, &agentID) // not pending, excluded

	got, err := svc.ListPending(context.Background())
	if err != nil {
		t.Fatalf("ListPending: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d pending deliveries; want 2", len(got))
	}
	if got[0].ID != second.ID || got[1].ID != first.ID {
		t.Errorf("pending order = [%s %s]; want newest first [%s %s]", got[0].ID, got[1].ID, second.ID, first.ID)
	}
}

func TestAcceptDelivery(t *testing.T) {
	fr := newFakeRepo()
	svc, notifier := newTestService(fr)
	d := seedDelivery(fr, uuid.NewString(), models.StatusPending, nil)
	agentID := uuid.NewString()

	if err := svc.Accept(context.Background(), d.ID, agentID, models.RoleCustomer); err != models.ErrForbidden {
		t.Errorf("Accept as customer: err = %v; want ErrForbidden", err)
	}
	if err := svc.Accept(context.Background(), uuid.NewString(), agentID, models.RoleAgent); err != models.ErrNotFound {
		t.Errorf("Accept missing delivery: err = %v; want ErrNotFound", err)
	}
	if err := svc.Accept(context.Background(), "not-a-uuid", agentID, models.RoleAgent); err != models.ErrInvalidID {
		t.Errorf("Accept malformed id: err = %v; want ErrInvalidID", err)
	}

	if err := svc.Accept(context.Background(), d.ID, agentID, models.RoleAgent); err != nil {
		t.Fatalf("Accept: %v", err)
	}
	got := fr.deliveries[d.ID]
	if got.Status != models.StatusAccepted {
		t.Errorf("status = %q; want accepted", got.Status)
	}
	if got.PartnerID == nil || *got.PartnerID != agentID {
		t.Errorf("partner_id not set to accepting agent")
	}
	if got.AcceptedAt == nil {
		t.Errorf("accepted_at not set")
	}
	if notifier.accepted != 1 {
		t.Errorf("accepted notifications = %d; want 1", notifier.accepted)
	}

	// 第二次 accept 必须失败
	if err := svc.Accept(context.Background(), d.ID, uuid.NewString(), models.RoleAgent); err != models.ErrDeliveryTaken {
		t.Errorf("second Accept: err = %v; want ErrDeliveryTaken", err)
	}
}

// TestAcceptRace: 两个 agent 并发抢同一单，恰好一个成功，另一个收到 ErrDeliveryTaken
func TestAcceptRace(t *testing.T) {
	for i := 0; i < 50; i++ {
		fr := newFakeRepo()
		svc, _ := newTestService(fr)
		d := seedDelivery(fr, uuid.NewString(), models.StatusPending, nil)
		a1, a2 := uuid.NewString(), uuid.NewString()

		var wg sync.WaitGroup
		errs := make([]error, 2)
		for j, agent := range []string{a1, a2} {
			wg.Add(1)
			go func(idx int, agentID string) {
				defer wg.Done()
				errs[idx] = svc.Accept(context.Background(), d.ID, agentID, models.RoleAgent)
			}(j, agent)
		}
		wg.Wait()

		var successes, taken int
		for _, err := range errs {
			switch err {
			case nil:
				successes++
			case models.ErrDeliveryTaken:
				taken++
			default:
				t.Fatalf("unexpected error under race: %v", err)
			}
		}
		if successes != 1 || taken != 1 {
			t.Fatalf("race outcome: %d successes, %d taken; want exactly 1 of each", successes, taken)
		}

		got := fr.deliveries[d.ID]
		if got.PartnerID == nil || (*got.PartnerID != a1 && *got.PartnerID != a2) {
			t.Fatalf("partner_id = %v; want one of the racing agents", got.PartnerID)
		}
		if got.Status != models.StatusAccepted {
			t.Fatalf("status = %q; want accepted", got.Status)
		}
	}
}

func TestUpdateStatusTransitionTable(t *testing.T) {
	agentID := uuid.NewString()

	cases := []struct {
		name    string
		from    string
		next    string
		wantErr error
	}{
		{"accepted to in-transit", models.StatusAccepted, models.StatusInTransit, nil},
		{"in-transit to delivered", models.StatusInTransit, models.StatusDelivered, nil},
		{"accepted skips to delivered", models.StatusAccepted, models.StatusDelivered, models.ErrInvalidTransition},
		{"in-transit back to accepted", models.StatusInTransit, models.StatusAccepted, models.ErrInvalidTransition},
		{"delivered is terminal", models.StatusDelivered, models.StatusInTransit, models.ErrInvalidTransition},
		{"delivered repeated", models.StatusDelivered, models.StatusDelivered, models.ErrInvalidTransition},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fr := newFakeRepo()
			svc, _ := newTestService(fr)
			d := seedDelivery(fr, uuid.NewString(), tc.from, &agentID)

			err := svc.UpdateStatus(context.Background(), d.ID, agentID, models.RoleAgent, tc.next)
			if err != tc.wantErr {
				t.Fatalf("UpdateStatus(%s → %s): err = %v; want %v", tc.from, tc.next, err, tc.wantErr)
			}
			if tc.wantErr == nil && fr.deliveries[d.ID].Status != tc.next {
				t.Errorf("status = %q; want %q", fr.deliveries[d.ID].Status, tc.next)
			}
		})
	}
}

func TestUpdateStatusPendingCannotBeDriven(t *testing.T) {
	// pending 不在转移表里：accept 是离开 pending 的唯一路径
	fr := newFakeRepo()
	svc, _ := newTestService(fr)
	d := seedDelivery(fr, uuid.NewString(), models.StatusPending, nil)
	agentID := uuid.NewString()

	for _, next := range []string{models.StatusAccepted, models.StatusInTransit, models.StatusDelivered} {
		err := svc.UpdateStatus(context.Background(), d.ID, agentID, models.RoleAgent, next)
		if err != models.ErrForbidden && err != models.ErrInvalidTransition {
			t.Errorf("pending → %s: err = %v; want forbidden or invalid transition", next, err)
		}
	}
	if fr.deliveries[d.ID].Status != models.StatusPending {
		t.Errorf("pending delivery moved without an accept")
	}
}

func TestUpdateStatusOwnership(t *testing.T) {
	fr := newFakeRepo()
	svc, _ := newTestService(fr)
	assigned := uuid.NewString()
	other := uuid.NewString()
	d := seedDelivery(fr, uuid.NewString(), models.StatusInTransit, &assigned)

	if err := svc.UpdateStatus(context.Background(), d.ID, other, models.RoleAgent, models.StatusDelivered); err != models.ErrForbidden {
		t.Errorf("unassigned agent: err = %v; want ErrForbidden", err)
	}
	if err := svc.UpdateStatus(context.Background(), d.ID, assigned, models.RoleCustomer, models.StatusDelivered); err != models.ErrForbidden {
		t.Errorf("customer role: err = %v; want ErrForbidden", err)
	}
}

func TestUpdateStatusSetsDeliveredAt(t *testing.T) {
	fr := newFakeRepo()
	svc, notifier := newTestService(fr)
	agentID := uuid.NewString()
	d := seedDelivery(fr, uuid.NewString(), models.StatusInTransit, &agentID)

	if err := svc.UpdateStatus(context.Background(), d.ID, agentID, models.RoleAgent, models.StatusDelivered); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if fr.deliveries[d.ID].DeliveredAt == nil {
		t.Errorf("delivered_at not set on terminal transition")
	}
	if notifier.delivered != 1 {
		t.Errorf("delivered notifications = %d; want 1", notifier.delivered)
	}
}

func TestListMine(t *testing.T) {
	fr := newFakeRepo()
	svc, _ := newTestService(fr)
	customerID := uuid.NewString()
	agentID := uuid.NewString()

	seedDelivery(fr, customerID, models.StatusPending, nil)
	seedDelivery(fr, customerID, models.StatusAccepted, &agentID)
	seedDelivery(fr, uuid.NewString(), models.StatusAccepted, &agentID)

	mine, err := svc.ListMine(context.Background(), customerID, models.RoleCustomer)
	if err != nil {
		t.Fatalf("ListMine customer: %v", err)
	}
	if len(mine) != 2 {
		t.Errorf("customer sees %d deliveries; want 2", len(mine))
	}

	mine, err = svc.ListMine(context.Background(), agentID, models.RoleAgent)
	if err != nil {
		t.Fatalf("ListMine agent: %v", err)
	}
	if len(mine) != 2 {
		t.Errorf("agent sees %d deliveries; want 2", len(mine))
	}

	if _, err := svc.ListMine(context.Background(), uuid.NewString(), models.RoleAdmin); err != models.ErrForbidden {
		t.Errorf("ListMine admin: err = %v; want ErrForbidden", err)
	}
}

func TestGetByIDOwnershipFolding(t *testing.T) {
	fr := newFakeRepo()
	svc, _ := newTestService(fr)
	owner := uuid.NewString()
	d := seedDelivery(fr, owner, models.StatusPending, nil)

	got, err := svc.GetByID(context.Background(), d.ID, owner, models.RoleCustomer)
	if err != nil {
		t.Fatalf("GetByID as owner: %v", err)
	}
	if got.ID != d.ID {
		t.Errorf("got delivery %q; want %q", got.ID, d.ID)
	}

	// 别人的 delivery 读起来与不存在一样：404，不泄露存在性
	if _, err := svc.GetByID(context.Background(), d.ID, uuid.NewString(), models.RoleCustomer); err != models.ErrNotFound {
		t.Errorf("GetByID as stranger: err = %v; want ErrNotFound", err)
	}
	if _, err := svc.GetByID(context.Background(), d.ID, owner, models.RoleAgent); err != models.ErrForbidden {
		t.Errorf("GetByID as agent: err = %v; want ErrForbidden", err)
	}
}

// TestPartnerStatusInvariant: partner_id 非空 ⟺ status 已离开 pending
func TestPartnerStatusInvariant(t *testing.T) {
	fr := newFakeRepo()
	svc, _ := newTestService(fr)
	customerID := uuid.NewString()
	agentID := uuid.NewString()

	d, err := svc.Create(context.Background(), customerID, models.RoleCustomer, models.CreateDeliveryRequest{
		PickupLocation: "A", DropLocation: "B", ItemDescription: "box", PhoneNumber: "555-0100",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	check := func(stage string) {
		got := fr.deliveries[d.ID]
		hasPartner := got.PartnerID != nil
		pastPending := got.Status != models.StatusPending
		if hasPartner != pastPending {
			t.Errorf("%s: partner set = %v but status = %q", stage, hasPartner, got.Status)
		}
	}

	check("after create")
	if err := svc.Accept(context.Background(), d.ID, agentID, models.RoleAgent); err != nil {
		t.Fatalf("Accept: %v", err)
	}
	check("after accept")
	if err := svc.UpdateStatus(context.Background(), d.ID, agentID, models.RoleAgent, models.StatusInTransit); err != nil {
		t.Fatalf("to in-transit: %v", err)
	}
	check("after in-transit")
	if err := svc.UpdateStatus(context.Background(), d.ID, agentID, models.RoleAgent, models.StatusDelivered); err != nil {
		t.Fatalf("to delivered: %v", err)
	}
	check("after delivered")
}
