package service

import (
	"context"
	"sync"
	"time"

	"github.com/finverge/payflow/internal/application/dispatcher"
	"github.com/finverge/payflow/internal/application/port"
	"github.com/finverge/payflow/internal/domain/entity"
	"github.com/finverge/payflow/internal/domain/event"
	"github.com/finverge/payflow/internal/domain/workflow"
)

// Mock repositories

type mockRequestRepo struct {
	createFunc         func(ctx context.Context, req *entity.PaymentRequest) error
	getByIDFunc        func(ctx context.Context, id int64) (*entity.PaymentRequest, error)
	getByReferenceFunc func(ctx context.Context, ref string) (*entity.PaymentRequest, error)
	saveFunc           func(ctx context.Context, req *entity.PaymentRequest, expectedVersion int64) error
	deleteFunc         func(ctx context.Context, id int64) error
	listFunc           func(ctx context.Context, limit, offset int) ([]*entity.PaymentRequest, error)
	listByStatusFunc   func(ctx context.Context, status string, limit, offset int) ([]*entity.PaymentRequest, error)

	saved []*entity.PaymentRequest
}

func (m *mockRequestRepo) Create(ctx context.Context, req *entity.PaymentRequest) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, req)
	}
	req.ID = 1
	req.ReferenceNumber = "PAY-00001"
	req.Version = 1
	return nil
}

func (m *mockRequestRepo) GetByID(ctx context.Context, id int64) (*entity.PaymentRequest, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return &entity.PaymentRequest{ID: id, Status: "DRAFT", Version: 1}, nil
}

func (m *mockRequestRepo) GetByReference(ctx context.Context, ref string) (*entity.PaymentRequest, error) {
	if m.getByReferenceFunc != nil {
		return m.getByReferenceFunc(ctx, ref)
	}
	return &entity.PaymentRequest{ID: 1, ReferenceNumber: ref, Status: "DRAFT", Version: 1}, nil
}

func (m *mockRequestRepo) Save(ctx context.Context, req *entity.PaymentRequest, expectedVersion int64) error {
	m.saved = append(m.saved, req)
	if m.saveFunc != nil {
		return m.saveFunc(ctx, req, expectedVersion)
	}
	req.Version = expectedVersion + 1
	return nil
}

func (m *mockRequestRepo) Delete(ctx context.Context, id int64) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockRequestRepo) List(ctx context.Context, limit, offset int) ([]*entity.PaymentRequest, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, limit, offset)
	}
	return []*entity.PaymentRequest{}, nil
}

func (m *mockRequestRepo) ListByStatus(ctx context.Context, status string, limit, offset int) ([]*entity.PaymentRequest, error) {
	if m.listByStatusFunc != nil {
		return m.listByStatusFunc(ctx, status, limit, offset)
	}
	return []*entity.PaymentRequest{}, nil
}

type mockStepRepo struct {
	createFunc        func(ctx context.Context, step *entity.ApprovalStep) error
	getPendingFunc    func(ctx context.Context, requestID int64) (*entity.ApprovalStep, error)
	completeFunc      func(ctx context.Context, stepID int64, decision, approverID, approverName, comments string, completedAt time.Time) error
	listByRequestFunc func(ctx context.Context, requestID int64) ([]*entity.ApprovalStep, error)
	listOverdueFunc   func(ctx context.Context, now time.Time) ([]*entity.ApprovalStep, error)

	created   []*entity.ApprovalStep
	completed []int64
}

func (m *mockStepRepo) Create(ctx context.Context, step *entity.ApprovalStep) error {
	m.created = append(m.created, step)
	if m.createFunc != nil {
		return m.createFunc(ctx, step)
	}
	step.ID = int64(len(m.created))
	return nil
}

func (m *mockStepRepo) GetPending(ctx context.Context, requestID int64) (*entity.ApprovalStep, error) {
	if m.getPendingFunc != nil {
		return m.getPendingFunc(ctx, requestID)
	}
	return nil, port.ErrNotFound
}

func (m *mockStepRepo) Complete(ctx context.Context, stepID int64, decision, approverID, approverName, comments string, completedAt time.Time) error {
	m.completed = append(m.completed, stepID)
	if m.completeFunc != nil {
		return m.completeFunc(ctx, stepID, decision, approverID, approverName, comments, completedAt)
	}
	return nil
}

func (m *mockStepRepo) ListByRequest(ctx context.Context, requestID int64) ([]*entity.ApprovalStep, error) {
	if m.listByRequestFunc != nil {
		return m.listByRequestFunc(ctx, requestID)
	}
	return []*entity.ApprovalStep{}, nil
}

func (m *mockStepRepo) ListOverduePending(ctx context.Context, now time.Time) ([]*entity.ApprovalStep, error) {
	if m.listOverdueFunc != nil {
		return m.listOverdueFunc(ctx, now)
	}
	return []*entity.ApprovalStep{}, nil
}

type mockActionRepo struct {
	appendFunc        func(ctx context.Context, action *entity.ApprovalAction) error
	listByRequestFunc func(ctx context.Context, requestID int64) ([]*entity.ApprovalAction, error)

	appended []*entity.ApprovalAction
}

func (m *mockActionRepo) Append(ctx context.Context, action *entity.ApprovalAction) error {
	m.appended = append(m.appended, action)
	if m.appendFunc != nil {
		return m.appendFunc(ctx, action)
	}
	action.ID = int64(len(m.appended))
	return nil
}

func (m *mockActionRepo) ListByRequest(ctx context.Context, requestID int64) ([]*entity.ApprovalAction, error) {
	if m.listByRequestFunc != nil {
		return m.listByRequestFunc(ctx, requestID)
	}
	return []*entity.ApprovalAction{}, nil
}

type mockBreachRepo struct {
	findOpenFunc    func(ctx context.Context, requestID int64, level string) (*entity.SLABreach, error)
	createFunc      func(ctx context.Context, breach *entity.SLABreach) error
	resolveOpenFunc func(ctx context.Context, requestID int64, level string, resolvedAt time.Time) error

	created  []*entity.SLABreach
	resolved []string
}

func (m *mockBreachRepo) FindOpen(ctx context.Context, requestID int64, level string) (*entity.SLABreach, error) {
	if m.findOpenFunc != nil {
		return m.findOpenFunc(ctx, requestID, level)
	}
	return nil, port.ErrNotFound
}

func (m *mockBreachRepo) Create(ctx context.Context, breach *entity.SLABreach) error {
	m.created = append(m.created, breach)
	if m.createFunc != nil {
		return m.createFunc(ctx, breach)
	}
	breach.ID = int64(len(m.created))
	return nil
}

func (m *mockBreachRepo) ResolveOpen(ctx context.Context, requestID int64, level string, resolvedAt time.Time) error {
	m.resolved = append(m.resolved, level)
	if m.resolveOpenFunc != nil {
		return m.resolveOpenFunc(ctx, requestID, level, resolvedAt)
	}
	return nil
}

type mockTxManager struct {
	withTransactionFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (m *mockTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.withTransactionFunc != nil {
		return m.withTransactionFunc(ctx, fn)
	}
	return fn(ctx)
}

// Mock directory

type mockDirectory struct {
	approversForLevelFunc    func(ctx context.Context, level workflow.Level, entityID string) ([]string, error)
	canActOnFunc             func(ctx context.Context, userID string, level workflow.Level) (bool, error)
	canDisburseFunc          func(ctx context.Context, userID string) (bool, error)
	isAdminFunc              func(ctx context.Context, userID string) (bool, error)
	entityAssignmentsFunc    func(ctx context.Context, userID string) ([]string, error)
	disbursementOfficersFunc func(ctx context.Context, entityID string) ([]string, error)
	administratorsFunc       func(ctx context.Context) ([]string, error)
	displayNameFunc          func(ctx context.Context, userID string) (string, error)
}

func (m *mockDirectory) ApproversForLevel(ctx context.Context, level workflow.Level, entityID string) ([]string, error) {
	if m.approversForLevelFunc != nil {
		return m.approversForLevelFunc(ctx, level, entityID)
	}
	return []string{"approver-1"}, nil
}

func (m *mockDirectory) CanActOn(ctx context.Context, userID string, level workflow.Level) (bool, error) {
	if m.canActOnFunc != nil {
		return m.canActOnFunc(ctx, userID, level)
	}
	return true, nil
}

func (m *mockDirectory) CanDisburse(ctx context.Context, userID string) (bool, error) {
	if m.canDisburseFunc != nil {
		return m.canDisburseFunc(ctx, userID)
	}
	return true, nil
}

func (m *mockDirectory) IsAdmin(ctx context.Context, userID string) (bool, error) {
	if m.isAdminFunc != nil {
		return m.isAdminFunc(ctx, userID)
	}
	return false, nil
}

func (m *mockDirectory) EntityAssignments(ctx context.Context, userID string) ([]string, error) {
	if m.entityAssignmentsFunc != nil {
		return m.entityAssignmentsFunc(ctx, userID)
	}
	return []string{"ENT-01"}, nil
}

func (m *mockDirectory) DisbursementOfficers(ctx context.Context, entityID string) ([]string, error) {
	if m.disbursementOfficersFunc != nil {
		return m.disbursementOfficersFunc(ctx, entityID)
	}
	return []string{"officer-1"}, nil
}

func (m *mockDirectory) Administrators(ctx context.Context) ([]string, error) {
	if m.administratorsFunc != nil {
		return m.administratorsFunc(ctx)
	}
	return []string{"admin-1"}, nil
}

func (m *mockDirectory) DisplayName(ctx context.Context, userID string) (string, error) {
	if m.displayNameFunc != nil {
		return m.displayNameFunc(ctx, userID)
	}
	return "Approver One", nil
}

// Mock dispatcher records dispatched events.

type mockDispatcher struct {
	mu     sync.Mutex
	events []*event.Event
}

func (m *mockDispatcher) Subscribe(eventType event.Type, handler dispatcher.Handler)            {}
func (m *mockDispatcher) SubscribeNamed(eventType event.Type, name string, h dispatcher.Handler) {}
func (m *mockDispatcher) Unsubscribe(eventType event.Type, name string)                         {}

func (m *mockDispatcher) Dispatch(ctx context.Context, evt *event.Event) error {
	m.record(evt)
	return nil
}

func (m *mockDispatcher) DispatchAsync(ctx context.Context, evt *event.Event) {
	m.record(evt)
}

func (m *mockDispatcher) ListHandlers(eventType event.Type) []dispatcher.HandlerInfo {
	return nil
}

func (m *mockDispatcher) Close() error { return nil }

func (m *mockDispatcher) record(evt *event.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, evt)
}

func (m *mockDispatcher) eventsOfType(t event.Type) []*event.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*event.Event
	for _, e := range m.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// Mock notifier

type mockNotifier struct {
	notifyFunc func(ctx context.Context, recipientIDs []string, kind string, payload map[string]interface{}) error

	calls []notifyCall
}

type notifyCall struct {
	recipients []string
	kind       string
	payload    map[string]interface{}
}

func (m *mockNotifier) Notify(ctx context.Context, recipientIDs []string, kind string, payload map[string]interface{}) error {
	m.calls = append(m.calls, notifyCall{recipients: recipientIDs, kind: kind, payload: payload})
	if m.notifyFunc != nil {
		return m.notifyFunc(ctx, recipientIDs, kind, payload)
	}
	return nil
}

type mockLogger struct{}

func (m *mockLogger) Info(msg string, keysAndValues ...interface{})  {}
func (m *mockLogger) Error(msg string, keysAndValues ...interface{}) {}

// fixtures shared across the service tests

var testNow = time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

type serviceFixture struct {
	requestRepo *mockRequestRepo
	stepRepo    *mockStepRepo
	actionRepo  *mockActionRepo
	breachRepo  *mockBreachRepo
	txManager   *mockTxManager
	directory   *mockDirectory
	dispatcher  *mockDispatcher
	service     RequestService
}

func newServiceFixture() *serviceFixture {
	f := &serviceFixture{
		requestRepo: &mockRequestRepo{},
		stepRepo:    &mockStepRepo{},
		actionRepo:  &mockActionRepo{},
		breachRepo:  &mockBreachRepo{},
		txManager:   &mockTxManager{},
		directory:   &mockDirectory{},
		dispatcher:  &mockDispatcher{},
	}

	ladder := workflow.DefaultLadder()
	f.service = NewRequestService(
		f.requestRepo, f.stepRepo, f.actionRepo, f.breachRepo,
		f.txManager, f.directory, f.dispatcher,
		ladder, workflow.DefaultSLAPolicy(ladder), workflow.NewResubmissionGuard(2),
		&mockLogger{},
		WithClock(func() time.Time { return testNow }),
	)

	return f
}

// pendingRequest returns a request parked at the given level, plus the mock
// pending step the repo will serve for it.
func pendingRequest(level workflow.Level) (*entity.PaymentRequest, *entity.ApprovalStep) {
	req := &entity.PaymentRequest{
		ID:              1,
		ReferenceNumber: "PAY-00001",
		RequesterID:     "requester-1",
		EntityID:        "ENT-01",
		Amount:          100,
		CurrencyCode:    "INR",
		ExchangeRate:    1,
		TotalAmountINR:  100,
		Status:          workflow.Pending(level).Encode(),
		CurrentLevel:    level.String(),
		Version:         3,
	}
	step := &entity.ApprovalStep{
		ID:        7,
		RequestID: 1,
		Level:     level.String(),
		Status:    entity.StepStatusPending,
		SLAHours:  24,
		CreatedAt: testNow.Add(-2 * time.Hour),
	}
	return req, step
}
