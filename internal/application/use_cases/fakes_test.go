//go:build !integration

package use_cases

import (
	"context"
	"sort"
	"time"

	"klarnasync/internal/application/dto"
	portsout "klarnasync/internal/application/ports/out"
	"klarnasync/internal/domain/entities"
	valueobjects "klarnasync/internal/domain/value_objects"
	apperrors "klarnasync/internal/shared_kernel/errors"

	"github.com/shopspring/decimal"
)

func klarnaOrder(id string, total string) entities.Order {
	return entities.Order{
		ID:               id,
		OrderNumber:      1001,
		PaymentType:      "klarna_checkout",
		TotalOrderSum:    decimal.RequireFromString(total),
		Currency:         "EUR",
		BillCountryISO:   "DE",
		KlarnaOrderID:    "kl-" + id,
		KlarnaMerchantID: "K100",
		KlarnaServerMode: valueobjects.ServerModePlayground,
		InSync:           true,
	}
}

func authorizedSnapshot(amount int64) entities.KlarnaOrderSnapshot {
	return entities.KlarnaOrderSnapshot{
		Status:                    valueobjects.KlarnaOrderStatusAuthorized,
		OrderAmount:               amount,
		OriginalOrderAmount:       amount,
		RemainingAuthorizedAmount: amount,
		PurchaseCurrency:          "EUR",
	}
}

type fakeOrderRepository struct {
	orders        map[string]entities.Order
	findErr       *apperrors.AppError
	saveErr       *apperrors.AppError
	markErr       *apperrors.AppError
	listErr       *apperrors.AppError
	savedFlags    map[string][]bool
	cancelledIDs  []string
	listedAfter   []string
	listedLimits  []int
	findByIDCalls int
}

func newFakeOrderRepository(orders ...entities.Order) *fakeOrderRepository {
	repo := &fakeOrderRepository{
		orders:     map[string]entities.Order{},
		savedFlags: map[string][]bool{},
	}
	for _, order := range orders {
		repo.orders[order.ID] = order
	}

	return repo
}

func (f *fakeOrderRepository) FindByID(_ context.Context, orderID string) (entities.Order, bool, *apperrors.AppError) {
	f.findByIDCalls++
	if f.findErr != nil {
		return entities.Order{}, false, f.findErr
	}

	order, ok := f.orders[orderID]
	return order, ok, nil
}

func (f *fakeOrderRepository) FindByKlarnaOrderID(_ context.Context, klarnaOrderID string) (entities.Order, bool, *apperrors.AppError) {
	if f.findErr != nil {
		return entities.Order{}, false, f.findErr
	}

	for _, order := range f.orders {
		if order.KlarnaOrderID == klarnaOrderID {
			return order, true, nil
		}
	}

	return entities.Order{}, false, nil
}

func (f *fakeOrderRepository) SaveSyncFlag(_ context.Context, orderID string, inSync bool) *apperrors.AppError {
	if f.saveErr != nil {
		return f.saveErr
	}

	f.savedFlags[orderID] = append(f.savedFlags[orderID], inSync)
	order := f.orders[orderID]
	order.InSync = inSync
	f.orders[orderID] = order

	return nil
}

func (f *fakeOrderRepository) MarkCancelled(_ context.Context, orderID string) *apperrors.AppError {
	if f.markErr != nil {
		return f.markErr
	}

	f.cancelledIDs = append(f.cancelledIDs, orderID)
	order := f.orders[orderID]
	order.Cancelled = true
	f.orders[orderID] = order

	return nil
}

func (f *fakeOrderRepository) ListSyncableOrderIDs(_ context.Context, afterOrderID string, limit int) ([]string, *apperrors.AppError) {
	f.listedAfter = append(f.listedAfter, afterOrderID)
	f.listedLimits = append(f.listedLimits, limit)
	if f.listErr != nil {
		return nil, f.listErr
	}

	ids := make([]string, 0, len(f.orders))
	for id, order := range f.orders {
		if order.IsSyncable() && id > afterOrderID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	if len(ids) > limit {
		ids = ids[:limit]
	}

	return ids, nil
}

type fakeKlarnaGateway struct {
	snapshots      map[string]entities.KlarnaOrderSnapshot
	retrieveErrs   map[string]*apperrors.AppError
	captureErr     *apperrors.AppError
	refundErr      *apperrors.AppError
	cancelErr      *apperrors.AppError
	acknowledgeErr *apperrors.AppError

	retrieved    []dto.KlarnaOrderReference
	captures     []dto.CaptureKlarnaOrderInput
	refunds      []dto.RefundKlarnaOrderInput
	cancels      []dto.KlarnaOrderReference
	acknowledged []dto.KlarnaOrderReference
}

func newFakeKlarnaGateway() *fakeKlarnaGateway {
	return &fakeKlarnaGateway{
		snapshots:    map[string]entities.KlarnaOrderSnapshot{},
		retrieveErrs: map[string]*apperrors.AppError{},
	}
}

func (f *fakeKlarnaGateway) RetrieveOrder(_ context.Context, reference dto.KlarnaOrderReference) (entities.KlarnaOrderSnapshot, *apperrors.AppError) {
	f.retrieved = append(f.retrieved, reference)
	if appErr, ok := f.retrieveErrs[reference.KlarnaOrderID]; ok {
		return entities.KlarnaOrderSnapshot{}, appErr
	}

	snapshot, ok := f.snapshots[reference.KlarnaOrderID]
	if !ok {
		return entities.KlarnaOrderSnapshot{}, apperrors.NewUpstream(portsout.KlarnaErrorCodeOrderNotFound, "order not found", nil)
	}
	snapshot.KlarnaOrderID = reference.KlarnaOrderID

	return snapshot, nil
}

func (f *fakeKlarnaGateway) CaptureOrder(_ context.Context, input dto.CaptureKlarnaOrderInput) (dto.CaptureKlarnaOrderOutput, *apperrors.AppError) {
	f.captures = append(f.captures, input)
	if f.captureErr != nil {
		return dto.CaptureKlarnaOrderOutput{}, f.captureErr
	}

	snapshot := f.snapshots[input.KlarnaOrderID]
	snapshot.Status = valueobjects.KlarnaOrderStatusCaptured
	snapshot.CapturedAmount += input.CapturedAmount
	snapshot.RemainingAuthorizedAmount = 0
	f.snapshots[input.KlarnaOrderID] = snapshot

	return dto.CaptureKlarnaOrderOutput{CaptureID: "cap-1"}, nil
}

func (f *fakeKlarnaGateway) RefundOrder(_ context.Context, input dto.RefundKlarnaOrderInput) (dto.RefundKlarnaOrderOutput, *apperrors.AppError) {
	f.refunds = append(f.refunds, input)
	if f.refundErr != nil {
		return dto.RefundKlarnaOrderOutput{}, f.refundErr
	}

	return dto.RefundKlarnaOrderOutput{RefundID: "ref-1"}, nil
}

func (f *fakeKlarnaGateway) CancelOrder(_ context.Context, reference dto.KlarnaOrderReference) *apperrors.AppError {
	f.cancels = append(f.cancels, reference)
	return f.cancelErr
}

func (f *fakeKlarnaGateway) AcknowledgeOrder(_ context.Context, reference dto.KlarnaOrderReference) *apperrors.AppError {
	f.acknowledged = append(f.acknowledged, reference)
	return f.acknowledgeErr
}

type fakeCredentialResolver struct {
	merchantIDs map[string]string
	err         *apperrors.AppError
	resolved    []string
}

func newFakeCredentialResolver(entries map[string]string) *fakeCredentialResolver {
	return &fakeCredentialResolver{merchantIDs: entries}
}

func (f *fakeCredentialResolver) Resolve(_ context.Context, countryISO string) (dto.KlarnaCredentials, *apperrors.AppError) {
	f.resolved = append(f.resolved, countryISO)
	if f.err != nil {
		return dto.KlarnaCredentials{}, f.err
	}

	merchantID, ok := f.merchantIDs[countryISO]
	if !ok {
		return dto.KlarnaCredentials{}, apperrors.NewValidation(portsout.KlarnaErrorCodeCredentialsUnset, "no credentials", nil)
	}

	return dto.KlarnaCredentials{
		CountryISO: countryISO,
		MerchantID: merchantID,
		Password:   "secret",
		Mode:       valueobjects.ServerModePlayground,
	}, nil
}

type fakeAcknowledgementLog struct {
	counts      map[string]int64
	countErr    *apperrors.AppError
	registerErr *apperrors.AppError
	registered  []time.Time
}

func newFakeAcknowledgementLog() *fakeAcknowledgementLog {
	return &fakeAcknowledgementLog{counts: map[string]int64{}}
}

func (f *fakeAcknowledgementLog) Register(_ context.Context, klarnaOrderID string, receivedAt time.Time) *apperrors.AppError {
	if f.registerErr != nil {
		return f.registerErr
	}

	f.counts[klarnaOrderID]++
	f.registered = append(f.registered, receivedAt)

	return nil
}

func (f *fakeAcknowledgementLog) CountByKlarnaOrderID(_ context.Context, klarnaOrderID string) (int64, *apperrors.AppError) {
	if f.countErr != nil {
		return 0, f.countErr
	}

	return f.counts[klarnaOrderID], nil
}

type fakeOrderLocker struct {
	locked   map[string]bool
	err      *apperrors.AppError
	acquired []string
	released []string
}

func newFakeOrderLocker() *fakeOrderLocker {
	return &fakeOrderLocker{locked: map[string]bool{}}
}

func (f *fakeOrderLocker) Lock(_ context.Context, orderID string) (portsout.ReleaseFunc, *apperrors.AppError) {
	if f.err != nil {
		return nil, f.err
	}
	if f.locked[orderID] {
		return nil, apperrors.NewConflict(portsout.OrderLockedErrorCode, "order is locked", nil)
	}

	f.acquired = append(f.acquired, orderID)
	return func() { f.released = append(f.released, orderID) }, nil
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) NowUTC() time.Time {
	return c.now
}

type fakePersistenceGateway struct {
	readinessErrors []*apperrors.AppError
	runMigrationErr *apperrors.AppError
	readinessChecks int
	migrationRuns   int
}

func (f *fakePersistenceGateway) CheckReadiness(_ context.Context) *apperrors.AppError {
	f.readinessChecks++

	if len(f.readinessErrors) == 0 {
		return nil
	}

	index := f.readinessChecks - 1
	if index >= len(f.readinessErrors) {
		return f.readinessErrors[len(f.readinessErrors)-1]
	}

	return f.readinessErrors[index]
}

func (f *fakePersistenceGateway) RunMigrations(_ context.Context) *apperrors.AppError {
	f.migrationRuns++
	return f.runMigrationErr
}

type fakeHealthProbe struct {
	err *apperrors.AppError
}

func (f fakeHealthProbe) Ping(_ context.Context) *apperrors.AppError {
	return f.err
}
