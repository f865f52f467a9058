package use_cases

import (
	"context"

	"klarnasync/internal/application/dto"
	"klarnasync/internal/application/messages"
	portsout "klarnasync/internal/application/ports/out"
	"klarnasync/internal/domain/entities"
	"klarnasync/internal/domain/policies"
	valueobjects "klarnasync/internal/domain/value_objects"
	apperrors "klarnasync/internal/shared_kernel/errors"
)

// ReconcileResult is what one reconciliation pass learned about an order.
// Snapshot is nil when the remote order could not be fetched.
type ReconcileResult struct {
	Credentials dto.CredentialCheck
	Snapshot    *entities.KlarnaOrderSnapshot
	Evaluation  policies.SyncEvaluation
	InSync      bool
	Warning     messages.Text
	Error       messages.Text
	RemoteErr   *apperrors.AppError
}

// OrderReconciler validates the stored credentials of an order, compares it
// with Klarna and persists the resulting sync flag. The views, the capture
// action and the sync sweep all go through it.
type OrderReconciler struct {
	orders            portsout.OrderRepository
	gateway           portsout.KlarnaOrderGateway
	credentials       portsout.CredentialResolver
	defaultCountryISO string
}

func NewOrderReconciler(
	orders portsout.OrderRepository,
	gateway portsout.KlarnaOrderGateway,
	credentials portsout.CredentialResolver,
	defaultCountryISO string,
) *OrderReconciler {
	return &OrderReconciler{
		orders:            orders,
		gateway:           gateway,
		credentials:       credentials,
		defaultCountryISO: defaultCountryISO,
	}
}

func (r *OrderReconciler) validate() *apperrors.AppError {
	if r == nil {
		return apperrors.NewInternal("order_reconciler_missing", "order reconciler is required", nil)
	}
	if r.orders == nil {
		return apperrors.NewInternal("order_repository_missing", "order repository is required", nil)
	}
	if r.gateway == nil {
		return apperrors.NewInternal("klarna_order_gateway_missing", "klarna order gateway is required", nil)
	}
	if r.credentials == nil {
		return apperrors.NewInternal("klarna_credential_resolver_missing", "klarna credential resolver is required", nil)
	}

	return nil
}

func (r *OrderReconciler) countryISO(order entities.Order) string {
	return valueobjects.ResolveCountryISO(order.BillCountryISO, r.defaultCountryISO)
}

func (r *OrderReconciler) reference(order entities.Order) dto.KlarnaOrderReference {
	return dto.KlarnaOrderReference{
		KlarnaOrderID: order.KlarnaOrderID,
		CountryISO:    r.countryISO(order),
	}
}

// CheckCredentials compares the merchant id stored on the order with the one
// configured for its billing country. A country without credentials is a
// mismatch, not an error.
func (r *OrderReconciler) CheckCredentials(ctx context.Context, order entities.Order) (dto.CredentialCheck, *apperrors.AppError) {
	countryISO := r.countryISO(order)
	check := dto.CredentialCheck{
		MerchantID: order.KlarnaMerchantID,
		CountryISO: countryISO,
	}

	credentials, appErr := r.credentials.Resolve(ctx, countryISO)
	if appErr != nil {
		if appErr.HasCode(portsout.KlarnaErrorCodeCredentialsUnset) {
			return check, nil
		}
		return dto.CredentialCheck{}, appErr
	}

	check.CurrentMerchantID = credentials.MerchantID
	check.Valid = policies.MerchantIDMatches(credentials.MerchantID, order.KlarnaMerchantID)

	return check, nil
}

// Fetch checks credentials and loads the remote order without touching the
// stored sync flag.
func (r *OrderReconciler) Fetch(ctx context.Context, order entities.Order) (ReconcileResult, *apperrors.AppError) {
	if appErr := r.validate(); appErr != nil {
		return ReconcileResult{}, appErr
	}

	check, appErr := r.CheckCredentials(ctx, order)
	if appErr != nil {
		return ReconcileResult{}, appErr
	}

	result := ReconcileResult{
		Credentials: check,
		InSync:      order.InSync,
	}
	if !check.Valid {
		result.Warning = credentialsWarning(check)
		return result, nil
	}

	snapshot, remoteErr := r.gateway.RetrieveOrder(ctx, r.reference(order))
	if remoteErr != nil {
		result.RemoteErr = remoteErr
		result.Error = remoteErrorText(remoteErr)
		return result, nil
	}

	result.Snapshot = &snapshot
	result.Evaluation = policies.EvaluateOrderSync(order, snapshot)

	return result, nil
}

// Reconcile runs Fetch for a syncable order and stores the outcome as the
// order's sync flag. Remote failures and credential mismatches mark the order
// out of sync. Other orders are returned untouched.
func (r *OrderReconciler) Reconcile(ctx context.Context, order entities.Order) (ReconcileResult, *apperrors.AppError) {
	if !order.IsSyncable() {
		return ReconcileResult{InSync: order.InSync}, nil
	}

	result, appErr := r.Fetch(ctx, order)
	if appErr != nil {
		return ReconcileResult{}, appErr
	}

	inSync := result.Snapshot != nil && result.Evaluation.InSync
	if result.Snapshot != nil && !inSync {
		result.Warning = syncWarning(result.Evaluation)
	}

	if saveErr := r.orders.SaveSyncFlag(ctx, order.ID, inSync); saveErr != nil {
		return ReconcileResult{}, saveErr
	}
	result.InSync = inSync

	return result, nil
}

func credentialsWarning(check dto.CredentialCheck) messages.Text {
	return messages.Of(
		messages.New(messages.KeyMerchantIDChangedForCountry, check.MerchantID, check.CountryISO, check.CurrentMerchantID),
	)
}

func syncWarning(evaluation policies.SyncEvaluation) messages.Text {
	key := messages.KeyOrderNotInSync
	if evaluation.Reason == policies.SyncReasonRemoteCancelled {
		key = messages.KeyOrderIsCancelled
	}

	return messages.Of(messages.New(key), messages.New(messages.KeyNoRequestsWillBeSent))
}

func remoteErrorText(appErr *apperrors.AppError) messages.Text {
	switch appErr.Code {
	case portsout.KlarnaErrorCodeUnauthorized:
		return messages.Of(messages.New(messages.KeyUnauthorizedRequest))
	case portsout.KlarnaErrorCodeOrderNotFound:
		return messages.Of(messages.New(messages.KeyOrderNotFound))
	default:
		return messages.Of(messages.Raw(appErr.Message))
	}
}
