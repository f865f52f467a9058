package use_cases

import (
	"context"
	"strconv"
	"time"

	"klarnasync/internal/application/dto"
	portsin "klarnasync/internal/application/ports/in"
	portsout "klarnasync/internal/application/ports/out"
	apperrors "klarnasync/internal/shared_kernel/errors"
)

type initializePersistenceUseCase struct {
	gateway portsout.PersistenceBootstrapGateway
}

func NewInitializePersistenceUseCase(gateway portsout.PersistenceBootstrapGateway) portsin.InitializePersistenceUseCase {
	return &initializePersistenceUseCase{
		gateway: gateway,
	}
}

func (u *initializePersistenceUseCase) Execute(ctx context.Context, command dto.InitializePersistenceCommand) *apperrors.AppError {
	if u.gateway == nil {
		return apperrors.NewInternal(
			"PERSISTENCE_GATEWAY_MISSING",
			"persistence gateway is required",
			nil,
		)
	}

	if command.ReadinessTimeout <= 0 {
		return apperrors.NewValidation(
			"READINESS_TIMEOUT_INVALID",
			"readiness timeout must be greater than zero",
			nil,
		)
	}

	if command.ReadinessRetryInterval <= 0 {
		return apperrors.NewValidation(
			"READINESS_RETRY_INTERVAL_INVALID",
			"readiness retry interval must be greater than zero",
			nil,
		)
	}

	if appErr := u.awaitReadiness(ctx, command); appErr != nil {
		return appErr
	}

	if command.SkipMigrations {
		return nil
	}

	return u.gateway.RunMigrations(ctx)
}

func (u *initializePersistenceUseCase) awaitReadiness(ctx context.Context, command dto.InitializePersistenceCommand) *apperrors.AppError {
	readinessCtx, cancel := context.WithTimeout(ctx, command.ReadinessTimeout)
	defer cancel()

	attempts := 0
	for {
		attempts++
		appErr := u.gateway.CheckReadiness(readinessCtx)
		if appErr == nil {
			return nil
		}

		if readinessCtx.Err() != nil {
			return readinessTimeoutError(attempts, command.ReadinessTimeout, appErr.Code)
		}

		timer := time.NewTimer(command.ReadinessRetryInterval)
		select {
		case <-readinessCtx.Done():
			timer.Stop()
			return readinessTimeoutError(attempts, command.ReadinessTimeout, appErr.Code)
		case <-timer.C:
		}
	}
}

func readinessTimeoutError(attempts int, timeout time.Duration, lastCode string) *apperrors.AppError {
	return apperrors.NewInternal(
		"DB_READINESS_TIMEOUT",
		"database readiness check timed out",
		map[string]any{
			"attempts":  strconv.Itoa(attempts),
			"timeout":   timeout.String(),
			"last_code": lastCode,
		},
	)
}
