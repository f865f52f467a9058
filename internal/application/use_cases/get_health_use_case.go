package use_cases

import (
	"context"

	"klarnasync/internal/application/dto"
	portsin "klarnasync/internal/application/ports/in"
	portsout "klarnasync/internal/application/ports/out"
	valueobjects "klarnasync/internal/domain/value_objects"
	apperrors "klarnasync/internal/shared_kernel/errors"
)

type getHealthUseCase struct {
	probe portsout.DatabaseHealthProbe
}

// NewGetHealthUseCase reports the service as degraded while the database
// probe fails. A nil probe skips the database check.
func NewGetHealthUseCase(probe portsout.DatabaseHealthProbe) portsin.GetHealthUseCase {
	return &getHealthUseCase{
		probe: probe,
	}
}

func (u *getHealthUseCase) Execute(ctx context.Context, _ dto.GetHealthCommand) (dto.HealthOutput, *apperrors.AppError) {
	if u.probe == nil {
		return dto.HealthOutput{
			Status: valueobjects.NewHealthyStatus().String(),
		}, nil
	}

	if appErr := u.probe.Ping(ctx); appErr != nil {
		return dto.HealthOutput{
			Status:   valueobjects.NewDegradedStatus().String(),
			Database: "unavailable",
		}, nil
	}

	return dto.HealthOutput{
		Status:   valueobjects.NewHealthyStatus().String(),
		Database: "ok",
	}, nil
}
