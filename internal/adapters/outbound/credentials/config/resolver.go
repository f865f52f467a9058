package config

import (
	"context"
	"strings"

	"klarnasync/internal/application/dto"
	portsout "klarnasync/internal/application/ports/out"
	valueobjects "klarnasync/internal/domain/value_objects"
	apperrors "klarnasync/internal/shared_kernel/errors"
)

// Entry is one configured set of Klarna API credentials.
type Entry struct {
	MerchantID string
	Password   string
	Mode       string
}

// Resolver serves credentials from static configuration. A country entry
// with a merchant id overrides the defaults.
type Resolver struct {
	defaults  dto.KlarnaCredentials
	countries map[string]dto.KlarnaCredentials
}

var _ portsout.CredentialResolver = (*Resolver)(nil)

func NewResolver(defaults Entry, countries map[string]Entry) (*Resolver, *apperrors.AppError) {
	resolvedDefaults, appErr := toCredentials("", defaults)
	if appErr != nil {
		return nil, appErr
	}

	resolved := make(map[string]dto.KlarnaCredentials, len(countries))
	for rawISO, entry := range countries {
		countryISO := valueobjects.ResolveCountryISO(rawISO, "")
		if countryISO == "" || strings.TrimSpace(entry.MerchantID) == "" {
			continue
		}
		if strings.TrimSpace(entry.Mode) == "" {
			entry.Mode = defaults.Mode
		}

		credentials, appErr := toCredentials(countryISO, entry)
		if appErr != nil {
			appErr.Details["country_iso"] = countryISO
			return nil, appErr
		}
		resolved[countryISO] = credentials
	}

	return &Resolver{
		defaults:  resolvedDefaults,
		countries: resolved,
	}, nil
}

func (r *Resolver) Resolve(_ context.Context, countryISO string) (dto.KlarnaCredentials, *apperrors.AppError) {
	country := valueobjects.ResolveCountryISO(countryISO, "")
	if credentials, ok := r.countries[country]; ok {
		return credentials, nil
	}

	if r.defaults.MerchantID == "" {
		return dto.KlarnaCredentials{}, apperrors.NewValidation(
			portsout.KlarnaErrorCodeCredentialsUnset,
			"no klarna credentials configured for country",
			map[string]any{"country_iso": country},
		)
	}

	credentials := r.defaults
	credentials.CountryISO = country

	return credentials, nil
}

func toCredentials(countryISO string, entry Entry) (dto.KlarnaCredentials, *apperrors.AppError) {
	merchantID := strings.TrimSpace(entry.MerchantID)
	if merchantID == "" {
		return dto.KlarnaCredentials{CountryISO: countryISO}, nil
	}

	rawMode := entry.Mode
	if strings.TrimSpace(rawMode) == "" {
		rawMode = string(valueobjects.ServerModePlayground)
	}
	mode, appErr := valueobjects.ParseServerMode(rawMode)
	if appErr != nil {
		return dto.KlarnaCredentials{}, appErr
	}

	return dto.KlarnaCredentials{
		CountryISO: countryISO,
		MerchantID: merchantID,
		Password:   entry.Password,
		Mode:       mode,
	}, nil
}
