package quote

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/richxcame/limo-booking/internal/catalog"
	"github.com/richxcame/limo-booking/internal/fare"
	"github.com/richxcame/limo-booking/internal/settings"
	"github.com/richxcame/limo-booking/pkg/common"
	"github.com/richxcame/limo-booking/pkg/logger"
	"github.com/richxcame/limo-booking/pkg/tracing"
	"github.com/richxcame/limo-booking/pkg/validation"
	"go.uber.org/zap"
)

const tracerName = "quote"

// CatalogReader resolves the package and vehicle referenced by a request
type CatalogReader interface {
	GetPackage(ctx context.Context, id uuid.UUID) (*catalog.Package, error)
	GetVehicle(ctx context.Context, id uuid.UUID) (*catalog.Vehicle, error)
}

// Service prices bookings, issues quotes and re-prices them at confirmation
type Service struct {
	settings settings.Provider
	catalog  CatalogReader
	store    StoreInterface
	ttl      time.Duration
	now      func() time.Time
}

// NewService creates a new quote service
func NewService(provider settings.Provider, catalogReader CatalogReader, store StoreInterface, ttl time.Duration) *Service {
	return &Service{
		settings: provider,
		catalog:  catalogReader,
		store:    store,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Compute prices a booking without storing it
func (s *Service) Compute(ctx context.Context, req ComputeRequest) (*fare.PriceBreakdown, error) {
	inputs, err := s.buildInputs(ctx, req.QuoteRequest)
	if err != nil {
		return nil, err
	}

	var pricing fare.PricingSettings
	if req.Settings != nil {
		pricing = req.Settings.Resolve()
		if problems := settings.Validate(pricing); problems != nil {
			return nil, common.NewValidationErrorWithDetails("invalid pricing settings", problems)
		}
	} else {
		pricing = s.settings.Current(ctx)
	}

	return s.price(ctx, "compute", inputs, pricing), nil
}

// CreateQuote prices a booking and stores the result
func (s *Service) CreateQuote(ctx context.Context, req QuoteRequest) (*Quote, error) {
	inputs, err := s.buildInputs(ctx, req)
	if err != nil {
		return nil, err
	}

	pricing := s.settings.Current(ctx)
	breakdown := s.price(ctx, "quote", inputs, pricing)

	now := s.now().UTC()
	q := &Quote{
		ID:        uuid.New(),
		Inputs:    inputs,
		Settings:  pricing,
		Breakdown: *breakdown,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.store.Save(ctx, q, s.ttl); err != nil {
		return nil, common.NewInternalError("failed to store quote", err)
	}

	tracing.AddSpanAttributes(ctx, tracing.QuoteIDKey.String(q.ID.String()))
	logger.InfoContext(ctx, "quote created",
		zap.String("quote_id", q.ID.String()),
		zap.Float64("total", breakdown.Total),
	)

	return q, nil
}

// GetQuote loads a stored quote
func (s *Service) GetQuote(ctx context.Context, id uuid.UUID) (*Quote, error) {
	q, err := s.store.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, common.NewNotFoundError("quote not found or expired", err)
	}
	if err != nil {
		return nil, common.NewInternalError("failed to load quote", err)
	}
	return q, nil
}

// ConfirmQuote reprices a quote from its stored inputs and settings
// snapshot and charges that total. A quote can be confirmed once; the claim
// is atomic so concurrent confirmations get a conflict.
func (s *Service) ConfirmQuote(ctx context.Context, id uuid.UUID) (*ConfirmResponse, error) {
	q, err := s.GetQuote(ctx, id)
	if err != nil {
		return nil, err
	}
	if q.ConfirmedAt != nil {
		return nil, common.NewConflictError("quote already confirmed")
	}

	now := s.now().UTC()
	remaining := q.ExpiresAt.Sub(now)
	if remaining <= 0 {
		return nil, common.NewNotFoundError("quote not found or expired", ErrNotFound)
	}

	claimed, err := s.store.MarkConfirmed(ctx, q.ID, remaining)
	if err != nil {
		return nil, common.NewInternalError("failed to confirm quote", err)
	}
	if !claimed {
		return nil, common.NewConflictError("quote already confirmed")
	}

	charged := s.price(ctx, "confirm", q.Inputs, q.Settings)
	matches := charged.Total == q.Breakdown.Total
	recordConfirmation(matches)

	current := fare.Compute(q.Inputs, s.settings.Current(ctx))
	settingsChanged := current.Total != q.Breakdown.Total

	q.ConfirmedAt = &now
	if err := s.store.Save(ctx, q, remaining); err != nil {
		return nil, common.NewInternalError("failed to confirm quote", err)
	}

	if !matches {
		logger.ErrorContext(ctx, "repriced quote differs from quoted total",
			zap.String("quote_id", q.ID.String()),
			zap.Float64("quoted_total", q.Breakdown.Total),
			zap.Float64("charged_total", charged.Total),
		)
	}
	if settingsChanged {
		logger.InfoContext(ctx, "pricing settings changed since quote",
			zap.String("quote_id", q.ID.String()),
			zap.Float64("quoted_total", q.Breakdown.Total),
			zap.Float64("current_total", current.Total),
		)
	}

	return &ConfirmResponse{
		QuoteID:         q.ID,
		Quoted:          q.Breakdown,
		Charged:         *charged,
		Matches:         matches,
		ChargedTotal:    charged.Total,
		CurrentTotal:    current.Total,
		SettingsChanged: settingsChanged,
	}, nil
}

// price runs the calculator and reports rule failures
func (s *Service) price(ctx context.Context, operation string, inputs fare.BookingInputs, pricing fare.PricingSettings) *fare.PriceBreakdown {
	ctx, span := tracing.StartSpan(ctx, tracerName, "ComputeFare")
	defer span.End()

	breakdown := fare.Compute(inputs, pricing)

	for _, skipped := range breakdown.SkippedRules {
		logger.WarnContext(ctx, "fee rule skipped",
			zap.Int("index", skipped.Index),
			zap.String("name", skipped.Name),
			zap.String("condition", skipped.Condition),
			zap.String("error", skipped.Error),
		)
	}
	recordBreakdown(operation, breakdown)

	span.SetAttributes(
		tracing.DistanceMilesKey.Float64(breakdown.DistanceMiles),
		tracing.FareSubtotalKey.Float64(breakdown.Subtotal),
		tracing.FareTotalKey.Float64(breakdown.Total),
		tracing.SkippedRulesKey.Int(len(breakdown.SkippedRules)),
	)

	return breakdown
}

// buildInputs validates the request and resolves catalog references
func (s *Service) buildInputs(ctx context.Context, req QuoteRequest) (fare.BookingInputs, error) {
	if err := validation.ValidateStruct(req); err != nil {
		var fields validation.FieldErrors
		if errors.As(err, &fields) {
			return fare.BookingInputs{}, common.NewValidationErrorWithDetails("invalid quote request", fields)
		}
		return fare.BookingInputs{}, common.NewBadRequestError("invalid quote request", err)
	}

	inputs := fare.BookingInputs{
		DistanceMeters: req.DistanceMeters,
		Hours:          req.Hours,
		CarSeats:       req.CarSeats,
		BoosterSeats:   req.BoosterSeats,
		PickupTime:     req.PickupTime,
		Gratuity: fare.GratuityInfo{
			Type:         fare.GratuityType(req.Gratuity.Type),
			Percentage:   req.Gratuity.Percentage,
			CustomAmount: req.Gratuity.CustomAmount,
		},
	}
	for _, stop := range req.Stops {
		inputs.Stops = append(inputs.Stops, fare.Stop{Location: stop.Location, Price: stop.Price})
	}

	if req.PackageID != nil {
		p, err := s.catalog.GetPackage(ctx, *req.PackageID)
		if err != nil {
			return fare.BookingInputs{}, err
		}
		inputs.Package = p.Fare()
		tracing.AddSpanAttributes(ctx, tracing.PackageIDKey.String(p.ID.String()))
	}
	if req.VehicleID != nil {
		v, err := s.catalog.GetVehicle(ctx, *req.VehicleID)
		if err != nil {
			return fare.BookingInputs{}, err
		}
		inputs.Vehicle = v.Fare()
		tracing.AddSpanAttributes(ctx, tracing.VehicleIDKey.String(v.ID.String()))
	}

	return inputs, nil
}
