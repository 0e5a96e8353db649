package outfit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yanqian/outfitcast/internal/domain/forecast"
	apperrors "github.com/yanqian/outfitcast/pkg/errors"
	"github.com/yanqian/outfitcast/pkg/util"
)

// Service exposes weather based clothing recommendations.
type Service interface {
	Recommend(ctx context.Context, req Request) (Response, error)
}

// ForecastSource fetches and normalizes a provider forecast.
type ForecastSource interface {
	Name() string
	RequiresKey() bool
	Fetch(ctx context.Context, q forecast.Query) (forecast.Forecast, error)
}

// PlaceResolver turns coordinates into a short place name.
type PlaceResolver interface {
	Resolve(ctx context.Context, lat, lon float64) (string, error)
}

// KeyResolver looks up a stored provider key by credential id.
type KeyResolver interface {
	Resolve(ctx context.Context, id string) (string, error)
}

type service struct {
	cfg    Config
	source ForecastSource
	places PlaceResolver
	keys   KeyResolver
	logger *slog.Logger
	now    func() time.Time
}

// NewService wires up the outfit domain.
func NewService(cfg Config, source ForecastSource, places PlaceResolver, keys KeyResolver, logger *slog.Logger) Service {
	if strings.TrimSpace(cfg.FallbackLocation) == "" {
		cfg.FallbackLocation = "My location"
	}
	return &service{
		cfg:    cfg,
		source: source,
		places: places,
		keys:   keys,
		logger: logger.With("component", "outfit.service"),
		now:    util.NowUTC,
	}
}

func (s *service) Recommend(ctx context.Context, req Request) (Response, error) {
	if err := validateCoordinates(req.Lat, req.Lon); err != nil {
		return Response{}, apperrors.Wrap("invalid_input", err.Error(), nil)
	}

	key, err := s.resolveKey(ctx, req.CredentialID)
	if err != nil {
		return Response{}, err
	}

	now := s.now()
	var (
		fc    forecast.Forecast
		place = s.cfg.FallbackLocation
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var fetchErr error
		fc, fetchErr = s.source.Fetch(gctx, forecast.Query{Lat: req.Lat, Lon: req.Lon, Now: now, ServiceKey: key})
		return fetchErr
	})
	g.Go(func() error {
		name, placeErr := s.places.Resolve(gctx, req.Lat, req.Lon)
		if placeErr != nil {
			s.logger.Warn("place lookup failed, using fallback", "error", placeErr)
			return nil
		}
		if strings.TrimSpace(name) != "" {
			place = name
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return Response{}, s.classify(err)
	}
	s.logger.Info("forecast normalized", "provider", s.source.Name(), "hours", len(fc.Hourly))

	current := Recommend(fc.Current)
	return Response{
		Location:    place,
		Provider:    s.source.Name(),
		GeneratedAt: now,
		Current: CurrentOutlook{
			Weather: fc.Current,
			Tier:    current.Tier,
			Alerts:  current.Alerts,
		},
		Days: buildDays(fc.Hourly, now),
	}, nil
}

func (s *service) resolveKey(ctx context.Context, credentialID string) (string, error) {
	if !s.source.RequiresKey() {
		return "", nil
	}
	if id := strings.TrimSpace(credentialID); id != "" {
		key, err := s.keys.Resolve(ctx, id)
		if err != nil {
			return "", apperrors.Wrap("credential_error", "stored service key could not be loaded", err)
		}
		return key, nil
	}
	if key := strings.TrimSpace(s.cfg.DefaultServiceKey); key != "" {
		return key, nil
	}
	return "", apperrors.Wrap("invalid_input", fmt.Sprintf("%s requires a service key; register one and pass credentialId", s.source.Name()), nil)
}

func (s *service) classify(err error) error {
	var providerErr *forecast.ProviderError
	switch {
	case errors.As(err, &providerErr):
		return apperrors.Wrap("provider_error", providerErr.Message, err)
	case errors.Is(err, forecast.ErrDataUnavailable):
		return apperrors.Wrap("data_unavailable", "no forecast data available, try again shortly", err)
	case errors.Is(err, forecast.ErrMalformedInput):
		return apperrors.Wrap("malformed_input", "forecast provider returned an unexpected payload", err)
	default:
		return apperrors.Wrap("upstream_error", "failed to fetch forecast", err)
	}
}

func validateCoordinates(lat, lon float64) error {
	if lat < -90 || lat > 90 {
		return fmt.Errorf("lat must be between -90 and 90, got %v", lat)
	}
	if lon < -180 || lon > 180 {
		return fmt.Errorf("lon must be between -180 and 180, got %v", lon)
	}
	return nil
}

func buildDays(hourly []forecast.HourlyRecord, now time.Time) []DayOutlook {
	groups := GroupByDate(hourly)
	days := make([]DayOutlook, 0, len(groups))
	for _, group := range groups {
		analysis := AnalyzeDay(group.Hours)
		day := DayOutlook{
			Date:         group.Date,
			Label:        dateLabel(group.Date, now.In(group.Hours[0].Time.Location())),
			WeatherEmoji: forecast.UnknownCode.Emoji,
			Blocks:       analysis.Blocks,
			Summary:      DedupeLines(analysis.Summary),
		}
		for _, b := range analysis.Blocks {
			if b.Result == nil {
				continue
			}
			if day.MinApparent == nil {
				day.WeatherEmoji = forecast.LookupCode(b.Result.DominantCode).Emoji
				lo, hi := b.Result.MinApparent, b.Result.MaxApparent
				day.MinApparent, day.MaxApparent = &lo, &hi
				continue
			}
			*day.MinApparent = min(*day.MinApparent, b.Result.MinApparent)
			*day.MaxApparent = max(*day.MaxApparent, b.Result.MaxApparent)
		}
		days = append(days, day)
	}
	return days
}

// dateLabel renders "Today (10/16 Fri)", "Tomorrow (10/17 Sat)" or "10/18 (Sun)".
func dateLabel(date string, now time.Time) string {
	day, err := time.ParseInLocation("2006-01-02", date, now.Location())
	if err != nil {
		return date
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	short := fmt.Sprintf("%d/%d", int(day.Month()), day.Day())
	weekday := day.Weekday().String()[:3]
	switch {
	case day.Equal(today):
		return fmt.Sprintf("Today (%s %s)", short, weekday)
	case day.Equal(today.AddDate(0, 0, 1)):
		return fmt.Sprintf("Tomorrow (%s %s)", short, weekday)
	default:
		return fmt.Sprintf("%s (%s)", short, weekday)
	}
}
