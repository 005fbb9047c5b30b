// Package service implements the sharebook Connect services on top of a
// storage.Store and publishes every membership change on an event bus.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"

	"github.com/mmynk/sharebook/internal/auth"
	"github.com/mmynk/sharebook/internal/events"
	"github.com/mmynk/sharebook/internal/failure"
	"github.com/mmynk/sharebook/internal/metrics"
	"github.com/mmynk/sharebook/internal/middleware"
	"github.com/mmynk/sharebook/internal/models"
	"github.com/mmynk/sharebook/internal/storage"
	"github.com/mmynk/sharebook/pkg/api/apiconnect"
)

// Deps are the collaborators shared by all services.
type Deps struct {
	Store   storage.Store
	Bus     *events.Bus
	JWT     *auth.JWTManager
	Metrics *metrics.Metrics
	Logger  *slog.Logger

	// InternalDomains are the mail domains hosted by this server. Recipients
	// on these domains must resolve to an existing user.
	InternalDomains []string

	// Now defaults to time.Now.
	Now func() time.Time
}

func (d *Deps) defaults() {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Metrics == nil {
		d.Metrics = metrics.New()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	for i, domain := range d.InternalDomains {
		d.InternalDomains[i] = strings.ToLower(strings.TrimSpace(domain))
	}
}

// NewHandler mounts all services plus /metrics and /healthz on a chi router.
// The metrics collector is subscribed to the bus.
func NewHandler(deps Deps) http.Handler {
	deps.defaults()
	deps.Bus.Subscribe(deps.Metrics.ObserveEvents)

	opts := connect.WithInterceptors(
		middleware.MetricsInterceptor(deps.Metrics),
		middleware.RequireAuth(deps.JWT),
		middleware.LoggingInterceptor(deps.Logger),
	)

	r := chi.NewRouter()
	r.Get("/healthz", healthz)
	r.Handle("/metrics", deps.Metrics.Handler())

	mount := func(path string, handler http.Handler) {
		r.Handle(path+"*", handler)
	}
	mount(apiconnect.NewSharingServiceHandler(NewSharingService(deps), opts))
	mount(apiconnect.NewEntityServiceHandler(NewEntityService(deps), opts))
	mount(apiconnect.NewBookingServiceHandler(NewBookingService(deps), opts))
	mount(apiconnect.NewEventServiceHandler(NewEventService(deps), opts))
	return r
}

type healthResponse struct {
	Status string `json:"status"`
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(healthResponse{Status: "ok"})
}

// toConnect logs err and converts it for the wire.
func toConnect(logger *slog.Logger, op string, err error) error {
	ce := failure.ToConnect(err)
	if ce.Code() == connect.CodeInternal {
		logger.Error(op+" failed", "error", err)
	} else {
		logger.Debug(op+" rejected", "code", ce.Code(), "error", err)
	}
	return ce
}

// caller loads the authenticated user.
func caller(ctx context.Context, store storage.Store) (*models.User, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	user, err := store.GetUser(ctx, userID)
	if err != nil {
		if failure.KindOf(err) == failure.NotFound {
			return nil, connect.NewError(connect.CodeUnauthenticated, fmt.Errorf("unknown user %s", userID))
		}
		return nil, err
	}
	return user, nil
}

// effectiveCapability is the capability of user on group. Owners have every
// capability; ok is false for non-members.
func effectiveCapability(user *models.User, group *models.Group) (models.Capability, bool) {
	if group.OwnerUserID != "" && group.OwnerUserID == user.ID {
		return models.CapabilityInvite, true
	}
	m := user.Membership(group.ID)
	if m == nil {
		return 0, false
	}
	if m.Capability == nil {
		return models.CapabilityRead, true
	}
	return *m.Capability, true
}

func requireMember(user *models.User, group *models.Group) error {
	if _, ok := effectiveCapability(user, group); !ok {
		return failure.New(failure.NotAuthorized, "access group",
			fmt.Errorf("user %s is not a member of group %s", user.ID, group.ID))
	}
	return nil
}

func requireInvite(user *models.User, group *models.Group) error {
	capability, ok := effectiveCapability(user, group)
	if !ok || !capability.AtLeast(models.CapabilityInvite) {
		return failure.New(failure.NotAuthorized, "manage group",
			fmt.Errorf("user %s may not manage participants of group %s", user.ID, group.ID))
	}
	return nil
}
