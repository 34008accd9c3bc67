package observability

import (
	"context"
	"fmt"

	"github.com/kbukum/vetta/provider"
)

// HealthStatus represents the health state of a component or service.
type HealthStatus string

const (
	HealthStatusUp       HealthStatus = "up"
	HealthStatusDown     HealthStatus = "down"
	HealthStatusDegraded HealthStatus = "degraded"
)

// Health describes the health of an individual component.
type Health struct {
	Name    string            `json:"name"`
	Status  HealthStatus      `json:"status"`
	Message string            `json:"message,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// ServiceHealth describes the overall health of a service and its components.
type ServiceHealth struct {
	Service    string       `json:"service"`
	Status     HealthStatus `json:"status"`
	Version    string       `json:"version,omitempty"`
	Components []Health     `json:"components,omitempty"`
}

// NewServiceHealth creates a ServiceHealth with status up.
func NewServiceHealth(service, version string) *ServiceHealth {
	return &ServiceHealth{
		Service: service,
		Status:  HealthStatusUp,
		Version: version,
	}
}

// AddComponent adds a component health result and degrades overall status if needed.
func (sh *ServiceHealth) AddComponent(ch Health) {
	sh.Components = append(sh.Components, ch)

	switch ch.Status {
	case HealthStatusDown:
		sh.Status = HealthStatusDown
	case HealthStatusDegraded:
		if sh.Status != HealthStatusDown {
			sh.Status = HealthStatusDegraded
		}
	}
}

// AddProvider checks p and adds the result as a component.
func (sh *ServiceHealth) AddProvider(ctx context.Context, p provider.Provider) {
	sh.AddComponent(FromProvider(p.Name(), provider.CheckHealth(ctx, p)))
}

// FromProvider converts a provider health report.
func FromProvider(name string, hs provider.HealthStatus) Health {
	h := Health{Name: name, Message: hs.Message}
	switch hs.Status {
	case provider.StatusHealthy:
		h.Status = HealthStatusUp
	case provider.StatusDegraded:
		h.Status = HealthStatusDegraded
	default:
		h.Status = HealthStatusDown
	}
	if len(hs.Details) > 0 {
		h.Details = make(map[string]string, len(hs.Details))
		for k, v := range hs.Details {
			h.Details[k] = fmt.Sprint(v)
		}
	}
	return h
}
