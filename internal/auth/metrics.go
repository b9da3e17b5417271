package auth

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	loginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gamevault",
		Subsystem: "auth",
		Name:      "login_attempts_total",
		Help:      "Login attempts by outcome.",
	}, []string{"outcome"})

	tokenResolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gamevault",
		Subsystem: "auth",
		Name:      "token_resolutions_total",
		Help:      "Token resolutions by outcome.",
	}, []string{"outcome"})

	accessDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gamevault",
		Subsystem: "auth",
		Name:      "access_decisions_total",
		Help:      "Object-level access decisions by denying rule (\"allowed\" when none).",
	}, []string{"rule"})
)

func observeResolution(err error) {
	var outcome string
	switch {
	case err == nil:
		outcome = "success"
	case errors.Is(err, ErrTokenExpired):
		outcome = "expired"
	case errors.Is(err, ErrTokenInvalid):
		outcome = "invalid"
	case errors.Is(err, ErrUserNotFound):
		outcome = "user_not_found"
	default:
		outcome = "error"
	}
	tokenResolutions.WithLabelValues(outcome).Inc()
}

func observeDecision(d Decision) {
	if d.Allowed {
		accessDecisions.WithLabelValues("allowed").Inc()
		return
	}
	accessDecisions.WithLabelValues(d.Rule).Inc()
}
