package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

type GovernanceMetrics struct {
	lifecycleSteps *prometheus.CounterVec
	reports        *prometheus.CounterVec
	getterFailures *prometheus.CounterVec
	deployments    *prometheus.CounterVec
}

var (
	governanceOnce     sync.Once
	governanceRegistry *GovernanceMetrics
)

// Governance returns the process wide collectors, registered on first use
func Governance() *GovernanceMetrics {
	governanceOnce.Do(func() {
		governanceRegistry = &GovernanceMetrics{
			lifecycleSteps: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "governance_lifecycle_steps_total",
				Help: "Proposal lifecycle steps by step and outcome.",
			}, []string{"step", "outcome"}),
			reports: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "governance_reports_total",
				Help: "Generated reports by kind and outcome.",
			}, []string{"kind", "outcome"}),
			getterFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "governance_report_getter_failures_total",
				Help: "Report categories left empty because their getter failed.",
			}, []string{"kind", "category"}),
			deployments: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "governance_deployments_total",
				Help: "Contract deployments by contract and outcome.",
			}, []string{"contract", "outcome"}),
		}
		prometheus.MustRegister(
			governanceRegistry.lifecycleSteps,
			governanceRegistry.reports,
			governanceRegistry.getterFailures,
			governanceRegistry.deployments,
		)
	})
	return governanceRegistry
}

func outcome(err error) string {
	if err != nil {
		return OutcomeFailure
	}
	return OutcomeSuccess
}

func (m *GovernanceMetrics) ObserveStep(step string, err error) {
	if m == nil {
		return
	}
	m.lifecycleSteps.WithLabelValues(step, outcome(err)).Inc()
}

func (m *GovernanceMetrics) ObserveReport(kind string, err error) {
	if m == nil {
		return
	}
	m.reports.WithLabelValues(kind, outcome(err)).Inc()
}

func (m *GovernanceMetrics) ObserveGetterFailure(kind, category string) {
	if m == nil {
		return
	}
	m.getterFailures.WithLabelValues(kind, category).Inc()
}

func (m *GovernanceMetrics) ObserveDeployment(contract string, err error) {
	if m == nil {
		return
	}
	m.deployments.WithLabelValues(contract, outcome(err)).Inc()
}
