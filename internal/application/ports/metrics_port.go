package ports

// MetricsRecorder métricas de negocio. La implementación real es Prometheus.
type MetricsRecorder interface {
	RedirectDecided(action string)
	AssociationRepaired(kind string, n int)
	FunctionCalled(name, outcome string)
}

// NopMetrics descarta todas las métricas.
type NopMetrics struct{}

func (NopMetrics) RedirectDecided(string)          {}
func (NopMetrics) AssociationRepaired(string, int) {}
func (NopMetrics) FunctionCalled(string, string)   {}
