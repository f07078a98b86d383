package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for the roster core.
type Metrics struct {
	CoordinatorsRegistered *prometheus.CounterVec
	VolunteersRegistered   prometheus.Counter
	QuotaRejections        *prometheus.CounterVec
	CredentialRotations    prometheus.Counter
	RolesSoftDeleted       prometheus.Counter
	RolesRestored          prometheus.Counter
	DoubleJobUpgrades      prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		CoordinatorsRegistered: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "canvass_coordinators_registered_total",
			Help: "Total coordinators registered, by role kind",
		}, []string{"kind"}),
		VolunteersRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "canvass_volunteers_registered_total",
			Help: "Total volunteers registered",
		}),
		QuotaRejections: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "canvass_quota_rejections_total",
			Help: "Registrations rejected by a capacity quota, by scope kind",
		}, []string{"scope"}),
		CredentialRotations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "canvass_credential_rotations_total",
			Help: "Credential rotations issued (renames and restores)",
		}),
		RolesSoftDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "canvass_roles_soft_deleted_total",
			Help: "Person-role records soft-deleted",
		}),
		RolesRestored: promauto.NewCounter(prometheus.CounterOpts{
			Name: "canvass_roles_restored_total",
			Help: "Person-role records restored from soft delete",
		}),
		DoubleJobUpgrades: promauto.NewCounter(prometheus.CounterOpts{
			Name: "canvass_double_job_upgrades_total",
			Help: "Visit-track volunteers upgraded onto the roll track",
		}),
	}
}
