// Package iometrics keeps prometheus metrics of ingestion runs and exports
// them in the textfile format of node_exporter.
package iometrics

import (
	"time"

	"github.com/eduregistry/edureg/pkg/edureg"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "edureg"

// Metrics holds counters of one process. Every Metrics value has its own
// registry, so tests and runs do not share state.
type Metrics struct {
	reg *prometheus.Registry

	files         *prometheus.CounterVec
	certificates  prometheus.Counter
	skipped       *prometheus.CounterVec
	records       prometheus.Counter
	organizations *prometheus.CounterVec
	regions       prometheus.Counter
	parents       *prometheus.CounterVec
	programs      prometheus.Counter
	specialties   *prometheus.CounterVec

	runs        *prometheus.CounterVec
	duration    prometheus.Gauge
	lastSuccess prometheus.Gauge
}

// New creates metrics registered in a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		reg: reg,
		files: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "xml_files_total",
			Help:      "Number of XML files seen by the parser.",
		}, []string{"result"}),
		certificates: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "certificates_total",
			Help:      "Number of Certificate elements read.",
		}),
		skipped: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "certificates_skipped_total",
			Help:      "Number of certificates skipped by the parser.",
		}, []string{"reason"}),
		records: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_total",
			Help:      "Number of organization records extracted.",
		}),
		organizations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "organizations_total",
			Help:      "Number of records by organization resolution result.",
		}, []string{"result"}),
		regions: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "regions_created_total",
			Help:      "Number of regions created.",
		}),
		parents: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parent_links_total",
			Help:      "Number of branch to head links by result.",
		}, []string{"result"}),
		programs: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "programs_linked_total",
			Help:      "Number of organization to specialty links created.",
		}),
		specialties: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "specialties_total",
			Help:      "Number of program specialties by resolution result.",
		}, []string{"result"}),
		runs: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Number of ingestion runs by result.",
		}, []string{"result"}),
		duration: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of the last ingestion run.",
		}),
		lastSuccess: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful ingestion run.",
		}),
	}
}

// Registry returns the registry that holds the metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.reg
}

// ObserveParse adds parse statistics.
func (m *Metrics) ObserveParse(st edureg.ParseStats) {
	m.files.WithLabelValues("parsed").Add(float64(st.Files - st.FailedFiles))
	m.files.WithLabelValues("failed").Add(float64(st.FailedFiles))
	m.certificates.Add(float64(st.Certificates))
	m.skipped.WithLabelValues("no_organization").Add(float64(st.NoOrganization))
	m.skipped.WithLabelValues("no_ogrn").Add(float64(st.NoOGRN))
	m.records.Add(float64(st.Records))
}

// ObservePopulate adds populate statistics.
func (m *Metrics) ObservePopulate(st edureg.PopulateStats) {
	m.organizations.WithLabelValues("created").Add(float64(st.OrgsCreated))
	m.organizations.WithLabelValues("found").Add(float64(st.OrgsFound))
	m.organizations.WithLabelValues("updated").Add(float64(st.OrgsUpdated))
	m.organizations.WithLabelValues("duplicate").Add(float64(st.OrgsDuplicate))
	m.organizations.WithLabelValues("no_ogrn").Add(float64(st.NoOGRN))
	m.regions.Add(float64(st.RegionsCreated))
	m.parents.WithLabelValues("linked").Add(float64(st.ParentsLinked))
	m.parents.WithLabelValues("refused").Add(float64(st.ParentsRefused))
	m.parents.WithLabelValues("missing").Add(float64(st.ParentsMissing))
	m.programs.Add(float64(st.ProgramsLinked))
	m.specialties.WithLabelValues("created").Add(float64(st.SpecialtiesCreated))
	m.specialties.WithLabelValues("unknown").Add(float64(st.SpecialtiesUnknown))
}

// ObserveRun records the outcome of a whole run. The last success gauge
// moves only when err is nil.
func (m *Metrics) ObserveRun(dur time.Duration, err error) {
	m.duration.Set(dur.Seconds())
	if err != nil {
		m.runs.WithLabelValues("failure").Inc()
		return
	}
	m.runs.WithLabelValues("success").Inc()
	m.lastSuccess.SetToCurrentTime()
}

// WriteTextfile writes all metrics to path atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.reg); err != nil {
		return WriteError(path, err)
	}
	return nil
}
