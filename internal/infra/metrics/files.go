package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		filesUploadedTotal,
		filesDeletedTotal,
		linkResolutionsTotal,
		idCollisionsTotal,
	)
}

var (
	filesUploadedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "files_uploaded_total",
			Help: "Total number of files stored, by kind.",
		},
		[]string{"kind"},
	)

	filesDeletedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "files_deleted_total",
			Help: "Total number of file records deleted through the menu.",
		},
	)

	linkResolutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "link_resolutions_total",
			Help: "Deep-link resolutions by result (found/not_found).",
		},
		[]string{"result"},
	)

	idCollisionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "share_id_collisions_total",
			Help: "Share identifier collisions that forced a regeneration.",
		},
	)
)

func IncFileUploaded(kind string) {
	filesUploadedTotal.WithLabelValues(norm(kind)).Inc()
}

func IncFileDeleted() {
	filesDeletedTotal.Inc()
}

func IncLinkResolution(result string) {
	linkResolutionsTotal.WithLabelValues(norm(result)).Inc()
}

func IncIDCollision() {
	idCollisionsTotal.Inc()
}
