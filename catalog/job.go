package catalog

import (
	"fmt"
	"path"
)

// LeafJob is one fully concrete point in the catalog: a single runnable
// solver job together with its derived input and output paths. A LeafJob is
// immutable once created and every path is a pure function of the 4-tuple
// and the roots.
type LeafJob struct {
	Category        string
	Case            string
	TurbulenceModel string
	Configuration   string

	// MainPath is the Configuration directory the solver runs in.
	MainPath string
	// MeshPath is the mesh asset directory, keyed by (category, case).
	MeshPath string
	// RestartPath is the restart asset directory, keyed by
	// (category, case, turbulence model).
	RestartPath string
	// OutputPath mirrors the destination-store location under the results
	// root.
	OutputPath string
}

func newLeafJob(picked [NumLevels]string, roots Roots) LeafJob {
	job := LeafJob{
		Category:        picked[LevelCategory],
		Case:            picked[LevelCase],
		TurbulenceModel: picked[LevelTurbulenceModel],
		Configuration:   picked[LevelConfiguration],
	}
	job.MainPath = path.Join(roots.Catalog, job.Category, job.Case, job.TurbulenceModel, job.Configuration)
	job.MeshPath = path.Join(roots.Assets, job.Category, job.Case, "mesh")
	job.RestartPath = path.Join(roots.Assets, job.Category, job.Case, job.TurbulenceModel, "restart")
	job.OutputPath = path.Join(roots.Results, job.DestSubpath())
	return job
}

// Key is the destination composite key: {case}_{turbulenceModel}_{configuration}.
// The local artifact layout and the destination store layout both use it, so
// the publisher's path mapping stays a pure function of the tuple.
func (j LeafJob) Key() string {
	return fmt.Sprintf("%s_%s_%s", j.Case, j.TurbulenceModel, j.Configuration)
}

// DestSubpath is the canonical destination subpath in the results store.
func (j LeafJob) DestSubpath() string {
	return path.Join(j.Case, j.Key())
}

// String returns the fully qualified leaf name.
func (j LeafJob) String() string {
	return path.Join(j.Category, j.Case, j.TurbulenceModel, j.Configuration)
}
