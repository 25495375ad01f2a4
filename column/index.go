package column

import "math"

// GlobalIndex addresses an element (or entry) across all clusters, starting
// at zero with the first element ever written.
type GlobalIndex uint64

// InvalidGlobalIndex marks an unresolved global index.
const InvalidGlobalIndex = GlobalIndex(math.MaxUint64)

// ClusterID identifies one cluster, i.e. one bounded run of entries that
// shares per-field transient write state.
type ClusterID uint64

// InvalidClusterID marks an unresolved cluster.
const InvalidClusterID = ClusterID(math.MaxUint64)

// ClusterIndex addresses an element relative to the start of one cluster.
// Offset-bearing columns reset their running counters at cluster boundaries,
// so in-cluster indexes are the natural currency of collection lookups.
type ClusterIndex struct {
	Cluster ClusterID
	Index   uint64
}

// InvalidClusterIndex is the sentinel for "no such element", e.g. the item
// index of an absent nullable value.
var InvalidClusterIndex = ClusterIndex{Cluster: InvalidClusterID, Index: math.MaxUint64}

// IsValid reports whether the index addresses an element.
func (ci ClusterIndex) IsValid() bool {
	return ci.Cluster != InvalidClusterID
}

// Handle identifies one physical column inside a page store. Handles are
// assigned by the store when the owning field connects.
type Handle int64

// InvalidHandle marks a column that is not connected to a store.
const InvalidHandle = Handle(-1)
