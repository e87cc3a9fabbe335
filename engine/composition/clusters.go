package composition

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-compose/engine/layer"
	"github.com/Carmen-Shannon/oxy-compose/engine/light"
	"github.com/Carmen-Shannon/oxy-compose/engine/light_cluster"
	"github.com/cogentcore/webgpu/wgpu"
)

// allocateLightClusters assigns a light cluster to every render action. Actions
// whose layer has the same clustered lights share one cluster; actions without
// clustered lights or without batches get the shared empty cluster. Clusters
// from the previous pool are reused before new ones are built, and any left
// unclaimed are destroyed.
//
// Parameters:
//   - device: the device passed to the cluster factory
//
// Returns:
//   - error: the wrapped factory error, if any
func (c *compositionImpl) allocateLightClusters(device *wgpu.Device) error {
	spare := c.worldClusters
	c.worldClusters = nil
	c.clusterOwners = c.clusterOwners[:0]

	defer func() {
		for _, wc := range spare {
			wc.Destroy()
		}
	}()

	actions := c.RenderActions()
	for i, ra := range actions {
		ra.LightClusters = nil
		l := c.layerList[ra.LayerIndex]

		if l.HasClusteredLights() && len(l.Batches(c.subLayerList[ra.LayerIndex])) > 0 {
			for j := range i {
				prev := actions[j]
				if prev.LightClusters == nil || prev.LightClusters == c.emptyWorldClusters {
					continue
				}
				prevLayer := c.layerList[prev.LayerIndex]
				if prevLayer == l || sameLightSet(prevLayer.ClusteredLights(), l.ClusteredLights()) {
					ra.LightClusters = prev.LightClusters
					break
				}
			}

			if ra.LightClusters == nil {
				var wc light_cluster.WorldClusters
				if n := len(spare); n > 0 {
					wc = spare[n-1]
					spare = spare[:n-1]
				} else {
					var err error
					wc, err = c.clusterFactory(device)
					if err != nil {
						return fmt.Errorf("composition: failed to create light clusters: %w", err)
					}
				}
				wc.SetName("Cluster-" + strconv.Itoa(len(c.worldClusters)))
				c.worldClusters = append(c.worldClusters, wc)
				c.clusterOwners = append(c.clusterOwners, l)
				ra.LightClusters = wc
			}
		}

		if ra.LightClusters == nil {
			empty, err := c.emptyClusters(device)
			if err != nil {
				return err
			}
			ra.LightClusters = empty
		}
	}
	return nil
}

// emptyClusters returns the shared cluster holding no lights, creating and
// uploading it on first use.
func (c *compositionImpl) emptyClusters(device *wgpu.Device) (light_cluster.WorldClusters, error) {
	if c.emptyWorldClusters != nil {
		return c.emptyWorldClusters, nil
	}
	wc, err := c.clusterFactory(device)
	if err != nil {
		return nil, fmt.Errorf("composition: failed to create empty light clusters: %w", err)
	}
	wc.SetName("ClusterEmpty")
	if err := wc.Update(nil); err != nil {
		wc.Destroy()
		return nil, fmt.Errorf("composition: failed to update empty light clusters: %w", err)
	}
	wc.Upload()
	c.emptyWorldClusters = wc
	return wc, nil
}

// sameLightSet reports whether a and b hold the same lights, ignoring order.
// Both lists are duplicate free.
func sameLightSet(a, b []light.Light) bool {
	if len(a) != len(b) {
		return false
	}
	for _, lt := range a {
		if !slices.Contains(b, lt) {
			return false
		}
	}
	return true
}

func (c *compositionImpl) PrepareClusters() error {
	if len(c.worldClusters) == 0 {
		return nil
	}
	if c.clusterPool == nil {
		c.clusterPool = worker.NewDynamicWorkerPool(c.clusterWorkers, 256, 1*time.Second)
	}

	// Binning only touches each cluster's CPU buffers, so it fans out over the
	// pool. The WaitGroup is the barrier: pool.Wait blocks until workers idle.
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for i, wc := range c.worldClusters {
		owner := c.clusterOwners[i]
		wg.Add(1)
		c.clusterPool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				if err := wc.Update(owner.ClusteredLights()); err != nil {
					mu.Lock()
					errs = append(errs, fmt.Errorf("composition: failed to update %s: %w", wc.Name(), err))
					mu.Unlock()
					return nil, err
				}
				return nil, nil
			},
		})
	}
	wg.Wait()

	for _, wc := range c.worldClusters {
		wc.Upload()
	}
	return errors.Join(errs...)
}

func (c *compositionImpl) WorldClusters() []light_cluster.WorldClusters {
	return c.worldClusters
}

func (c *compositionImpl) ClusterOwner(index int) layer.Layer {
	if index < 0 || index >= len(c.clusterOwners) {
		return nil
	}
	return c.clusterOwners[index]
}

func (c *compositionImpl) EmptyWorldClusters() light_cluster.WorldClusters {
	return c.emptyWorldClusters
}
