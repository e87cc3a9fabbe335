package light_cluster

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-compose/common"
	"github.com/Carmen-Shannon/oxy-compose/engine/light"
	"github.com/chewxy/math32"
	"github.com/cogentcore/webgpu/wgpu"
)

// ErrDestroyed is returned when a destroyed cluster is updated.
var ErrDestroyed = errors.New("light_cluster: clusters already destroyed")

// worldClusters is the implementation of the WorldClusters interface.
type worldClusters struct {
	name string

	device *wgpu.Device
	queue  *wgpu.Queue

	cells             [3]int
	maxCellLightCount int
	fixedBounds       *common.Bounds

	bounds    common.Bounds
	lights    []light.Light
	lightData []byte
	cellData  []byte
	cellCount []int

	lightsBuffer *wgpu.Buffer
	cellsBuffer  *wgpu.Buffer

	destroyed bool
}

// WorldClusters is the light-cluster resource assigned to render actions.
//
// The world-space bounds of the clustered lights are split into a 3D grid of
// cells. Each cell stores the indices of the lights whose range overlaps it, so
// the lit fragment shader only evaluates nearby lights. Render actions whose
// layers share the same clustered lights share one WorldClusters.
//
// Update only touches CPU memory and may run concurrently on distinct clusters.
// Upload writes the GPU buffers and must run on the thread owning the device.
type WorldClusters interface {
	// Name returns the debug name of the clusters.
	Name() string

	// SetName sets the debug name of the clusters.
	//
	// Parameters:
	//   - name: the name
	SetName(name string)

	// Update bins the enabled omni and spot lights into cells. Directional lights
	// are ignored and lights past light.MaxGPULights are dropped.
	//
	// Parameters:
	//   - lights: the lights to cluster
	//
	// Returns:
	//   - error: ErrDestroyed if called after Destroy
	Update(lights []light.Light) error

	// Upload writes the packed lights and cells to the GPU buffers.
	// No-op for clusters created without a device.
	Upload()

	// LightCount returns the number of lights packed by the last Update.
	LightCount() int

	// Cells returns the grid resolution.
	Cells() [3]int

	// Bounds returns the world-space bounds the grid covered in the last Update.
	Bounds() common.Bounds

	// CellLights returns the indices, into the packed light list, of the lights
	// overlapping the given cell.
	//
	// Parameters:
	//   - x, y, z: cell coordinates
	//
	// Returns:
	//   - []int: light indices, nil for out-of-range cells
	CellLights(x, y, z int) []int

	// LightsBuffer returns the GPU light storage buffer, or nil without a device.
	LightsBuffer() *wgpu.Buffer

	// CellsBuffer returns the GPU cell storage buffer, or nil without a device.
	CellsBuffer() *wgpu.Buffer

	// Destroy releases the GPU buffers. Safe to call more than once.
	Destroy()
}

// Factory constructs a WorldClusters for a device. The composition calls it
// whenever its pool has no clusters left to reuse.
type Factory func(device *wgpu.Device) (WorldClusters, error)

var _ WorldClusters = &worldClusters{}

// NewWorldClusters creates a WorldClusters. When device is non-nil the light and
// cell storage buffers are created immediately; with a nil device the clusters
// are CPU-only.
//
// Parameters:
//   - device: the GPU device, may be nil
//   - options: functional options to configure the grid
//
// Returns:
//   - WorldClusters: the new clusters
//   - error: error if buffer creation fails
func NewWorldClusters(device *wgpu.Device, options ...WorldClustersBuilderOption) (WorldClusters, error) {
	c := &worldClusters{
		device:            device,
		cells:             [3]int{DefaultCellsX, DefaultCellsY, DefaultCellsZ},
		maxCellLightCount: DefaultMaxCellLightCount,
	}
	for _, option := range options {
		option(c)
	}
	c.cellCount = make([]int, c.totalCells())
	c.cellData = make([]byte, c.totalCells()*c.cellStride())

	if device == nil {
		return c, nil
	}

	c.queue = device.GetQueue()
	var err error
	c.lightsBuffer, err = device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: c.name + " Lights Buffer",
		Size:  uint64(light.MaxGPULights * (&light.GPULight{}).Size()),
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("light_cluster: failed to create lights buffer: %w", err)
	}
	c.cellsBuffer, err = device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: c.name + " Cells Buffer",
		Size:  uint64(len(c.cellData)),
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		c.lightsBuffer.Release()
		c.lightsBuffer = nil
		return nil, fmt.Errorf("light_cluster: failed to create cells buffer: %w", err)
	}
	return c, nil
}

// DefaultFactory returns a Factory building clusters with the given options.
//
// Parameters:
//   - options: options applied to every constructed WorldClusters
//
// Returns:
//   - Factory: the factory
func DefaultFactory(options ...WorldClustersBuilderOption) Factory {
	return func(device *wgpu.Device) (WorldClusters, error) {
		return NewWorldClusters(device, options...)
	}
}

func (c *worldClusters) Name() string {
	return c.name
}

func (c *worldClusters) SetName(name string) {
	c.name = name
}

func (c *worldClusters) LightCount() int {
	return len(c.lights)
}

func (c *worldClusters) Cells() [3]int {
	return c.cells
}

func (c *worldClusters) Bounds() common.Bounds {
	return c.bounds
}

func (c *worldClusters) LightsBuffer() *wgpu.Buffer {
	return c.lightsBuffer
}

func (c *worldClusters) CellsBuffer() *wgpu.Buffer {
	return c.cellsBuffer
}

func (c *worldClusters) Update(lights []light.Light) error {
	if c.destroyed {
		return ErrDestroyed
	}

	c.lights = c.lights[:0]
	for _, l := range lights {
		if len(c.lights) >= light.MaxGPULights {
			break
		}
		if l.Enabled() && l.Type() != light.LightTypeDirectional {
			c.lights = append(c.lights, l)
		}
	}
	c.lightData = light.MarshalLights(c.lightData, c.lights)

	clear(c.cellCount)
	clear(c.cellData)
	if len(c.lights) == 0 {
		c.bounds = common.Bounds{}
		return nil
	}

	c.bounds = c.lightBounds()
	if c.bounds.Empty() {
		return nil
	}

	size := c.bounds.Size()
	var cellSize [3]float32
	for i := range 3 {
		cellSize[i] = math32.Max(size[i], 1e-4) / float32(c.cells[i])
	}

	stride := c.cellStride()
	for index, l := range c.lights {
		pos := l.Position()
		radius := l.Range()
		lo, hi := c.cellRange(pos, radius, cellSize)
		for z := lo[2]; z <= hi[2]; z++ {
			for y := lo[1]; y <= hi[1]; y++ {
				for x := lo[0]; x <= hi[0]; x++ {
					if !c.cellBounds(x, y, z, cellSize).IntersectsSphere(pos, radius) {
						continue
					}
					cell := x + y*c.cells[0] + z*c.cells[0]*c.cells[1]
					count := c.cellCount[cell]
					if count >= c.maxCellLightCount {
						continue
					}
					offset := cell*stride + 4 + count*4
					binary.LittleEndian.PutUint32(c.cellData[offset:offset+4], uint32(index))
					c.cellCount[cell] = count + 1
					binary.LittleEndian.PutUint32(c.cellData[cell*stride:cell*stride+4], uint32(count+1))
				}
			}
		}
	}
	return nil
}

func (c *worldClusters) Upload() {
	if c.queue == nil || c.destroyed {
		return
	}
	if len(c.lightData) > 0 {
		c.queue.WriteBuffer(c.lightsBuffer, 0, c.lightData)
	}
	c.queue.WriteBuffer(c.cellsBuffer, 0, c.cellData)
}

func (c *worldClusters) CellLights(x, y, z int) []int {
	if x < 0 || y < 0 || z < 0 || x >= c.cells[0] || y >= c.cells[1] || z >= c.cells[2] {
		return nil
	}
	cell := x + y*c.cells[0] + z*c.cells[0]*c.cells[1]
	count := c.cellCount[cell]
	out := make([]int, count)
	stride := c.cellStride()
	for i := range count {
		offset := cell*stride + 4 + i*4
		out[i] = int(binary.LittleEndian.Uint32(c.cellData[offset : offset+4]))
	}
	return out
}

func (c *worldClusters) Destroy() {
	if c.destroyed {
		return
	}
	c.destroyed = true
	if c.lightsBuffer != nil {
		c.lightsBuffer.Release()
		c.lightsBuffer = nil
	}
	if c.cellsBuffer != nil {
		c.cellsBuffer.Release()
		c.cellsBuffer = nil
	}
	c.lights = nil
}

// totalCells returns the number of cells in the grid.
func (c *worldClusters) totalCells() int {
	return c.cells[0] * c.cells[1] * c.cells[2]
}

// cellStride returns the byte size of one cell record: a u32 count followed by
// maxCellLightCount u32 light indices.
func (c *worldClusters) cellStride() int {
	return (1 + c.maxCellLightCount) * 4
}

// lightBounds returns the union of the light range spheres, clipped to the fixed
// bounds when configured.
func (c *worldClusters) lightBounds() common.Bounds {
	b := common.Bounds{
		Min: [3]float32{math32.MaxFloat32, math32.MaxFloat32, math32.MaxFloat32},
		Max: [3]float32{-math32.MaxFloat32, -math32.MaxFloat32, -math32.MaxFloat32},
	}
	for _, l := range c.lights {
		lb := common.NewBounds(l.Position(), [3]float32{l.Range(), l.Range(), l.Range()})
		for i := range 3 {
			b.Min[i] = math32.Min(b.Min[i], lb.Min[i])
			b.Max[i] = math32.Max(b.Max[i], lb.Max[i])
		}
	}
	if c.fixedBounds != nil {
		b = b.Clip(*c.fixedBounds)
	}
	return b
}
