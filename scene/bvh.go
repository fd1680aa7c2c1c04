package scene

import (
	"errors"
	"fmt"
	"time"

	"github.com/aezaqiel/Silmaril/log"
	"github.com/aezaqiel/Silmaril/types"
)

// Capacity of the explicit traversal stack. Trees deeper than this are
// rejected at build time.
const bvhStackSize = 64

var ErrBVHTooDeep = errors.New("bvh: tree depth exceeds traversal stack capacity")

// Flattened BVH node. Interior nodes store the index of their second child
// in offset; the first child always follows its parent. Leaves store the
// index of their first primitive in offset and nPrimitives > 0.
type linearBVHNode struct {
	bounds      AABB
	offset      int32
	nPrimitives uint16
	axis        uint8
}

// BVH is a bounding volume hierarchy aggregate stored as a linear array of
// nodes in depth-first order.
type BVH struct {
	prims []Primitive
	nodes []linearBVHNode
	depth int
}

// A work item for the builder. Bounds and centroids are cached so the
// partitioning step does not repeatedly call into the primitives.
type bvhItem struct {
	prim     Primitive
	bounds   AABB
	centroid types.Vec3
}

type bvhBuildNode struct {
	bounds   AABB
	children [2]*bvhBuildNode
	axis     int
	first    int
	count    int
}

type bvhStats struct {
	nodes    int
	leafs    int
	maxDepth int
}

type bvhBuilder struct {
	logger   log.Logger
	items    []bvhItem
	maxDepth int
	stats    bvhStats
}

// Construct an aggregate over a set of primitives. An empty list yields an
// aggregate that never reports a hit and a single primitive is returned as-is.
//
// Nodes are split at the median centroid along the axis with the largest
// centroid extent. ErrBVHTooDeep is returned if the resulting tree could
// overflow the traversal stack.
func CreateBVH(prims []Primitive) (Primitive, error) {
	return createBVH(prims, bvhStackSize)
}

func createBVH(prims []Primitive, maxDepth int) (Primitive, error) {
	switch len(prims) {
	case 0:
		return emptyAggregate{}, nil
	case 1:
		return prims[0], nil
	}

	b := &bvhBuilder{
		logger:   log.New("bvh"),
		items:    make([]bvhItem, len(prims)),
		maxDepth: maxDepth,
	}
	for i, prim := range prims {
		bounds := prim.Bound()
		b.items[i] = bvhItem{
			prim:     prim,
			bounds:   bounds,
			centroid: bounds.Centroid(),
		}
	}

	start := time.Now()
	root := b.build(0, len(b.items), 0)
	if b.stats.maxDepth > b.maxDepth {
		return nil, fmt.Errorf("%w: depth %d, capacity %d", ErrBVHTooDeep, b.stats.maxDepth, b.maxDepth)
	}

	bvh := &BVH{
		prims: make([]Primitive, len(b.items)),
		nodes: make([]linearBVHNode, 0, b.stats.nodes),
		depth: b.stats.maxDepth,
	}
	for i, item := range b.items {
		bvh.prims[i] = item.prim
	}
	bvh.flatten(root)

	b.logger.Debugf(
		"BVH build time: %d ms, primitives: %d, nodes: %d, leafs: %d, maxDepth: %d",
		time.Since(start).Nanoseconds()/1e6,
		len(prims), b.stats.nodes, b.stats.leafs, b.stats.maxDepth,
	)
	return bvh, nil
}

// Recursively partition items[start:end].
func (b *bvhBuilder) build(start, end, depth int) *bvhBuildNode {
	if depth > b.stats.maxDepth {
		b.stats.maxDepth = depth
	}
	b.stats.nodes++

	bounds := EmptyAABB()
	centroidBounds := EmptyAABB()
	for i := start; i < end; i++ {
		bounds = bounds.Merge(b.items[i].bounds)
		centroidBounds = centroidBounds.ExtendPoint(b.items[i].centroid)
	}

	node := &bvhBuildNode{bounds: bounds}
	if end-start == 1 {
		node.first = start
		node.count = 1
		b.stats.leafs++
		return node
	}

	// Bail out early; the caller reports the error
	if depth > b.maxDepth {
		node.first = start
		node.count = end - start
		b.stats.leafs++
		return node
	}

	axis := centroidBounds.LongestAxis()
	mid := (start + end) / 2
	nthElement(b.items[start:end], mid-start, axis)

	node.axis = axis
	node.children[0] = b.build(start, mid, depth+1)
	node.children[1] = b.build(mid, end, depth+1)
	return node
}

// Reorder items so that items[k] holds the element that would be there if
// the slice was sorted by centroid along axis, with smaller-or-equal
// elements before it and greater-or-equal elements after it.
func nthElement(items []bvhItem, k, axis int) {
	lo, hi := 0, len(items)-1
	for lo < hi {
		// Median of three pivot
		mid := lo + (hi-lo)/2
		if items[mid].centroid[axis] < items[lo].centroid[axis] {
			items[mid], items[lo] = items[lo], items[mid]
		}
		if items[hi].centroid[axis] < items[lo].centroid[axis] {
			items[hi], items[lo] = items[lo], items[hi]
		}
		if items[hi].centroid[axis] < items[mid].centroid[axis] {
			items[hi], items[mid] = items[mid], items[hi]
		}
		pivot := items[mid].centroid[axis]

		i, j := lo, hi
		for i <= j {
			for items[i].centroid[axis] < pivot {
				i++
			}
			for items[j].centroid[axis] > pivot {
				j--
			}
			if i <= j {
				items[i], items[j] = items[j], items[i]
				i++
				j--
			}
		}

		switch {
		case k <= j:
			hi = j
		case k >= i:
			lo = i
		default:
			return
		}
	}
}

// Append node and its subtree in pre-order. Returns the node index.
func (bvh *BVH) flatten(node *bvhBuildNode) int32 {
	offset := int32(len(bvh.nodes))
	bvh.nodes = append(bvh.nodes, linearBVHNode{bounds: node.bounds})

	if node.count > 0 {
		bvh.nodes[offset].offset = int32(node.first)
		bvh.nodes[offset].nPrimitives = uint16(node.count)
		return offset
	}

	bvh.nodes[offset].axis = uint8(node.axis)
	bvh.flatten(node.children[0])
	second := bvh.flatten(node.children[1])
	bvh.nodes[offset].offset = second
	return offset
}

// Find the closest primitive intersected by ray with t < hit.T.
func (bvh *BVH) Intersect(ray types.Ray, hit *HitInteraction) bool {
	dirIsNeg := [3]bool{ray.InvDir[0] < 0, ray.InvDir[1] < 0, ray.InvDir[2] < 0}

	var stack [bvhStackSize]int32
	toVisit := 0
	current := int32(0)
	hitAnything := false

	for {
		node := &bvh.nodes[current]
		if node.bounds.Hit(ray, Bounds{Min: MinHitDistance, Max: hit.T}) {
			if node.nPrimitives > 0 {
				for i := int32(0); i < int32(node.nPrimitives); i++ {
					if bvh.prims[node.offset+i].Intersect(ray, hit) {
						hitAnything = true
					}
				}
				if toVisit == 0 {
					break
				}
				toVisit--
				current = stack[toVisit]
				continue
			}

			// Visit the child on the side the ray enters first
			if dirIsNeg[node.axis] {
				stack[toVisit] = current + 1
				current = node.offset
			} else {
				stack[toVisit] = node.offset
				current = current + 1
			}
			toVisit++
			continue
		}

		if toVisit == 0 {
			break
		}
		toVisit--
		current = stack[toVisit]
	}

	return hitAnything
}

// Returns true if any primitive is intersected with t < tMax. Traversal stops
// at the first hit.
func (bvh *BVH) IntersectP(ray types.Ray, tMax float32) bool {
	hit := HitInteraction{T: tMax}
	clip := Bounds{Min: MinHitDistance, Max: tMax}

	var stack [bvhStackSize]int32
	toVisit := 0
	current := int32(0)

	for {
		node := &bvh.nodes[current]
		if node.bounds.Hit(ray, clip) {
			if node.nPrimitives > 0 {
				for i := int32(0); i < int32(node.nPrimitives); i++ {
					if bvh.prims[node.offset+i].Intersect(ray, &hit) {
						return true
					}
				}
			} else {
				stack[toVisit] = node.offset
				toVisit++
				current = current + 1
				continue
			}
		}

		if toVisit == 0 {
			return false
		}
		toVisit--
		current = stack[toVisit]
	}
}

// Delegate to the leaf primitive recorded in hit.
func (bvh *BVH) FillSurfaceInteraction(ray types.Ray, hit HitInteraction, si *SurfaceInteraction) {
	if hit.Primitive == nil {
		return
	}
	if agg, isBVH := hit.Primitive.(*BVH); isBVH && agg == bvh {
		return
	}
	hit.Primitive.FillSurfaceInteraction(ray, hit, si)
}

func (bvh *BVH) Bound() AABB {
	return bvh.nodes[0].bounds
}

func (bvh *BVH) Material() Material {
	return nil
}

func (bvh *BVH) Light() Light {
	return nil
}

// Number of flattened nodes.
func (bvh *BVH) NodeCount() int {
	return len(bvh.nodes)
}

// Number of primitives referenced by the leaves.
func (bvh *BVH) PrimitiveCount() int {
	return len(bvh.prims)
}

// Depth of the deepest leaf; the root is at depth 0.
func (bvh *BVH) Depth() int {
	return bvh.depth
}
