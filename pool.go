package inline

import "sync"

// Grid pool - one grid per frame, reused across frames to avoid reallocating cells
var gridPool = sync.Pool{
	New: func() any { return &Grid{} },
}

// GetGrid gets a blank grid from the pool, resizing if needed.
func GetGrid(width, height int) *Grid {
	g := gridPool.Get().(*Grid)
	g.Resize(width, height)
	return g
}

// PutGrid returns a grid to the pool.
func PutGrid(g *Grid) {
	if g == nil {
		return
	}
	gridPool.Put(g)
}
