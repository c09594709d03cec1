package debugui

import "github.com/plus3/vane/scene"

type SceneBrowser struct {
	cache           *browserCache
	selected        scene.EntityID
	filterText      string
	spawnName       string
	entitiesPerPage int
	currentPage     int
}

type browserCache struct {
	rows          []entityRow
	lastLen       int
	sortColumn    int
	sortAscending bool
}

type entityRow struct {
	ID     scene.EntityID
	Name   string
	Active bool
	Kinds  []string
}

type Inspector struct {
	selected scene.EntityID
}

type PhysicsStats struct {
	historyFrames int
	frameHistory  []float32
	frameIndex    int
}
