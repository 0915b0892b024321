package world

// WorkerGridPosition places the i-th worker spawned near centerTile on a
// 3-wide grid, two tiles below the center (§4.1, §4.2 Phase B).
func WorkerGridPosition(centerTile Tile, i int) (x, y float64) {
	baseX, baseY := centerTile.ToWorld()
	col := float64(i % 3)
	row := float64(i / 3)
	x = baseX + TileSize/2 + col*TileSize
	y = baseY + 2*TileSize + row*TileSize
	return
}

// WarriorOffsetPosition places a freshly trained warrior one tile right and
// half a tile down from the tile of the training building (§4.2 Phase B).
func WarriorOffsetPosition(buildingTile Tile) (x, y float64) {
	baseX, baseY := buildingTile.ToWorld()
	return baseX + TileSize, baseY + TileSize/2
}
