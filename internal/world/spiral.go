package world

// spiralDirections is the direction cycle walked by the Ulam spiral:
// +x, +y, -x, -y (§4.1).
var spiralDirections = [4]Chunk{
	{X: 1, Y: 0},
	{X: 0, Y: 1},
	{X: -1, Y: 0},
	{X: 0, Y: -1},
}

// SpiralChunk is the pure function mapping a player id to its home chunk via
// the Ulam spiral: id 0 sits at the origin; each subsequent id advances one
// step along arms of length 1,1,2,2,3,3,… alternating through the four
// directions above. Deterministic and side-effect free (§8 testable
// property: "Ulam spiral determinism").
func SpiralChunk(id uint64) Chunk {
	x, y := 0, 0
	dirIdx := 0
	armLen := 1
	armsAtLen := 0
	stepsInArm := 0

	for i := uint64(0); i < id; i++ {
		d := spiralDirections[dirIdx]
		x += d.X
		y += d.Y
		stepsInArm++

		if stepsInArm == armLen {
			stepsInArm = 0
			dirIdx = (dirIdx + 1) % 4
			armsAtLen++
			if armsAtLen == 2 {
				armsAtLen = 0
				armLen++
			}
		}
	}

	return Chunk{X: x, Y: y}
}
