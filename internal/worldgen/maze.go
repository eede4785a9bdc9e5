package worldgen

import "math/rand/v2"

// Maze is a rectangular grid of cells indexed [row][column].
type Maze = [][]Cell

type gridPos struct {
	x int
	y int
}

// MazeFromSeed carves a maze from a fresh stream derived from seed.
func MazeFromSeed(seed uint32, height, width int) Maze {
	return MazeFromRNG(seedToRNG(seed), height, width)
}

// MazeFromRNG carves a perfect maze with a randomized depth-first
// backtracker: every cell starts fully walled, and each move between a cell
// and an unvisited neighbor opens the shared wall on both sides. The result
// has exactly one path between any two cells.
//
// The walk consumes one random draw per branching step, so identical
// streams always carve identical mazes.
func MazeFromRNG(r *rand.Rand, height, width int) Maze {
	maze := make(Maze, height)
	for h := range maze {
		maze[h] = make([]Cell, width)
		for w := range maze[h] {
			maze[h][w] = Cell{
				WallTop:    WallSolid,
				WallBottom: WallSolid,
				WallLeft:   WallSolid,
				WallRight:  WallSolid,
				Floor:      WallSolid,
				Ceiling:    WallSolid,
			}
		}
	}

	area := height * width
	if area == 0 {
		return maze
	}

	x, y := 0, 0
	visited := make(map[gridPos]bool, area)
	var history []gridPos

	for len(visited) < area {
		visited[gridPos{x, y}] = true

		var adjacent []gridPos
		if x >= 1 && !visited[gridPos{x - 1, y}] {
			adjacent = append(adjacent, gridPos{x - 1, y})
		}
		if x+1 < width && !visited[gridPos{x + 1, y}] {
			adjacent = append(adjacent, gridPos{x + 1, y})
		}
		if y >= 1 && !visited[gridPos{x, y - 1}] {
			adjacent = append(adjacent, gridPos{x, y - 1})
		}
		if y+1 < height && !visited[gridPos{x, y + 1}] {
			adjacent = append(adjacent, gridPos{x, y + 1})
		}

		// Dead end: backtrack. An empty history means every reachable cell
		// is visited (the single-cell grid hits this immediately).
		if len(adjacent) == 0 {
			if len(history) == 0 {
				break
			}
			prev := history[len(history)-1]
			history = history[:len(history)-1]
			x, y = prev.x, prev.y
			continue
		}

		next := adjacent[r.IntN(len(adjacent))]
		history = append(history, gridPos{x, y})

		switch {
		case next.x == x && next.y == y+1:
			maze[y][x].WallBottom = WallNone
			maze[next.y][next.x].WallTop = WallNone
		case next.x == x && next.y+1 == y:
			maze[y][x].WallTop = WallNone
			maze[next.y][next.x].WallBottom = WallNone
		case next.x+1 == x && next.y == y:
			maze[y][x].WallLeft = WallNone
			maze[next.y][next.x].WallRight = WallNone
		case next.x == x+1 && next.y == y:
			maze[y][x].WallRight = WallNone
			maze[next.y][next.x].WallLeft = WallNone
		}

		x, y = next.x, next.y
	}

	return maze
}
