package worldgen

import "github.com/aquilax/go-perlin"

// perlinScale controls biome granularity. Decreasing it increases the
// average size of noise regions.
const perlinScale = 0.08

const (
	perlinAlpha  = 2.0
	perlinBeta   = 2.0
	perlinOctave = 3
)

// NoiseFromXYZSeed returns a smooth scalar field value for a chunk
// coordinate, averaged over the three axis-aligned planes. The yz plane is
// damped by the grid size so vertical variation stays slower than lateral
// variation.
func NoiseFromXYZSeed(seed uint32, x, y, z int64) float64 {
	p := perlin.NewPerlin(perlinAlpha, perlinBeta, perlinOctave, int64(seed))

	noiseXY := p.Noise2D(float64(x)*perlinScale, float64(y)*perlinScale)
	noiseYZ := p.Noise2D(float64(y)*perlinScale, float64(z)*perlinScale) / (ChunkSize / CellSize)
	noiseZX := p.Noise2D(float64(z)*perlinScale, float64(x)*perlinScale)

	return (noiseXY + noiseYZ + noiseZX) / 3.0
}
