package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsideTriangle2D(t *testing.T) {
	v0 := Vec2{0, 0}
	v1 := Vec2{1, 0}
	v2 := Vec2{0, 1}
	require.True(t, InsideTriangle2D(Vec2{0.25, 0.25}, v0, v1, v2))
	assert.False(t, InsideTriangle2D(Vec2{2, 2}, v0, v1, v2))
	assert.True(t, InsideTriangle2D(Vec2{0.5, 0}, v0, v1, v2))
}

func TestInsideTet(t *testing.T) {
	v0 := Vec3{0, 0, 0}
	v1 := Vec3{1, 0, 0}
	v2 := Vec3{0, 1, 0}
	v3 := Vec3{0, 0, 1}
	assert.True(t, InsideTet(Vec3{0.1, 0.1, 0.1}, v0, v1, v2, v3))
	assert.False(t, InsideTet(Vec3{1, 1, 1}, v0, v1, v2, v3))
}

func TestProjectToTriangle(t *testing.T) {
	a := Vec3{0, 0, 0}
	b := Vec3{1, 0, 0}
	c := Vec3{0, 1, 0}
	alpha, beta, gamma, proj := ProjectToTriangle(Vec3{0.2, 0.3, 0.5}, a, b, c)
	assert.InDelta(t, 1.0, alpha+beta+gamma, 1e-9)
	assert.InDelta(t, 0.2, proj.X, 1e-9)
	assert.InDelta(t, 0.3, proj.Y, 1e-9)
	assert.InDelta(t, 0.0, proj.Z, 1e-9)
}
