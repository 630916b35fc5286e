package world

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Voxel is a material identifier. The zero value is empty space.
type Voxel uint16

const (
	VoxelEmpty Voxel = iota
	VoxelStone
	VoxelDirt
	VoxelGrass
	VoxelSand
	VoxelWater
)

// Visibility classifies how a voxel interacts with its neighbours' faces.
type Visibility uint8

const (
	VisibilityEmpty Visibility = iota
	VisibilityTranslucent
	VisibilityOpaque
)

// Visibility returns the derived visibility of the voxel's material.
func (v Voxel) Visibility() Visibility {
	switch v {
	case VoxelEmpty:
		return VisibilityEmpty
	case VoxelWater:
		return VisibilityTranslucent
	default:
		return VisibilityOpaque
	}
}

// IsEmpty reports whether the voxel is empty space.
func (v Voxel) IsEmpty() bool {
	return v == VoxelEmpty
}

// Color returns the flat display color (RGBA) for the voxel's material.
func (v Voxel) Color() mgl32.Vec4 {
	switch v {
	case VoxelStone:
		return mgl32.Vec4{0.5, 0.5, 0.5, 1.0}
	case VoxelDirt:
		return mgl32.Vec4{0.45, 0.3, 0.15, 1.0}
	case VoxelGrass:
		return mgl32.Vec4{0.2, 0.6, 0.15, 1.0}
	case VoxelSand:
		return mgl32.Vec4{0.85, 0.8, 0.55, 1.0}
	case VoxelWater:
		return mgl32.Vec4{0.1, 0.3, 0.8, 0.6}
	case VoxelEmpty:
		return mgl32.Vec4{0, 0, 0, 0}
	default:
		return mgl32.Vec4{1.0, 0.0, 1.0, 1.0} // unknown material
	}
}

func (v Voxel) String() string {
	switch v {
	case VoxelEmpty:
		return "empty"
	case VoxelStone:
		return "stone"
	case VoxelDirt:
		return "dirt"
	case VoxelGrass:
		return "grass"
	case VoxelSand:
		return "sand"
	case VoxelWater:
		return "water"
	default:
		return "unknown"
	}
}

// ParseVoxel maps a material name back to its voxel value.
func ParseVoxel(name string) (Voxel, bool) {
	for v := VoxelEmpty; v <= VoxelWater; v++ {
		if v.String() == name {
			return v, true
		}
	}
	return VoxelEmpty, false
}
