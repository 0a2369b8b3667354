package sparkit

import (
	"golang.org/x/sys/cpu"
)

// CPUFeatures tracks available CPU instruction set extensions
type CPUFeatures struct {
	HasAVX     bool
	HasAVX2    bool
	HasAVX512F bool
	HasFMA     bool
	HasSSE4    bool
	HasNEON    bool
}

// Global CPU feature detection
var cpuFeatures CPUFeatures

func init() {
	detectCPUFeatures()
}

// detectCPUFeatures populates the global cpuFeatures struct
func detectCPUFeatures() {
	cpuFeatures = CPUFeatures{
		HasSSE4:    cpu.X86.HasSSE41 || cpu.X86.HasSSE42,
		HasAVX:     cpu.X86.HasAVX,
		HasAVX2:    cpu.X86.HasAVX2,
		HasAVX512F: cpu.X86.HasAVX512F,
		HasFMA:     cpu.X86.HasFMA,
		HasNEON:    cpu.ARM64.HasASIMD,
	}
}

// Features returns the detected CPU features.
func Features() CPUFeatures {
	return cpuFeatures
}

// DefaultVectorWidth returns the heuristic vector length (in float64 lanes)
// used when a TeamPolicy leaves VectorLength unset. It is a tuning hint for
// chunk shaping, not a hard SIMD width.
func DefaultVectorWidth() int {
	switch {
	case cpuFeatures.HasAVX512F:
		return 8
	case cpuFeatures.HasAVX2:
		return 4
	case cpuFeatures.HasAVX, cpuFeatures.HasSSE4, cpuFeatures.HasNEON:
		return 2
	default:
		return 1
	}
}
