package panel

// Engine dimensions in feet.
const (
	// SlabThickness is the door slab depth, 2 inches.
	SlabThickness = 0.167

	RoundoverRadius         = 0.05
	RoundoverDepth          = 0.05
	RoundoverBevelThickness = 0.025
	RoundoverBevelSize      = 0.020
	RoundoverSegments       = 6

	DeepDepth          = 0.042
	DeepBevelThickness = 0.012
	DeepBevelSize      = 0.010
	DeepSegments       = 4
	// DeepWidthRaised and DeepWidthCarriage are the recess widths per side.
	DeepWidthRaised   = 0.14
	DeepWidthCarriage = 0.20

	CenterBevelThickness = 0.010
	CenterBevelSize      = 0.080
	// Perforated centers use a small bevel so grooves can sit close together.
	GroovedCenterBevelThickness = 0.010
	GroovedCenterBevelSize      = 0.020

	// Overlap grows a layer under its neighbour to hide the seam.
	Overlap = 0.001

	// MinFeature is the smallest face width a layer may keep after beveling.
	MinFeature = 0.05

	NumGrooves      = 11
	GrooveWidth     = 0.05
	VInsertRatio    = 0.8
	VInsertDepth    = 0.08
	VInsertBevelFac = 0.45
)

// RecessDepth is how far the center layer reaches behind the front surface.
const RecessDepth = RoundoverDepth + DeepDepth

// Frame bevel on the slab edges around panel openings.
const (
	FrameBevelThickness = 0.010
	FrameBevelSize      = 0.007
)
